// Package models содержит доменные структуры системы маршрутизации уведомлений,
// а также вспомогательные типы для приёма данных из внешних источников (JSON-запросы).
package models

// User представляет зарегистрированного получателя уведомлений.
// NotificationTypes — множество типов уведомлений, на которые пользователь
// заявил интерес при регистрации. Элементы уникальны, порядок не важен.
type User struct {
	UID               string   // Уникальный идентификатор пользователя (UUID)
	NotificationTypes []string // Заявленные типы уведомлений
}

// DummyUser используется для приёма данных регистрации из JSON-запроса,
// прежде чем конвертировать их в User.
type DummyUser struct {
	UserID            string   `json:"user_id" validate:"required,uuid"`            // Идентификатор пользователя
	NotificationTypes []string `json:"notification_types" validate:"required,dive,required"` // Типы уведомлений
}

// DummyNotification используется для приёма запроса на отправку уведомления,
// как через HTTP, так и из очереди сообщений.
type DummyNotification struct {
	UserID           string `json:"user_id" validate:"required,uuid"`          // Идентификатор получателя
	NotificationType string `json:"notification_type" validate:"required"`     // Тип уведомления
	Message          string `json:"message" validate:"required"`               // Текст уведомления
}

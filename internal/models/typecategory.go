package models

// CategoryA и CategoryB — закрытый перечень категорий уведомлений.
// Подписка управляется на уровне категории: пользователь, подписанный на
// категорию, получает все её текущие и будущие типы уведомлений.
const (
	CategoryA = "A"
	CategoryB = "B"
)

// ValidCategories возвращает список допустимых категорий.
func ValidCategories() []string {
	return []string{CategoryA, CategoryB}
}

// IsValidCategory проверяет, входит ли категория в закрытый перечень.
func IsValidCategory(category string) bool {
	for _, c := range ValidCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// TypeCategory связывает тип уведомления с его категорией.
// Тип принадлежит ровно одной категории и после создания не изменяется.
type TypeCategory struct {
	NotificationType string // Тип уведомления, уникален
	Category         string // Категория из закрытого перечня
}

// DummyTypeCategory используется для приёма административного запроса
// на добавление нового типа уведомления.
type DummyTypeCategory struct {
	NotificationType string `json:"notification_type" validate:"required"` // Новый тип уведомления
	Category         string `json:"category" validate:"required"`          // Целевая категория
}

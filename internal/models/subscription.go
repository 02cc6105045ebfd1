package models

// CategorySubscription — факт подписки пользователя на категорию уведомлений.
// Запись означает, что пользователь получает все текущие и будущие типы
// уведомлений этой категории. Пара (UserUID, Category) уникальна.
// Записи создаются и удаляются только сверкой подписок при регистрации.
type CategorySubscription struct {
	UserUID  string // Идентификатор пользователя
	Category string // Категория уведомлений
}

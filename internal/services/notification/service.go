// Package notification содержит бизнес-логику маршрутизации уведомлений:
// сверку подписок при регистрации, проверку права на доставку и
// административное пополнение каталога типов.
package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/magabrotheeeer/notification-dispatcher/internal/metrics"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

var (
	// ErrUserNotFound пользователь не зарегистрирован.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotSubscribed пользователь не подписан на категорию типа уведомления.
	ErrNotSubscribed = errors.New("user not subscribed to category")
)

// UserRepository определяет методы для работы с пользователями и их подписками.
type UserRepository interface {
	// GetUser возвращает пользователя по UID, (nil, nil) если не найден.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// ApplyReconcile атомарно сохраняет пользователя и приводит его подписки
	// на категории к целевому набору.
	ApplyReconcile(ctx context.Context, user models.User, targetCategories []string, removeObsolete bool) (inserted, deleted int, err error)
	// ExistsCategorySubscription проверяет подписку пользователя на категорию.
	ExistsCategorySubscription(ctx context.Context, userUID, category string) (bool, error)
}

// Catalog описывает каталог тип уведомления → категория.
type Catalog interface {
	// All возвращает полный снимок каталога.
	All(ctx context.Context) ([]models.TypeCategory, error)
	// LookupCategory возвращает категорию типа уведомления.
	LookupCategory(ctx context.Context, notificationType string) (string, error)
	// AddType регистрирует новый тип уведомления в категории.
	AddType(ctx context.Context, notificationType, category string) error
}

// Service реализует бизнес-логику маршрутизации уведомлений.
type Service struct {
	repo    UserRepository
	catalog Catalog
	log     *slog.Logger
}

// New создает новый Service с переданными хранилищем, каталогом и логгером.
func New(repo UserRepository, catalog Catalog, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
		log:     log,
	}
}

// RegistrationResult — итог регистрации пользователя.
type RegistrationResult struct {
	User    *models.User // Сохранённая запись пользователя
	Created bool         // Пользователь создан этим вызовом
	Updated bool         // Существующий пользователь изменил множество типов
}

// changeKind — результат чистого сравнения старого и нового множества типов.
// Дальнейшая работа с хранилищем целиком управляется этим значением.
type changeKind int

const (
	changeNone changeKind = iota
	changeCreated
	changeUpdated
)

func classifyChange(existing *models.User, desiredTypes []string) changeKind {
	if existing == nil {
		return changeCreated
	}
	if models.EqualTypeSets(existing.NotificationTypes, desiredTypes) {
		return changeNone
	}
	return changeUpdated
}

// RegisterUser сверяет подписки пользователя с заявленным множеством типов.
// Повторный вызов с теми же данными идемпотентен: хранилище подписок
// не трогается, возвращается существующая запись без флагов изменений.
func (s *Service) RegisterUser(ctx context.Context, userUID string, desiredTypes []string) (*RegistrationResult, error) {
	const op = "services.notification.RegisterUser"
	log := s.log.With(slog.String("op", op), slog.String("user_uid", userUID))

	desiredTypes = models.NormalizeTypes(desiredTypes)
	existing, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}

	change := classifyChange(existing, desiredTypes)
	if change == changeNone {
		log.Info("registration unchanged, skipping reconcile")
		return &RegistrationResult{User: existing, Created: false, Updated: false}, nil
	}

	user := models.User{UID: userUID, NotificationTypes: desiredTypes}

	categories, err := s.resolveCategories(ctx, desiredTypes)
	if err != nil {
		return nil, err
	}

	// Удаление устаревших подписок имеет смысл только при изменении
	// существующего пользователя: у нового удалять нечего.
	inserted, deleted, err := s.repo.ApplyReconcile(ctx, user, categories, change == changeUpdated)
	if err != nil {
		return nil, err
	}

	result := &RegistrationResult{
		User:    &user,
		Created: change == changeCreated,
		Updated: change == changeUpdated,
	}
	log.Info("user registration completed",
		slog.Bool("created", result.Created),
		slog.Bool("updated", result.Updated),
		slog.Any("categories", categories),
		slog.Int("memberships_inserted", inserted),
		slog.Int("memberships_deleted", deleted))
	return result, nil
}

// resolveCategories разрешает множество типов в различные категории одним
// проходом по снимку каталога. Типы без записи в каталоге молча
// игнорируются: они не дают категории и не считаются ошибкой.
func (s *Service) resolveCategories(ctx context.Context, types []string) ([]string, error) {
	entries, err := s.catalog.All(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, entry := range entries {
		if !models.ContainsType(types, entry.NotificationType) {
			continue
		}
		if _, ok := seen[entry.Category]; ok {
			continue
		}
		seen[entry.Category] = struct{}{}
		categories = append(categories, entry.Category)
	}
	return categories, nil
}

// SendNotification решает, подлежит ли уведомление доставке, и фиксирует
// факт доставки. Пользователь имеет право на доставку, если заявленное
// множество типов буквально содержит этот тип либо есть подписка на
// категорию типа. Подписка на категорию покрывает и типы, добавленные
// в неё после регистрации пользователя.
func (s *Service) SendNotification(ctx context.Context, dto models.DummyNotification) error {
	const op = "services.notification.SendNotification"
	log := s.log.With(
		slog.String("op", op),
		slog.String("user_uid", dto.UserID),
		slog.String("notification_type", dto.NotificationType),
	)

	user, err := s.repo.GetUser(ctx, dto.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		log.Warn("user not found")
		metrics.NotificationsRejected.WithLabelValues("user_not_found").Inc()
		return ErrUserNotFound
	}

	category, err := s.catalog.LookupCategory(ctx, dto.NotificationType)
	if err != nil {
		log.Warn("notification type not resolved")
		metrics.NotificationsRejected.WithLabelValues("type_not_found").Inc()
		return err
	}

	// Точное совпадение типа — быстрый путь без обращения к хранилищу подписок.
	eligible := models.ContainsType(user.NotificationTypes, dto.NotificationType)
	if !eligible {
		eligible, err = s.repo.ExistsCategorySubscription(ctx, user.UID, category)
		if err != nil {
			return err
		}
	}
	if !eligible {
		log.Warn("user not subscribed to category", slog.String("category", category))
		metrics.NotificationsRejected.WithLabelValues("not_subscribed").Inc()
		return ErrNotSubscribed
	}

	// Запись о доставке: реальный транспорт вне зоны ответственности сервиса.
	log.Info("sending notification",
		slog.String("category", category),
		slog.String("message", dto.Message))
	metrics.NotificationsDelivered.Inc()
	return nil
}

// AddNotificationType регистрирует новый тип уведомления в каталоге.
func (s *Service) AddNotificationType(ctx context.Context, notificationType, category string) error {
	return s.catalog.AddType(ctx, notificationType, category)
}

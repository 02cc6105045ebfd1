// Package catalog реализует кешируемое представление каталога
// тип уведомления → категория поверх хранилища. Чтения идут через кеш
// (read-through), запись нового типа синхронно инвалидирует весь кеш.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/notification-dispatcher/internal/lib/sl"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

// snapshotKey — единственный ключ кеша: полный снимок каталога.
// Точечные выборки обслуживаются из снимка, поэтому инвалидация
// одного ключа эквивалентна сбросу всего кеша.
const snapshotKey = "typecategory:all"

var (
	// ErrTypeNotFound тип уведомления отсутствует в каталоге.
	ErrTypeNotFound = errors.New("notification type not found")
	// ErrTypeAlreadyExists тип уведомления уже зарегистрирован.
	ErrTypeAlreadyExists = errors.New("notification type already exists")
	// ErrInvalidCategory категория не входит в закрытый перечень.
	ErrInvalidCategory = errors.New("invalid category")
)

// Store определяет методы хранилища каталога.
type Store interface {
	// ListTypeCategories возвращает полный снимок каталога.
	ListTypeCategories(ctx context.Context) ([]models.TypeCategory, error)
	// ExistsTypeCategory проверяет наличие типа в каталоге.
	ExistsTypeCategory(ctx context.Context, notificationType string) (bool, error)
	// CreateTypeCategory сохраняет новую связку тип → категория.
	CreateTypeCategory(ctx context.Context, tc models.TypeCategory) error
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(ctx context.Context, key string) error
}

// Catalog владеет хранилищем каталога и кешем его снимка.
type Catalog struct {
	store Store
	cache Cache
	log   *slog.Logger
	ttl   time.Duration
}

// New создает новый Catalog с переданными хранилищем, кешем и логгером.
func New(store Store, cache Cache, log *slog.Logger, ttl time.Duration) *Catalog {
	return &Catalog{
		store: store,
		cache: cache,
		log:   log,
		ttl:   ttl,
	}
}

// All возвращает полный снимок каталога, кеш — в приоритете.
// Используется сверкой подписок для разрешения множества типов за один проход.
func (c *Catalog) All(ctx context.Context) ([]models.TypeCategory, error) {
	var cached []models.TypeCategory
	found, err := c.cache.Get(ctx, snapshotKey, &cached)
	if err != nil {
		c.log.Warn("failed to read catalog snapshot from cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	entries, err := c.store.ListTypeCategories(ctx)
	if err != nil {
		return nil, err
	}
	if err = c.cache.Set(ctx, snapshotKey, entries, c.ttl); err != nil {
		c.log.Warn("failed to cache catalog snapshot", sl.Err(err))
	}
	return entries, nil
}

// LookupCategory возвращает категорию типа уведомления.
// Возвращает ErrTypeNotFound, если тип не зарегистрирован.
func (c *Catalog) LookupCategory(ctx context.Context, notificationType string) (string, error) {
	entries, err := c.All(ctx)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		if entry.NotificationType == notificationType {
			return entry.Category, nil
		}
	}
	return "", ErrTypeNotFound
}

// AddType регистрирует новый тип уведомления в категории.
// Повторное добавление типа — ошибка, а не идемпотичная операция:
// так ловятся опечатки оператора. После записи весь кеш каталога
// инвалидируется до возврата из вызова.
func (c *Catalog) AddType(ctx context.Context, notificationType, category string) error {
	if !models.IsValidCategory(category) {
		return fmt.Errorf("%w: %s, must be one of: %s",
			ErrInvalidCategory, category, strings.Join(models.ValidCategories(), ", "))
	}

	exists, err := c.store.ExistsTypeCategory(ctx, notificationType)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrTypeAlreadyExists, notificationType)
	}

	if err = c.store.CreateTypeCategory(ctx, models.TypeCategory{
		NotificationType: notificationType,
		Category:         category,
	}); err != nil {
		return err
	}

	// Сбой инвалидации не глотаем: устаревший снимок каталога
	// молча искажал бы проверку права на доставку.
	if err = c.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("catalog: invalidate cache after write: %w", err)
	}
	c.log.Info("added notification type",
		slog.String("notification_type", notificationType),
		slog.String("category", category))
	return nil
}

// InvalidateAll сбрасывает кеш каталога. Используется только путём записи.
func (c *Catalog) InvalidateAll(ctx context.Context) error {
	return c.cache.Invalidate(ctx, snapshotKey)
}

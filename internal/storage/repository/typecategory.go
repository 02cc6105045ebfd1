package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

// ListTypeCategories возвращает полный снимок каталога тип → категория.
func (s *Storage) ListTypeCategories(ctx context.Context) ([]models.TypeCategory, error) {
	const op = "storage.ListTypeCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT notification_type, category
			  FROM notification_type_category
			  ORDER BY notification_type`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.TypeCategory
	for rows.Next() {
		var tc models.TypeCategory
		if err = rows.Scan(&tc.NotificationType, &tc.Category); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, tc)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTypeCategory возвращает запись каталога по типу уведомления.
// Если тип не найден, возвращает (nil, nil).
func (s *Storage) GetTypeCategory(ctx context.Context, notificationType string) (*models.TypeCategory, error) {
	const op = "storage.GetTypeCategory"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT notification_type, category
			  FROM notification_type_category
			  WHERE notification_type = $1`
	var tc models.TypeCategory
	if err := s.DB.QueryRowContext(ctx, query, notificationType).Scan(&tc.NotificationType, &tc.Category); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &tc, nil
}

// ExistsTypeCategory проверяет наличие типа уведомления в каталоге.
func (s *Storage) ExistsTypeCategory(ctx context.Context, notificationType string) (bool, error) {
	const op = "storage.ExistsTypeCategory"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM notification_type_category WHERE notification_type = $1
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, notificationType).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateTypeCategory сохраняет новую связку тип → категория.
func (s *Storage) CreateTypeCategory(ctx context.Context, tc models.TypeCategory) error {
	const op = "storage.CreateTypeCategory"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notification_type_category (notification_type, category)
			  VALUES ($1, $2)`
	if _, err := s.DB.ExecContext(ctx, query, tc.NotificationType, tc.Category); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

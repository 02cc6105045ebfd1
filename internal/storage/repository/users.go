package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

// GetUser возвращает пользователя по его UID.
// Если пользователь не найден, возвращает (nil, nil).
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, notification_types
			  FROM users
			  WHERE uid = $1`
	row := s.DB.QueryRowContext(ctx, query, userUID)

	var uid, rawTypes string
	if err := row.Scan(&uid, &rawTypes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.User{
		UID:               uid,
		NotificationTypes: models.SplitTypes(rawTypes),
	}, nil
}

// SaveUser вставляет пользователя или перезаписывает его множество типов уведомлений.
func (s *Storage) SaveUser(ctx context.Context, user models.User) error {
	const op = "storage.SaveUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (uid, notification_types)
			  VALUES ($1, $2)
			  ON CONFLICT (uid) DO UPDATE SET notification_types = EXCLUDED.notification_types`
	if _, err := s.DB.ExecContext(ctx, query, user.UID, models.JoinTypes(user.NotificationTypes)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

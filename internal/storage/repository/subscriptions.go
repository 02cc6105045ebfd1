package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

// ListUserCategories возвращает категории, на которые подписан пользователь.
func (s *Storage) ListUserCategories(ctx context.Context, userUID string) ([]string, error) {
	const op = "storage.ListUserCategories"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT category
			  FROM user_subscribed_category
			  WHERE user_uid = $1
			  ORDER BY category`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var category string
		if err = rows.Scan(&category); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExistsCategorySubscription проверяет подписку пользователя на категорию.
func (s *Storage) ExistsCategorySubscription(ctx context.Context, userUID, category string) (bool, error) {
	const op = "storage.ExistsCategorySubscription"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM user_subscribed_category
				  WHERE user_uid = $1 AND category = $2
			  )`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, category).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// ApplyReconcile атомарно приводит запись пользователя и его подписки
// на категории к целевому состоянию. Всё выполняется в одной транзакции:
// запись пользователя и текущие подписки читаются под блокировкой строки
// пользователя, поэтому конкурирующие сверки одного пользователя
// выполняются последовательно. removeObsolete включает удаление подписок,
// выпавших из целевого набора: при первой регистрации удалять нечего.
func (s *Storage) ApplyReconcile(ctx context.Context, user models.User, targetCategories []string, removeObsolete bool) (inserted, deleted int, err error) {
	const op = "storage.ApplyReconcile"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upsert := `INSERT INTO users (uid, notification_types)
			   VALUES ($1, $2)
			   ON CONFLICT (uid) DO UPDATE SET notification_types = EXCLUDED.notification_types`
	if _, err = tx.ExecContext(ctx, upsert, user.UID, models.JoinTypes(user.NotificationTypes)); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	current := `SELECT category FROM user_subscribed_category WHERE user_uid = $1`
	rows, err := tx.QueryContext(ctx, current, user.UID)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	var currentCategories []string
	for rows.Next() {
		var category string
		if err = rows.Scan(&category); err != nil {
			_ = rows.Close()
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		currentCategories = append(currentCategories, category)
	}
	if err = rows.Err(); err != nil {
		_ = rows.Close()
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	_ = rows.Close()

	toInsert, toDelete := models.DiffCategories(currentCategories, targetCategories)

	if len(toInsert) > 0 {
		insert := `INSERT INTO user_subscribed_category (user_uid, category)
				   SELECT $1, unnest($2::text[])
				   ON CONFLICT DO NOTHING`
		if _, err = tx.ExecContext(ctx, insert, user.UID, toInsert); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		inserted = len(toInsert)
	}

	if removeObsolete && len(toDelete) > 0 {
		remove := `DELETE FROM user_subscribed_category
				   WHERE user_uid = $1 AND category = ANY($2::text[])`
		if _, err = tx.ExecContext(ctx, remove, user.UID, toDelete); err != nil {
			return 0, 0, fmt.Errorf("%s: %w", op, err)
		}
		deleted = len(toDelete)
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return inserted, deleted, nil
}

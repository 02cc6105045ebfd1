package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

func TestStorage_GetUser(t *testing.T) {
	knownUID := uuid.New().String()

	tests := []struct {
		name  string
		uid   string
		want  *models.User
		setup func(f *TestDataFactory)
	}{
		{
			name: "successful get existing user",
			uid:  knownUID,
			want: &models.User{
				UID:               knownUID,
				NotificationTypes: []string{"type1", "type2"},
			},
			setup: func(f *TestDataFactory) {
				f.CreateUser(t, knownUID, []string{"type1", "type2"})
			},
		},
		{
			name:  "get non-existing user returns nil",
			uid:   uuid.New().String(),
			want:  nil,
			setup: func(_ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			tt.setup(NewTestDataFactory(storage))

			got, err := storage.GetUser(context.Background(), tt.uid)
			require.NoError(t, err)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.UID, got.UID)
			assert.Equal(t, tt.want.NotificationTypes, got.NotificationTypes)
		})
	}
}

func TestStorage_SaveUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	verification := NewTestVerification(storage)
	userUID := uuid.New().String()

	err := storage.SaveUser(context.Background(), models.User{
		UID:               userUID,
		NotificationTypes: []string{"type1", "type4"},
	})
	require.NoError(t, err)
	verification.VerifyUserExists(t, userUID)

	// Повторное сохранение перезаписывает множество типов.
	err = storage.SaveUser(context.Background(), models.User{
		UID:               userUID,
		NotificationTypes: []string{"type5"},
	})
	require.NoError(t, err)

	got, err := storage.GetUser(context.Background(), userUID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"type5"}, got.NotificationTypes)
}

func TestStorage_ListTypeCategories(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.ListTypeCategories(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []models.TypeCategory{
		{NotificationType: "type1", Category: "A"},
		{NotificationType: "type2", Category: "A"},
		{NotificationType: "type3", Category: "A"},
		{NotificationType: "type4", Category: "B"},
		{NotificationType: "type5", Category: "B"},
	}, got)
}

func TestStorage_GetTypeCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	got, err := storage.GetTypeCategory(context.Background(), "type4")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "B", got.Category)

	// Неизвестный тип не является ошибкой запроса.
	got, err = storage.GetTypeCategory(context.Background(), "type99")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStorage_CreateTypeCategory(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	err := storage.CreateTypeCategory(context.Background(), models.TypeCategory{
		NotificationType: "type6",
		Category:         "B",
	})
	require.NoError(t, err)

	exists, err := storage.ExistsTypeCategory(context.Background(), "type6")
	require.NoError(t, err)
	assert.True(t, exists)

	// Повторная вставка нарушает первичный ключ.
	err = storage.CreateTypeCategory(context.Background(), models.TypeCategory{
		NotificationType: "type6",
		Category:         "A",
	})
	require.Error(t, err)
}

func TestStorage_ExistsCategorySubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := uuid.New().String()
	factory.CreateUser(t, userUID, []string{"type1"})
	factory.CreateSubscription(t, userUID, "A")

	exists, err := storage.ExistsCategorySubscription(context.Background(), userUID, "A")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = storage.ExistsCategorySubscription(context.Background(), userUID, "B")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStorage_ApplyReconcile(t *testing.T) {
	type args struct {
		user             models.User
		targetCategories []string
		removeObsolete   bool
	}

	tests := []struct {
		name           string
		args           args
		wantInserted   int
		wantDeleted    int
		wantCategories []string
		setup          func(f *TestDataFactory, userUID string)
	}{
		{
			name: "first registration creates user and memberships",
			args: args{
				user:             models.User{NotificationTypes: []string{"type1", "type4"}},
				targetCategories: []string{"A", "B"},
				removeObsolete:   false,
			},
			wantInserted:   2,
			wantDeleted:    0,
			wantCategories: []string{"A", "B"},
			setup:          func(_ *TestDataFactory, _ string) {},
		},
		{
			name: "update replaces obsolete membership",
			args: args{
				user:             models.User{NotificationTypes: []string{"type4"}},
				targetCategories: []string{"B"},
				removeObsolete:   true,
			},
			wantInserted:   1,
			wantDeleted:    1,
			wantCategories: []string{"B"},
			setup: func(f *TestDataFactory, userUID string) {
				f.CreateUser(t, userUID, []string{"type1"})
				f.CreateSubscription(t, userUID, "A")
			},
		},
		{
			name: "matching state is a no-op",
			args: args{
				user:             models.User{NotificationTypes: []string{"type1", "type2"}},
				targetCategories: []string{"A"},
				removeObsolete:   true,
			},
			wantInserted:   0,
			wantDeleted:    0,
			wantCategories: []string{"A"},
			setup: func(f *TestDataFactory, userUID string) {
				f.CreateUser(t, userUID, []string{"type1"})
				f.CreateSubscription(t, userUID, "A")
			},
		},
		{
			name: "obsolete membership survives without removal flag",
			args: args{
				user:             models.User{NotificationTypes: []string{"type4"}},
				targetCategories: []string{"B"},
				removeObsolete:   false,
			},
			wantInserted:   1,
			wantDeleted:    0,
			wantCategories: []string{"A", "B"},
			setup: func(f *TestDataFactory, userUID string) {
				f.CreateUser(t, userUID, []string{"type1"})
				f.CreateSubscription(t, userUID, "A")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			userUID := uuid.New().String()
			tt.setup(NewTestDataFactory(storage), userUID)

			user := tt.args.user
			user.UID = userUID

			inserted, deleted, err := storage.ApplyReconcile(
				context.Background(), user, tt.args.targetCategories, tt.args.removeObsolete)
			require.NoError(t, err)
			assert.Equal(t, tt.wantInserted, inserted)
			assert.Equal(t, tt.wantDeleted, deleted)

			verification := NewTestVerification(storage)
			verification.VerifyUserExists(t, userUID)
			verification.VerifyUserCategories(t, userUID, tt.wantCategories)

			got, err := storage.GetUser(context.Background(), userUID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, user.NotificationTypes, got.NotificationTypes)
		})
	}
}

func TestStorage_CheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	require.NoError(t, CheckDatabaseReady(storage))
}

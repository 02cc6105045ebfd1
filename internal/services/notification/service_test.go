package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/notification-dispatcher/internal/catalog"
	"github.com/magabrotheeeer/notification-dispatcher/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ApplyReconcile(ctx context.Context, user models.User, targetCategories []string, removeObsolete bool) (int, int, error) {
	args := m.Called(ctx, user, targetCategories, removeObsolete)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *RepoMock) ExistsCategorySubscription(ctx context.Context, userUID, category string) (bool, error) {
	args := m.Called(ctx, userUID, category)
	return args.Bool(0), args.Error(1)
}

type CatalogMock struct{ mock.Mock }

func (m *CatalogMock) All(ctx context.Context) ([]models.TypeCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TypeCategory), args.Error(1)
}

func (m *CatalogMock) LookupCategory(ctx context.Context, notificationType string) (string, error) {
	args := m.Called(ctx, notificationType)
	return args.String(0), args.Error(1)
}

func (m *CatalogMock) AddType(ctx context.Context, notificationType, category string) error {
	return m.Called(ctx, notificationType, category).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func seedCatalog() []models.TypeCategory {
	return []models.TypeCategory{
		{NotificationType: "type1", Category: "A"},
		{NotificationType: "type2", Category: "A"},
		{NotificationType: "type3", Category: "A"},
		{NotificationType: "type4", Category: "B"},
		{NotificationType: "type5", Category: "B"},
	}
}

const testUserUID = "550e8400-e29b-41d4-a716-446655440000"

func TestService_RegisterUser_Create(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	repo.On("GetUser", mock.Anything, testUserUID).Return(nil, nil).Once()
	cat.On("All", mock.Anything).Return(seedCatalog(), nil).Once()
	repo.On("ApplyReconcile", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.UID == testUserUID && models.EqualTypeSets(u.NotificationTypes, []string{"type1", "type2"})
	}), []string{"A"}, false).Return(1, 0, nil).Once()

	svc := New(repo, cat, newNoopLogger())
	result, err := svc.RegisterUser(context.Background(), testUserUID, []string{"type1", "type2"})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Updated)
	repo.AssertExpectations(t)
	cat.AssertExpectations(t)
}

func TestService_RegisterUser_Idempotent(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	existing := &models.User{UID: testUserUID, NotificationTypes: []string{"type1", "type2"}}
	repo.On("GetUser", mock.Anything, testUserUID).Return(existing, nil).Once()

	svc := New(repo, cat, newNoopLogger())
	// Порядок и дубликаты не влияют на равенство множеств.
	result, err := svc.RegisterUser(context.Background(), testUserUID, []string{"type2", "type1", "type1"})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.False(t, result.Updated)
	assert.Equal(t, existing, result.User)
	repo.AssertNotCalled(t, "ApplyReconcile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	cat.AssertNotCalled(t, "All", mock.Anything)
}

func TestService_RegisterUser_Update(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	existing := &models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}
	repo.On("GetUser", mock.Anything, testUserUID).Return(existing, nil).Once()
	cat.On("All", mock.Anything).Return(seedCatalog(), nil).Once()
	// Смена множества типов включает удаление устаревших подписок.
	repo.On("ApplyReconcile", mock.Anything, mock.AnythingOfType("models.User"),
		[]string{"B"}, true).Return(1, 1, nil).Once()

	svc := New(repo, cat, newNoopLogger())
	result, err := svc.RegisterUser(context.Background(), testUserUID, []string{"type4"})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.True(t, result.Updated)
	repo.AssertExpectations(t)
}

func TestService_RegisterUser_UnknownTypesIgnored(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	repo.On("GetUser", mock.Anything, testUserUID).Return(nil, nil).Once()
	cat.On("All", mock.Anything).Return(seedCatalog(), nil).Once()
	// Типы без записи в каталоге не дают категорий и не считаются ошибкой.
	repo.On("ApplyReconcile", mock.Anything, mock.AnythingOfType("models.User"),
		[]string{"A"}, false).Return(1, 0, nil).Once()

	svc := New(repo, cat, newNoopLogger())
	result, err := svc.RegisterUser(context.Background(), testUserUID, []string{"type1", "ghost-type"})

	require.NoError(t, err)
	assert.True(t, result.Created)
	repo.AssertExpectations(t)
}

func TestService_RegisterUser_StoreError(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	repo.On("GetUser", mock.Anything, testUserUID).Return(nil, nil).Once()
	cat.On("All", mock.Anything).Return(seedCatalog(), nil).Once()
	repo.On("ApplyReconcile", mock.Anything, mock.AnythingOfType("models.User"),
		mock.Anything, false).Return(0, 0, errors.New("connection refused")).Once()

	svc := New(repo, cat, newNoopLogger())
	result, err := svc.RegisterUser(context.Background(), testUserUID, []string{"type1"})

	require.Error(t, err)
	assert.Nil(t, result)
}

func TestService_SendNotification(t *testing.T) {
	dto := func(notificationType string) models.DummyNotification {
		return models.DummyNotification{
			UserID:           testUserUID,
			NotificationType: notificationType,
			Message:          "hello",
		}
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CatalogMock)
		dto        models.DummyNotification
		wantErr    error
	}{
		{
			name: "exact type match skips membership lookup",
			setupMocks: func(r *RepoMock, c *CatalogMock) {
				r.On("GetUser", mock.Anything, testUserUID).
					Return(&models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}, nil).Once()
				c.On("LookupCategory", mock.Anything, "type1").Return("A", nil).Once()
			},
			dto:     dto("type1"),
			wantErr: nil,
		},
		{
			name: "category closure allows type added later",
			setupMocks: func(r *RepoMock, c *CatalogMock) {
				r.On("GetUser", mock.Anything, testUserUID).
					Return(&models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}, nil).Once()
				c.On("LookupCategory", mock.Anything, "type6").Return("A", nil).Once()
				r.On("ExistsCategorySubscription", mock.Anything, testUserUID, "A").Return(true, nil).Once()
			},
			dto:     dto("type6"),
			wantErr: nil,
		},
		{
			name: "different category rejected",
			setupMocks: func(r *RepoMock, c *CatalogMock) {
				r.On("GetUser", mock.Anything, testUserUID).
					Return(&models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}, nil).Once()
				c.On("LookupCategory", mock.Anything, "type4").Return("B", nil).Once()
				r.On("ExistsCategorySubscription", mock.Anything, testUserUID, "B").Return(false, nil).Once()
			},
			dto:     dto("type4"),
			wantErr: ErrNotSubscribed,
		},
		{
			name: "user not found",
			setupMocks: func(r *RepoMock, _ *CatalogMock) {
				r.On("GetUser", mock.Anything, testUserUID).Return(nil, nil).Once()
			},
			dto:     dto("type1"),
			wantErr: ErrUserNotFound,
		},
		{
			name: "unknown notification type",
			setupMocks: func(r *RepoMock, c *CatalogMock) {
				r.On("GetUser", mock.Anything, testUserUID).
					Return(&models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}, nil).Once()
				c.On("LookupCategory", mock.Anything, "unknown").Return("", catalog.ErrTypeNotFound).Once()
			},
			dto:     dto("unknown"),
			wantErr: catalog.ErrTypeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cat := new(CatalogMock)
			tt.setupMocks(repo, cat)

			svc := New(repo, cat, newNoopLogger())
			err := svc.SendNotification(context.Background(), tt.dto)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			cat.AssertExpectations(t)
		})
	}
}

func TestService_SendNotification_ExactMatchBypassesMembership(t *testing.T) {
	repo := new(RepoMock)
	cat := new(CatalogMock)

	repo.On("GetUser", mock.Anything, testUserUID).
		Return(&models.User{UID: testUserUID, NotificationTypes: []string{"type1"}}, nil).Once()
	cat.On("LookupCategory", mock.Anything, "type1").Return("A", nil).Once()

	svc := New(repo, cat, newNoopLogger())
	err := svc.SendNotification(context.Background(), models.DummyNotification{
		UserID:           testUserUID,
		NotificationType: "type1",
		Message:          "hello",
	})

	require.NoError(t, err)
	repo.AssertNotCalled(t, "ExistsCategorySubscription", mock.Anything, mock.Anything, mock.Anything)
}

package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/services"
	"subgate/pkg/push"
	"subgate/pkg/utils"
)

func TestNotificationService_SendPending(t *testing.T) {
	ctx := context.Background()
	notificationID := uuid.New()

	notif := &db_models.Notification{
		BaseModel: db_models.BaseModel{ID: notificationID},
		Title:     "Hello",
		Message:   "World",
		Type:      db_models.NotifInfo,
		Status:    db_models.NotifStatusDraft,
	}

	t.Run("delivers pending rows and marks the broadcast sent", func(t *testing.T) {
		user := db_models.User{
			BaseModel:  db_models.BaseModel{ID: uuid.New()},
			PushTokens: []string{"token-1"},
		}
		rows := []db_models.UserNotification{{
			BaseModel:      db_models.BaseModel{ID: uuid.New()},
			UserID:         user.ID,
			NotificationID: notificationID,
			Status:         db_models.DeliveryPending,
			User:           user,
			Notification:   *notif,
		}}

		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		sender := &fakePushSender{}
		svc := services.NewNotificationService(notifRepo, userRepo, sender, zap.NewNop())

		notifRepo.On("FindNotificationByID", ctx, notificationID).Return(notif, nil)
		notifRepo.On("FindPending", ctx, notificationID).Return(rows, nil)
		notifRepo.On("UpdateUserNotification", ctx, mock.MatchedBy(func(r *db_models.UserNotification) bool {
			return r.Status == db_models.DeliverySent
		})).Return(nil)
		notifRepo.On("UpdateNotification", ctx, mock.MatchedBy(func(n *db_models.Notification) bool {
			return n.Status == db_models.NotifStatusSent
		})).Return(nil)

		sent, failed, err := svc.SendPending(ctx, notificationID)

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, 0, failed)
		assert.Equal(t, []string{"token-1"}, sender.sent)
		notifRepo.AssertExpectations(t)
	})

	t.Run("invalid tokens are pruned from the user", func(t *testing.T) {
		user := db_models.User{
			BaseModel:  db_models.BaseModel{ID: uuid.New()},
			PushTokens: []string{"dead-token", "live-token"},
		}
		rows := []db_models.UserNotification{{
			BaseModel:      db_models.BaseModel{ID: uuid.New()},
			UserID:         user.ID,
			NotificationID: notificationID,
			Status:         db_models.DeliveryPending,
			User:           user,
			Notification:   *notif,
		}}

		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		sender := &fakePushSender{results: map[string]push.Result{
			"dead-token": {InvalidToken: true},
		}}
		svc := services.NewNotificationService(notifRepo, userRepo, sender, zap.NewNop())

		notifRepo.On("FindNotificationByID", ctx, notificationID).Return(notif, nil)
		notifRepo.On("FindPending", ctx, notificationID).Return(rows, nil)
		notifRepo.On("UpdateUserNotification", ctx, mock.Anything).Return(nil)
		notifRepo.On("UpdateNotification", ctx, mock.Anything).Return(nil)
		userRepo.On("Update", ctx, mock.MatchedBy(func(u *db_models.User) bool {
			return len(u.PushTokens) == 1 && u.PushTokens[0] == "live-token"
		})).Return(nil)

		sent, failed, err := svc.SendPending(ctx, notificationID)

		assert.NoError(t, err)
		assert.Equal(t, 1, sent)
		assert.Equal(t, 0, failed)
		userRepo.AssertExpectations(t)
	})

	t.Run("user without tokens counts as failed", func(t *testing.T) {
		user := db_models.User{BaseModel: db_models.BaseModel{ID: uuid.New()}}
		rows := []db_models.UserNotification{{
			BaseModel:      db_models.BaseModel{ID: uuid.New()},
			UserID:         user.ID,
			NotificationID: notificationID,
			Status:         db_models.DeliveryPending,
			User:           user,
			Notification:   *notif,
		}}

		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := services.NewNotificationService(notifRepo, userRepo, &fakePushSender{}, zap.NewNop())

		notifRepo.On("FindNotificationByID", ctx, notificationID).Return(notif, nil)
		notifRepo.On("FindPending", ctx, notificationID).Return(rows, nil)
		notifRepo.On("UpdateUserNotification", ctx, mock.MatchedBy(func(r *db_models.UserNotification) bool {
			return r.Status == db_models.DeliveryFailed
		})).Return(nil)
		notifRepo.On("UpdateNotification", ctx, mock.Anything).Return(nil)

		sent, failed, err := svc.SendPending(ctx, notificationID)

		assert.NoError(t, err)
		assert.Equal(t, 0, sent)
		assert.Equal(t, 1, failed)
	})
}

func TestNotificationService_CreateBroadcast(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out one pending row per user", func(t *testing.T) {
		ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := services.NewNotificationService(notifRepo, userRepo, &fakePushSender{}, zap.NewNop())

		notifRepo.On("InsertNotification", ctx, mock.MatchedBy(func(n *db_models.Notification) bool {
			return n.Status == db_models.NotifStatusDraft && n.Type == db_models.NotifPromotion
		})).Return(nil)
		userRepo.On("FindAllIDs", ctx).Return(ids, nil)
		notifRepo.On("InsertUserNotifications", ctx, mock.MatchedBy(func(rows []db_models.UserNotification) bool {
			return len(rows) == 3 && rows[0].Status == db_models.DeliveryPending
		})).Return(nil)

		_, err := svc.CreateBroadcast(ctx, request_models.CreateNotificationRequest{
			Title:   "Sale",
			Message: "Half price this week",
			Type:    "PROMOTION",
		})

		assert.NoError(t, err)
		notifRepo.AssertExpectations(t)
	})
}

func TestNotificationService_ListForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("pages through with limit and offset", func(t *testing.T) {
		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := services.NewNotificationService(notifRepo, userRepo, &fakePushSender{}, zap.NewNop())

		notifRepo.On("FindByUser", ctx, userID, 20, 20).Return([]db_models.UserNotification{}, nil)

		rows, err := svc.ListForUser(ctx, userID, 2, 20)

		assert.NoError(t, err)
		assert.Empty(t, rows)
		notifRepo.AssertExpectations(t)
	})

	t.Run("rejects bad paging parameters", func(t *testing.T) {
		notifRepo := new(MockNotificationRepository)
		userRepo := new(MockUserRepository)
		svc := services.NewNotificationService(notifRepo, userRepo, &fakePushSender{}, zap.NewNop())

		_, err := svc.ListForUser(ctx, userID, 0, 20)
		assert.ErrorIs(t, err, utils.ErrInvalidPage)

		_, err = svc.ListForUser(ctx, userID, 1, 0)
		assert.ErrorIs(t, err, utils.ErrInvalidPageSize)

		_, err = svc.ListForUser(ctx, userID, 1, 500)
		assert.ErrorIs(t, err, utils.ErrInvalidPageSize)

		notifRepo.AssertNotCalled(t, "FindByUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

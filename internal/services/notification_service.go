package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/models/response_models"
	"subgate/internal/repositories"
	"subgate/pkg/push"
	"subgate/pkg/utils"
)

type NotificationService interface {
	// NotifyUser records an in-app notification for one user and pushes it in
	// the same call. Best effort on the push; the in-app row always lands.
	NotifyUser(ctx context.Context, userID uuid.UUID, typ db_models.NotificationType, title, message string) error

	// CreateBroadcast stores a draft and fans out a pending delivery row per
	// user. Delivery happens in SendPending.
	CreateBroadcast(ctx context.Context, req request_models.CreateNotificationRequest) (uuid.UUID, error)
	// SendPending pushes every still-pending delivery of the broadcast,
	// pruning tokens the provider rejects, and marks the broadcast sent.
	SendPending(ctx context.Context, notificationID uuid.UUID) (sent, failed int, err error)

	ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]response_models.UserNotificationResponse, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

type notificationService struct {
	notifRepo repositories.NotificationRepository
	userRepo  repositories.UserRepository
	sender    push.Sender
	logger    *zap.Logger
}

func NewNotificationService(
	notifRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	sender push.Sender,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		sender:    sender,
		logger:    logger,
	}
}

// pushToUser tries every registered token and drops the ones the provider no
// longer recognizes. Returns true if at least one delivery succeeded.
func (n *notificationService) pushToUser(ctx context.Context, user *db_models.User, title, message string) bool {
	if len(user.PushTokens) == 0 {
		return false
	}

	delivered := false
	kept := user.PushTokens[:0]
	pruned := false
	for _, token := range user.PushTokens {
		res := n.sender.Send(ctx, token, title, message)
		if res.Success {
			delivered = true
		}
		if res.InvalidToken {
			pruned = true
			continue
		}
		kept = append(kept, token)
	}

	if pruned {
		user.PushTokens = kept
		if err := n.userRepo.Update(ctx, user); err != nil {
			n.logger.Warn("token prune failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err))
		}
	}
	return delivered
}

func (n *notificationService) NotifyUser(ctx context.Context, userID uuid.UUID, typ db_models.NotificationType, title, message string) error {
	notif := &db_models.Notification{
		Title:   title,
		Message: message,
		Type:    typ,
		Status:  db_models.NotifStatusSent,
	}
	if err := n.notifRepo.InsertNotification(ctx, notif); err != nil {
		return utils.ErrDatabaseError
	}

	row := db_models.UserNotification{
		UserID:         userID,
		NotificationID: notif.ID,
		Status:         db_models.DeliveryPending,
	}
	if err := n.notifRepo.InsertUserNotifications(ctx, []db_models.UserNotification{row}); err != nil {
		return utils.ErrDatabaseError
	}

	rows, err := n.notifRepo.FindPending(ctx, notif.ID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	for i := range rows {
		n.deliver(ctx, &rows[i])
	}
	return nil
}

func (n *notificationService) deliver(ctx context.Context, row *db_models.UserNotification) bool {
	ok := n.pushToUser(ctx, &row.User, row.Notification.Title, row.Notification.Message)
	if ok {
		row.Status = db_models.DeliverySent
	} else {
		row.Status = db_models.DeliveryFailed
	}
	if err := n.notifRepo.UpdateUserNotification(ctx, row); err != nil {
		n.logger.Warn("delivery status update failed",
			zap.String("user_notification_id", row.ID.String()),
			zap.Error(err))
	}
	return ok
}

func (n *notificationService) CreateBroadcast(ctx context.Context, req request_models.CreateNotificationRequest) (uuid.UUID, error) {
	typ := db_models.NotifInfo
	if req.Type != "" {
		typ = db_models.NotificationType(req.Type)
	}

	notif := &db_models.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    typ,
		Status:  db_models.NotifStatusDraft,
	}
	if err := n.notifRepo.InsertNotification(ctx, notif); err != nil {
		return uuid.Nil, utils.ErrDatabaseError
	}

	ids, err := n.userRepo.FindAllIDs(ctx)
	if err != nil {
		return uuid.Nil, utils.ErrDatabaseError
	}
	rows := make([]db_models.UserNotification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, db_models.UserNotification{
			UserID:         id,
			NotificationID: notif.ID,
			Status:         db_models.DeliveryPending,
		})
	}
	if len(rows) > 0 {
		if err := n.notifRepo.InsertUserNotifications(ctx, rows); err != nil {
			return uuid.Nil, utils.ErrDatabaseError
		}
	}
	return notif.ID, nil
}

func (n *notificationService) SendPending(ctx context.Context, notificationID uuid.UUID) (int, int, error) {
	notif, err := n.notifRepo.FindNotificationByID(ctx, notificationID)
	if err != nil {
		return 0, 0, utils.ErrDatabaseError
	}
	if notif == nil {
		return 0, 0, utils.ErrNotificationNotFound
	}

	rows, err := n.notifRepo.FindPending(ctx, notificationID)
	if err != nil {
		return 0, 0, utils.ErrDatabaseError
	}

	sent, failed := 0, 0
	for i := range rows {
		if n.deliver(ctx, &rows[i]) {
			sent++
		} else {
			failed++
		}
	}

	notif.Status = db_models.NotifStatusSent
	if err := n.notifRepo.UpdateNotification(ctx, notif); err != nil {
		return sent, failed, utils.ErrDatabaseError
	}

	n.logger.Info("broadcast delivered",
		zap.String("notification_id", notificationID.String()),
		zap.Int("sent", sent),
		zap.Int("failed", failed))
	return sent, failed, nil
}

const maxPageSize = 100

func (n *notificationService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]response_models.UserNotificationResponse, error) {
	if page < 1 {
		return nil, utils.ErrInvalidPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return nil, utils.ErrInvalidPageSize
	}

	rows, err := n.notifRepo.FindByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.UserNotificationResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, response_models.UserNotificationResponse{
			ID:        row.ID,
			Title:     row.Notification.Title,
			Message:   row.Notification.Message,
			Type:      string(row.Notification.Type),
			Status:    string(row.Status),
			ReadAt:    row.ReadAt,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (n *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	err := n.notifRepo.MarkRead(ctx, id, userID, utils.NowUnixSeconds())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.ErrNotificationNotFound
		}
		return utils.ErrDatabaseError
	}
	return nil
}

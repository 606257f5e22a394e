package services_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"subgate/internal/models/db_models"
	"subgate/internal/models/request_models"
	"subgate/internal/models/response_models"
	"subgate/internal/repositories"
	"subgate/pkg/push"
)

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Insert(ctx context.Context, user *db_models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *db_models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) userOrNil(args mock.Arguments) (*db_models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.User, error) {
	return m.userOrNil(m.Called(ctx, id))
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*db_models.User, error) {
	return m.userOrNil(m.Called(ctx, email))
}

func (m *MockUserRepository) FindByWhatsApp(ctx context.Context, whatsapp string) (*db_models.User, error) {
	return m.userOrNil(m.Called(ctx, whatsapp))
}

func (m *MockUserRepository) FindByMobile(ctx context.Context, mobile string) (*db_models.User, error) {
	return m.userOrNil(m.Called(ctx, mobile))
}

func (m *MockUserRepository) FindByEmailOrWhatsApp(ctx context.Context, email, whatsapp string) (*db_models.User, error) {
	return m.userOrNil(m.Called(ctx, email, whatsapp))
}

func (m *MockUserRepository) FindAllIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) CountSubscribed(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindWithDevice(ctx context.Context) ([]db_models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.User), args.Error(1)
}

func (m *MockUserRepository) FindChangeRequested(ctx context.Context) ([]db_models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.User), args.Error(1)
}

// MockSubscriptionRepository is a mock implementation of
// repositories.SubscriptionRepository.
type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) CreateActive(ctx context.Context, sub *db_models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *db_models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*db_models.Subscription, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) Expire(ctx context.Context, sub *db_models.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *MockSubscriptionRepository) FindExpired(ctx context.Context, now int64) ([]db_models.Subscription, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindExpiring(ctx context.Context, from, to int64, unremindedOnly bool) ([]db_models.Subscription, error) {
	args := m.Called(ctx, from, to, unremindedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubscriptionRepository) PlanWiseCounts(ctx context.Context) ([]repositories.PlanWiseCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repositories.PlanWiseCount), args.Error(1)
}

// MockPlanRepository is a mock implementation of repositories.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Insert(ctx context.Context, plan *db_models.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *db_models.Plan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) planOrNil(args mock.Arguments) (*db_models.Plan, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Plan, error) {
	return m.planOrNil(m.Called(ctx, id))
}

func (m *MockPlanRepository) FindByCode(ctx context.Context, code string) (*db_models.Plan, error) {
	return m.planOrNil(m.Called(ctx, code))
}

func (m *MockPlanRepository) FindAll(ctx context.Context) ([]db_models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.Plan), args.Error(1)
}

func (m *MockPlanRepository) FindActive(ctx context.Context, now int64) ([]db_models.Plan, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.Plan), args.Error(1)
}

// MockNotificationRepository is a mock implementation of
// repositories.NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) InsertNotification(ctx context.Context, n *db_models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateNotification(ctx context.Context, n *db_models.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindNotificationByID(ctx context.Context, id uuid.UUID) (*db_models.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*db_models.Notification), args.Error(1)
}

func (m *MockNotificationRepository) InsertUserNotifications(ctx context.Context, rows []db_models.UserNotification) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindPending(ctx context.Context, notificationID uuid.UUID) ([]db_models.UserNotification, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.UserNotification), args.Error(1)
}

func (m *MockNotificationRepository) UpdateUserNotification(ctx context.Context, row *db_models.UserNotification) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]db_models.UserNotification, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]db_models.UserNotification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID, readAt int64) error {
	args := m.Called(ctx, id, userID, readAt)
	return args.Error(0)
}

// MockPaymentService is a mock implementation of services.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (string, error) {
	args := m.Called(ctx, amountPaise, currency, receipt, notes)
	return args.String(0), args.Error(1)
}

func (m *MockPaymentService) VerifySignature(orderID, paymentID, signature string) error {
	args := m.Called(orderID, paymentID, signature)
	return args.Error(0)
}

// MockNotificationService is a mock implementation of
// services.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) NotifyUser(ctx context.Context, userID uuid.UUID, typ db_models.NotificationType, title, message string) error {
	args := m.Called(ctx, userID, typ, title, message)
	return args.Error(0)
}

func (m *MockNotificationService) CreateBroadcast(ctx context.Context, req request_models.CreateNotificationRequest) (uuid.UUID, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockNotificationService) SendPending(ctx context.Context, notificationID uuid.UUID) (int, int, error) {
	args := m.Called(ctx, notificationID)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockNotificationService) ListForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]response_models.UserNotificationResponse, error) {
	args := m.Called(ctx, userID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]response_models.UserNotificationResponse), args.Error(1)
}

func (m *MockNotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTemplateSender is a mock implementation of whatsapp.TemplateSender.
type MockTemplateSender struct {
	mock.Mock
}

func (m *MockTemplateSender) SendTemplate(ctx context.Context, phone, templateName string, bodyParams []string, buttonURL string) error {
	args := m.Called(ctx, phone, templateName, bodyParams, buttonURL)
	return args.Error(0)
}

// MockTracker is a mock implementation of presence.Tracker.
type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) Add(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTracker) Remove(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockTracker) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// fakePushSender returns scripted results per token.
type fakePushSender struct {
	results map[string]push.Result
	sent    []string
}

func (f *fakePushSender) Send(ctx context.Context, token, title, body string) push.Result {
	f.sent = append(f.sent, token)
	if res, ok := f.results[token]; ok {
		return res
	}
	return push.Result{Success: true}
}

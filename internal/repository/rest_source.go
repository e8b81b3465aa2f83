package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"society-console/internal/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// RESTConfig 上游 REST 服务配置
type RESTConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// RESTSource 通过上游 REST 接口读取集合
type RESTSource struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

var _ Source = (*RESTSource)(nil)

// NewRESTSource 创建 REST 数据源
func NewRESTSource(cfg RESTConfig, logger *zap.Logger) *RESTSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	return &RESTSource{
		httpClient: client,
		logger:     logger,
	}
}

func (s *RESTSource) ListWings(ctx context.Context) ([]models.Wing, error) {
	return fetchList[models.Wing](ctx, s, "/wings", nil)
}

func (s *RESTSource) ListOwners(ctx context.Context) ([]models.Owner, error) {
	return fetchList[models.Owner](ctx, s, "/owners", nil)
}

func (s *RESTSource) ListRentals(ctx context.Context) ([]models.Rental, error) {
	return fetchList[models.Rental](ctx, s, "/rentals", nil)
}

func (s *RESTSource) ListMaintenance(ctx context.Context) ([]models.MaintenanceDetail, error) {
	return fetchList[models.MaintenanceDetail](ctx, s, "/maintenance", nil)
}

func (s *RESTSource) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return fetchList[models.Expense](ctx, s, "/expenses", nil)
}

func (s *RESTSource) ListActivityPayments(ctx context.Context) ([]models.ActivityPayment, error) {
	return fetchList[models.ActivityPayment](ctx, s, "/activity-payments", nil)
}

func (s *RESTSource) ListActivityExpenses(ctx context.Context) ([]models.ActivityExpense, error) {
	return fetchList[models.ActivityExpense](ctx, s, "/activity-expenses", nil)
}

func (s *RESTSource) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	return fetchList[models.Meeting](ctx, s, "/meetings", nil)
}

func (s *RESTSource) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	return fetchList[models.Notification](ctx, s, "/notifications", map[string]string{"user_id": userID})
}

// MarkNotificationRead POST /notifications/{id}/read
func (s *RESTSource) MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error {
	path := "/notifications/" + strconv.FormatInt(notificationID, 10) + "/read"
	return s.post(ctx, path, map[string]any{"user_id": userID})
}

// MarkNotificationsRead POST /notifications/read-all
func (s *RESTSource) MarkNotificationsRead(ctx context.Context, userID string, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	return s.post(ctx, "/notifications/read-all", map[string]any{
		"user_id":          userID,
		"notification_ids": notificationIDs,
	})
}

func (s *RESTSource) post(ctx context.Context, path string, body any) error {
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("POST %s: upstream returned %d", path, resp.StatusCode())
	}
	return nil
}

func fetchList[T any](ctx context.Context, s *RESTSource, path string, query map[string]string) ([]T, error) {
	start := time.Now()
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("GET %s: upstream returned %d", path, resp.StatusCode())
	}

	list, err := DecodeList[T](resp.Body())
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	s.logger.Debug("Fetched upstream collection",
		zap.String("path", path),
		zap.Int("count", len(list)),
		zap.Duration("duration", time.Since(start)),
	)
	return list, nil
}

package repository

import (
	"context"
	"fmt"

	"society-console/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresSource 直接读取社区数据库（与 REST 上游共享同一套表结构）
type PostgresSource struct {
	db     *sqlx.DB
	logger *zap.Logger
}

var _ Source = (*PostgresSource)(nil)

func NewPostgresSource(db *sqlx.DB, logger *zap.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: logger}
}

const (
	listWingsSQL = `SELECT wing_id, COALESCE(wing_name, '') AS wing_name FROM wings ORDER BY wing_id`

	listOwnersSQL = `SELECT owner_id, flat_id, wing_id,
		COALESCE(owner_name, '') AS owner_name, COALESCE(flat_no, '') AS flat_no, is_deleted
		FROM owners ORDER BY owner_id`

	listRentalsSQL = `SELECT rental_id, owner_id, COALESCE(tenant_name, '') AS tenant_name,
		COALESCE(start_date::text, '') AS start_date, COALESCE(end_date::text, '') AS end_date, is_deleted
		FROM rentals ORDER BY rental_id`

	listMaintenanceSQL = `SELECT maintain_id, owner_id, COALESCE(period, '') AS period,
		total_amount, paid_amount, is_deleted
		FROM maintenance_details ORDER BY maintain_id`

	listExpensesSQL = `SELECT exp_id, wing_id, COALESCE(description, '') AS description, amount, is_deleted
		FROM expenses ORDER BY exp_id`

	listActivityPaymentsSQL = `SELECT payment_id, activity_id, flat_id, amount, is_deleted
		FROM activity_payments ORDER BY payment_id`

	listActivityExpensesSQL = `SELECT activity_exp_id, activity_id, wing_id,
		COALESCE(description, '') AS description, amount, is_deleted
		FROM activity_expenses ORDER BY activity_exp_id`

	listMeetingsSQL = `SELECT meeting_id, wing_id, COALESCE(title, '') AS title,
		COALESCE(meeting_date::text, '') AS meeting_date, is_deleted
		FROM meetings ORDER BY meeting_id`

	listNotificationsSQL = `SELECT n.notification_id, n.type, COALESCE(n.title, '') AS title,
		COALESCE(n.message, '') AS message, COALESCE(n.notification_date::text, '') AS notification_date,
		COALESCE(n.target_audience, '') AS target_audience, n.wing_id, n.attachment_urls, n.is_deleted,
		(r.user_id IS NOT NULL) AS is_read_by_user
		FROM notifications n
		LEFT JOIN notification_reads r ON r.notification_id = n.notification_id AND r.user_id = $1
		WHERE n.is_deleted = FALSE
		ORDER BY n.notification_date DESC, n.notification_id DESC`

	markReadSQL = `INSERT INTO notification_reads (notification_id, user_id, read_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (notification_id, user_id) DO NOTHING`

	markManyReadSQL = `INSERT INTO notification_reads (notification_id, user_id, read_at)
		SELECT id, $1, NOW() FROM UNNEST($2::bigint[]) AS id
		ON CONFLICT (notification_id, user_id) DO NOTHING`
)

func (s *PostgresSource) ListWings(ctx context.Context) ([]models.Wing, error) {
	return selectAll[models.Wing](ctx, s, "wings", listWingsSQL)
}

func (s *PostgresSource) ListOwners(ctx context.Context) ([]models.Owner, error) {
	return selectAll[models.Owner](ctx, s, "owners", listOwnersSQL)
}

func (s *PostgresSource) ListRentals(ctx context.Context) ([]models.Rental, error) {
	return selectAll[models.Rental](ctx, s, "rentals", listRentalsSQL)
}

func (s *PostgresSource) ListMaintenance(ctx context.Context) ([]models.MaintenanceDetail, error) {
	return selectAll[models.MaintenanceDetail](ctx, s, "maintenance_details", listMaintenanceSQL)
}

func (s *PostgresSource) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	return selectAll[models.Expense](ctx, s, "expenses", listExpensesSQL)
}

func (s *PostgresSource) ListActivityPayments(ctx context.Context) ([]models.ActivityPayment, error) {
	return selectAll[models.ActivityPayment](ctx, s, "activity_payments", listActivityPaymentsSQL)
}

func (s *PostgresSource) ListActivityExpenses(ctx context.Context) ([]models.ActivityExpense, error) {
	return selectAll[models.ActivityExpense](ctx, s, "activity_expenses", listActivityExpensesSQL)
}

func (s *PostgresSource) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	return selectAll[models.Meeting](ctx, s, "meetings", listMeetingsSQL)
}

// notificationRow attachment_urls 为 text[]
type notificationRow struct {
	models.Notification
	Attachments pq.StringArray `db:"attachment_urls"`
}

func (s *PostgresSource) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	var rows []notificationRow
	if err := s.db.SelectContext(ctx, &rows, listNotificationsSQL, userID); err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	out := make([]models.Notification, 0, len(rows))
	for _, r := range rows {
		n := r.Notification
		n.AttachmentURLs = []string(r.Attachments)
		out = append(out, n)
	}
	return out, nil
}

func (s *PostgresSource) MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error {
	if _, err := s.db.ExecContext(ctx, markReadSQL, notificationID, userID); err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", notificationID, err)
	}
	return nil
}

func (s *PostgresSource) MarkNotificationsRead(ctx context.Context, userID string, notificationIDs []int64) error {
	if len(notificationIDs) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, markManyReadSQL, userID, pq.Array(notificationIDs)); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func selectAll[T any](ctx context.Context, s *PostgresSource, table, query string) ([]T, error) {
	out := []T{}
	if err := s.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	s.logger.Debug("Loaded table", zap.String("table", table), zap.Int("count", len(out)))
	return out, nil
}

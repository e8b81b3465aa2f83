package service_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"society-console/internal/models"
	"society-console/internal/scope"
	"society-console/internal/security"

	"github.com/stretchr/testify/mock"
)

func id(v int64) models.ID { return models.NewID(v) }

func amt(v any) models.Amount { return models.NewAmount(v) }

func societyFixture() scope.Collections {
	return scope.Collections{
		Wings: []models.Wing{{WingID: id(2), WingName: "B Wing"}, {WingID: id(3), WingName: "C Wing"}},
		Owners: []models.Owner{
			{OwnerID: id(7), FlatID: id(101), WingID: id(2)},
			{OwnerID: id(8), FlatID: id(201), WingID: id(3)},
		},
		Maintenance: []models.MaintenanceDetail{
			{MaintainID: id(1), OwnerID: id(7), TotalAmount: amt(1000), PaidAmount: amt(600)},
			{MaintainID: id(2), OwnerID: id(8), TotalAmount: amt(500), PaidAmount: amt(500)},
		},
		ActivityExpenses: []models.ActivityExpense{
			{ActivityExpID: id(1), Amount: amt(200)},
		},
	}
}

var (
	ownerSeven     = security.Context{UserID: "u-7", Role: security.RoleOwner, WingID: id(2), OwnerID: id(7)}
	committeeWing3 = security.Context{UserID: "u-c3", Role: security.RoleCommittee, WingID: id(3)}
	societyAdmin   = security.Context{UserID: "u-admin", Role: security.RoleAdmin}
)

// fakeCollections 内存数据源；failWith / wingsErr 控制失败，gate 非空时 ListOwners 会阻塞
type fakeCollections struct {
	mu       sync.Mutex
	data     scope.Collections
	failWith error
	wingsErr error
	gate     chan struct{}

	ownerCalls atomic.Int32
}

func newFakeCollections(data scope.Collections) *fakeCollections {
	return &fakeCollections{data: data}
}

func (f *fakeCollections) setFailure(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWith = err
}

func (f *fakeCollections) snapshot() (scope.Collections, error, error, chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data, f.failWith, f.wingsErr, f.gate
}

func (f *fakeCollections) ListWings(ctx context.Context) ([]models.Wing, error) {
	d, _, wingsErr, _ := f.snapshot()
	if wingsErr != nil {
		return nil, wingsErr
	}
	return d.Wings, nil
}

func (f *fakeCollections) ListOwners(ctx context.Context) ([]models.Owner, error) {
	f.ownerCalls.Add(1)
	d, err, _, gate := f.snapshot()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return d.Owners, nil
}

func (f *fakeCollections) ListRentals(ctx context.Context) ([]models.Rental, error) {
	d, err, _, _ := f.snapshot()
	return d.Rentals, err
}

func (f *fakeCollections) ListMaintenance(ctx context.Context) ([]models.MaintenanceDetail, error) {
	d, err, _, _ := f.snapshot()
	return d.Maintenance, err
}

func (f *fakeCollections) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	d, _, _, _ := f.snapshot()
	return d.Expenses, nil
}

func (f *fakeCollections) ListActivityPayments(ctx context.Context) ([]models.ActivityPayment, error) {
	d, _, _, _ := f.snapshot()
	return d.ActivityPayments, nil
}

func (f *fakeCollections) ListActivityExpenses(ctx context.Context) ([]models.ActivityExpense, error) {
	d, _, _, _ := f.snapshot()
	return d.ActivityExpenses, nil
}

func (f *fakeCollections) ListMeetings(ctx context.Context) ([]models.Meeting, error) {
	d, _, _, _ := f.snapshot()
	return d.Meetings, nil
}

// mockNotificationSource testify mock
type mockNotificationSource struct {
	mock.Mock
}

func (m *mockNotificationSource) ListNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	args := m.Called(ctx, userID)
	list, _ := args.Get(0).([]models.Notification)
	return list, args.Error(1)
}

func (m *mockNotificationSource) MarkNotificationRead(ctx context.Context, userID string, notificationID int64) error {
	args := m.Called(ctx, userID, notificationID)
	return args.Error(0)
}

func (m *mockNotificationSource) MarkNotificationsRead(ctx context.Context, userID string, notificationIDs []int64) error {
	args := m.Called(ctx, userID, notificationIDs)
	return args.Error(0)
}

var errUpstream = errors.New("upstream unavailable")

const waitFor = 2 * time.Second

func waitReady(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(waitFor):
		return false
	}
}

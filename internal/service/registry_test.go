package service_test

import (
	"context"
	"testing"
	"time"

	"society-console/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRegistry(t *testing.T) (*service.Registry, *fakeCollections) {
	collections := newFakeCollections(societyFixture())
	notifications := &mockNotificationSource{}
	notifications.On("ListNotifications", mock.Anything, mock.Anything).Return(inbox(), nil)

	r := service.NewRegistry(service.RegistryConfig{
		DashboardInterval:    time.Hour,
		NotificationInterval: time.Hour,
		IdleTTL:              time.Hour,
		JanitorInterval:      time.Hour,
	}, collections, notifications, nil, zap.NewNop())
	r.Start(context.Background())
	t.Cleanup(r.Stop)
	return r, collections
}

func TestRegistry_AcquireReusesSession(t *testing.T) {
	r, _ := newTestRegistry(t)

	first := r.Acquire(ownerSeven)
	second := r.Acquire(ownerSeven)
	assert.Same(t, first, second)
	assert.Equal(t, 1, r.Len())

	r.Acquire(committeeWing3)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_AcquireWithChangedContextUpdatesViewer(t *testing.T) {
	r, _ := newTestRegistry(t)

	s := r.Acquire(committeeWing3)
	require.True(t, waitReady(s.Dashboard.Ready()))

	moved := committeeWing3
	moved.WingID = id(2)
	r.Acquire(moved)

	assert.Equal(t, moved, s.Dashboard.Viewer())
	assert.Equal(t, moved, s.Notifications.Viewer())
	require.Eventually(t, func() bool {
		st := s.Dashboard.State()
		return st.Available && st.Snapshot.Stats.TotalMaintenanceAmount.String() == "1000.00"
	}, waitFor, time.Millisecond)
}

func TestRegistry_RefreshTriggersCycles(t *testing.T) {
	r, collections := newTestRegistry(t)

	s := r.Acquire(societyAdmin)
	require.True(t, waitReady(s.Dashboard.Ready()))
	before := collections.ownerCalls.Load()

	assert.Equal(t, 1, r.Refresh("", service.TargetDashboard))
	require.Eventually(t, func() bool { return collections.ownerCalls.Load() == before+1 }, waitFor, time.Millisecond)

	assert.Equal(t, 0, r.Refresh("nobody", service.TargetAll))
}

func TestRegistry_ReleaseAndStop(t *testing.T) {
	r, _ := newTestRegistry(t)

	r.Acquire(ownerSeven)
	assert.True(t, r.Release("u-7"))
	assert.False(t, r.Release("u-7"))
	assert.Equal(t, 0, r.Len())

	r.Acquire(committeeWing3)
	r.Stop()
	assert.Equal(t, 0, r.Len())
	// second Stop (from Cleanup) is a no-op
	r.Stop()
}

func TestRegistry_SweepUnmountsIdleSessions(t *testing.T) {
	collections := newFakeCollections(societyFixture())
	notifications := &mockNotificationSource{}
	notifications.On("ListNotifications", mock.Anything, mock.Anything).Return(inbox(), nil)

	r := service.NewRegistry(service.RegistryConfig{
		DashboardInterval:    time.Hour,
		NotificationInterval: time.Hour,
		IdleTTL:              20 * time.Millisecond,
		JanitorInterval:      5 * time.Millisecond,
	}, collections, notifications, nil, zap.NewNop())
	r.Start(context.Background())
	defer r.Stop()

	r.Acquire(ownerSeven)
	require.Equal(t, 1, r.Len())
	require.Eventually(t, func() bool { return r.Len() == 0 }, waitFor, 5*time.Millisecond)
}

func TestParseTarget(t *testing.T) {
	assert.Equal(t, service.TargetDashboard, service.ParseTarget("dashboard"))
	assert.Equal(t, service.TargetNotifications, service.ParseTarget("notifications"))
	assert.Equal(t, service.TargetAll, service.ParseTarget(""))
	assert.Equal(t, service.TargetAll, service.ParseTarget("everything"))
}

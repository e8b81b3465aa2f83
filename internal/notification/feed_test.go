package notification_test

import (
	"testing"

	"society-console/internal/models"
	"society-console/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []models.Notification {
	return []models.Notification{
		{NotificationID: models.NewID(1), Type: models.NotificationAnnouncement},
		{NotificationID: models.NewID(2), Type: models.NotificationCutoff},
		{NotificationID: models.NewID(3), Type: "meeting_scheduled", IsReadByUser: true},
		{NotificationID: models.NewID(4), Type: "poll_created"},
	}
}

func TestFeed_Replace(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	assert.Equal(t, 3, f.UnreadCount())
	items := f.Items()
	require.Len(t, items, 4)
	assert.Equal(t, notification.CategoryCutoff, items[1].Category)
	assert.Equal(t, notification.IconBell, items[3].Icon)
	assert.True(t, items[2].IsRead)
}

func TestFeed_SnapshotCountMatchesItems(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())
	_, ok := f.MarkOne(1)
	require.True(t, ok)

	items, unread := f.Snapshot()
	require.Len(t, items, 4)
	assert.Equal(t, 2, unread)
	var counted int
	for _, it := range items {
		if !it.IsRead {
			counted++
		}
	}
	assert.Equal(t, unread, counted)

	// returned slice is a copy
	items[1].IsRead = true
	again, _ := f.Snapshot()
	assert.False(t, again[1].IsRead)
}

func TestFeed_MarkOne(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	tr, ok := f.MarkOne(1)
	require.True(t, ok)
	assert.Equal(t, []int64{1}, tr.IDs())
	assert.Equal(t, 2, f.UnreadCount())

	// already read: no transition, no decrement
	_, ok = f.MarkOne(1)
	assert.False(t, ok)
	_, ok = f.MarkOne(3)
	assert.False(t, ok)
	// unknown id
	_, ok = f.MarkOne(99)
	assert.False(t, ok)
	assert.Equal(t, 2, f.UnreadCount())
}

func TestFeed_MarkAll(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	tr := f.MarkAll()
	assert.ElementsMatch(t, []int64{1, 2, 4}, tr.IDs())
	assert.Equal(t, 0, f.UnreadCount())

	again := f.MarkAll()
	assert.True(t, again.Empty())
	assert.Equal(t, 0, f.UnreadCount())
}

func TestFeed_RevertRestoresUnread(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	tr, ok := f.MarkOne(2)
	require.True(t, ok)
	f.Revert(tr)

	state, found := f.StateOf(2)
	require.True(t, found)
	assert.Equal(t, notification.Unread, state)
	assert.Equal(t, 3, f.UnreadCount())

	all := f.MarkAll()
	f.Revert(all)
	assert.Equal(t, 3, f.UnreadCount())
}

func TestFeed_PendingReadSurvivesLaggingRefresh(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	tr, ok := f.MarkOne(1)
	require.True(t, ok)

	// server has not caught up yet
	f.Replace(sample())
	state, _ := f.StateOf(1)
	assert.Equal(t, notification.Read, state)
	assert.Equal(t, 2, f.UnreadCount())

	// once committed the server value wins again
	f.Commit(tr)
	f.Replace(sample())
	state, _ = f.StateOf(1)
	assert.Equal(t, notification.Unread, state)
	assert.Equal(t, 3, f.UnreadCount())
}

func TestFeed_StaleRevertIgnored(t *testing.T) {
	f := notification.NewFeed()
	f.Replace(sample())

	first, _ := f.MarkOne(1)
	f.Revert(first)
	second, ok := f.MarkOne(1)
	require.True(t, ok)

	// the first transition was already settled; reverting it again must not touch the second
	f.Revert(first)
	state, _ := f.StateOf(1)
	assert.Equal(t, notification.Read, state)
	f.Commit(second)
}

func TestFeed_SkipsUnresolvedAndDuplicateIDs(t *testing.T) {
	f := notification.NewFeed()
	f.Replace([]models.Notification{
		{NotificationID: models.NoID},
		{NotificationID: models.NewID(5)},
		{NotificationID: models.NewID(5)},
	})
	assert.Len(t, f.Items(), 1)
	assert.Equal(t, 1, f.UnreadCount())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		in       models.NotificationType
		category notification.Category
		icon     notification.Icon
	}{
		{models.NotificationAnnouncement, notification.CategoryAnnouncement, notification.IconMegaphone},
		{models.NotificationCutoff, notification.CategoryCutoff, notification.IconAlert},
		{models.NotificationMaintenanceReminder, notification.CategoryMaintenance, notification.IconWallet},
		{models.NotificationActivityScheduled, notification.CategoryActivity, notification.IconCalendar},
		{" Meeting_Scheduled ", notification.CategoryMeeting, notification.IconUsers},
		{"", notification.CategoryGeneral, notification.IconBell},
		{"birthday", notification.CategoryGeneral, notification.IconBell},
	}
	for _, tt := range tests {
		c, i := notification.Classify(tt.in)
		assert.Equal(t, tt.category, c, string(tt.in))
		assert.Equal(t, tt.icon, i, string(tt.in))
	}
}

package notification

import (
	"strings"

	"society-console/internal/models"
)

// Category 通知分类（前端用于分组和配色）
type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryCutoff       Category = "cutoff"
	CategoryMaintenance  Category = "maintenance"
	CategoryActivity     Category = "activity"
	CategoryMeeting      Category = "meeting"
	CategoryGeneral      Category = "general"
)

// Icon 图标名
type Icon string

const (
	IconMegaphone Icon = "megaphone"
	IconAlert     Icon = "alert-triangle"
	IconWallet    Icon = "wallet"
	IconCalendar  Icon = "calendar"
	IconUsers     Icon = "users"
	IconBell      Icon = "bell"
)

type presentation struct {
	category Category
	icon     Icon
}

// 封闭枚举，未知类型走默认
var typePresentation = map[models.NotificationType]presentation{
	models.NotificationAnnouncement:        {CategoryAnnouncement, IconMegaphone},
	models.NotificationCutoff:              {CategoryCutoff, IconAlert},
	models.NotificationMaintenanceReminder: {CategoryMaintenance, IconWallet},
	models.NotificationActivityScheduled:   {CategoryActivity, IconCalendar},
	models.NotificationMeetingScheduled:    {CategoryMeeting, IconUsers},
}

// Classify 通知类型 -> (分类, 图标)
func Classify(t models.NotificationType) (Category, Icon) {
	key := models.NotificationType(strings.ToLower(strings.TrimSpace(string(t))))
	if p, ok := typePresentation[key]; ok {
		return p.category, p.icon
	}
	return CategoryGeneral, IconBell
}

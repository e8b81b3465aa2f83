package models

import "strings"

// NotificationType 上游通知类型
type NotificationType string

const (
	NotificationAnnouncement        NotificationType = "announcement"
	NotificationCutoff              NotificationType = "cutoff"
	NotificationMaintenanceReminder NotificationType = "maintenance_reminder"
	NotificationActivityScheduled   NotificationType = "activity_scheduled"
	NotificationMeetingScheduled    NotificationType = "meeting_scheduled"
)

// Audience 通知的目标受众（targetAudience）
type Audience string

const (
	AudienceAll       Audience = "all"
	AudienceWing      Audience = "wing"
	AudienceCommittee Audience = "committee"
	AudienceOwners    Audience = "owners"
	AudienceUnknown   Audience = "unknown"
)

// ParseAudience 归一化受众字段；空值视为全体
func ParseAudience(raw string) Audience {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all", "everyone", "society":
		return AudienceAll
	case "wing", "wing_members":
		return AudienceWing
	case "committee", "admin", "admins", "committee_members":
		return AudienceCommittee
	case "owner", "owners", "residents", "members":
		return AudienceOwners
	default:
		return AudienceUnknown
	}
}

// Notification 通知；IsReadByUser 为当前用户的已读状态
type Notification struct {
	NotificationID   ID               `json:"notification_id" db:"notification_id"`
	Type             NotificationType `json:"type" db:"type"`
	Title            string           `json:"title" db:"title"`
	Message          string           `json:"message" db:"message"`
	NotificationDate string           `json:"notification_date" db:"notification_date"`
	TargetAudience   string           `json:"target_audience" db:"target_audience"`
	WingID           ID               `json:"wing_id" db:"wing_id"`
	IsReadByUser     Flag             `json:"is_read_by_user" db:"is_read_by_user"`
	AttachmentURLs   []string         `json:"attachment_urls,omitempty" db:"-"`
	IsDeleted        Flag             `json:"is_deleted" db:"is_deleted"`
}

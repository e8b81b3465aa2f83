package scope

import (
	"society-console/internal/models"
	"society-console/internal/security"
)

// NotificationVisible 通知可见性：楼栋规则作用于 wingId，角色规则作用于 targetAudience。
// 没有 wingId 的通知面向全社区。
func NotificationVisible(ctx security.Context, n models.Notification) bool {
	if n.IsDeleted.Bool() {
		return false
	}
	if n.WingID.Valid() {
		if !IsWingVisible(n.WingID, ctx.WingID) {
			return false
		}
		// 没有楼栋的业主看不到任何楼栋通知
		if ctx.IsOwner() && !ctx.WingScoped() {
			return false
		}
	}

	switch models.ParseAudience(n.TargetAudience) {
	case models.AudienceAll:
		return true
	case models.AudienceWing:
		// 楼栋通知必须带 wingId，否则无从判断
		return n.WingID.Valid()
	case models.AudienceCommittee:
		return !ctx.IsOwner()
	case models.AudienceOwners:
		return ctx.IsOwner() || ctx.Can(security.CapViewAllWings)
	default:
		return ctx.Can(security.CapViewAllWings)
	}
}

// FilterNotifications 保留可见通知，顺序不变
func FilterNotifications(ctx security.Context, list []models.Notification) []models.Notification {
	out := make([]models.Notification, 0, len(list))
	for _, n := range list {
		if NotificationVisible(ctx, n) {
			out = append(out, n)
		}
	}
	return out
}

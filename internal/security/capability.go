package security

// Capability 角色能力
type Capability string

const (
	CapViewAllWings            Capability = "view_all_wings"
	CapViewWingReport          Capability = "view_wing_report"
	CapExportWingReport        Capability = "export_wing_report"
	CapViewSocietyWideExpenses Capability = "view_society_wide_expenses"
	CapMarkNotifications       Capability = "mark_notifications"
	CapTriggerRefresh          Capability = "trigger_refresh"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleAdmin: {
		CapViewAllWings:            true,
		CapViewWingReport:          true,
		CapExportWingReport:        true,
		CapViewSocietyWideExpenses: true,
		CapMarkNotifications:       true,
		CapTriggerRefresh:          true,
	},
	RoleCommittee: {
		CapViewAllWings:            true,
		CapViewWingReport:          true,
		CapExportWingReport:        true,
		CapViewSocietyWideExpenses: true,
		CapMarkNotifications:       true,
		CapTriggerRefresh:          true,
	},
	RoleOwner: {
		CapMarkNotifications: true,
		CapTriggerRefresh:    true,
	},
}

// Can 检查能力；未知角色一律拒绝。
// CapViewAllWings 还要求查看者没有楼栋限定。
func (c Context) Can(capability Capability) bool {
	caps, ok := roleCapabilities[c.Role]
	if !ok || !caps[capability] {
		return false
	}
	if capability == CapViewAllWings && c.WingScoped() {
		return false
	}
	return true
}

package models

// StatsSnapshot 仪表盘统计（只读值，每个周期整体替换）
type StatsSnapshot struct {
	TotalOwners   int `json:"total_owners"`
	TotalFlats    int `json:"total_flats"`
	TotalRentals  int `json:"total_rentals"`
	TotalMeetings int `json:"total_meetings"`

	TotalMaintenanceAmount    Amount `json:"total_maintenance_amount"`
	TotalMaintenanceCollected Amount `json:"total_maintenance_collected"`
	TotalMaintenancePending   Amount `json:"total_maintenance_pending"`

	TotalExpenseAmount         Amount `json:"total_expense_amount"`
	TotalActivityPaymentAmount Amount `json:"total_activity_payment_amount"`
	TotalActivityExpenseAmount Amount `json:"total_activity_expense_amount"`

	// NetBalance = 已收物业费 - 楼栋支出 - 活动支出
	NetBalance Amount `json:"net_balance"`

	// CollectionRate 收缴率（小数，0.6 表示 60%），分母为 0 时为 0
	CollectionRate float64 `json:"collection_rate"`
	// CollectionRatePercent 保留一位小数的百分比
	CollectionRatePercent float64 `json:"collection_rate_percent"`
}

package models

// Wing 楼栋（社区内唯一的子租户边界）
type Wing struct {
	WingID   ID     `json:"wing_id" db:"wing_id"`
	WingName string `json:"wing_name" db:"wing_name"`
}

// Owner 业主；ownerId -> wingId 与 flatId -> wingId 两个连接表都由它派生
type Owner struct {
	OwnerID   ID     `json:"owner_id" db:"owner_id"`
	FlatID    ID     `json:"flat_id" db:"flat_id"`
	WingID    ID     `json:"wing_id" db:"wing_id"`
	OwnerName string `json:"owner_name" db:"owner_name"`
	FlatNo    string `json:"flat_no" db:"flat_no"`
	IsDeleted Flag   `json:"is_deleted" db:"is_deleted"`
}

// Rental 租赁记录，楼栋通过 owner 解析
type Rental struct {
	RentalID   ID     `json:"rental_id" db:"rental_id"`
	OwnerID    ID     `json:"owner_id" db:"owner_id"`
	TenantName string `json:"tenant_name" db:"tenant_name"`
	StartDate  string `json:"start_date" db:"start_date"`
	EndDate    string `json:"end_date" db:"end_date"`
	IsDeleted  Flag   `json:"is_deleted" db:"is_deleted"`
}

// MaintenanceDetail 物业费明细，楼栋通过 owner 解析
type MaintenanceDetail struct {
	MaintainID  ID     `json:"maintain_id" db:"maintain_id"`
	OwnerID     ID     `json:"owner_id" db:"owner_id"`
	Period      string `json:"period" db:"period"`
	TotalAmount Amount `json:"total_amount" db:"total_amount"`
	PaidAmount  Amount `json:"paid_amount" db:"paid_amount"`
	IsDeleted   Flag   `json:"is_deleted" db:"is_deleted"`
}

// Pending 单行未缴金额
func (m MaintenanceDetail) Pending() Amount {
	return m.TotalAmount.Sub(m.PaidAmount)
}

// Expense 楼栋支出（直接携带 wing_id）
type Expense struct {
	ExpID       ID     `json:"exp_id" db:"exp_id"`
	WingID      ID     `json:"wing_id" db:"wing_id"`
	Description string `json:"description" db:"description"`
	Amount      Amount `json:"amount" db:"amount"`
	IsDeleted   Flag   `json:"is_deleted" db:"is_deleted"`
}

// ActivityPayment 活动缴费，楼栋通过 flat 解析
type ActivityPayment struct {
	PaymentID  ID     `json:"payment_id" db:"payment_id"`
	ActivityID ID     `json:"activity_id" db:"activity_id"`
	FlatID     ID     `json:"flat_id" db:"flat_id"`
	Amount     Amount `json:"amount" db:"amount"`
	IsDeleted  Flag   `json:"is_deleted" db:"is_deleted"`
}

// ActivityExpense 活动支出；wing_id 为空表示全社区支出
type ActivityExpense struct {
	ActivityExpID ID     `json:"activity_exp_id" db:"activity_exp_id"`
	ActivityID    ID     `json:"activity_id" db:"activity_id"`
	WingID        ID     `json:"wing_id" db:"wing_id"`
	Description   string `json:"description" db:"description"`
	Amount        Amount `json:"amount" db:"amount"`
	IsDeleted     Flag   `json:"is_deleted" db:"is_deleted"`
}

// SocietyWide 没有楼栋归属的活动支出
func (e ActivityExpense) SocietyWide() bool {
	return !e.WingID.Valid()
}

// Meeting 会议（直接携带 wing_id）
type Meeting struct {
	MeetingID   ID     `json:"meeting_id" db:"meeting_id"`
	WingID      ID     `json:"wing_id" db:"wing_id"`
	Title       string `json:"title" db:"title"`
	MeetingDate string `json:"meeting_date" db:"meeting_date"`
	IsDeleted   Flag   `json:"is_deleted" db:"is_deleted"`
}

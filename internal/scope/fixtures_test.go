package scope_test

import (
	"society-console/internal/models"
	"society-console/internal/scope"
	"society-console/internal/security"
)

func id(v int64) models.ID { return models.NewID(v) }

func amt(v any) models.Amount { return models.NewAmount(v) }

// societyFixture: wing 2 (owner 7, deleted owner 9), wing 3 (owner 8), owner 10 without wing.
func societyFixture() scope.Collections {
	return scope.Collections{
		Wings: []models.Wing{
			{WingID: id(2), WingName: "B Wing"},
			{WingID: id(3), WingName: "C Wing"},
		},
		Owners: []models.Owner{
			{OwnerID: id(7), FlatID: id(101), WingID: id(2), OwnerName: "Asha"},
			{OwnerID: id(8), FlatID: id(201), WingID: id(3), OwnerName: "Ravi"},
			{OwnerID: id(9), FlatID: id(102), WingID: id(2), OwnerName: "Old", IsDeleted: true},
			{OwnerID: id(10), FlatID: id(301), WingID: models.NoID, OwnerName: "Unassigned"},
		},
		Rentals: []models.Rental{
			{RentalID: id(1), OwnerID: id(7)},
			{RentalID: id(2), OwnerID: id(8)},
			{RentalID: id(3), OwnerID: id(42)},
			{RentalID: id(4), OwnerID: id(7), IsDeleted: true},
		},
		Maintenance: []models.MaintenanceDetail{
			{MaintainID: id(1), OwnerID: id(7), TotalAmount: amt(600), PaidAmount: amt("400")},
			{MaintainID: id(2), OwnerID: id(7), TotalAmount: amt("400"), PaidAmount: amt(200)},
			{MaintainID: id(3), OwnerID: id(8), TotalAmount: amt(500), PaidAmount: amt(500)},
			{MaintainID: id(5), OwnerID: id(8), TotalAmount: amt(999), PaidAmount: amt(999), IsDeleted: true},
		},
		Expenses: []models.Expense{
			{ExpID: id(1), WingID: id(2), Amount: amt(300)},
			{ExpID: id(2), WingID: id(3), Amount: amt(150)},
			{ExpID: id(3), WingID: models.NoID, Amount: amt(50)},
		},
		ActivityPayments: []models.ActivityPayment{
			{PaymentID: id(1), FlatID: id(101), Amount: amt(100)},
			{PaymentID: id(2), FlatID: id(201), Amount: amt(80)},
			{PaymentID: id(3), FlatID: id(999), Amount: amt(10)},
		},
		ActivityExpenses: []models.ActivityExpense{
			{ActivityExpID: id(1), WingID: models.NoID, Amount: amt(200)},
			{ActivityExpID: id(2), WingID: id(3), Amount: amt(70)},
			{ActivityExpID: id(3), WingID: id(2), Amount: amt(30)},
		},
		Meetings: []models.Meeting{
			{MeetingID: id(1), WingID: id(2)},
			{MeetingID: id(2), WingID: id(3)},
			{MeetingID: id(3), WingID: models.NoID},
		},
	}
}

var (
	ownerSeven      = security.Context{UserID: "u-7", Role: security.RoleOwner, WingID: id(2), OwnerID: id(7)}
	committeeWing3  = security.Context{UserID: "u-c3", Role: security.RoleCommittee, WingID: id(3)}
	societyAdmin    = security.Context{UserID: "u-admin", Role: security.RoleAdmin}
	ownerUnresolved = security.Context{UserID: "u-x", Role: security.RoleOwner, WingID: id(2)}
	ownerNoWing     = security.Context{UserID: "u-7", Role: security.RoleOwner, OwnerID: id(7)}
)

func maintainIDs(list []models.MaintenanceDetail) []int64 {
	out := []int64{}
	for _, m := range list {
		out = append(out, m.MaintainID.Int64())
	}
	return out
}

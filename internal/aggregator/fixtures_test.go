package aggregator_test

import (
	"society-console/internal/models"
	"society-console/internal/scope"
	"society-console/internal/security"
)

func id(v int64) models.ID { return models.NewID(v) }

func amt(v any) models.Amount { return models.NewAmount(v) }

// Owner 7 lives in wing 2 and owes 1000 (600 paid); owner 8 in wing 3 owes 500 (fully paid).
func societyFixture() scope.Collections {
	return scope.Collections{
		Wings: []models.Wing{
			{WingID: id(2), WingName: "B Wing"},
			{WingID: id(3), WingName: "C Wing"},
			{WingID: id(4), WingName: "D Wing"},
		},
		Owners: []models.Owner{
			{OwnerID: id(7), FlatID: id(101), WingID: id(2)},
			{OwnerID: id(8), FlatID: id(201), WingID: id(3)},
			{OwnerID: id(11), FlatID: id(201), WingID: id(3)},
			{OwnerID: id(9), FlatID: id(102), WingID: id(2), IsDeleted: true},
		},
		Rentals: []models.Rental{
			{RentalID: id(1), OwnerID: id(7)},
			{RentalID: id(2), OwnerID: id(8)},
		},
		Maintenance: []models.MaintenanceDetail{
			{MaintainID: id(1), OwnerID: id(7), TotalAmount: amt("600.00"), PaidAmount: amt(400)},
			{MaintainID: id(2), OwnerID: id(7), TotalAmount: amt(400), PaidAmount: amt("200")},
			{MaintainID: id(3), OwnerID: id(8), TotalAmount: amt(500), PaidAmount: amt(500)},
			{MaintainID: id(4), OwnerID: id(8), TotalAmount: amt(250), PaidAmount: amt(0), IsDeleted: true},
		},
		Expenses: []models.Expense{
			{ExpID: id(1), WingID: id(2), Amount: amt(300)},
			{ExpID: id(2), WingID: id(3), Amount: amt(150)},
		},
		ActivityPayments: []models.ActivityPayment{
			{PaymentID: id(1), FlatID: id(101), Amount: amt(100)},
			{PaymentID: id(2), FlatID: id(201), Amount: amt(80)},
		},
		ActivityExpenses: []models.ActivityExpense{
			{ActivityExpID: id(1), WingID: models.NoID, Amount: amt(200)},
			{ActivityExpID: id(2), WingID: id(3), Amount: amt(70)},
		},
		Meetings: []models.Meeting{
			{MeetingID: id(1), WingID: id(2)},
			{MeetingID: id(2), WingID: id(3)},
		},
	}
}

var (
	ownerSeven     = security.Context{UserID: "u-7", Role: security.RoleOwner, WingID: id(2), OwnerID: id(7)}
	committeeWing3 = security.Context{UserID: "u-c3", Role: security.RoleCommittee, WingID: id(3)}
	societyAdmin   = security.Context{UserID: "u-admin", Role: security.RoleAdmin}
)

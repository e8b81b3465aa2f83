package aggregator

import (
	"society-console/internal/models"
	"society-console/internal/scope"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ComputeStats 对已按查看者作用域过滤的集合做汇总。
// 纯函数：不抓取数据，不访问安全上下文；已删除记录再次排除。
func ComputeStats(scoped scope.Collections) models.StatsSnapshot {
	var s models.StatsSnapshot

	flats := make(map[int64]struct{})
	for _, o := range scoped.Owners {
		if o.IsDeleted.Bool() {
			continue
		}
		s.TotalOwners++
		if flatID, ok := o.FlatID.Get(); ok {
			flats[flatID] = struct{}{}
		}
	}
	s.TotalFlats = len(flats)

	for _, r := range scoped.Rentals {
		if !r.IsDeleted.Bool() {
			s.TotalRentals++
		}
	}
	for _, m := range scoped.Meetings {
		if !m.IsDeleted.Bool() {
			s.TotalMeetings++
		}
	}

	for _, m := range scoped.Maintenance {
		if m.IsDeleted.Bool() {
			continue
		}
		s.TotalMaintenanceAmount = s.TotalMaintenanceAmount.Add(m.TotalAmount)
		s.TotalMaintenanceCollected = s.TotalMaintenanceCollected.Add(m.PaidAmount)
	}
	// 未缴 = 应收合计 - 已收合计（差值取自合计，不逐行相减）
	s.TotalMaintenancePending = s.TotalMaintenanceAmount.Sub(s.TotalMaintenanceCollected)

	for _, e := range scoped.Expenses {
		if !e.IsDeleted.Bool() {
			s.TotalExpenseAmount = s.TotalExpenseAmount.Add(e.Amount)
		}
	}
	for _, p := range scoped.ActivityPayments {
		if !p.IsDeleted.Bool() {
			s.TotalActivityPaymentAmount = s.TotalActivityPaymentAmount.Add(p.Amount)
		}
	}
	for _, e := range scoped.ActivityExpenses {
		if !e.IsDeleted.Bool() {
			s.TotalActivityExpenseAmount = s.TotalActivityExpenseAmount.Add(e.Amount)
		}
	}

	s.NetBalance = s.TotalMaintenanceCollected.
		Sub(s.TotalExpenseAmount).
		Sub(s.TotalActivityExpenseAmount)

	s.CollectionRate, s.CollectionRatePercent = collectionRate(s.TotalMaintenanceCollected, s.TotalMaintenanceAmount)
	return s
}

// collectionRate 分母为 0 时返回 0，结果不小于 0
func collectionRate(collected, amount models.Amount) (float64, float64) {
	if amount.Decimal().Sign() <= 0 {
		return 0, 0
	}
	rate := collected.Decimal().DivRound(amount.Decimal(), 8)
	if rate.Sign() < 0 {
		return 0, 0
	}
	fraction, _ := rate.Round(4).Float64()
	percent, _ := rate.Mul(hundred).Round(1).Float64()
	return fraction, percent
}

package aggregator

import (
	"fmt"
	"sort"

	"society-console/internal/models"
	"society-console/internal/scope"
)

// WingSummary 楼栋报表中的一行
type WingSummary struct {
	WingID   models.ID           `json:"wing_id"`
	WingName string              `json:"wing_name"`
	Stats    models.StatsSnapshot `json:"stats"`
}

// WingReport 楼栋报表；Unassigned 汇总无法归属到楼栋的记录（包括全社区活动支出）
type WingReport struct {
	Rows       []WingSummary        `json:"rows"`
	Unassigned *WingSummary         `json:"unassigned,omitempty"`
	Totals     models.StatsSnapshot `json:"totals"`
}

// BuildWingReport 按楼栋拆分已作用域过滤的集合，每个分组复用 ComputeStats。
// 各行（含 Unassigned）之和等于 Totals。
func BuildWingReport(scoped scope.Collections) WingReport {
	joins := scope.BuildJoins(scoped.Owners)
	groups := make(map[int64]*scope.Collections)
	group := func(wing models.ID) *scope.Collections {
		key := wing.Int64() // 未解析为 0
		g, ok := groups[key]
		if !ok {
			g = &scope.Collections{}
			groups[key] = g
		}
		return g
	}

	for _, o := range scoped.Owners {
		g := group(o.WingID)
		g.Owners = append(g.Owners, o)
	}
	for _, r := range scoped.Rentals {
		g := group(joins.OwnerWing(r.OwnerID))
		g.Rentals = append(g.Rentals, r)
	}
	for _, m := range scoped.Maintenance {
		g := group(joins.OwnerWing(m.OwnerID))
		g.Maintenance = append(g.Maintenance, m)
	}
	for _, e := range scoped.Expenses {
		g := group(e.WingID)
		g.Expenses = append(g.Expenses, e)
	}
	for _, p := range scoped.ActivityPayments {
		g := group(joins.FlatWing(p.FlatID))
		g.ActivityPayments = append(g.ActivityPayments, p)
	}
	for _, e := range scoped.ActivityExpenses {
		g := group(e.WingID)
		g.ActivityExpenses = append(g.ActivityExpenses, e)
	}
	for _, m := range scoped.Meetings {
		g := group(m.WingID)
		g.Meetings = append(g.Meetings, m)
	}

	names := make(map[int64]string, len(scoped.Wings))
	for _, w := range scoped.Wings {
		if wingID, ok := w.WingID.Get(); ok {
			names[wingID] = w.WingName
			// 没有任何记录的楼栋也占一行
			group(w.WingID)
		}
	}

	report := WingReport{Totals: ComputeStats(scoped)}
	for key, g := range groups {
		row := WingSummary{Stats: ComputeStats(*g)}
		if key == 0 {
			row.WingName = "Unassigned"
			report.Unassigned = &row
			continue
		}
		row.WingID = models.NewID(key)
		row.WingName = names[key]
		if row.WingName == "" {
			row.WingName = fmt.Sprintf("Wing %d", key)
		}
		report.Rows = append(report.Rows, row)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].WingID.Int64() < report.Rows[j].WingID.Int64()
	})
	return report
}

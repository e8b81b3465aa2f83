package scope

import (
	"society-console/internal/models"
	"society-console/internal/security"
)

// Collections 一个周期内抓取到的全部集合
type Collections struct {
	Wings            []models.Wing              `json:"wings"`
	Owners           []models.Owner             `json:"owners"`
	Rentals          []models.Rental            `json:"rentals"`
	Maintenance      []models.MaintenanceDetail `json:"maintenance"`
	Expenses         []models.Expense           `json:"expenses"`
	ActivityPayments []models.ActivityPayment   `json:"activity_payments"`
	ActivityExpenses []models.ActivityExpense   `json:"activity_expenses"`
	Meetings         []models.Meeting           `json:"meetings"`
}

// Apply 返回查看者可见的未删除记录。
// 连接表取自 raw.Owners 中未删除的业主（同一份快照），
// 因此对结果再次 Apply 结果不变（前提是同一 flat 不会同时挂在两个楼栋下）。
func Apply(ctx security.Context, raw Collections) Collections {
	return filter(ctx, raw, false)
}

// ApplyTrash 返回查看者可见的已删除记录（回收站视图）
func ApplyTrash(ctx security.Context, raw Collections) Collections {
	return filter(ctx, raw, true)
}

func filter(ctx security.Context, raw Collections, deleted bool) Collections {
	// 回收站需要解析已删除业主名下的记录，活跃视图只信任未删除的业主
	joinSource := raw.Owners
	if !deleted {
		joinSource = liveOwners(raw.Owners)
	}
	v := visibility{ctx: ctx, joins: BuildJoins(joinSource)}

	// 业主 ownerId 未解析：所有受限集合为空
	if ctx.IsOwner() && !ctx.OwnerID.Valid() {
		return Collections{Wings: v.wings(raw.Wings)}
	}

	out := Collections{Wings: v.wings(raw.Wings)}
	for _, o := range raw.Owners {
		if o.IsDeleted.Bool() == deleted && v.owner(o) {
			out.Owners = append(out.Owners, o)
		}
	}
	for _, r := range raw.Rentals {
		if r.IsDeleted.Bool() == deleted && v.ownedByOwner(r.OwnerID) {
			out.Rentals = append(out.Rentals, r)
		}
	}
	for _, m := range raw.Maintenance {
		if m.IsDeleted.Bool() == deleted && v.ownedByOwner(m.OwnerID) {
			out.Maintenance = append(out.Maintenance, m)
		}
	}
	for _, e := range raw.Expenses {
		if e.IsDeleted.Bool() == deleted && IsWingVisible(e.WingID, ctx.WingID) && v.wingLevel(e.WingID) {
			out.Expenses = append(out.Expenses, e)
		}
	}
	for _, p := range raw.ActivityPayments {
		if p.IsDeleted.Bool() == deleted && v.activityPayment(p) {
			out.ActivityPayments = append(out.ActivityPayments, p)
		}
	}
	for _, e := range raw.ActivityExpenses {
		if e.IsDeleted.Bool() == deleted && v.activityExpense(e) {
			out.ActivityExpenses = append(out.ActivityExpenses, e)
		}
	}
	for _, m := range raw.Meetings {
		if m.IsDeleted.Bool() == deleted && IsWingVisible(m.WingID, ctx.WingID) && v.wingLevel(m.WingID) {
			out.Meetings = append(out.Meetings, m)
		}
	}
	return out
}

func liveOwners(owners []models.Owner) []models.Owner {
	out := make([]models.Owner, 0, len(owners))
	for _, o := range owners {
		if !o.IsDeleted.Bool() {
			out = append(out, o)
		}
	}
	return out
}

type visibility struct {
	ctx   security.Context
	joins Joins
}

// wings 参考数据：楼栋限定的查看者只保留自己的楼栋
func (v visibility) wings(wings []models.Wing) []models.Wing {
	if !v.ctx.WingScoped() {
		return wings
	}
	var out []models.Wing
	for _, w := range wings {
		if IsWingVisible(w.WingID, v.ctx.WingID) {
			out = append(out, w)
		}
	}
	return out
}

func (v visibility) owner(o models.Owner) bool {
	if !IsWingVisible(o.WingID, v.ctx.WingID) {
		return false
	}
	if v.ctx.IsOwner() {
		return IsOwnerVisible(o.OwnerID, v.ctx.OwnerID)
	}
	return true
}

// ownedByOwner 租赁、物业费：楼栋经 owner 解析，业主再按 ownerId 收窄
func (v visibility) ownedByOwner(ownerID models.ID) bool {
	if !IsWingVisible(v.joins.OwnerWing(ownerID), v.ctx.WingID) {
		return false
	}
	if v.ctx.IsOwner() {
		return IsOwnerVisible(ownerID, v.ctx.OwnerID)
	}
	return true
}

// wingLevel 只有楼栋归属的记录（支出、会议）对业主不做 owner 收窄；
// 业主只能看到自己楼栋的记录，没有楼栋的业主什么都看不到。
func (v visibility) wingLevel(wingID models.ID) bool {
	if v.ctx.IsOwner() {
		return v.ctx.WingScoped() && wingID.Valid()
	}
	return true
}

func (v visibility) activityPayment(p models.ActivityPayment) bool {
	if !IsWingVisible(v.joins.FlatWing(p.FlatID), v.ctx.WingID) {
		return false
	}
	if v.ctx.IsOwner() {
		return IsOwnerVisible(v.joins.FlatOwner(p.FlatID), v.ctx.OwnerID)
	}
	return true
}

// activityExpense 没有楼栋的活动支出属于全社区：非业主可见，业主不可见
func (v visibility) activityExpense(e models.ActivityExpense) bool {
	if e.SocietyWide() {
		return !v.ctx.IsOwner()
	}
	return IsWingVisible(e.WingID, v.ctx.WingID) && v.wingLevel(e.WingID)
}

package security

import (
	"errors"
	"fmt"
	"strings"

	"society-console/internal/models"
)

var (
	// ErrAnonymous 身份记录缺少 user id
	ErrAnonymous = errors.New("security: identity has no user id")
	// ErrUnknownRole 无法识别的角色（按最小权限拒绝）
	ErrUnknownRole = errors.New("security: unknown role")
)

// Role 查看者角色
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCommittee Role = "committee"
	RoleOwner     Role = "owner"
)

// ParseRole 将上游角色名映射到三种角色之一
func ParseRole(raw string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "super_admin", "superadmin", "society_admin":
		return RoleAdmin, nil
	case "committee", "committee_member", "wing_admin", "secretary", "treasurer", "chairman":
		return RoleCommittee, nil
	case "owner", "flat_owner", "member", "resident":
		return RoleOwner, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, raw)
	}
}

// Identity 上一步认证产出的身份记录（本服务只读取，不做认证）
type Identity struct {
	UserID   string    `json:"userId"`
	RoleType string    `json:"roleType"`
	WingID   models.ID `json:"wingId"`
	OwnerID  models.ID `json:"ownerId"`
}

// Context 查看者安全上下文，在一次周期内不可变，显式传入所有作用域与聚合调用
type Context struct {
	UserID  string    `json:"user_id"`
	Role    Role      `json:"role"`
	WingID  models.ID `json:"wing_id"`
	OwnerID models.ID `json:"owner_id"`
}

// Resolve 由身份记录构造安全上下文
func Resolve(id Identity) (Context, error) {
	userID := strings.TrimSpace(id.UserID)
	if userID == "" {
		return Context{}, ErrAnonymous
	}
	role, err := ParseRole(id.RoleType)
	if err != nil {
		return Context{}, err
	}
	return Context{
		UserID:  userID,
		Role:    role,
		WingID:  id.WingID,
		OwnerID: id.OwnerID,
	}, nil
}

// WingScoped 是否限定在某个楼栋；没有楼栋的查看者视为全社区视角
func (c Context) WingScoped() bool {
	return c.WingID.Valid()
}

// IsOwner 业主角色需要额外按 owner 收窄
func (c Context) IsOwner() bool {
	return c.Role == RoleOwner
}

// Same 比较两个上下文是否等价（用于判断是否需要作废进行中的周期）
func (c Context) Same(o Context) bool {
	return c.UserID == o.UserID &&
		c.Role == o.Role &&
		c.WingID == o.WingID &&
		c.OwnerID == o.OwnerID
}

// Package scope 决定查看者能看到哪些记录。
// 所有判断都是纯函数且 fail-closed：无法解析归属的记录对受限视角不可见。
package scope

import "society-console/internal/models"

// IsWingVisible 查看者没有楼栋时不做楼栋限定；
// 否则记录的楼栋必须已解析且与查看者一致。
func IsWingVisible(resolved, viewer models.ID) bool {
	if !viewer.Valid() {
		return true
	}
	return resolved.Equal(viewer)
}

// IsOwnerVisible 业主收窄：查看者 ownerId 未解析时什么都看不到。
func IsOwnerVisible(resolved, viewer models.ID) bool {
	return viewer.Valid() && resolved.Equal(viewer)
}

package scope

import "society-console/internal/models"

// Joins 由同一份 Owner 快照派生的连接表，每个周期重新构建
type Joins struct {
	ownerWing map[int64]models.ID
	flatWing  map[int64]models.ID
	flatOwner map[int64]models.ID
}

// BuildJoins 构建 ownerId -> wingId、flatId -> wingId、flatId -> ownerId。
// 同一 flat 有多条记录时，未删除的记录优先；同类记录中先出现的优先。
func BuildJoins(owners []models.Owner) Joins {
	j := Joins{
		ownerWing: make(map[int64]models.ID, len(owners)),
		flatWing:  make(map[int64]models.ID, len(owners)),
		flatOwner: make(map[int64]models.ID, len(owners)),
	}
	for _, pass := range []bool{false, true} {
		for _, o := range owners {
			if o.IsDeleted.Bool() != pass {
				continue
			}
			if ownerID, ok := o.OwnerID.Get(); ok && o.WingID.Valid() {
				if _, seen := j.ownerWing[ownerID]; !seen {
					j.ownerWing[ownerID] = o.WingID
				}
			}
			flatID, ok := o.FlatID.Get()
			if !ok {
				continue
			}
			if _, seen := j.flatWing[flatID]; !seen && o.WingID.Valid() {
				j.flatWing[flatID] = o.WingID
			}
			if _, seen := j.flatOwner[flatID]; !seen && o.OwnerID.Valid() {
				j.flatOwner[flatID] = o.OwnerID
			}
		}
	}
	return j
}

// OwnerWing 业主所在楼栋，找不到时返回未解析
func (j Joins) OwnerWing(ownerID models.ID) models.ID {
	return lookup(j.ownerWing, ownerID)
}

// FlatWing 房屋所在楼栋
func (j Joins) FlatWing(flatID models.ID) models.ID {
	return lookup(j.flatWing, flatID)
}

// FlatOwner 房屋当前业主
func (j Joins) FlatOwner(flatID models.ID) models.ID {
	return lookup(j.flatOwner, flatID)
}

func lookup(m map[int64]models.ID, key models.ID) models.ID {
	k, ok := key.Get()
	if !ok {
		return models.NoID
	}
	if v, ok := m[k]; ok {
		return v
	}
	return models.NoID
}

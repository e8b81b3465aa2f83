package scope_test

import (
	"testing"

	"society-console/internal/models"
	"society-console/internal/scope"

	"github.com/stretchr/testify/assert"
)

func TestIsWingVisible(t *testing.T) {
	tests := []struct {
		name     string
		resolved models.ID
		viewer   models.ID
		want     bool
	}{
		{"no viewer wing bypasses scoping", id(2), models.NoID, true},
		{"no viewer wing includes unresolved record", models.NoID, models.NoID, true},
		{"same wing", id(2), id(2), true},
		{"string-coerced same wing", models.IDOrNull("2"), id(2), true},
		{"other wing", id(3), id(2), false},
		{"unresolved record in scoped view", models.NoID, id(2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scope.IsWingVisible(tt.resolved, tt.viewer))
		})
	}
}

func TestIsOwnerVisible(t *testing.T) {
	assert.True(t, scope.IsOwnerVisible(id(7), id(7)))
	assert.False(t, scope.IsOwnerVisible(id(8), id(7)))
	assert.False(t, scope.IsOwnerVisible(id(7), models.NoID))
	assert.False(t, scope.IsOwnerVisible(models.NoID, id(7)))
	assert.False(t, scope.IsOwnerVisible(models.NoID, models.NoID))
}

func TestBuildJoins(t *testing.T) {
	j := scope.BuildJoins([]models.Owner{
		{OwnerID: id(9), FlatID: id(102), WingID: id(4), IsDeleted: true},
		{OwnerID: id(7), FlatID: id(102), WingID: id(2)},
		{OwnerID: id(8), FlatID: id(201), WingID: models.NoID},
	})

	assert.Equal(t, id(2), j.OwnerWing(id(7)))
	assert.Equal(t, id(4), j.OwnerWing(id(9)))
	// live owner wins for a shared flat
	assert.Equal(t, id(2), j.FlatWing(id(102)))
	assert.Equal(t, id(7), j.FlatOwner(id(102)))

	assert.False(t, j.OwnerWing(id(8)).Valid())
	assert.False(t, j.FlatWing(id(201)).Valid())
	assert.Equal(t, id(8), j.FlatOwner(id(201)))
	assert.False(t, j.OwnerWing(id(404)).Valid())
	assert.False(t, j.FlatWing(models.NoID).Valid())
}

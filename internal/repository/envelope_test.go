package repository

import (
	"testing"

	"society-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeList_BareArray(t *testing.T) {
	owners, err := DecodeList[models.Owner]([]byte(`[{"owner_id":7,"flat_id":"101","wing_id":2}]`))
	require.NoError(t, err)
	require.Len(t, owners, 1)
	assert.Equal(t, models.NewID(101), owners[0].FlatID)
}

func TestDecodeList_DataEnvelope(t *testing.T) {
	rows, err := DecodeList[models.MaintenanceDetail]([]byte(`{"success":true,"data":[{"owner_id":7,"total_amount":"1000","paid_amount":600}]}`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "400.00", rows[0].Pending().String())
}

func TestDecodeList_EmptyShapes(t *testing.T) {
	for _, body := range []string{``, `  `, `null`, `[]`, `{"data":null}`, `{"data":[]}`} {
		rows, err := DecodeList[models.Wing]([]byte(body))
		require.NoError(t, err, body)
		assert.Empty(t, rows, body)
		assert.NotNil(t, rows, body)
	}
}

func TestDecodeList_Rejects(t *testing.T) {
	for _, body := range []string{`{"items":[]}`, `{"data":{"id":1}}`, `"oops"`, `42`, `{broken`} {
		_, err := DecodeList[models.Wing]([]byte(body))
		assert.ErrorIs(t, err, ErrEnvelope, body)
	}

	_, err := DecodeList[models.Wing]([]byte(`[{"wing_name": 5}]`))
	assert.Error(t, err)
}

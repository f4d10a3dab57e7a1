package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringList_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  StringList
	}{
		{"array", `["a.png","b.png"]`, StringList{"a.png", "b.png"}},
		{"json encoded array string", `"[\"a.png\",\"b.png\"]"`, StringList{"a.png", "b.png"}},
		{"plain string", `"data:image/png;base64,xyz"`, StringList{"data:image/png;base64,xyz"}},
		{"broken json string", `"[not json"`, StringList{"[not json"}},
		{"empty string", `""`, StringList{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestStringList_ValueScan(t *testing.T) {
	v, err := StringList{"x", "y"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["x","y"]`, v)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["x","y"]`)))
	assert.Equal(t, StringList{"x", "y"}, l)
	assert.Equal(t, "x", l.First())

	require.NoError(t, l.Scan(nil))
	assert.Equal(t, "", l.First())

	nilValue, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)
}

func TestOrderStatus_Normalize(t *testing.T) {
	assert.Equal(t, OrderStatusPending, OrderStatus("待付款").Normalize())
	assert.Equal(t, OrderStatusPaid, OrderStatus("待发货").Normalize())
	assert.Equal(t, OrderStatusShipped, OrderStatus("已发货").Normalize())
	assert.Equal(t, OrderStatusCompleted, OrderStatus("已完成").Normalize())
	assert.Equal(t, OrderStatusCanceled, OrderStatus("已取消").Normalize())
	assert.Equal(t, OrderStatusShipped, OrderStatusShipped.Normalize())
	assert.Equal(t, OrderStatus("REFUNDED"), OrderStatus("REFUNDED").Normalize())
}

func TestAddress_SyncDefaultOwner(t *testing.T) {
	a := &Address{UserID: 9, IsDefault: true}
	a.SyncDefaultOwner()
	require.NotNil(t, a.DefaultOwner)
	assert.Equal(t, uint(9), *a.DefaultOwner)

	a.IsDefault = false
	a.SyncDefaultOwner()
	assert.Nil(t, a.DefaultOwner)
}

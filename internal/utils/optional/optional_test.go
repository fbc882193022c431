package optional

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patch struct {
	VendorID Field[string] `json:"vendorId"`
	Memo     Field[string] `json:"memo"`
}

func TestFieldDistinguishesAbsentNullAndValue(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantSet  bool
		wantNull bool
		wantVal  string
	}{
		{name: "absent", payload: `{}`, wantSet: false},
		{name: "explicit null", payload: `{"vendorId": null}`, wantSet: true, wantNull: true},
		{name: "value", payload: `{"vendorId": "v-1"}`, wantSet: true, wantVal: "v-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p patch
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &p))
			assert.Equal(t, tt.wantSet, p.VendorID.Set)
			assert.Equal(t, tt.wantNull, p.VendorID.Null)
			assert.Equal(t, tt.wantVal, p.VendorID.Value)
			assert.False(t, p.Memo.Set)
		})
	}
}

func TestFieldPtr(t *testing.T) {
	current := "old"

	assert.Equal(t, &current, Absent[string]().Ptr(&current))
	assert.Nil(t, Null[string]().Ptr(&current))

	got := Of("new").Ptr(&current)
	require.NotNil(t, got)
	assert.Equal(t, "new", *got)
	assert.Equal(t, "old", current)
}

func TestFieldInvalidJSON(t *testing.T) {
	var p patch
	err := json.Unmarshal([]byte(`{"vendorId": 12}`), &p)
	assert.Error(t, err)
}

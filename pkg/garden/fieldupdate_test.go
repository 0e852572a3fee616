package garden

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldUpdateApply(t *testing.T) {
	current := "existing"

	tests := []struct {
		name    string
		update  FieldUpdate[string]
		current *string
		want    *string
	}{
		{"keep preserves value", Keep[string](), &current, &current},
		{"keep preserves nil", Keep[string](), nil, nil},
		{"clear removes value", Clear[string](), &current, nil},
		{"clear on nil stays nil", Clear[string](), nil, nil},
		{"set replaces value", Set("fresh"), &current, ptr("fresh")},
		{"set fills nil", Set("fresh"), nil, ptr("fresh")},
		{"zero value keeps", FieldUpdate[string]{}, &current, &current},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.update.Apply(tt.current)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestFieldUpdateIsUpdate(t *testing.T) {
	assert.False(t, Keep[int]().IsUpdate())
	assert.False(t, FieldUpdate[int]{}.IsUpdate())
	assert.True(t, Clear[int]().IsUpdate())
	assert.True(t, Set(7).IsUpdate())
}

func TestFieldUpdateJSON(t *testing.T) {
	var u FieldUpdate[string]

	require.NoError(t, json.Unmarshal([]byte(`{"action":"set","value":"hello"}`), &u))
	assert.Equal(t, Set("hello"), u)

	require.NoError(t, json.Unmarshal([]byte(`{"action":"clear"}`), &u))
	assert.Equal(t, FieldClear, u.Action)

	// An omitted field stays the zero value, i.e. keep.
	var wrapper struct {
		Notes FieldUpdate[string] `json:"notes"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &wrapper))
	assert.False(t, wrapper.Notes.IsUpdate())
}

func ptr[T any](v T) *T { return &v }

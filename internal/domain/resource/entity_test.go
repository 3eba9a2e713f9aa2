//go:build unit

package resource_test

import (
	"testing"

	"dormwash/internal/domain/resource"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindIsValid(t *testing.T) {
	assert.True(t, resource.KindWasher.IsValid())
	assert.True(t, resource.KindDryer.IsValid())
	assert.False(t, resource.Kind("").IsValid())
	assert.False(t, resource.Kind("microwave").IsValid())
}

func TestNewMachine(t *testing.T) {
	cases := []struct {
		name     string
		machine  string
		building string
		kind     resource.Kind
		errIs    error
	}{
		{name: "valid washer", machine: "washer-1", building: "A", kind: resource.KindWasher},
		{name: "valid dryer", machine: "dryer-1", building: "B", kind: resource.KindDryer},
		{name: "empty name", machine: "", building: "A", kind: resource.KindWasher, errIs: resource.ErrEmptyName},
		{name: "whitespace name", machine: "   ", building: "A", kind: resource.KindWasher, errIs: resource.ErrEmptyName},
		{name: "empty building", machine: "washer-1", building: "", kind: resource.KindWasher, errIs: resource.ErrEmptyBuilding},
		{name: "invalid kind", machine: "washer-1", building: "A", kind: resource.Kind("fridge"), errIs: resource.ErrInvalidKind},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, err := resource.NewMachine(uuid.New(), tc.machine, tc.building, tc.kind)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, m.Kind())
		})
	}
}

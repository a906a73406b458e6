package topic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder(t *testing.T) {
	b := NewBuilder("fleetview/v1")

	assert.Equal(t, "fleetview/v1/fleet/vehicle/42", b.Vehicle("42"))
	assert.Equal(t, "fleetview/v1/fleet/vehicle/+", b.VehicleWildcard())
}

package zone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoneStatus(t *testing.T) {
	for _, status := range GetAllZoneStatuses() {
		assert.True(t, status.IsValid())
	}
	assert.False(t, ZoneStatus("RESERVED").IsValid())

	assert.True(t, ZoneStatusAvailable.IsBookable())
	assert.False(t, ZoneStatusBooked.IsBookable())
	assert.False(t, ZoneStatusUnavailable.IsBookable())
}

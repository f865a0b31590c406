package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warrantydesk/tracking-service/internal/model"
)

// The seed set exists so every timeline shape can be exercised against a
// local server: one ticket per status, no duplicates.
func TestSeedSpecsCoverEveryStatus(t *testing.T) {
	seen := map[model.TicketStatus]int{}
	for _, spec := range seedSpecs {
		seen[spec.status]++
		assert.True(t, spec.status.Valid(), "seed status %q", spec.status)
		assert.NotEmpty(t, spec.email)
		assert.NotEmpty(t, spec.product.Name)
	}
	for _, status := range model.StatusOrder {
		assert.Equal(t, 1, seen[status], "status %q", status)
	}
	assert.Equal(t, 1, seen[model.StatusRejected])
	assert.Len(t, seen, len(model.StatusOrder)+1)
}

// Approved and scheduled seeds must carry manager remarks so the rendered
// manager-action step is non-empty.
func TestSeedSpecsRemarks(t *testing.T) {
	for _, spec := range seedSpecs {
		switch spec.status {
		case model.StatusApproved, model.StatusRejected, model.StatusScheduled:
			assert.NotEmpty(t, spec.remarks, "status %q needs remarks", spec.status)
		}
	}
}

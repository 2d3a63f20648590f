package pub

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idvault/internal/ports"
)

func TestGrantsRemovedMessage(t *testing.T) {
	msg, err := grantsRemovedMessage(ports.GrantsRemovedEvent{
		Removed: 7,
		SweptAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(msg), &decoded))
	assert.Equal(t, "grants_removed", decoded["type"])
	assert.Equal(t, float64(7), decoded["removed"])
	assert.Equal(t, "2026-06-01T12:00:00Z", decoded["swept_at"])
}

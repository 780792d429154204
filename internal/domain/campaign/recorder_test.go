package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memClaimLog struct {
	rows map[string]uint64
	fail error
}

func (m *memClaimLog) InsertClaimLog(_ context.Context, campaignID int64, identity string, amount uint64, _ time.Time) (bool, error) {
	if m.fail != nil {
		return false, m.fail
	}
	key := identity
	if _, ok := m.rows[key]; ok {
		return false, nil
	}
	if m.rows == nil {
		m.rows = make(map[string]uint64)
	}
	m.rows[key] = amount
	return true, nil
}

func TestRecorderIndexesClaims(t *testing.T) {
	store := &memClaimLog{rows: make(map[string]uint64)}
	r := NewRecorder(store)

	event := Event{Type: EventClaim, CampaignID: 1, Identity: "id_1", Amount: 100, Timestamp: time.Now()}
	require.NoError(t, r.HandleEvent(context.Background(), event))
	assert.Equal(t, uint64(100), store.rows["id_1"])

	// Redelivered events are dropped, not retried.
	require.NoError(t, r.HandleEvent(context.Background(), event))
	assert.Len(t, store.rows, 1)
}

func TestRecorderSkipsNonClaimEvents(t *testing.T) {
	store := &memClaimLog{fail: errors.New("should not be called")}
	r := NewRecorder(store)

	assert.NoError(t, r.HandleEvent(context.Background(), Event{Type: EventCreateCampaign, CampaignID: 1}))
	assert.NoError(t, r.HandleEvent(context.Background(), Event{Type: EventWithdraw, CampaignID: 1}))
	assert.NoError(t, r.HandleEvent(context.Background(), Event{Type: "unknown", CampaignID: 1}))
}

func TestRecorderSurfacesStoreErrors(t *testing.T) {
	store := &memClaimLog{fail: errors.New("db down")}
	r := NewRecorder(store)

	err := r.HandleEvent(context.Background(), Event{Type: EventClaim, CampaignID: 1, Identity: "id_1", Amount: 1})
	assert.ErrorContains(t, err, "db down")
}

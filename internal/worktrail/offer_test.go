package worktrail

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	"brieflink/internal/model"
)

func TestOffer_ExpiresAfterTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	var expired atomic.Int32
	o := NewOffer(model.Snapshot{ItemID: "note-1"}, 10*time.Millisecond, func(*Offer) { expired.Add(1) })

	select {
	case <-o.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("offer did not expire")
	}
	assert.Eventually(t, func() bool { return expired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, OfferExpired, o.State())
	assert.False(t, o.Accept(), "an expired offer cannot be accepted")
}

func TestOffer_AcceptCancelsTimer(t *testing.T) {
	defer goleak.VerifyNone(t)

	var expired atomic.Int32
	o := NewOffer(model.Snapshot{}, 20*time.Millisecond, func(*Offer) { expired.Add(1) })
	assert.True(t, o.Accept())
	assert.False(t, o.Dismiss())

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), expired.Load())
	assert.Equal(t, OfferAccepted, o.State())
}

func TestOffer_DismissResolvesOnce(t *testing.T) {
	t.Parallel()
	o := NewOffer(model.Snapshot{}, time.Hour, nil)
	assert.Equal(t, OfferPending, o.State())
	assert.True(t, o.Dismiss())
	assert.False(t, o.Dismiss())
	assert.Equal(t, OfferDismissed, o.State())
	select {
	case <-o.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestOffer_IDsAreUUIDs(t *testing.T) {
	t.Parallel()
	a := NewOffer(model.Snapshot{}, 0, nil)
	b := NewOffer(model.Snapshot{}, 0, nil)
	_, err := uuid.Parse(a.ID)
	assert.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

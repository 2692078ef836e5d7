package worktrail

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"brieflink/internal/model"
)

// DefaultAutoDismiss is how long a resume offer waits for the user.
const DefaultAutoDismiss = 10 * time.Second

type OfferState string

const (
	OfferPending   OfferState = "pending"
	OfferAccepted  OfferState = "accepted"
	OfferDismissed OfferState = "dismissed"
	OfferExpired   OfferState = "expired"
)

// Offer is a pending "resume where you left off" affordance. It resolves
// exactly once: by Accept, by Dismiss, or by expiring after its timeout.
type Offer struct {
	ID       string
	Snapshot model.Snapshot

	mu       sync.Mutex
	state    OfferState
	timer    *time.Timer
	done     chan struct{}
	onExpire func(*Offer)
}

// NewOffer starts the auto-dismiss timer. onExpire, if set, runs on the
// timer goroutine when the offer expires unanswered.
func NewOffer(snap model.Snapshot, autoDismiss time.Duration, onExpire func(*Offer)) *Offer {
	o := &Offer{
		ID:       uuid.NewString(),
		Snapshot: snap,
		state:    OfferPending,
		done:     make(chan struct{}),
		onExpire: onExpire,
	}
	if autoDismiss > 0 {
		o.timer = time.AfterFunc(autoDismiss, o.expire)
	}
	return o
}

func (o *Offer) expire() {
	if !o.resolve(OfferExpired) {
		return
	}
	if o.onExpire != nil {
		o.onExpire(o)
	}
}

// resolve moves a pending offer to st. It reports false when already resolved.
func (o *Offer) resolve(st OfferState) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != OfferPending {
		return false
	}
	o.state = st
	if o.timer != nil {
		o.timer.Stop()
	}
	close(o.done)
	return true
}

// Accept resolves the offer as accepted and cancels the timer.
func (o *Offer) Accept() bool { return o.resolve(OfferAccepted) }

// Dismiss resolves the offer as dismissed and cancels the timer.
func (o *Offer) Dismiss() bool { return o.resolve(OfferDismissed) }

func (o *Offer) State() OfferState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Done is closed once the offer resolves.
func (o *Offer) Done() <-chan struct{} { return o.done }

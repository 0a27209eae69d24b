package notification

import (
	"context"
	"errors"
	"sync"
)

// ErrDeliveryFailed is returned by a Recorder set to fail.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Recorder is an in-memory Gateway that keeps every message it is asked to send.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	fail     bool
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Send records msg, then fails with ErrDeliveryFailed if SetFail(true) was called.
func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	if r.fail {
		return ErrDeliveryFailed
	}
	return nil
}

// SetFail toggles failure mode.
func (r *Recorder) SetFail(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

// Messages returns a copy of every recorded message in send order.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Reset discards recorded messages.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.messages = nil
	r.mu.Unlock()
}

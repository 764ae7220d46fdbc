// Package events publishes domain events. Publishing is best effort: callers
// log failures and carry on.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types, used as AMQP routing keys.
const (
	MemberRegistered       = "member.registered"
	PasswordResetRequested = "member.password_reset_requested"
	PasswordChanged        = "member.password_changed"
	BodyAnalysisCompleted  = "analysis.body.completed"
	DietPlanCompleted      = "analysis.diet.completed"
	CoachPlanCompleted     = "analysis.coach.completed"
	MembershipCancelled    = "membership.cancelled"
	MembershipPlanChanged  = "membership.plan_changed"
)

type Event struct {
	Type       string            `json:"type"`
	UserID     string            `json:"userId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Data       map[string]string `json:"data,omitempty"`
}

// Data keys whose values must never reach a log.
var secretKeys = map[string]bool{
	"token": true,
}

const redacted = "[REDACTED]"

// Redacted returns a copy of Data with secret values masked.
func (e Event) Redacted() map[string]string {
	if len(e.Data) == 0 {
		return e.Data
	}
	out := make(map[string]string, len(e.Data))
	for k, v := range e.Data {
		if secretKeys[k] {
			v = redacted
		}
		out[k] = v
	}
	return out
}

// New stamps an event with the current time.
func New(eventType, userID string, data map[string]string) Event {
	return Event{Type: eventType, UserID: userID, OccurredAt: time.Now().UTC(), Data: data}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// LogPublisher writes events to the log instead of a broker. Secret data
// values are masked.
type LogPublisher struct {
	log zerolog.Logger
}

func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{log: log.With().Str("component", "events").Logger()}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) error {
	p.log.Info().
		Str("event", event.Type).
		Str("user_id", event.UserID).
		Interface("data", event.Redacted()).
		Msg("event published")
	return nil
}

func (p *LogPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Recorder) Close() error { return nil }

// Events returns a copy of what has been published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType filters the recorded events.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
)

// --- Error Definitions ---
var (
	ErrNoSession         = errors.New("no active session")
	ErrPremiumRequired   = errors.New("premium membership required")
	ErrProfileIncomplete = errors.New("complete your physical info and goals first")
	ErrAnalysisRequired  = errors.New("body analysis required")
	ErrProgramNotFound   = errors.New("workout program not found")
	ErrResultNotFound    = errors.New("no result has been generated yet")
	ErrTrialUsed         = errors.New("free analysis has already been used on this device")
	ErrForbiddenObject   = errors.New("object does not belong to this member")
	ErrInvalidPlan       = errors.New("unknown membership plan")
)

// View names the screen a client must render for a page request.
type View string

const (
	ViewPremiumUpsell    View = "premium-upsell"
	ViewProfileRequired  View = "profile-required"
	ViewAnalysisRequired View = "analysis-required"
	ViewUploadForm       View = "upload-form"
	ViewReady            View = "ready"
	ViewResult           View = "result"
	ViewProgram          View = "program"
	ViewDashboard        View = "dashboard"
	ViewMembership       View = "membership"
)

// Action is the call to action attached to a prerequisite view.
type Action struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

type PageView struct {
	View    View    `json:"view"`
	Message string  `json:"message,omitempty"`
	Action  *Action `json:"action,omitempty"`
	Data    any     `json:"data,omitempty"`
}

// Saved results carry the save state; generation still succeeds when the
// write fails.
const (
	MsgAnalysisSaved = "Analysis complete and saved!"
	MsgAnalysisDone  = "Analysis complete!"
)

func completionMessage(saved bool) string {
	if saved {
		return MsgAnalysisSaved
	}
	return MsgAnalysisDone
}

func premiumUpsellView() *PageView {
	return &PageView{
		View:    ViewPremiumUpsell,
		Message: "This feature is available on Premium and AI Plus plans",
		Action:  &Action{Label: "Upgrade membership", Path: "/membership"},
	}
}

func profileRequiredView() *PageView {
	return &PageView{
		View:    ViewProfileRequired,
		Message: "Complete your physical info and goals to continue",
		Action:  &Action{Label: "Complete profile", Path: "/profile"},
	}
}

// checkPremiumProfile applies the premium and complete-profile prerequisites
// in that order.
func checkPremiumProfile(user *domain.User) error {
	if user == nil {
		return ErrNoSession
	}
	if !user.HasPremiumAccess() {
		return ErrPremiumRequired
	}
	if !user.HasCompleteProfile() {
		return ErrProfileIncomplete
	}
	return nil
}

// resetSet marks users who asked to start a feature over. Their current
// document is kept until the next generation overwrites it.
type resetSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newResetSet() *resetSet {
	return &resetSet{ids: make(map[string]struct{})}
}

func (r *resetSet) mark(id string) {
	r.mu.Lock()
	r.ids[id] = struct{}{}
	r.mu.Unlock()
}

func (r *resetSet) clear(id string) {
	r.mu.Lock()
	delete(r.ids, id)
	r.mu.Unlock()
}

func (r *resetSet) has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.ids[id]
	return ok
}

func publish(ctx context.Context, pub events.Publisher, log zerolog.Logger, e events.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn().Err(err).Str("event", e.Type).Msg("failed to publish event")
	}
}

// Clock is injected where tests need a fixed time.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

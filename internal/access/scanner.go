package access

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"alcyxob/fitclub/internal/domain"
)

const (
	MsgUnreadable = "QR code could not be read"
	MsgInvalid    = "Invalid QR code format"
	MsgExpired    = "Membership expired! Please renew."
	MsgWelcome    = "Entry successful! Welcome."
)

// MemberDirectory resolves the name shown at the turnstile.
type MemberDirectory interface {
	MemberName(userID string) string
}

// StubDirectory is a fixed name table; unknown ids get "Unknown Member".
type StubDirectory map[string]string

// DefaultDirectory is the table the entry scanner ships with. It is not a
// member lookup.
var DefaultDirectory = StubDirectory{
	"1": "Fitness Admin",
	"2": "Ahmet Yılmaz",
}

func (d StubDirectory) MemberName(userID string) string {
	if name, ok := d[userID]; ok {
		return name
	}
	return "Unknown Member"
}

type ScanResult struct {
	Allowed    bool      `json:"allowed"`
	Message    string    `json:"message"`
	MemberName string    `json:"memberName,omitempty"`
	PlanName   string    `json:"planName,omitempty"`
	Expiry     time.Time `json:"expiry,omitempty"`
}

type Scanner struct {
	directory MemberDirectory
	now       func() time.Time
}

func NewScanner(directory MemberDirectory, now func() time.Time) *Scanner {
	if directory == nil {
		directory = DefaultDirectory
	}
	if now == nil {
		now = time.Now
	}
	return &Scanner{directory: directory, now: now}
}

// Scan checks a decoded payload. Fields may hold any JSON value: each one
// only has to be present and non-empty, and the expiry must be a number of
// epoch millis (or a numeric string). Expiry is checked before the plan, so
// an expired payload is rejected whatever its plan.
func (s *Scanner) Scan(raw string) ScanResult {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil || decoded == nil {
		return ScanResult{Message: MsgUnreadable}
	}
	fields, ok := decoded.(map[string]any)
	if !ok {
		return ScanResult{Message: MsgInvalid}
	}
	userID, plan := fields["userId"], fields["membershipPlan"]
	if !truthy(userID) || !truthy(plan) || !truthy(fields["expiry"]) {
		return ScanResult{Message: MsgInvalid}
	}
	expiryMillis, ok := millis(fields["expiry"])
	if !ok {
		return ScanResult{Message: MsgInvalid}
	}

	expiry := time.UnixMilli(expiryMillis).UTC()
	if s.now().UnixMilli() > expiryMillis {
		return ScanResult{Message: MsgExpired, Expiry: expiry}
	}
	return ScanResult{
		Allowed:    true,
		Message:    MsgWelcome,
		MemberName: s.directory.MemberName(text(userID)),
		PlanName:   domain.PlanDisplayName(domain.MembershipPlan(text(plan))),
		Expiry:     expiry,
	}
}

// truthy treats null, false, 0 and "" as missing.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	}
	return true
}

func millis(v any) (int64, bool) {
	switch t := v.(type) {
	case float64:
		return int64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}

// text renders a JSON scalar the way it was written, so 1 and "1" match.
func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

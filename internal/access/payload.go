// Package access builds and checks the gym-entry QR payload.
package access

import (
	"encoding/json"
	"time"

	"alcyxob/fitclub/internal/domain"
)

// Payload is the JSON embedded in the entry QR code. Times are epoch millis.
type Payload struct {
	UserID         string `json:"userId"`
	MembershipPlan string `json:"membershipPlan"`
	Timestamp      int64  `json:"timestamp,omitempty"`
	Expiry         int64  `json:"expiry"`
}

func NewPayload(u *domain.User, now time.Time) Payload {
	return Payload{
		UserID:         u.ID,
		MembershipPlan: string(u.MembershipPlan),
		Timestamp:      now.UnixMilli(),
		Expiry:         u.MembershipExpiry.UnixMilli(),
	}
}

func (p Payload) JSON() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

package access_test

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/access"
	"alcyxob/fitclub/internal/domain"
)

var now = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func member(id string, plan domain.MembershipPlan, expiry time.Time) *domain.User {
	return &domain.User{ID: id, Name: "Member", MembershipPlan: plan, MembershipExpiry: expiry}
}

func TestNewPayload(t *testing.T) {
	u := member("2", domain.PlanPremium, now.Add(24*time.Hour))
	p := access.NewPayload(u, now)

	assert.Equal(t, "2", p.UserID)
	assert.Equal(t, "premium", p.MembershipPlan)
	assert.Equal(t, now.UnixMilli(), p.Timestamp)
	assert.Equal(t, now.Add(24*time.Hour).UnixMilli(), p.Expiry)

	s, err := p.JSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"userId":"2","membershipPlan":"premium","timestamp":1718010000000,"expiry":1718096400000}`, s)
}

func TestScan_Welcome(t *testing.T) {
	scanner := access.NewScanner(access.DefaultDirectory, clock)
	raw, err := access.NewPayload(member("2", domain.PlanAIPlus, now.Add(time.Hour)), now).JSON()
	require.NoError(t, err)

	res := scanner.Scan(raw)
	assert.True(t, res.Allowed)
	assert.Equal(t, access.MsgWelcome, res.Message)
	assert.Equal(t, "Ahmet Yılmaz", res.MemberName)
	assert.Equal(t, "AI Plus", res.PlanName)
}

func TestScan_UnknownMemberStillEnters(t *testing.T) {
	scanner := access.NewScanner(nil, clock)
	raw, _ := access.NewPayload(member("uid-xyz", domain.PlanBasic, now.Add(time.Hour)), now).JSON()

	res := scanner.Scan(raw)
	assert.True(t, res.Allowed)
	assert.Equal(t, "Unknown Member", res.MemberName)
	assert.Equal(t, "Basic", res.PlanName)
}

func TestScan_ExpiredRejectedRegardlessOfPlan(t *testing.T) {
	scanner := access.NewScanner(access.DefaultDirectory, clock)
	for _, plan := range []domain.MembershipPlan{domain.PlanBasic, domain.PlanPremium, domain.PlanAIPlus} {
		raw, _ := access.NewPayload(member("1", plan, now.Add(-time.Millisecond)), now).JSON()
		res := scanner.Scan(raw)
		assert.False(t, res.Allowed, plan)
		assert.Equal(t, access.MsgExpired, res.Message, plan)
		assert.Empty(t, res.MemberName, plan)
	}
}

func TestScan_ExpiryEqualToNowIsAccepted(t *testing.T) {
	scanner := access.NewScanner(access.DefaultDirectory, clock)
	raw, _ := access.NewPayload(member("1", domain.PlanBasic, now), now).JSON()
	assert.True(t, scanner.Scan(raw).Allowed)
}

func TestScan_InvalidAndUnreadable(t *testing.T) {
	scanner := access.NewScanner(access.DefaultDirectory, clock)

	tests := []struct {
		name string
		raw  string
		msg  string
	}{
		{"not json", "hello", access.MsgUnreadable},
		{"empty", "", access.MsgUnreadable},
		{"missing user", `{"membershipPlan":"basic","expiry":1}`, access.MsgInvalid},
		{"missing plan", `{"userId":"1","expiry":1}`, access.MsgInvalid},
		{"missing expiry", `{"userId":"1","membershipPlan":"basic"}`, access.MsgInvalid},
		{"empty object", `{}`, access.MsgInvalid},
		{"zero expiry", `{"userId":"1","membershipPlan":"basic","expiry":0}`, access.MsgInvalid},
		{"non-numeric expiry", `{"userId":"1","membershipPlan":"basic","expiry":"soon"}`, access.MsgInvalid},
		{"not an object", `[1,2]`, access.MsgInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := scanner.Scan(tt.raw)
			assert.False(t, res.Allowed)
			assert.Equal(t, tt.msg, res.Message)
		})
	}
}

func TestScan_LooselyTypedPayload(t *testing.T) {
	scanner := access.NewScanner(access.DefaultDirectory, clock)
	past := now.Add(-time.Hour).UnixMilli()
	future := now.Add(time.Hour).UnixMilli()

	res := scanner.Scan(fmt.Sprintf(`{"userId":1,"membershipPlan":"basic","expiry":%d}`, past))
	assert.False(t, res.Allowed)
	assert.Equal(t, access.MsgExpired, res.Message)

	res = scanner.Scan(fmt.Sprintf(`{"userId":"1","membershipPlan":true,"expiry":%d}`, past))
	assert.Equal(t, access.MsgExpired, res.Message)

	res = scanner.Scan(fmt.Sprintf(`{"userId":2,"membershipPlan":"premium","expiry":%d}`, future))
	assert.True(t, res.Allowed)
	assert.Equal(t, "Ahmet Yılmaz", res.MemberName)
	assert.Equal(t, "Premium", res.PlanName)

	res = scanner.Scan(fmt.Sprintf(`{"userId":"1","membershipPlan":"basic","expiry":"%d"}`, future))
	assert.True(t, res.Allowed)
	assert.Equal(t, "Fitness Admin", res.MemberName)
}

func TestQR_EncodeDecodeRoundTrip(t *testing.T) {
	p := access.NewPayload(member("1", domain.PlanPremium, now.Add(72*time.Hour)), now)

	png, err := access.EncodePNG(p, 256)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	text, err := access.DecodePNG(png)
	require.NoError(t, err)

	want, _ := p.JSON()
	assert.Equal(t, want, text)

	res := access.NewScanner(access.DefaultDirectory, clock).Scan(text)
	assert.True(t, res.Allowed)
	assert.Equal(t, "Fitness Admin", res.MemberName)
}

func TestDecodeImage_NotAnImage(t *testing.T) {
	_, err := access.DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

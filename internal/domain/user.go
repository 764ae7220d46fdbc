package domain

import (
	"strings"
	"time"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// DefaultTrialPeriod is the membership expiry granted to a freshly created document.
const DefaultTrialPeriod = 7 * 24 * time.Hour

// PhysicalInfo holds body measurements entered on the profile page.
type PhysicalInfo struct {
	Age    int     `bson:"age" json:"age"`
	Height int     `bson:"height" json:"height"` // cm
	Weight float64 `bson:"weight" json:"weight"` // kg
	Gender Gender  `bson:"gender" json:"gender"`
}

type Goals struct {
	PrimaryGoal   string   `bson:"primaryGoal" json:"primaryGoal"`
	TargetBodyFat *float64 `bson:"targetBodyFat,omitempty" json:"targetBodyFat,omitempty"`
	TargetWeight  *float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
}

type NutritionProfile struct {
	Preferences  string `bson:"preferences" json:"preferences"`
	Avoidances   string `bson:"avoidances" json:"avoidances"`
	Allergies    string `bson:"allergies" json:"allergies"`
	DailyRoutine string `bson:"dailyRoutine" json:"dailyRoutine"`
}

// User is the member document keyed by the identity provider's uid.
// Merged with an authenticated principal it is the Session User.
type User struct {
	ID               string            `bson:"_id" json:"id"`
	Name             string            `bson:"name" json:"name"`
	Email            string            `bson:"email" json:"email"`
	Role             Role              `bson:"role" json:"role"`
	MembershipPlan   MembershipPlan    `bson:"membershipPlan" json:"membershipPlan"`
	MembershipExpiry time.Time         `bson:"membershipExpiry" json:"membershipExpiry"`
	Avatar           string            `bson:"avatar,omitempty" json:"avatar,omitempty"`
	PhysicalInfo     *PhysicalInfo     `bson:"physicalInfo" json:"physicalInfo"`
	Goals            *Goals            `bson:"goals" json:"goals"`
	NutritionProfile *NutritionProfile `bson:"nutritionProfile" json:"nutritionProfile"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// NewMemberDocument builds the default document written on registration and
// on first social login.
func NewMemberDocument(uid, name, email string, now time.Time, trial time.Duration) *User {
	if trial <= 0 {
		trial = DefaultTrialPeriod
	}
	return &User{
		ID:               uid,
		Name:             name,
		Email:            email,
		Role:             RoleMember,
		MembershipPlan:   PlanBasic,
		MembershipExpiry: now.Add(trial),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// HasCompleteProfile reports whether physical info and goals are filled in.
func (u *User) HasCompleteProfile() bool {
	if u == nil || u.PhysicalInfo == nil || u.Goals == nil {
		return false
	}
	p := u.PhysicalInfo
	if p.Age <= 0 || p.Height <= 0 || p.Weight <= 0 {
		return false
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return false
	}
	return strings.TrimSpace(u.Goals.PrimaryGoal) != ""
}

// Clone returns a deep copy so callers can hand the value out without sharing state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.PhysicalInfo != nil {
		p := *u.PhysicalInfo
		c.PhysicalInfo = &p
	}
	if u.Goals != nil {
		g := *u.Goals
		g.TargetBodyFat = cloneFloat(u.Goals.TargetBodyFat)
		g.TargetWeight = cloneFloat(u.Goals.TargetWeight)
		c.Goals = &g
	}
	if u.NutritionProfile != nil {
		n := *u.NutritionProfile
		c.NutritionProfile = &n
	}
	return &c
}

// ProfileUpdate is a partial update. Nil fields are left untouched; set
// fields replace the stored sub-document wholesale.
type ProfileUpdate struct {
	Name             *string           `json:"name,omitempty"`
	Avatar           *string           `json:"avatar,omitempty"`
	PhysicalInfo     *PhysicalInfo     `json:"physicalInfo,omitempty"`
	Goals            *Goals            `json:"goals,omitempty"`
	NutritionProfile *NutritionProfile `json:"nutritionProfile,omitempty"`
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Avatar == nil && p.PhysicalInfo == nil && p.Goals == nil && p.NutritionProfile == nil
}

// Apply merges the update into u.
func (u *User) Apply(p ProfileUpdate) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.PhysicalInfo != nil {
		v := *p.PhysicalInfo
		u.PhysicalInfo = &v
	}
	if p.Goals != nil {
		v := *p.Goals
		v.TargetBodyFat = cloneFloat(p.Goals.TargetBodyFat)
		v.TargetWeight = cloneFloat(p.Goals.TargetWeight)
		u.Goals = &v
	}
	if p.NutritionProfile != nil {
		v := *p.NutritionProfile
		u.NutritionProfile = &v
	}
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Credential is the identity provider's record for a principal. It lives apart
// from the member document, so a principal can exist without a document.
type Credential struct {
	UID            string     `bson:"_id" json:"uid"`
	Email          string     `bson:"email" json:"email"`
	DisplayName    string     `bson:"displayName" json:"displayName"`
	Provider       string     `bson:"provider" json:"provider"` // "password" or "google.com"
	PasswordHash   string     `bson:"passwordHash,omitempty" json:"-"`
	ResetTokenHash string     `bson:"resetTokenHash,omitempty" json:"-"`
	ResetExpiresAt *time.Time `bson:"resetExpiresAt,omitempty" json:"-"`
	CreatedAt      time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time  `bson:"updatedAt" json:"updatedAt"`
}

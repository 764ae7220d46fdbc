package service_test

import (
	"time"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/repository"
	"alcyxob/fitclub/internal/repository/memory"
	"alcyxob/fitclub/internal/service"
)

var fixedNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() service.Clock {
	return func() time.Time { return fixedNow }
}

// memStore keeps typed handles on the current-document repositories so tests
// can make writes fail.
type memStore struct {
	*repository.Store
	analyses *memory.CurrentDocumentRepository[domain.BodyAnalysisRecord]
	programs *memory.CurrentDocumentRepository[domain.WorkoutProgram]
	diets    *memory.CurrentDocumentRepository[domain.DietPlanRecord]
	coach    *memory.CurrentDocumentRepository[domain.CoachPlanRecord]
}

func newMemStore() *memStore {
	s := &memStore{
		analyses: memory.NewCurrentDocumentRepository[domain.BodyAnalysisRecord](),
		programs: memory.NewCurrentDocumentRepository[domain.WorkoutProgram](),
		diets:    memory.NewCurrentDocumentRepository[domain.DietPlanRecord](),
		coach:    memory.NewCurrentDocumentRepository[domain.CoachPlanRecord](),
	}
	s.Store = &repository.Store{
		Users:          memory.NewUserRepository(),
		Credentials:    memory.NewCredentialRepository(),
		BodyAnalyses:   s.analyses,
		WorkoutProgram: s.programs,
		DietPlans:      s.diets,
		CoachPlans:     s.coach,
		Progress:       memory.NewProgressRepository(),
	}
	return s
}

func newMember(id string, plan domain.MembershipPlan, complete bool) *domain.User {
	u := domain.NewMemberDocument(id, "Ada Lovelace", id+"@example.com", fixedNow, 30*24*time.Hour)
	u.MembershipPlan = plan
	if complete {
		u.PhysicalInfo = &domain.PhysicalInfo{Age: 30, Height: 170, Weight: 65, Gender: domain.GenderFemale}
		u.Goals = &domain.Goals{PrimaryGoal: "Lose weight"}
	}
	return u
}

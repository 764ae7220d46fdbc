package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/events"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/service"
)

func goodPhoto(angle domain.PhotoAngle) domain.FileInfo {
	return domain.FileInfo{ObjectKey: "photos/" + string(angle), FileName: string(angle) + ".jpg", ContentType: "image/jpeg", Size: 200_000}
}

func newAnalysisService(store *memStore, rec *events.Recorder, random float64) service.AnalysisService {
	if rec == nil {
		rec = &events.Recorder{}
	}
	return service.NewAnalysisService(service.AnalysisConfig{
		Store:     store.Store,
		Generator: generator.NewBodyAnalysisGenerator(generator.Options{Random: func() float64 { return random }, Now: fixedClock()}),
		Events:    rec,
		Random:    func() float64 { return random },
		Logger:    zerolog.Nop(),
		Now:       fixedClock(),
	})
}

func stageAll(t *testing.T, svc service.AnalysisService, user *domain.User) {
	t.Helper()
	for _, angle := range domain.PhotoAngles {
		check, err := svc.StagePhoto(context.Background(), user, angle, goodPhoto(angle))
		require.NoError(t, err)
		require.True(t, check.Valid)
	}
}

func firstExercise(t *testing.T, p *domain.WorkoutProgram) (int, domain.Exercise) {
	t.Helper()
	for i, d := range p.Days {
		if len(d.Exercises) > 0 {
			return i, d.Exercises[0]
		}
	}
	t.Fatal("program has no exercises")
	return 0, domain.Exercise{}
}

func TestWorkoutPage_RequiresAnalysis(t *testing.T) {
	store := newMemStore()
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)

	view, err := workouts.Page(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewAnalysisRequired, view.View)
	require.NotNil(t, view.Action)
	assert.Equal(t, "/body-analysis", view.Action.Path)

	_, err = workouts.ToggleExercise(context.Background(), user, 0, "x")
	assert.ErrorIs(t, err, service.ErrAnalysisRequired)
}

func TestAnalyze_SavesAnalysisAndProgram(t *testing.T) {
	store := newMemStore()
	rec := &events.Recorder{}
	analysis := newAnalysisService(store, rec, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	outcome, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)
	assert.True(t, outcome.Saved)
	assert.Equal(t, service.MsgAnalysisSaved, outcome.Message)
	require.NotNil(t, outcome.Program)
	assert.Len(t, outcome.Program.Days, 7)

	view, err := analysis.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewResult, view.View)

	page, err := workouts.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewProgram, page.View)
	data, ok := page.Data.(service.WorkoutPage)
	require.True(t, ok)
	assert.Equal(t, 0, data.TodayIndex)
	assert.Len(t, data.Program.Days, 7)

	assert.Len(t, rec.OfType(events.BodyAnalysisCompleted), 1)
}

func TestAnalyze_MissingPhotos(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	user := newMember("u1", domain.PlanBasic, false)

	_, err := analysis.StagePhoto(context.Background(), user, domain.AngleFront, goodPhoto(domain.AngleFront))
	require.NoError(t, err)

	_, err = analysis.Analyze(context.Background(), user)
	var verr *generator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Missing right photo", "Missing left photo"}, verr.Issues)
}

func TestStagePhoto_Rejected(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.1)
	user := newMember("u1", domain.PlanBasic, false)

	check, err := analysis.StagePhoto(context.Background(), user, domain.AngleFront, goodPhoto(domain.AngleFront))
	var verr *generator.ValidationError
	require.ErrorAs(t, err, &verr)
	require.NotNil(t, check)
	assert.False(t, check.Valid)
	assert.Len(t, check.Issues, 1)

	_, err = analysis.StagePhoto(context.Background(), user, domain.PhotoAngle("back"), goodPhoto(domain.AngleFront))
	assert.ErrorAs(t, err, &verr)
}

func TestAnalyze_AnalysisWriteFailureDegradesSilently(t *testing.T) {
	store := newMemStore()
	store.analyses.FailPut = errors.New("disk full")
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)

	stageAll(t, analysis, user)
	outcome, err := analysis.Analyze(context.Background(), user)
	require.NoError(t, err)
	assert.False(t, outcome.Saved)
	assert.Equal(t, service.MsgAnalysisDone, outcome.Message)
	assert.NotEmpty(t, outcome.Result.FocusAreas)

	view, err := workouts.Page(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewAnalysisRequired, view.View)
}

func TestWorkoutPage_ReadFailureShowsAnalysisPrompt(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	_, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)

	store.analyses.FailGet = errors.New("store unavailable")
	view, err := workouts.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewAnalysisRequired, view.View)
	require.NotNil(t, view.Action)
	assert.Equal(t, "/body-analysis", view.Action.Path)

	store.analyses.FailGet = nil
	store.programs.FailGet = errors.New("store unavailable")
	view, err = workouts.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewAnalysisRequired, view.View)
}

func TestWorkoutPage_RederivesMissingProgram(t *testing.T) {
	store := newMemStore()
	store.programs.FailPut = errors.New("timeout")
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	outcome, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)
	assert.False(t, outcome.Saved)

	store.programs.FailPut = nil
	view, err := workouts.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewProgram, view.View)

	stored, err := store.programs.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Days, 7)
}

func TestToggleExercise(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	outcome, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)
	day, ex := firstExercise(t, outcome.Program)

	update, err := workouts.ToggleExercise(ctx, user, day, ex.ID)
	require.NoError(t, err)
	assert.True(t, update.Saved)
	assert.True(t, update.Exercise.Completed)
	assert.Equal(t, ex.Name+" completed!", update.Message)

	stored, err := store.programs.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Days[day].Exercises[0].Completed)

	update, err = workouts.ToggleExercise(ctx, user, day, ex.ID)
	require.NoError(t, err)
	assert.False(t, update.Exercise.Completed)
	assert.Equal(t, ex.Name+" marked as not completed", update.Message)

	_, err = workouts.ToggleExercise(ctx, user, 9, ex.ID)
	assert.ErrorIs(t, err, domain.ErrDayOutOfRange)
	_, err = workouts.ToggleExercise(ctx, user, day, "nope")
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)
}

func TestSaveNotes_WriteFailureReported(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	outcome, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)
	day, ex := firstExercise(t, outcome.Program)

	store.programs.FailPut = errors.New("unavailable")
	update, err := workouts.SaveNotes(ctx, user, day, ex.ID, "felt strong")
	require.NoError(t, err)
	assert.False(t, update.Saved)
	assert.Equal(t, "felt strong", update.Exercise.Notes)
}

func TestWorkoutExportPDF(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	workouts := service.NewWorkoutService(store.Store, zerolog.Nop(), fixedClock())
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	var buf bytes.Buffer
	assert.ErrorIs(t, workouts.ExportPDF(ctx, user, &buf), service.ErrAnalysisRequired)

	stageAll(t, analysis, user)
	_, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)

	require.NoError(t, workouts.ExportPDF(ctx, user, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	assert.Contains(t, workouts.PDFFileName(user), ".pdf")
}

func TestAnalysisReset(t *testing.T) {
	store := newMemStore()
	analysis := newAnalysisService(store, nil, 0.9)
	user := newMember("u1", domain.PlanBasic, false)
	ctx := context.Background()

	stageAll(t, analysis, user)
	_, err := analysis.Analyze(ctx, user)
	require.NoError(t, err)

	view, err := analysis.Reset(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewUploadForm, view.View)

	view, err = analysis.Page(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, service.ViewUploadForm, view.View)

	_, err = store.analyses.Get(ctx, user.ID)
	assert.NoError(t, err)
}

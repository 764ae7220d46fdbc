package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
)

func fixed(v float64) generator.RandomFunc {
	return func() float64 { return v }
}

func photo(size int64) domain.FileInfo {
	return domain.FileInfo{ObjectKey: "k", FileName: "p.jpg", ContentType: "image/jpeg", Size: size}
}

func TestValidateBodyPhoto_SizeLimits(t *testing.T) {
	ok := generator.ValidateBodyPhoto(domain.AngleFront, photo(generator.MinBodyPhotoBytes), fixed(0.9))
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Issues)

	small := generator.ValidateBodyPhoto(domain.AngleFront, photo(generator.MinBodyPhotoBytes-1), fixed(0.9))
	assert.False(t, small.Valid)
	assert.Contains(t, small.Issues, "Image resolution is too low")

	atMax := generator.ValidateBodyPhoto(domain.AngleFront, photo(generator.MaxBodyPhotoBytes), fixed(0.9))
	assert.True(t, atMax.Valid)

	large := generator.ValidateBodyPhoto(domain.AngleFront, photo(generator.MaxBodyPhotoBytes+1), fixed(0.9))
	assert.False(t, large.Valid)
	assert.Contains(t, large.Issues, "File size is too large (max 10MB)")
}

func TestValidateBodyPhoto_RejectsNonImage(t *testing.T) {
	f := photo(200_000)
	f.ContentType = "application/pdf"
	check := generator.ValidateBodyPhoto(domain.AngleLeft, f, fixed(0.9))
	assert.False(t, check.Valid)
	assert.Equal(t, domain.AngleLeft, check.Angle)
	assert.Contains(t, check.Issues, "File must be an image")
}

func TestValidateBodyPhoto_RandomQualityIssue(t *testing.T) {
	tests := []struct {
		draw  float64
		issue string
	}{
		{0.0, "Body is not fully visible, step back from the camera"},
		{0.29, "Body is not fully visible, step back from the camera"},
		{0.3, "Photo is blurry, hold the camera steady"},
		{0.5, "Insufficient lighting, move to a brighter spot"},
		{0.69, "Insufficient lighting, move to a brighter spot"},
	}
	for _, tt := range tests {
		check := generator.ValidateBodyPhoto(domain.AngleRight, photo(500_000), fixed(tt.draw))
		assert.False(t, check.Valid, "draw %v", tt.draw)
		assert.Equal(t, []string{tt.issue}, check.Issues, "draw %v", tt.draw)
	}

	check := generator.ValidateBodyPhoto(domain.AngleRight, photo(500_000), fixed(0.7))
	assert.True(t, check.Valid)
}

func TestBodyAnalysisGenerator_RequiresAllAngles(t *testing.T) {
	gen := generator.NewBodyAnalysisGenerator(generator.Options{})

	_, err := gen.Run(context.Background(), generator.BodyInput{Photos: map[domain.PhotoAngle]domain.FileInfo{
		domain.AngleFront: photo(500_000),
	}})
	var verr *generator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Missing right photo", "Missing left photo"}, verr.Issues)
}

func TestBodyAnalysisGenerator_FixedResult(t *testing.T) {
	gen := generator.NewBodyAnalysisGenerator(generator.Options{})
	res, err := gen.Run(context.Background(), generator.BodyInput{Photos: map[domain.PhotoAngle]domain.FileInfo{
		domain.AngleFront: photo(500_000),
		domain.AngleRight: photo(500_000),
		domain.AngleLeft:  photo(500_000),
	}})
	require.NoError(t, err)
	assert.Equal(t, 6, res.EstimatedTimeToGoalMonths)
	assert.Equal(t, []string{"Chest", "Abs", "Quadriceps", "Glutes"}, res.FocusAreas)
	assert.NotEmpty(t, res.RecommendedWorkoutSplit)
}

func TestGenerator_DelayHonoursContext(t *testing.T) {
	gen := generator.NewBodyAnalysisGenerator(generator.Options{Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Run(ctx, generator.BodyInput{Photos: map[domain.PhotoAngle]domain.FileInfo{
		domain.AngleFront: photo(500_000),
		domain.AngleRight: photo(500_000),
		domain.AngleLeft:  photo(500_000),
	}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWait(t *testing.T) {
	assert.NoError(t, generator.Wait(context.Background(), 0))
	assert.NoError(t, generator.Wait(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, generator.Wait(ctx, 0), context.Canceled)
	assert.ErrorIs(t, generator.Wait(ctx, time.Hour), context.Canceled)
}

func TestDeriveWorkoutProgram(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	p := generator.DeriveWorkoutProgram("uid-1", domain.BodyAnalysis{}, now)

	require.Len(t, p.Days, 7)
	assert.Equal(t, "uid-1", p.UserID)
	assert.True(t, p.BasedOnAnalysis)
	assert.Equal(t, now, p.CreatedAt)

	ids := map[string]bool{}
	for _, day := range p.Days {
		if len(day.Exercises) == 0 {
			assert.True(t, day.Completed, day.Day)
			assert.NotNil(t, day.Exercises, day.Day)
		} else {
			assert.False(t, day.Completed, day.Day)
		}
		for _, ex := range day.Exercises {
			assert.False(t, ids[ex.ID], "duplicate exercise id %s", ex.ID)
			ids[ex.ID] = true
		}
	}
	assert.Len(t, ids, 16)
	assert.Equal(t, "Monday", p.Days[0].Day)
	assert.Equal(t, "Sunday", p.Days[6].Day)
}

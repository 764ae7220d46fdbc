package generator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/generator"
)

func pdf(size int64) domain.FileInfo {
	return domain.FileInfo{ObjectKey: "k", FileName: "labs.pdf", ContentType: "application/pdf", Size: size}
}

func TestValidateBloodTestFile(t *testing.T) {
	assert.NoError(t, generator.ValidateBloodTestFile(pdf(1)))
	assert.NoError(t, generator.ValidateBloodTestFile(pdf(10*1024*1024)))

	var verr *generator.ValidationError
	err := generator.ValidateBloodTestFile(pdf(10*1024*1024 + 1))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"File size must be at most 10MB"}, verr.Issues)

	img := pdf(1000)
	img.ContentType = "image/png"
	err = generator.ValidateBloodTestFile(img)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Please upload a PDF file"}, verr.Issues)

	err = generator.ValidateBloodTestFile(pdf(0))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"File is empty"}, verr.Issues)
}

func TestSamplePanel_HighGlucose(t *testing.T) {
	panel := generator.SamplePanel()
	assert.Len(t, panel, 12)
	assert.True(t, generator.HighGlucose(panel))

	panel[0].Status = domain.LabNormal
	assert.False(t, generator.HighGlucose(panel))
}

func TestBloodTestGenerator_HighGlucosePlan(t *testing.T) {
	gen := generator.NewBloodTestGenerator(generator.Options{})
	res, err := gen.Run(context.Background(), generator.BloodTestInput{File: pdf(2048)})
	require.NoError(t, err)

	assert.Equal(t, 1750, res.Plan.DailyCalories)
	assert.Equal(t, domain.Macros{Protein: 28, Carbs: 40, Fat: 32}, res.Plan.Macros)
	assert.Len(t, res.Panel, 12)
	assert.Contains(t, res.Plan.Supplements, "Vitamin D3 (2000 IU/day)")
	assert.NotEmpty(t, res.Plan.MealPlan.Breakfast)
}

func TestBloodTestGenerator_RejectsBeforeDelay(t *testing.T) {
	gen := generator.NewBloodTestGenerator(generator.Options{})
	_, err := gen.Run(context.Background(), generator.BloodTestInput{File: pdf(11 * 1024 * 1024)})
	var verr *generator.ValidationError
	assert.ErrorAs(t, err, &verr)
}

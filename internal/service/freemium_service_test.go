package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alcyxob/fitclub/internal/domain"
	"alcyxob/fitclub/internal/freemium"
	"alcyxob/fitclub/internal/generator"
	"alcyxob/fitclub/internal/service"
)

func newFreemium() service.FreemiumService {
	return service.NewFreemiumService(freemium.NewMemoryLedger(), generator.NewFreemiumGenerator(generator.Options{}), zerolog.Nop())
}

func freemiumInput() generator.FreemiumInput {
	return generator.FreemiumInput{
		HeightCm: 170,
		WeightKg: 65,
		Photo:    domain.FileInfo{FileName: "me.jpg", ContentType: "image/jpeg", Size: 1 << 20},
	}
}

func TestFreemium_SingleUsePerDevice(t *testing.T) {
	svc := newFreemium()
	ctx := context.Background()

	used, err := svc.Status(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, used)

	res, err := svc.Analyze(ctx, "device-1", freemiumInput())
	require.NoError(t, err)
	assert.Equal(t, 22.5, res.BMI)

	used, err = svc.Status(ctx, "device-1")
	require.NoError(t, err)
	assert.True(t, used)

	_, err = svc.Analyze(ctx, "device-1", freemiumInput())
	assert.ErrorIs(t, err, service.ErrTrialUsed)

	_, err = svc.Analyze(ctx, "device-2", freemiumInput())
	assert.NoError(t, err)
}

func TestFreemium_RejectedInputKeepsTrial(t *testing.T) {
	svc := newFreemium()
	ctx := context.Background()

	in := freemiumInput()
	in.Photo.ContentType = "application/pdf"
	_, err := svc.Analyze(ctx, "device-1", in)
	var verr *generator.ValidationError
	require.ErrorAs(t, err, &verr)

	used, err := svc.Status(ctx, "device-1")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestFreemium_DeviceRequired(t *testing.T) {
	svc := newFreemium()
	var verr *generator.ValidationError

	_, err := svc.Status(context.Background(), "  ")
	assert.ErrorAs(t, err, &verr)
	_, err = svc.Analyze(context.Background(), "", freemiumInput())
	assert.ErrorAs(t, err, &verr)
}

func TestFreemium_BMI(t *testing.T) {
	svc := newFreemium()

	preview, err := svc.BMI(180, 81)
	require.NoError(t, err)
	assert.Equal(t, 25.0, preview.BMI)
	assert.Equal(t, generator.BMIOverweight, preview.Category)

	_, err = svc.BMI(0, 70)
	var verr *generator.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Please enter a valid height and weight"}, verr.Issues)
}

// Package generator produces the mocked analysis results. Nothing here runs a
// model: results are fixed templates with a few input-dependent numbers.
package generator

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// Generator is the seam a real inference backend would replace.
type Generator[I, R any] interface {
	Run(ctx context.Context, input I) (R, error)
}

// ValidationError carries every issue found; no result is produced.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Issues, "; ")
}

// RandomFunc returns a number in [0, 1).
type RandomFunc func() float64

// Options are shared by all generators.
type Options struct {
	// Delay simulates processing time.
	Delay  time.Duration
	Random RandomFunc
	Now    func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Random == nil {
		o.Random = rand.Float64
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Wait sleeps for d unless ctx ends first. A non-positive d only reports
// whether ctx is already done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

const (
	KiB = 1 << 10
	MiB = 1 << 20
)

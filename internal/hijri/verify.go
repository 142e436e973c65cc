package hijri

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/smokyabdulrahman/ramadan-times/internal/metrics"
)

// WindowSource returns the Ramadan window for a year and adjustment.
// *Fetcher satisfies it.
type WindowSource interface {
	Window(ctx context.Context, gregorianYear, adjustment int) (*Window, error)
}

// Verification is the outcome of one cross-check.
type Verification struct {
	GregorianYear int
	DatesMatch    bool
	Primary       *Window
	Secondary     *Window
	PrimaryErr    error
	SecondaryErr  error
}

// Err joins whatever errors downgraded the result.
func (v Verification) Err() error {
	return errors.Join(v.PrimaryErr, v.SecondaryErr)
}

// Verifier fetches Ramadan at the configured adjustment and at one day more.
type Verifier struct {
	source     WindowSource
	adjustment int
	log        zerolog.Logger
}

// NewVerifier creates a Verifier with adjustment as the primary offset.
func NewVerifier(src WindowSource, adjustment int, log zerolog.Logger) *Verifier {
	return &Verifier{source: src, adjustment: adjustment, log: log}
}

// Verify never fails. DatesMatch is true only when the primary window was
// fetched and has 29 or 30 days. A primary failure cancels the secondary
// fetch; a secondary failure is recorded and otherwise ignored.
func (v *Verifier) Verify(ctx context.Context, gregorianYear int) Verification {
	res := Verification{GregorianYear: gregorianYear}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Primary, res.PrimaryErr = v.source.Window(gctx, gregorianYear, v.adjustment)
		return res.PrimaryErr
	})
	g.Go(func() error {
		res.Secondary, res.SecondaryErr = v.source.Window(gctx, gregorianYear, v.adjustment+1)
		return nil
	})
	_ = g.Wait()

	if res.PrimaryErr == nil && res.Primary != nil {
		n := res.Primary.Len()
		res.DatesMatch = n == 29 || n == 30
	}

	ev := v.log.Info()
	if !res.DatesMatch {
		ev = v.log.Warn()
	}
	ev.Int("gregorian_year", gregorianYear).
		Int("primary_days", res.Primary.Len()).
		Int("secondary_days", res.Secondary.Len()).
		AnErr("primary_err", res.PrimaryErr).
		AnErr("secondary_err", res.SecondaryErr).
		Bool("dates_match", res.DatesMatch).
		Msg("ramadan verification")
	metrics.ObserveVerification(res.DatesMatch)

	return res
}

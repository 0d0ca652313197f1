// Package convert drives a raster-to-SVG conversion from input to display.
//
// A run resets the target surface, cancels the progress task left behind by
// the previous run, sets aside the surface transform while a placeholder is
// shown, acquires pixels, traces them with the strategy for the requested
// mode, restores the transform and finally presents the result. Errors from
// acquisition or tracing are returned unchanged and leave the placeholder in
// place; reporting them is up to the caller.
package convert

import (
	"context"
	_ "embed"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ironsheep/svgcode-mcp/internal/acquire"
	"github.com/ironsheep/svgcode-mcp/internal/display"
	"github.com/ironsheep/svgcode-mcp/internal/imaging"
	"github.com/ironsheep/svgcode-mcp/internal/task"
)

//go:embed spinner.svg
var spinnerSVG string

// Placeholder is the busy indicator shown while a run is in flight.
var Placeholder = strings.TrimSpace(spinnerSVG)

// Strategy traces a pixel buffer into SVG markup. A strategy may start a
// progress task through reg.
type Strategy interface {
	Convert(ctx context.Context, buf *imaging.PixelBuffer, reg task.Registrar) (string, error)
}

// Orchestrator runs conversions. Its fields are fixed at construction; the
// per-surface state lives in Session.
type Orchestrator struct {
	Acquirer   acquire.Acquirer
	Color      Strategy
	Monochrome Strategy
	Presenter  *Presenter
	Logger     zerolog.Logger
}

// Run converts the session's input with the strategy for mode and presents
// the result on the session's surface.
//
// Any mode other than display.ModeColor selects the monochrome strategy.
// Run returns a nil Result and nil error when the strategy produces no markup.
// It is safe to start a new Run on the same session while an earlier one is
// still converting; the earlier run's progress task is cancelled, its
// conversion is not.
func (o *Orchestrator) Run(ctx context.Context, sess *Session, mode display.Mode) (*Result, error) {
	strategy := o.Monochrome
	if mode == display.ModeColor {
		strategy = o.Color
	} else {
		mode = display.ModeMonochrome
	}

	log := o.Logger.With().
		Str("run_id", uuid.NewString()).
		Str("mode", string(mode)).
		Logger()
	surface := sess.Surface

	surface.SetContent("")
	surface.SetMode(display.ModeNone)

	if sess.CancelStale() {
		log.Debug().Msg("cancelled progress task of previous run")
	}

	transform := surface.Transform()
	if transform != "" {
		surface.SetTransform("")
	}

	surface.SetContent(Placeholder)

	start := time.Now()
	buf, err := o.Acquirer.Acquire(ctx, sess.Input())
	if err != nil {
		log.Debug().Err(err).Msg("acquire failed")
		return nil, err
	}
	log.Debug().
		Str("format", buf.Format).
		Int("width", buf.Width()).
		Int("height", buf.Height()).
		Dur("elapsed", time.Since(start)).
		Msg("acquired input")

	svg, err := strategy.Convert(ctx, buf, sess)
	if err != nil {
		log.Debug().Err(err).Msg("convert failed")
		return nil, err
	}

	if transform != "" {
		surface.SetTransform(transform)
	}

	res := o.Presenter.Present(svg, mode, surface)
	if res == nil {
		log.Info().Msg("conversion produced no markup")
		return nil, nil
	}

	log.Info().
		Int("size_bytes", res.SizeBytes).
		Dur("elapsed", time.Since(start)).
		Msg("conversion complete")
	return res, nil
}

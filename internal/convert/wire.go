package convert

import (
	"github.com/rs/zerolog"

	"github.com/ironsheep/svgcode-mcp/internal/acquire"
	"github.com/ironsheep/svgcode-mcp/internal/config"
	"github.com/ironsheep/svgcode-mcp/internal/i18n"
	"github.com/ironsheep/svgcode-mcp/internal/imaging"
	"github.com/ironsheep/svgcode-mcp/internal/notify"
	"github.com/ironsheep/svgcode-mcp/internal/trace"
)

// Options carries the collaborators that vary between the server and the CLI.
type Options struct {
	Notifier notify.Notifier
	Progress trace.ProgressFunc
	Logger   zerolog.Logger
	// Cache is shared by both acquisition strategies. Optional.
	Cache *imaging.ImageCache
}

// New builds an Orchestrator from configuration. The acquisition strategy is
// chosen here, once.
func New(cfg *config.Config, opts Options) *Orchestrator {
	cache := opts.Cache
	if cache == nil {
		cache = imaging.NewImageCache(cfg.Acquire.MaxDimension)
	}

	translator := i18n.New(cfg.I18n.Locale)
	opts.Logger.Debug().
		Str("locale", cfg.I18n.Locale).
		Str("language", translator.Language().String()).
		Msg("resolved message catalog")

	return &Orchestrator{
		Acquirer: acquire.Select(cfg.Acquire.Background,
			&acquire.Background{Cache: cache, MaxDimension: cfg.Acquire.MaxDimension},
			&acquire.Main{Cache: cache, MaxDimension: cfg.Acquire.MaxDimension},
		),
		Color: &trace.Color{
			Colors:   cfg.Trace.Colors,
			Interval: cfg.ProgressInterval(),
			Progress: opts.Progress,
		},
		Monochrome: &trace.Monochrome{
			Threshold:  uint8(cfg.Trace.Threshold),
			BlurRadius: cfg.Trace.BlurRadius,
		},
		Presenter: &Presenter{
			Notifier:   opts.Notifier,
			Translator: translator,
			Duration:   cfg.NotifyDuration(),
		},
		Logger: opts.Logger,
	}
}

package convert

import (
	"regexp"
	"time"

	"github.com/ironsheep/svgcode-mcp/internal/display"
	"github.com/ironsheep/svgcode-mcp/internal/i18n"
	"github.com/ironsheep/svgcode-mcp/internal/notify"
)

// DefaultNotifyDuration is how long the size notification stays visible.
const DefaultNotifyDuration = 3000 * time.Millisecond

var (
	widthAttr  = regexp.MustCompile(`\s+width="\d+(?:\.\d+)?"`)
	heightAttr = regexp.MustCompile(`\s+height="\d+(?:\.\d+)?"`)
)

// Result describes markup applied to a surface.
type Result struct {
	Mode      display.Mode `json:"mode"`
	SVG       string       `json:"svg"`
	SizeBytes int          `json:"size_bytes"`
	Size      string       `json:"size"`
	Transform string       `json:"transform,omitempty"`
}

// StripDimensions removes the first unitless width attribute and the first
// unitless height attribute, along with their leading whitespace. Container
// sizing is left to whoever displays the surface.
func StripDimensions(markup string) string {
	markup = replaceFirst(widthAttr, markup)
	return replaceFirst(heightAttr, markup)
}

func replaceFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

// Presenter applies finished markup to a surface and announces its size.
type Presenter struct {
	Notifier   notify.Notifier
	Translator i18n.Translator
	// Duration defaults to DefaultNotifyDuration.
	Duration time.Duration
}

// Present strips intrinsic dimensions from markup, tags s with mode, replaces
// its content and sends a "<SVG size>: <n KB>" notification.
//
// Empty markup is not an error: s is left untouched, nothing is sent and nil
// is returned.
func (p *Presenter) Present(markup string, mode display.Mode, s display.Surface) *Result {
	if markup == "" {
		return nil
	}

	cleaned := StripDimensions(markup)

	s.SetMode(display.ModeNone)
	s.SetMode(mode)
	s.SetContent(cleaned)

	size := FormatSize(len(cleaned))
	if p.Notifier != nil {
		label := i18n.KeySVGSize
		if p.Translator != nil {
			label = p.Translator.T(i18n.KeySVGSize)
		}
		d := p.Duration
		if d <= 0 {
			d = DefaultNotifyDuration
		}
		p.Notifier.Notify(label+": "+size, d)
	}

	return &Result{
		Mode:      mode,
		SVG:       cleaned,
		SizeBytes: len(cleaned),
		Size:      size,
		Transform: s.Transform(),
	}
}

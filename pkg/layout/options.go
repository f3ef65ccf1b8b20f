package layout

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Default box geometry in pixels.
const (
	DefaultWidth     = 176.0
	DefaultHeight    = 46.0
	DefaultGap       = 50.0
	DefaultFakeWidth = 20.0
)

// Rect sets the size of node boxes and the gap between them.
type Rect struct {
	Width     float64 `json:"width" toml:"width"`
	Height    float64 `json:"height" toml:"height"`
	Gap       float64 `json:"gap" toml:"gap"`
	FakeWidth float64 `json:"fake_width" toml:"fake_width"`
}

// Palette holds a value per line state.
type Palette struct {
	Primary  string `json:"primary" toml:"primary"`
	Hover    string `json:"hover" toml:"hover"`
	Disabled string `json:"disabled" toml:"disabled"`
}

// DefaultRect returns the default box geometry.
func DefaultRect() Rect {
	return Rect{Width: DefaultWidth, Height: DefaultHeight, Gap: DefaultGap, FakeWidth: DefaultFakeWidth}
}

// DefaultColors returns the default line colors.
func DefaultColors() Palette {
	return Palette{Primary: "#A5BFDD", Hover: "#2E89BA", Disabled: "#E5E5E5"}
}

// DefaultMarkers returns the default arrow marker ids.
func DefaultMarkers() Palette {
	return Palette{Primary: "marker-arrow", Hover: "marker-arrow--hover", Disabled: "marker-arrow--disabled"}
}

// StageFunc observes the completion of one layout stage.
type StageFunc func(stage string, elapsed time.Duration)

// Option configures an [Engine].
type Option func(*Engine)

// WithRect sets the box geometry. Zero fields keep their defaults.
func WithRect(r Rect) Option {
	return func(e *Engine) {
		if r.Width > 0 {
			e.rect.Width = r.Width
		}
		if r.Height > 0 {
			e.rect.Height = r.Height
		}
		if r.Gap > 0 {
			e.rect.Gap = r.Gap
		}
		if r.FakeWidth > 0 {
			e.rect.FakeWidth = r.FakeWidth
		}
	}
}

// WithColors sets the line colors. Empty fields keep their defaults.
func WithColors(p Palette) Option {
	return func(e *Engine) { e.colors = merge(e.colors, p) }
}

// WithMarkers sets the arrow marker ids. Empty fields keep their defaults.
func WithMarkers(p Palette) Option {
	return func(e *Engine) { e.markers = merge(e.markers, p) }
}

func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithStageFunc registers fn to be called after every stage of Init.
func WithStageFunc(fn StageFunc) Option { return func(e *Engine) { e.onStage = fn } }

func merge(base, p Palette) Palette {
	if p.Primary != "" {
		base.Primary = p.Primary
	}
	if p.Hover != "" {
		base.Hover = p.Hover
	}
	if p.Disabled != "" {
		base.Disabled = p.Disabled
	}
	return base
}

func discardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

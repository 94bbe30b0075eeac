package editor

import "log/slog"

const (
	defaultHandleRadius     = 5.0
	defaultHitTolerance     = 4.0
	defaultPasteOffset      = 10.0
	defaultMarqueeThreshold = 5.0
	defaultDirtyEpsilon     = 0.5
	defaultZoomStep         = 1.1
	defaultMinZoom          = 0.05
	defaultMaxZoom          = 64.0
)

type options struct {
	logger           *slog.Logger
	handleRadius     float64 // screen px
	hitTolerance     float64 // screen px
	pasteOffset      float64 // screen px
	marqueeThreshold float64 // screen px
	dirtyEpsilon     float64 // svg units
	zoomStep         float64
	minZoom          float64
	maxZoom          float64
}

func defaultOptions() options {
	return options{
		logger:           slog.Default(),
		handleRadius:     defaultHandleRadius,
		hitTolerance:     defaultHitTolerance,
		pasteOffset:      defaultPasteOffset,
		marqueeThreshold: defaultMarqueeThreshold,
		dirtyEpsilon:     defaultDirtyEpsilon,
		zoomStep:         defaultZoomStep,
		minZoom:          defaultMinZoom,
		maxZoom:          defaultMaxZoom,
	}
}

// Option configures an Editor.
type Option func(*options)

// WithLogger sets the logger used for debug tracing of gestures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHandleRadius sets the on-screen handle radius in pixels.
func WithHandleRadius(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.handleRadius = px
		}
	}
}

// WithHitTolerance sets the pixel slop used when hit-testing thin shapes.
func WithHitTolerance(px float64) Option {
	return func(o *options) {
		if px >= 0 {
			o.hitTolerance = px
		}
	}
}

// WithPasteOffset sets how far, in screen pixels, pasted copies are shifted.
func WithPasteOffset(px float64) Option {
	return func(o *options) { o.pasteOffset = px }
}

// WithMarqueeThreshold sets the drag distance, in screen pixels, below which
// a marquee gesture counts as a click.
func WithMarqueeThreshold(px float64) Option {
	return func(o *options) {
		if px >= 0 {
			o.marqueeThreshold = px
		}
	}
}

// WithDirtyEpsilon sets the net displacement, in SVG units, a drag must
// exceed to mark the document dirty.
func WithDirtyEpsilon(d float64) Option {
	return func(o *options) {
		if d >= 0 {
			o.dirtyEpsilon = d
		}
	}
}

// WithZoomStep sets the wheel zoom factor per notch.
func WithZoomStep(f float64) Option {
	return func(o *options) {
		if f > 1 {
			o.zoomStep = f
		}
	}
}

// WithZoomLimits bounds the zoom level reachable by wheel zooming.
func WithZoomLimits(minZoom, maxZoom float64) Option {
	return func(o *options) {
		if minZoom > 0 && maxZoom >= minZoom {
			o.minZoom, o.maxZoom = minZoom, maxZoom
		}
	}
}

// Package chart wires the core stages into a chart instance.
//
// A [Chart] holds the current inputs (data, accessors, axes, size, pointer
// and hover state) and recomputes a [Snapshot] on demand. Every stage is
// memoized on the revisions of its inputs, so a pointer move re-runs only
// focus resolution and a resize re-runs layout, axes, stacking and focus but
// not materialization:
//
//	data, accessors ─► materialize ─► resolve types ─┐
//	axes, size, padding ──────────────────────────────┴► layout ⇄ axes ─► stack ─► focus
//	pointer, hover, tooltip, cursors, brush ─────────────────────────────────────┘
//
// Axis footprints feed the layout and the layout sizes the axes, so the
// layout stage alternates between the two until the grid stops moving.
//
// A Chart is safe for concurrent use, but callbacks run on the goroutine
// that called [Chart.Snapshot].
package chart

import (
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/core/axis"
	"github.com/matzehuels/chartcore/pkg/core/focus"
	"github.com/matzehuels/chartcore/pkg/core/layout"
	"github.com/matzehuels/chartcore/pkg/core/materialize"
	"github.com/matzehuels/chartcore/pkg/core/memo"
	"github.com/matzehuels/chartcore/pkg/core/plot"
	"github.com/matzehuels/chartcore/pkg/core/seriestype"
	"github.com/matzehuels/chartcore/pkg/core/stack"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
)

// maxLayoutPasses bounds the layout ⇄ axes alternation.
const maxLayoutPasses = 4

// =============================================================================
// Stage Keys
// =============================================================================

type materializeKey struct {
	data      uint64
	accessors materialize.Key
}

type typesKey struct {
	materialized uint64
	selector     uint64
}

type geometryKey struct {
	typed         uint64
	axes          string
	width, height float64
	padding       layout.Padding
}

type stackKey struct {
	geometry  uint64
	groupMode stack.GroupMode
	colors    uint64
}

type focusKey struct {
	stacked uint64
	pointer uint64
	hover   uint64
	tooltip uint64
	cursors uint64
	brush   uint64
}

// geometry is the output of the layout stage.
type geometry struct {
	grid      layout.Grid
	primary   []*plot.Axis
	secondary []*plot.Axis
	passes    int
}

// focusState is the output of the focus stage.
type focusState struct {
	tooltip   *focus.Tooltip
	primary   *focus.Cursor
	secondary *focus.Cursor
	selection *focus.Selection
}

// =============================================================================
// Chart
// =============================================================================

// Chart is one chart instance.
type Chart struct {
	mu     sync.Mutex
	id     string
	opts   Options
	logger *log.Logger
	styles *plot.StyleCell

	pointer plot.Pointer
	hovered plot.Hovered
	// pointerMoved is set by SetPointer and cleared once callbacks fire.
	pointerMoved bool

	axesHash string

	// Input revisions. Each setter bumps the revision of what it changes.
	dataRev, selectorRev, colorsRev  uint64
	pointerRev, hoverRev, tooltipRev uint64
	cursorsRev, brushRev             uint64

	materialized memo.Stage[materializeKey, []*plot.Series]
	typed        memo.Stage[typesKey, []*plot.Series]
	geometry     memo.Stage[geometryKey, geometry]
	stacked      memo.Stage[stackKey, *stack.Result]
	focused      memo.Stage[focusKey, focusState]
}

// New validates opts and returns a chart. Nothing is computed until
// Snapshot is called.
func New(opts Options) (*Chart, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hash, err := hashAxes(opts.Axes)
	if err != nil {
		return nil, err
	}
	return &Chart{
		id:       uuid.NewString(),
		opts:     opts,
		logger:   opts.Logger,
		styles:   plot.NewStyleCell(opts.GetStyles, opts.GetDatumStyles),
		axesHash: hash,
	}, nil
}

// ID returns the instance id.
func (c *Chart) ID() string { return c.id }

// Options returns a copy of the current options.
func (c *Chart) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

func hashAxes(cfgs []axis.Config) (string, error) {
	h, err := cache.HashJSON(cfgs)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidAxis, err, "hash axis configuration")
	}
	return h, nil
}

// =============================================================================
// Setters
// =============================================================================

// SetData replaces the input data.
func (c *Chart) SetData(data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Data = data
	c.dataRev++
}

// SetAccessors replaces the accessor set. Materialization reruns only for
// accessors whose identity changed.
func (c *Chart) SetAccessors(acc materialize.Accessors) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Accessors = acc
}

// SetType replaces the series-type selector.
func (c *Chart) SetType(sel seriestype.Selector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Type = sel
	c.selectorRev++
}

// SetAxes replaces the axis configuration. Axes are rebuilt only when the
// new configuration differs in value from the current one.
func (c *Chart) SetAxes(cfgs []axis.Config) error {
	for _, cfg := range cfgs {
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	hash, err := hashAxes(cfgs)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Axes = cfgs
	c.axesHash = hash
	return nil
}

// SetGroupMode changes how datums are grouped.
func (c *Chart) SetGroupMode(mode stack.GroupMode) error {
	if err := errors.ValidateGroupMode(string(mode)); err != nil {
		return err
	}
	if mode == "" {
		mode = stack.GroupPrimary
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.GroupMode = mode
	return nil
}

// Resize changes the canvas size.
func (c *Chart) Resize(width, height float64) error {
	if err := errors.ValidateDimensions(width, height); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Width, c.opts.Height = width, height
	return nil
}

// SetPadding changes the padding around the grid.
func (c *Chart) SetPadding(p layout.Padding) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Padding = p
}

// SetPointer records a pointer update in grid-local pixels. Change
// callbacks fire on the next Snapshot.
func (c *Chart) SetPointer(p plot.Pointer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pointer = p
	c.pointerRev++
	c.pointerMoved = true
}

// SetHovered records the hover set reported by the capture layer.
func (c *Chart) SetHovered(h plot.Hovered) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovered = h
	c.hoverRev++
}

// SetStyles swaps the style callbacks. No stage is invalidated: the new
// callbacks are read the next time styles are built.
func (c *Chart) SetStyles(series, datum plot.StyleFunc) {
	c.styles.Set(series, datum)
}

// SetDefaultColors replaces the palette and rebuilds styles.
func (c *Chart) SetDefaultColors(colors []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.DefaultColors = colors
	c.colorsRev++
}

// SetTooltip replaces the tooltip options.
func (c *Chart) SetTooltip(opts focus.TooltipOptions) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Tooltip = opts
	c.tooltipRev++
	return nil
}

// SetCursor replaces the options of the primary or secondary cursor. Nil
// disables the cursor.
func (c *Chart) SetCursor(primary bool, opts *focus.CursorOptions) error {
	if opts != nil {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if primary {
		c.opts.PrimaryCursor = opts
	} else {
		c.opts.SecondaryCursor = opts
	}
	c.cursorsRev++
	return nil
}

// SetBrush enables or, with nil, disables brushing.
func (c *Chart) SetBrush(opts *focus.BrushOptions) error {
	if opts != nil {
		if err := opts.ValidateAndSetDefaults(); err != nil {
			return err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts.Brush = opts
	c.brushRev++
	return nil
}

// =============================================================================
// Recompute
// =============================================================================

// Snapshot runs every stage whose inputs changed and returns the resolved
// chart. When the pointer moved since the last snapshot the change
// callbacks fire before Snapshot returns.
func (c *Chart) Snapshot() (*Snapshot, error) {
	c.mu.Lock()
	snap, fire, err := c.snapshotLocked(nil)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if fire {
		c.notify(snap)
	}
	return snap, nil
}

// HoverAt moves the pointer and resolves the hover set from the plotted
// datums: the nearest defined datum within radius pixels, expanded to its
// group when grouping is active. It is the capture-layer substitute for
// callers that only have pointer coordinates.
func (c *Chart) HoverAt(p plot.Pointer, radius float64) (*Snapshot, error) {
	c.mu.Lock()
	c.pointer = p
	c.pointerRev++
	c.pointerMoved = true

	var recomputed []string
	res, _, err := c.upstream(&recomputed)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}
	var series []*plot.Series
	if res != nil {
		series = res.Series
	}
	c.hovered = focus.HoverAt(series, p, radius, c.opts.GroupMode.Grouped())
	c.hoverRev++

	snap, fire, err := c.snapshotLocked(recomputed)
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if fire {
		c.notify(snap)
	}
	return snap, nil
}

// snapshotLocked assembles a snapshot. recomputed carries stages already
// run for this snapshot.
func (c *Chart) snapshotLocked(recomputed []string) (*Snapshot, bool, error) {
	res, geo, err := c.upstream(&recomputed)
	if err != nil {
		return nil, false, err
	}

	snap := &Snapshot{
		ID:        c.id,
		Width:     c.opts.Width,
		Height:    c.opts.Height,
		Padding:   c.opts.Padding,
		GroupMode: c.opts.GroupMode,
		Pointer:   c.pointer,
		Hovered:   c.hovered,
	}
	if res == nil {
		snap.Empty = true
		snap.Grid = layout.Compute(c.opts.Width, c.opts.Height, layout.Sides{}, c.opts.Padding)
		snap.Recomputed = recomputed
		fire := c.pointerMoved
		c.pointerMoved = false
		return snap, fire, nil
	}

	fs, err := c.focusStage(geo, &recomputed)
	if err != nil {
		return nil, false, err
	}

	snap.Grid = geo.grid
	snap.LayoutPasses = geo.passes
	snap.Series = res.Series
	snap.Totals = res.Totals
	snap.PrimaryAxes = geo.primary
	snap.SecondaryAxes = geo.secondary
	snap.Tooltip = fs.tooltip
	snap.PrimaryCursor = fs.primary
	snap.SecondaryCursor = fs.secondary
	snap.Selection = fs.selection
	snap.Recomputed = recomputed

	fire := c.pointerMoved
	c.pointerMoved = false
	return snap, fire, nil
}

// upstream runs every stage up to stacking and appends the names of the
// stages that recomputed. A nil result is the no-data state.
func (c *Chart) upstream(recomputed *[]string) (*stack.Result, geometry, error) {
	track := func(stage string, start time.Time, ran bool, err error) {
		d := time.Since(start)
		observability.Chart().OnStage(stage, d, ran, err)
		if ran {
			*recomputed = append(*recomputed, stage)
			c.logger.Debug("recomputed stage", "chart", c.id, "stage", stage, "duration", d)
		}
		if err != nil {
			c.logger.Debug("stage failed", "chart", c.id, "stage", stage, "error", err)
		}
	}

	// Materialize
	start := time.Now()
	mk := materializeKey{data: c.dataRev, accessors: c.opts.Accessors.Key()}
	raw, ran, err := c.materialized.Get(mk, func() ([]*plot.Series, error) {
		return materialize.Materialize(c.opts.Data, c.opts.Accessors), nil
	})
	track(observability.StageMaterialize, start, ran, err)
	if raw == nil {
		return nil, geometry{}, nil
	}

	// Resolve series types
	start = time.Now()
	tk := typesKey{materialized: c.materialized.Revision(), selector: c.selectorRev}
	typed, ran, err := c.typed.Get(tk, func() ([]*plot.Series, error) {
		return materialize.ResolveTypes(raw, c.opts.Type, c.opts.Registry)
	})
	track(observability.StageResolveTypes, start, ran, err)
	if err != nil {
		return nil, geometry{}, err
	}

	// Layout ⇄ axes
	start = time.Now()
	gk := geometryKey{
		typed:   c.typed.Revision(),
		axes:    c.axesHash,
		width:   c.opts.Width,
		height:  c.opts.Height,
		padding: c.opts.Padding,
	}
	geo, ran, err := c.geometry.Get(gk, func() (geometry, error) {
		return c.buildGeometry(typed)
	})
	track(observability.StageLayout, start, ran, err)
	if err != nil {
		return nil, geometry{}, err
	}

	// Stack, plot, group, style
	start = time.Now()
	sk := stackKey{geometry: c.geometry.Revision(), groupMode: c.opts.GroupMode, colors: c.colorsRev}
	res, ran, err := c.stacked.Get(sk, func() (*stack.Result, error) {
		return stack.Run(stack.Input{
			Series:        typed,
			PrimaryAxes:   geo.primary,
			SecondaryAxes: geo.secondary,
			GroupMode:     c.opts.GroupMode,
			Styles:        c.styles,
			DefaultColors: c.opts.DefaultColors,
		})
	})
	track(observability.StageStack, start, ran, err)
	if err != nil {
		return nil, geometry{}, err
	}
	return res, geo, nil
}

// buildGeometry alternates layout and axis construction until the grid is
// stable or maxLayoutPasses is reached. The returned axes are always built
// for the returned grid.
func (c *Chart) buildGeometry(series []*plot.Series) (geometry, error) {
	pc, sc := axis.Split(c.opts.Axes)
	w, h, pad := c.opts.Width, c.opts.Height, c.opts.Padding

	grid := layout.Compute(w, h, layout.Sides{}, pad)
	for pass := 1; ; pass++ {
		gw, gh := math.Max(grid.Width, 0), math.Max(grid.Height, 0)

		start := time.Now()
		primary, err := axis.BuildAll(pc, series, nil, gw, gh)
		observability.Chart().OnStage(observability.StagePrimaryAxes, time.Since(start), true, err)
		if err != nil {
			return geometry{}, err
		}

		start = time.Now()
		secondary, err := axis.BuildAll(sc, series, primary, gw, gh)
		observability.Chart().OnStage(observability.StageSecondaryAxes, time.Since(start), true, err)
		if err != nil {
			return geometry{}, err
		}

		next := layout.Compute(w, h, layout.Measure(primary, secondary), pad)
		if next == grid || pass == maxLayoutPasses {
			if next != grid {
				c.logger.Debug("layout did not settle", "chart", c.id, "passes", pass)
			}
			return geometry{grid: grid, primary: primary, secondary: secondary, passes: pass}, nil
		}
		grid = next
	}
}

func (c *Chart) focusStage(geo geometry, recomputed *[]string) (focusState, error) {
	start := time.Now()
	fk := focusKey{
		stacked: c.stacked.Revision(),
		pointer: c.pointerRev,
		hover:   c.hoverRev,
		tooltip: c.tooltipRev,
		cursors: c.cursorsRev,
		brush:   c.brushRev,
	}
	fs, ran, err := c.focused.Get(fk, func() (focusState, error) {
		in := focus.Input{
			Pointer:       c.pointer,
			Hovered:       c.hovered,
			PrimaryAxes:   geo.primary,
			SecondaryAxes: geo.secondary,
			Frame:         focus.Frame{Grid: geo.grid, Width: c.opts.Width, Height: c.opts.Height},
		}
		var out focusState
		var err error
		if out.tooltip, err = focus.ResolveTooltip(c.opts.Tooltip, in); err != nil {
			return focusState{}, err
		}
		if o := c.opts.PrimaryCursor; o != nil {
			if out.primary, err = focus.ResolveCursor(true, *o, in); err != nil {
				return focusState{}, err
			}
		}
		if o := c.opts.SecondaryCursor; o != nil {
			if out.secondary, err = focus.ResolveCursor(false, *o, in); err != nil {
				return focusState{}, err
			}
		}
		if c.opts.Brush != nil {
			out.selection = focus.ResolveBrush(*c.opts.Brush, in)
		}
		return out, nil
	})
	d := time.Since(start)
	observability.Chart().OnStage(observability.StageFocus, d, ran, err)
	if ran {
		*recomputed = append(*recomputed, observability.StageFocus)
		c.logger.Debug("recomputed stage", "chart", c.id, "stage", observability.StageFocus, "duration", d)
	}
	return fs, err
}

// notify fires the change callbacks for a pointer update.
func (c *Chart) notify(s *Snapshot) {
	o := c.Options()
	if o.OnTooltipChange != nil && s.Tooltip != nil {
		o.OnTooltipChange(s.Tooltip)
	}
	if o.OnCursorChange != nil {
		for _, cur := range []*focus.Cursor{s.PrimaryCursor, s.SecondaryCursor} {
			if cur != nil {
				o.OnCursorChange(cur)
			}
		}
	}
	if o.OnBrush != nil && s.Selection != nil {
		o.OnBrush(s.Selection)
	}
}

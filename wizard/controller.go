package wizard

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/spektr-org/datasynth/engine"
	"github.com/spektr-org/datasynth/export"
	"github.com/spektr-org/datasynth/history"
	"github.com/spektr-org/datasynth/remote"
	"github.com/spektr-org/datasynth/schema"
)

// ============================================================================
// CONTROLLER — Wizard state machine
// ============================================================================
// Transitions:
//   Describe     → ReviewSchema  successful SuggestSchema
//   ReviewSchema → Describe      Back (fields kept)
//   ReviewSchema → Explore       successful Generate (history item prepended)
//   Explore      → ReviewSchema  Back (dataset kept)
//   any          → Explore       SelectHistory (no remote call)
//
// At most one remote call is in flight. The mutex is never held across a
// remote call. Each call captures the epoch; Back and SelectHistory advance
// it, and a result whose epoch no longer matches is dropped.
// ============================================================================

// Controller owns wizard state. It is safe for concurrent use.
type Controller struct {
	svc     remote.Service
	store   *history.Store
	opts    *options
	chartOp []engine.Option
	logger  zerolog.Logger

	mu          sync.Mutex
	version     uint64
	epoch       uint64
	step        Step
	description string
	region      string
	fields      *schema.FieldList
	reasoning   string
	rows        engine.Dataset
	chart       engine.ChartConfig
	busy        bool
	pending     string
	notice      string

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

// New creates a Controller in StepDescribe with one blank field. A nil
// store gets a fresh in-memory one.
func New(svc remote.Service, store *history.Store, opts ...Option) *Controller {
	o := applyOptions(opts)
	if store == nil {
		store = history.NewStore()
	}
	logger := log.With().Str("component", "wizard").Logger()
	if o.logger != nil {
		logger = *o.logger
	}
	return &Controller{
		svc:     svc,
		store:   store,
		opts:    o,
		chartOp: o.engineOptions(),
		logger:  logger,
		step:    StepDescribe,
		region:  o.region,
		fields:  schema.NewFieldList(),
		rows:    engine.Dataset{},
		chart:   engine.ChartConfig{Type: o.chartType},
		subs:    make(map[int]func(Snapshot)),
	}
}

// ============================================================================
// OBSERVERS
// ============================================================================

// Subscribe registers fn to receive a Snapshot after every change and
// returns a function that unregisters it. fn runs on the goroutine that
// made the change, after the controller lock is released; use
// Snapshot.Version to order deliveries from concurrent callers.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Version:     c.version,
		Step:        c.step,
		Description: c.description,
		Region:      c.region,
		Fields:      c.fields.Fields(),
		Reasoning:   c.reasoning,
		Rows:        c.rows.Clone(),
		Chart:       c.chart,
		Busy:        c.busy,
		Pending:     c.pending,
		Notice:      c.notice,
		History:     historyEntries(c.store.Summaries()),
	}
}

// commitLocked bumps the version and captures the snapshot to publish.
// The caller must hold c.mu and call publish after unlocking.
func (c *Controller) commitLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) publish(s Snapshot) {
	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// update runs fn under the lock and publishes if fn reports a change.
func (c *Controller) update(fn func() (changed bool, err error)) error {
	c.mu.Lock()
	changed, err := fn()
	if !changed {
		c.mu.Unlock()
		return err
	}
	s := c.commitLocked()
	c.mu.Unlock()
	c.publish(s)
	return err
}

// ============================================================================
// DESCRIBE / REVIEW EDITS
// ============================================================================

// SetDescription replaces the free-text description.
func (c *Controller) SetDescription(description string) {
	_ = c.update(func() (bool, error) {
		c.description = description
		return true, nil
	})
}

// SetRegion selects the generation locale.
func (c *Controller) SetRegion(code string) error {
	if _, ok := LookupRegion(code); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRegion, code)
	}
	return c.update(func() (bool, error) {
		c.region = code
		return true, nil
	})
}

// Apply applies a field-list edit. A rejected edit leaves the list unchanged.
func (c *Controller) Apply(intent schema.Intent) error {
	return c.update(func() (bool, error) {
		if err := c.fields.Apply(intent); err != nil {
			return false, fmt.Errorf("apply %v: %w", intent, err)
		}
		c.logger.Debug().Stringer("intent", intent).Int("fields", c.fields.Len()).Msg("field list edited")
		return true, nil
	})
}

// ============================================================================
// REMOTE OPERATIONS
// ============================================================================

// begin marks a call as in flight and returns the epoch it belongs to.
func (c *Controller) begin(op string, want Step) (uint64, error) {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return 0, ErrBusy
	}
	if c.step != want {
		step := c.step
		c.mu.Unlock()
		return 0, fmt.Errorf("%s from %s: %w", op, step, ErrWrongStep)
	}
	c.busy = true
	c.pending = op
	c.notice = ""
	epoch := c.epoch
	s := c.commitLocked()
	c.mu.Unlock()

	c.publish(s)
	c.logger.Debug().Str("op", op).Uint64("epoch", epoch).Msg("remote call started")
	return epoch, nil
}

// finish clears busy and reports whether the result may be applied. It
// must be called with c.mu held.
func (c *Controller) finishLocked(op string, epoch uint64) bool {
	c.busy = false
	c.pending = ""
	if epoch != c.epoch {
		c.logger.Info().Str("op", op).Uint64("epoch", epoch).Uint64("current", c.epoch).Msg("stale result discarded")
		return false
	}
	return true
}

// SuggestSchema asks source for fields matching the description. On
// success the field list is replaced and the wizard moves to
// StepReviewSchema. On failure the step and fields are unchanged and
// Snapshot.Notice names the failure and the alternate source.
func (c *Controller) SuggestSchema(ctx context.Context, source remote.Source) error {
	epoch, err := c.begin(source.Op(), StepDescribe)
	if err != nil {
		return err
	}

	c.mu.Lock()
	description := c.description
	c.mu.Unlock()

	suggestion, callErr := c.svc.SuggestSchema(ctx, source, description)

	c.mu.Lock()
	if !c.finishLocked(source.Op(), epoch) {
		s := c.commitLocked()
		c.mu.Unlock()
		c.publish(s)
		return ErrStale
	}
	if callErr != nil {
		c.notice = fmt.Sprintf("%s failed: %v. Retry, or try the %s instead.",
			capitalize(source.Label()), callErr, source.Alternate().Label())
		c.logger.Warn().Err(callErr).Str("op", source.Op()).Msg("schema suggestion failed")
		s := c.commitLocked()
		c.mu.Unlock()
		c.publish(s)
		return fmt.Errorf("suggest schema: %w", callErr)
	}

	fields := make([]schema.Field, len(suggestion.Fields))
	for i, f := range suggestion.Fields {
		f.UseAI = true
		fields[i] = f
	}
	c.fields = schema.NewFieldList(fields...)
	c.reasoning = suggestion.Reasoning
	c.step = StepReviewSchema
	c.logger.Debug().Str("op", source.Op()).Int("fields", len(fields)).Stringer("step", c.step).Msg("schema suggested")
	s := c.commitLocked()
	c.mu.Unlock()
	c.publish(s)
	return nil
}

// Generate requests rows for the current fields. On success the working
// dataset is replaced, the chart config reconciled, a history item
// prepended and the wizard moves to StepExplore.
func (c *Controller) Generate(ctx context.Context) error {
	epoch, err := c.begin(remote.OpGenerate, StepReviewSchema)
	if err != nil {
		return err
	}

	c.mu.Lock()
	req := remote.GenerateRequest{
		Description: c.description,
		Country:     c.region,
		Rows:        c.opts.rows,
		Fields:      c.fields.Fields(),
	}
	c.mu.Unlock()

	rows, callErr := c.svc.Generate(ctx, req)

	c.mu.Lock()
	if !c.finishLocked(remote.OpGenerate, epoch) {
		s := c.commitLocked()
		c.mu.Unlock()
		c.publish(s)
		return ErrStale
	}
	if callErr != nil {
		c.notice = fmt.Sprintf("Generation failed: %v. Retry, or go back and adjust the schema.", callErr)
		c.logger.Warn().Err(callErr).Str("op", remote.OpGenerate).Msg("generation failed")
		s := c.commitLocked()
		c.mu.Unlock()
		c.publish(s)
		return fmt.Errorf("generate: %w", callErr)
	}

	if rows == nil {
		rows = engine.Dataset{}
	}
	item := history.NewItem(req.Description, rows, c.opts.now())
	c.store.Add(item)
	c.installLocked(rows.Clone())
	c.step = StepExplore
	c.logger.Debug().Str("history_id", item.ID).Int("rows", len(rows)).Msg("dataset generated")
	s := c.commitLocked()
	c.mu.Unlock()
	c.publish(s)
	return nil
}

// installLocked replaces the working dataset and reconciles the chart.
func (c *Controller) installLocked(rows engine.Dataset) {
	c.rows = rows
	c.chart = c.chart.Reconcile(rows)
}

// ============================================================================
// NAVIGATION
// ============================================================================

// Back moves one step back. Any call in flight is orphaned.
func (c *Controller) Back() error {
	return c.update(func() (bool, error) {
		switch c.step {
		case StepReviewSchema:
			c.step = StepDescribe
		case StepExplore:
			c.step = StepReviewSchema
		default:
			return false, ErrNoPreviousStep
		}
		c.epoch++
		c.notice = ""
		c.logger.Debug().Stringer("step", c.step).Msg("back")
		return true, nil
	})
}

// SelectHistory loads a copy of a stored generation as the working dataset
// and moves to StepExplore. Any call in flight is orphaned.
func (c *Controller) SelectHistory(id string) error {
	item, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("select %q: %w", id, history.ErrNotFound)
	}
	return c.update(func() (bool, error) {
		c.description = item.Description
		c.installLocked(item.Rows)
		c.step = StepExplore
		c.epoch++
		c.notice = ""
		c.logger.Debug().Str("history_id", id).Int("rows", len(item.Rows)).Msg("history selected")
		return true, nil
	})
}

// DeleteHistory removes a stored generation. The working dataset is kept.
func (c *Controller) DeleteHistory(id string) bool {
	removed := false
	_ = c.update(func() (bool, error) {
		removed = c.store.Remove(id)
		return removed, nil
	})
	return removed
}

// ============================================================================
// EXPLORE
// ============================================================================

// EditCell sets one cell of the working dataset. The new value keeps the
// cell's current kind when the text parses as that kind; otherwise it is
// stored as a string. Stored history is never affected.
func (c *Controller) EditCell(row int, key, value string) error {
	return c.update(func() (bool, error) {
		if c.step != StepExplore {
			return false, fmt.Errorf("edit cell from %s: %w", c.step, ErrWrongStep)
		}
		if row < 0 || row >= len(c.rows) {
			return false, fmt.Errorf("edit row %d of %d: %w", row, len(c.rows), ErrCellOutOfRange)
		}
		if !c.rows.HasColumn(key) && !c.rows[row].Has(key) {
			return false, fmt.Errorf("edit cell: %w: %q", engine.ErrUnknownColumn, key)
		}
		c.rows = c.rows.WithCell(row, key, coerce(c.rows[row].Get(key), value))
		return true, nil
	})
}

func coerce(current engine.Value, text string) engine.Value {
	switch current.Kind() {
	case engine.KindNumber:
		if f, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return engine.Number(f)
		}
	case engine.KindBool:
		if b, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return engine.Bool(b)
		}
	}
	return engine.String(text)
}

// SetChart replaces the chart config after validating it against the
// working dataset.
func (c *Controller) SetChart(cfg engine.ChartConfig) error {
	return c.update(func() (bool, error) {
		if err := cfg.Validate(c.rows); err != nil {
			return false, fmt.Errorf("set chart: %w", err)
		}
		c.chart = cfg
		return true, nil
	})
}

// Chart aggregates the working dataset for the current chart config.
func (c *Controller) Chart() (*engine.ChartResult, error) {
	c.mu.Lock()
	rows, cfg := c.rows, c.chart
	c.mu.Unlock()
	// rows is replaced wholesale on change, never mutated in place.
	return engine.BuildChart(rows, cfg, c.chartOp...)
}

// ExportCSV writes the working dataset as CSV. An empty dataset writes
// nothing.
func (c *Controller) ExportCSV(w io.Writer) error {
	c.mu.Lock()
	rows := c.rows
	c.mu.Unlock()
	return export.WriteCSV(w, rows)
}

// ExportXLSX writes the working dataset as a workbook.
func (c *Controller) ExportXLSX(w io.Writer, sheet string) error {
	c.mu.Lock()
	rows := c.rows
	c.mu.Unlock()
	return export.WriteXLSX(w, rows, sheet)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Package engine runs the translation session: it consumes events from the
// queue, filters and translates infrared signals, taps the matching keys and
// publishes what happened to the display state.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/pleimann/ir2hid/internal/debounce"
	"github.com/pleimann/ir2hid/internal/display"
	"github.com/pleimann/ir2hid/internal/event"
	"github.com/pleimann/ir2hid/internal/hid"
	"github.com/pleimann/ir2hid/internal/table"
)

// Options configures an Engine
type Options struct {
	// TablePath is the mapping file loaded by Load and on TableChanged.
	TablePath string
	Cooldown  time.Duration
	// Now is the clock used for debouncing. Defaults to time.Now.
	Now func() time.Time
	// OnExit runs after the exit key, while the transport is still open.
	OnExit func()
}

// Engine is a translation session. All of its methods except Queue must be
// called from the goroutine that calls Run.
type Engine struct {
	tablePath  string
	queue      *event.Queue
	dispatcher *hid.Dispatcher
	state      *display.State
	filter     *debounce.Filter
	table      *table.Table
	now        func() time.Time
	onExit     func()
	logger     *slog.Logger

	// missing is set while the display shows the table-not-found line
	missing bool
}

// New creates an engine reading from queue. The engine owns dispatcher and
// closes it when Run returns.
func New(opts Options, queue *event.Queue, dispatcher *hid.Dispatcher, state *display.State, logger *slog.Logger) *Engine {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cooldown := opts.Cooldown
	if cooldown <= 0 {
		cooldown = debounce.DefaultCooldown
	}

	return &Engine{
		tablePath:  opts.TablePath,
		queue:      queue,
		dispatcher: dispatcher,
		state:      state,
		filter:     debounce.New(cooldown),
		table:      &table.Table{},
		now:        now,
		onExit:     opts.OnExit,
		logger:     logger,
	}
}

// Queue returns the queue producers push to
func (e *Engine) Queue() *event.Queue {
	return e.queue
}

// Table returns the mapping table currently in use
func (e *Engine) Table() *table.Table {
	return e.table
}

// Load (re)reads the mapping table. A missing file is shown on the display;
// every other problem is logged. Load always leaves a usable table in place,
// possibly empty.
func (e *Engine) Load() error {
	t, rejected, err := table.Load(e.tablePath)
	e.table = t

	for _, r := range rejected {
		e.logger.Warn("skipped mapping row", "line", r.Line, "err", r.Err)
	}

	switch {
	case err == nil:
		e.logger.Info("mapping table loaded", "path", e.tablePath, "entries", t.Len(), "skipped", len(rejected))
		return nil
	case errors.Is(err, table.ErrNotFound):
		e.missing = true
		e.state.SetLines(filepath.Base(e.tablePath)+" not found", "", "")
		e.state.Notify()
		e.logger.Warn("mapping table not found", "path", e.tablePath)
	default:
		e.logger.Warn("mapping table not loaded", "err", err)
	}
	return err
}

// Run processes events until the exit key arrives, then closes the
// dispatcher.
func (e *Engine) Run() error {
	e.refreshConnection()

	for {
		ev := e.queue.Next()
		if ev.Kind == event.KindKey && ev.Key.IsExit() {
			break
		}
		e.handle(ev)
	}

	if e.onExit != nil {
		e.onExit()
	}
	if n := e.queue.Dropped(); n > 0 {
		e.logger.Debug("events dropped on full queue", "count", n)
	}
	if err := e.dispatcher.Close(); err != nil {
		return fmt.Errorf("failed to close hid transport: %w", err)
	}
	return nil
}

func (e *Engine) handle(ev event.Event) {
	switch ev.Kind {
	case event.KindTick:
		e.refreshConnection()
	case event.KindIRSignal:
		e.translate(ev.Signal)
	case event.KindTableChanged:
		e.reload()
	case event.KindKey:
		e.logger.Debug("key ignored", "key", ev.Key.Key, "type", ev.Key.Type)
	}
}

// reload replaces the table after the file changed. Once a previously
// missing table loads, its not-found line gives way to the waiting screen.
func (e *Engine) reload() {
	wasMissing := e.missing
	if err := e.Load(); err != nil {
		e.logger.Warn("mapping table reload failed, no signals will match", "path", e.tablePath, "err", err)
		return
	}
	if wasMissing {
		e.missing = false
		e.state.ClearLines()
		e.state.Notify()
	}
}

// refreshConnection reads the transport's cached host status
func (e *Engine) refreshConnection() {
	if e.state.SetConnected(e.dispatcher.Connected()) {
		e.state.Notify()
	}
}

func (e *Engine) translate(sig event.Signal) {
	if !e.filter.Accept(sig.Signature, sig.Repeat, e.now()) {
		return
	}

	name := "Unknown"
	if sig.Protocol.Valid() {
		name = sig.Protocol.String()
	}
	proto := "Proto: " + name
	addr := fmt.Sprintf("Addr: 0x%04X", sig.Address)

	var cmd string
	if code, ok := e.table.Lookup(sig.Signature); ok {
		cmd = fmt.Sprintf("Cmd:0x%04X HID:0x%02X", sig.Command, code)
		if !e.dispatcher.Dispatch(code) {
			cmd += " (no host)"
		}
		e.logger.Debug("translated", "signal", sig.Signature, "hid", code)
	} else {
		cmd = fmt.Sprintf("Cmd:0x%04X (no map)", sig.Command)
		e.logger.Debug("unmapped", "signal", sig.Signature)
	}

	e.missing = false
	e.state.SetLines(proto, addr, cmd)
	e.state.Notify()
}

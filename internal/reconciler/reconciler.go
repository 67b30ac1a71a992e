// Package reconciler implements the single-owner event loop spec.md §4.3
// and §5 describe: one goroutine drains a single MPSC queue fed by three
// producers (the control server, the OS event source, and the config
// watcher) and is the only code in the process that mutates the state
// tree or issues OS calls.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tilewm/internal/config"
	"tilewm/internal/geometry"
	"tilewm/internal/ipc"
	"tilewm/internal/layout"
	"tilewm/internal/osadapter"
	"tilewm/internal/state"
	"tilewm/internal/wmwindow"
)

// errInvalidTarget marks a command that named a nonexistent workspace,
// monitor, or direction with no neighbor and no cross-boundary escalation.
// Per spec.md §7 this is a no-op logged at warn, never surfaced to the
// caller as a protocol error.
var errInvalidTarget = errors.New("reconciler: invalid target")

// Border is the optional border-redraw subsystem (spec.md §4.3.4 step 8).
// Kept as a narrow interface so a real overlay-window implementation can be
// wired in without touching the reconciler; a nil Border disables borders
// regardless of configuration.
type Border interface {
	Redraw(kind BorderKind, rect geometry.Rect)
}

// BorderKind tags which border style the focused tile should draw,
// decided by the layout-application pipeline (spec.md §4.3.4 step 8).
type BorderKind int

const (
	BorderSingle BorderKind = iota
	BorderStack
	BorderMonocle
)

// Reconciler owns the state tree exclusively and is the sole consumer of
// the MPSC queue. It implements ipc.CommandSink so the control server can
// submit commands across the one allowed channel hop (spec.md §5).
type Reconciler struct {
	root    *state.Root
	adapter osadapter.Adapter
	server  *ipc.Server
	border  Border
	log     *slog.Logger

	cfg              *config.Config
	knownWindowsPath string

	customLayouts map[string]layout.CustomSpec
	savedLayouts  map[string]savedLayout
	resizeDelta   int

	suppress *suppressor

	queue  chan message
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	suspended bool

	// panicHandler, if set, replaces the default panic-propagates-and-kills-
	// the-process behavior of the event loop goroutines. It runs in place
	// of the crash, gets the recovered value, and decides what happens
	// next — typically logging, restoring known windows, then exiting the
	// process (spec.md §7 "Panics ... must be treated as fatal; on panic
	// the process attempts to restore all hidden/cloaked windows from the
	// known-windows file before exiting"). A nil handler means the panic
	// propagates normally, which still crashes the process since nothing
	// else recovers it.
	panicHandler func(recovered any)

	// pendingObjectNameChange holds windows observed but rejected at the
	// default-eligibility check, kept around only while they match the
	// object-name-change rule catalog, so a later title change can retry
	// classification without a full re-enumeration (spec.md §4.3.2
	// "Object name change").
	pendingObjectNameChange map[wmwindow.Handle]wmwindow.Window
}

// Config bundles the dependencies a Reconciler is built from.
type Config struct {
	Root             *state.Root
	Adapter          osadapter.Adapter
	Server           *ipc.Server
	Border           Border
	Logger           *slog.Logger
	Cfg              *config.Config
	KnownWindowsPath string
	CustomLayouts    map[string]layout.CustomSpec
	PanicHandler     func(recovered any)
}

// savedLayout is a workspace's layout-affecting fields, captured by
// SaveWorkspaceLayout/QuickSaveWorkspaceLayout and restored by
// QuickLoadWorkspaceLayout (spec.md §4.2.3 "named layout snapshots").
type savedLayout struct {
	Layout        layout.Descriptor
	LayoutOptions layout.Options
	Padding       geometry.Padding
}

// New constructs a Reconciler. Call Start to begin processing.
func New(cfg Config) *Reconciler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	customLayouts := cfg.CustomLayouts
	if customLayouts == nil {
		customLayouts = make(map[string]layout.CustomSpec)
	}
	return &Reconciler{
		root:                    cfg.Root,
		adapter:                 cfg.Adapter,
		server:                  cfg.Server,
		border:                  cfg.Border,
		log:                     logger,
		cfg:                     cfg.Cfg,
		knownWindowsPath:        cfg.KnownWindowsPath,
		customLayouts:           customLayouts,
		savedLayouts:            make(map[string]savedLayout),
		resizeDelta:             5,
		suppress:                newSuppressor(300*time.Millisecond, 64),
		queue:                   make(chan message, 256),
		panicHandler:            cfg.PanicHandler,
		pendingObjectNameChange: make(map[wmwindow.Handle]wmwindow.Window),
	}
}

// message is the envelope type carried on the single MPSC queue.
type message interface{ isMessage() }

type osEventMessage struct{ event osadapter.Event }

func (osEventMessage) isMessage() {}

type commandMessage struct {
	cmd  ipc.Command
	resp chan result
}

func (commandMessage) isMessage() {}

type configMessage struct{ cfg *config.Config }

func (configMessage) isMessage() {}

type result struct {
	value any
	err   error
}

// Start launches the consumer goroutine and the OS event pump. events is
// the channel returned by the event source's own Start call; the caller
// owns the event source's lifecycle.
func (rc *Reconciler) Start(ctx context.Context, events <-chan osadapter.Event) {
	rc.ctx, rc.cancel = context.WithCancel(ctx)
	rc.wg.Add(2)
	go rc.run()
	go rc.pumpOSEvents(events)
}

// Stop cancels the consumer and waits for it to drain.
func (rc *Reconciler) Stop() {
	if rc.cancel != nil {
		rc.cancel()
	}
	rc.wg.Wait()
}

func (rc *Reconciler) run() {
	defer rc.wg.Done()
	defer rc.recoverPanic()
	for {
		select {
		case <-rc.ctx.Done():
			return
		case msg := <-rc.queue:
			rc.handle(msg)
		}
	}
}

// recoverPanic is deferred at the top of every event-loop goroutine. With
// no panicHandler configured the panic simply propagates, which is the
// same as having no recover at all.
func (rc *Reconciler) recoverPanic() {
	if r := recover(); r != nil {
		if rc.panicHandler == nil {
			panic(r)
		}
		rc.panicHandler(r)
	}
}

func (rc *Reconciler) pumpOSEvents(events <-chan osadapter.Event) {
	defer rc.wg.Done()
	defer rc.recoverPanic()
	for {
		select {
		case <-rc.ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			select {
			case rc.queue <- osEventMessage{ev}:
			case <-rc.ctx.Done():
				return
			}
		}
	}
}

// SetServer wires the control server after construction, for callers that
// must build the Server around a Handler wrapping this Reconciler before
// the Reconciler itself can take a *ipc.Server (cmd/tilewmd's startup
// order). Safe to call before Start; the event loop is single-threaded so
// there is no race once goroutines are running either, as long as this is
// the last write before Start.
func (rc *Reconciler) SetServer(s *ipc.Server) {
	rc.server = s
}

// PushConfig enqueues a hot-reloaded configuration for the event loop to
// apply. Intended as the body of a config.Loader.OnChange callback
// (spec.md §5: callbacks must not mutate state directly).
func (rc *Reconciler) PushConfig(cfg *config.Config) {
	select {
	case rc.queue <- configMessage{cfg}:
	case <-rc.ctx.Done():
	}
}

// Submit implements ipc.CommandSink: it enqueues cmd and blocks until the
// event loop has applied it.
func (rc *Reconciler) Submit(ctx context.Context, cmd ipc.Command) (any, error) {
	resp := make(chan result, 1)
	select {
	case rc.queue <- commandMessage{cmd, resp}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-rc.ctx.Done():
		return nil, rc.ctx.Err()
	}
	select {
	case res := <-resp:
		return res.value, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (rc *Reconciler) handle(msg message) {
	switch m := msg.(type) {
	case osEventMessage:
		rc.handleOSEvent(m.event)
	case commandMessage:
		v, err := rc.handleCommand(m.cmd)
		if errors.Is(err, errInvalidTarget) {
			rc.log.Warn("reconciler: invalid command target", "kind", m.cmd.Kind())
			m.resp <- result{nil, nil}
			break
		}
		m.resp <- result{v, err}
	case configMessage:
		rc.applyConfig(m.cfg)
	}
}

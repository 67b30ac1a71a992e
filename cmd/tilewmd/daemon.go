package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tilewm/internal/config"
	"tilewm/internal/ipc"
	"tilewm/internal/logging"
	"tilewm/internal/osadapter"
	"tilewm/internal/reconciler"
	"tilewm/internal/state"
)

// daemon bundles everything cmd() needs to run tilewmd as a foreground or
// background process: the loaded configuration, the constructed state
// tree, the OS boundary, the single-owner reconciler, and the control
// server wrapping it (spec.md §5's three producers: the control server,
// the OS event source, and the config watcher).
type daemon struct {
	version string
	log     *slog.Logger

	loader      *config.Loader
	adapter     osadapter.Adapter
	eventSource osadapter.EventSource
	reconciler  *reconciler.Reconciler
	server      *ipc.Server

	daemonMgr *osadapter.DaemonManager
}

// newDaemon constructs a daemon from a loaded configuration. It does not
// start anything; call Start to begin serving.
func newDaemon(version string, log *slog.Logger, loader *config.Loader) (*daemon, error) {
	cfg := loader.Config()

	customLayouts, err := config.ResolveCustomLayouts(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve custom layouts: %w", err)
	}

	root := state.New()
	float, ignore, manage, tray, objectNameChange, layered, borderOverflow := cfg.Rules.Sets()
	root.FloatRules = float
	root.IgnoreRules = ignore
	root.ManageRules = manage
	root.TrayRules = tray
	root.ObjectNameChangeRules = objectNameChange
	root.LayeredRules = layered
	root.BorderOverflowRules = borderOverflow
	root.Options = cfg.Defaults.ToGlobalOptions()
	for _, wr := range cfg.WorkspaceRules {
		root.WorkspaceAssignment = append(root.WorkspaceAssignment, state.WorkspaceAssignmentRule{
			Rule:            wr.Rule.ToRule(),
			TargetMonitor:   wr.TargetMonitor,
			TargetWorkspace: wr.TargetWorkspace,
		})
	}

	adapter := osadapter.New()
	eventSource := osadapter.NewEventSource()

	knownWindowsPath := config.DefaultKnownWindowsPath()

	rc := reconciler.New(reconciler.Config{
		Root:             root,
		Adapter:          adapter,
		Logger:           log,
		Cfg:              cfg,
		KnownWindowsPath: knownWindowsPath,
		CustomLayouts:    customLayouts,
		PanicHandler:     panicHandler(log, adapter, knownWindowsPath),
	})

	socketPath := cfg.IPC.SocketPath
	if socketPath == "" {
		socketPath = config.DefaultSocketPath()
	}
	server := ipc.NewServer(ipc.ServerConfig{
		SocketPath: socketPath,
		TCPAddr:    cfg.IPC.TCPAddr,
		Logger:     log,
	}, ipc.SinkHandler{Sink: rc})
	rc.SetServer(server)

	d := &daemon{
		version:     version,
		log:         log,
		loader:      loader,
		adapter:     adapter,
		eventSource: eventSource,
		reconciler:  rc,
		server:      server,
		daemonMgr:   osadapter.NewDaemonManager(config.PlatformRuntimeDir()),
	}
	return d, nil
}

// Start brings up the control server, the OS event source, and the
// reconciler's event loop, then seeds the state tree with whatever
// monitors the adapter currently reports (spec.md §4.4 "enumerate windows
// and monitors at startup").
func (d *daemon) Start(ctx context.Context) error {
	if err := d.server.Start(); err != nil {
		return fmt.Errorf("start control server: %w", err)
	}

	realEvents, err := d.eventSource.Start(ctx)
	if err != nil {
		d.server.Stop()
		return fmt.Errorf("start event source: %w", err)
	}

	events := mergeStartupEvents(ctx, realEvents)
	d.reconciler.Start(ctx, events)

	d.loader.OnChange(d.reconciler.PushConfig)
	if err := d.loader.Watch(); err != nil {
		d.log.Warn("tilewmd: config watch failed, hot reload disabled", "error", err)
	}

	return nil
}

// mergeStartupEvents fans real's events into a new channel that is primed
// with a synthetic EventDisplayTopologyChange, so the reconciler's own
// existing topology-change handling (internal/reconciler/events.go) seeds
// state.Root's monitors from the adapter's live Monitors() report without
// cmd/tilewmd having to duplicate that logic.
func mergeStartupEvents(ctx context.Context, real <-chan osadapter.Event) <-chan osadapter.Event {
	out := make(chan osadapter.Event, 1)
	go func() {
		defer close(out)
		select {
		case out <- osadapter.Event{Kind: osadapter.EventDisplayTopologyChange}:
		case <-ctx.Done():
			return
		}
		for {
			select {
			case ev, ok := <-real:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// panicHandler builds the Reconciler.Config.PanicHandler closure: log the
// crash through the shared crash handler (teacher's own dump-to-disk
// pattern, internal/logging/crash.go), then run the same known-windows
// restoration the standalone "restore" command offers, then exit the
// process — spec.md §7 treats a panic as fatal, not a recoverable event.
func panicHandler(log *slog.Logger, adapter osadapter.Adapter, knownWindowsPath string) func(any) {
	return func(recovered any) {
		logging.DefaultCrashHandler().HandlePanic(recovered, map[string]interface{}{"component": "reconciler"})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := reconciler.RestoreKnownWindows(ctx, adapter, knownWindowsPath, log); err != nil {
			log.Error("tilewmd: panic-recovery window restore failed", "error", err)
		}
		os.Exit(1)
	}
}

// Stop tears everything down in reverse dependency order.
func (d *daemon) Stop() {
	d.loader.Close()
	d.reconciler.Stop()
	if err := d.eventSource.Stop(); err != nil {
		d.log.Warn("tilewmd: event source stop failed", "error", err)
	}
	if err := d.server.Stop(); err != nil {
		d.log.Warn("tilewmd: control server stop failed", "error", err)
	}
}

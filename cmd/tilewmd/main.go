// tilewmd is the dynamic tiling window manager daemon.
//
//	tilewmd run             Run in the foreground (default with no args)
//	tilewmd restore         Restore hidden/cloaked windows and exit
//	tilewmd status          Report whether a daemon instance is running
//	tilewmd stop            Signal a running daemon to shut down
//	tilewmd reload          Signal a running daemon to reload its config
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tilewm/internal/config"
	"tilewm/internal/logging"
	"tilewm/internal/osadapter"
	"tilewm/internal/reconciler"
)

// Version is set via ldflags during build.
var Version = "dev"

func main() {
	cmd := "run"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "run":
		cmdRun()
	case "restore":
		cmdRestore()
	case "status":
		cmdStatus()
	case "stop":
		cmdStop()
	case "reload":
		cmdReload()
	default:
		fmt.Fprintf(os.Stderr, "tilewmd: unknown command %q\n", cmd)
		os.Exit(1)
	}
}

func cmdRun() {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.json (defaults to the platform config directory)")
	fs.Parse(os.Args[2:])

	path := *configPath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		path = config.DefaultConfigPath()
	}

	loader := config.NewLoader(path)
	if err := loader.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: load config: %v\n", err)
		os.Exit(1)
	}
	config.ApplyEnvOverrides(loader.Config())

	log, err := newLogger(loader.Config().Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: init logging: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()
	logging.SetDefault(log)

	d, err := newDaemon(Version, log.Logger, loader)
	if err != nil {
		log.Error("tilewmd: build daemon failed", "error", err)
		os.Exit(1)
	}

	if d.daemonMgr.IsRunning() {
		fmt.Fprintln(os.Stderr, "tilewmd: a daemon instance is already running")
		os.Exit(1)
	}
	if err := d.daemonMgr.WritePID(); err != nil {
		log.Error("tilewmd: write pid file failed", "error", err)
		os.Exit(1)
	}
	defer d.daemonMgr.Cleanup()
	d.daemonMgr.WriteState(&osadapter.DaemonState{
		PID:       os.Getpid(),
		StartedAt: time.Now(),
		Version:   Version,
	})

	// The reconciler's own event-loop goroutines install the fatal-panic
	// path (daemon.go's panicHandler): dump a crash report through this
	// same default handler, restore known windows, then exit. Here we only
	// need the handler to exist with the right version/component tagging.
	logging.SetDefaultCrashHandler(logging.NewCrashHandler(&logging.CrashHandlerConfig{
		Version:   Version,
		Component: "tilewmd",
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		log.Error("tilewmd: start failed", "error", err)
		os.Exit(1)
	}
	log.Info("tilewmd: started", "socket", d.server.SocketPath(), "version", Version)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	for {
		sig := <-sigCh
		switch sig {
		case syscall.SIGHUP:
			log.Info("tilewmd: reload signal received")
			if err := loader.Load(); err != nil {
				log.Warn("tilewmd: config reload failed", "error", err)
				continue
			}
			d.reconciler.PushConfig(loader.Config())
		default:
			log.Info("tilewmd: shutdown signal received", "signal", sig.String())
			d.Stop()
			return
		}
	}
}

// cmdRestore runs the known-windows restoration independent of a running
// daemon (spec.md §4.4, §7 "Panics ... must be treated as fatal; on panic
// the process attempts to restore all hidden/cloaked windows from the
// known-windows file before exiting"), also usable as a manual recovery
// tool after an unclean shutdown.
func cmdRestore() {
	log := logging.Default()
	adapter := osadapter.New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := reconciler.RestoreKnownWindows(ctx, adapter, config.DefaultKnownWindowsPath(), log.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: restore failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("tilewmd: restore complete")
}

func cmdStatus() {
	mgr := osadapter.NewDaemonManager(config.PlatformRuntimeDir())
	status, err := mgr.Status()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: status: %v\n", err)
		os.Exit(1)
	}
	if !status.Running {
		fmt.Println("tilewmd: not running")
		return
	}
	fmt.Printf("tilewmd: running (pid %d, version %s, uptime %s)\n", status.PID, status.Version, status.Uptime.Round(time.Second))
}

func cmdStop() {
	mgr := osadapter.NewDaemonManager(config.PlatformRuntimeDir())
	if err := mgr.SignalStop(); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: stop: %v\n", err)
		os.Exit(1)
	}
	if err := mgr.WaitForStop(10 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("tilewmd: stopped")
}

func cmdReload() {
	mgr := osadapter.NewDaemonManager(config.PlatformRuntimeDir())
	if err := mgr.SignalReload(); err != nil {
		fmt.Fprintf(os.Stderr, "tilewmd: reload: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("tilewmd: reload signaled")
}

func newLogger(cfg config.LoggingConfig) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	lc := logging.DefaultConfig()
	lc.Level = level
	lc.Component = "tilewmd"
	if cfg.Path != "" {
		lc.Output = "both"
		lc.FilePath = cfg.Path
	}
	return logging.New(lc)
}

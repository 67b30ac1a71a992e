package reconciler

import (
	"context"
	"encoding/json"
	"log/slog"

	"tilewm/internal/fsutil"
	"tilewm/internal/osadapter"
	"tilewm/internal/wmwindow"
)

// persistKnownWindows rewrites the known-windows file with the current
// managed set (spec.md §4.4 "Known-windows file"): a JSON array of raw
// handles, atomically replaced whenever the set changes so a crash never
// observes a half-written file.
func (rc *Reconciler) persistKnownWindows() {
	if rc.knownWindowsPath == "" {
		return
	}
	handles := make([]uint64, 0, len(rc.root.KnownWindows))
	for h := range rc.root.KnownWindows {
		handles = append(handles, uint64(h))
	}
	data, err := json.Marshal(handles)
	if err != nil {
		rc.log.Warn("reconciler: marshal known-windows file failed", "error", err)
		return
	}
	if err := fsutil.WriteSecureFile(rc.knownWindowsPath, data, fsutil.PermPublicFile); err != nil {
		rc.log.Warn("reconciler: write known-windows file failed", "path", rc.knownWindowsPath, "error", err)
	}
}

// RestoreKnownWindows reads path's known-windows file and unhides/uncloaks
// every listed handle, independent of whatever state the reconciler (if
// running at all) currently holds. It is the body of both the panic
// handler's last-ditch recovery call and cmd/tilewmd's standalone
// `restore` subcommand (spec.md §4.4, §7 "Panics ... must be treated as
// fatal; on panic the process attempts to restore all hidden/cloaked
// windows from the known-windows file before exiting").
func RestoreKnownWindows(ctx context.Context, adapter osadapter.Adapter, path string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	data, err := fsutil.ReadSecureFile(path, 1<<20)
	if err != nil {
		return err
	}
	var handles []uint64
	if err := json.Unmarshal(data, &handles); err != nil {
		return err
	}
	for _, raw := range handles {
		h := wmwindow.Handle(raw)
		if err := adapter.Uncloak(ctx, h); err != nil {
			log.Warn("reconciler: restore uncloak failed", "handle", h, "error", err)
		}
		if err := adapter.Restore(ctx, h); err != nil {
			log.Warn("reconciler: restore minimize-restore failed", "handle", h, "error", err)
		}
		if err := adapter.Show(ctx, h); err != nil {
			log.Warn("reconciler: restore show failed", "handle", h, "error", err)
		}
	}
	return nil
}

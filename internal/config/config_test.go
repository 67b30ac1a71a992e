package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tilewm/internal/layout"
	"tilewm/internal/state"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestParseMinimalDocument(t *testing.T) {
	raw := []byte(`{"defaults":{"outerPadding":5,"innerPadding":5,"hidePolicy":"hide","crossBoundary":"none"}}`)
	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Defaults.OuterPadding != 5 {
		t.Fatalf("outerPadding = %d, want 5", cfg.Defaults.OuterPadding)
	}
}

func TestParseRejectsUnknownStrategy(t *testing.T) {
	raw := []byte(`{"rules":{"float":[{"field":"Title","pattern":"x","strategy":"Bogus"}]}}`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected validation error for unknown strategy")
	}
}

func TestParseRejectsInvalidRegex(t *testing.T) {
	raw := []byte(`{"rules":{"ignore":[{"field":"Title","pattern":"(unclosed","strategy":"Regex"}]}}`)
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected validation error for invalid regex")
	}
}

func TestLayoutRatiosClampedOnParse(t *testing.T) {
	raw := []byte(`{"monitors":[{"workspaces":[{"name":"1","layout":{"variant":"Columns","columnRatios":[0.05,1.5]}}]}]}`)
	cfg, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ratios := cfg.Monitors[0].Workspaces[0].Layout.ColumnRatios
	if len(ratios) != 1 || ratios[0] != 0.1 {
		t.Fatalf("ColumnRatios = %v, want [0.1]", ratios)
	}
}

func TestLayoutConfigToDescriptorUnknownVariantFallsBackToColumns(t *testing.T) {
	l := LayoutConfig{Variant: "NoSuchLayout"}
	d := l.ToDescriptor()
	if d.Kind != layout.Columns {
		t.Fatalf("Kind = %v, want Columns", d.Kind)
	}
}

func TestRuleCatalogsSets(t *testing.T) {
	rc := RuleCatalogs{
		Float: []RuleConfig{{Field: "Executable", Pattern: "foo.exe", Strategy: "Equals"}},
	}
	float, ignore, _, _, _, _, _ := rc.Sets()
	if len(float) != 1 {
		t.Fatalf("float set len = %d, want 1", len(float))
	}
	if ignore != nil {
		t.Fatalf("ignore set = %v, want nil", ignore)
	}
}

func TestLoadOrCreateWritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate: %v", err)
	}
	if cfg.Defaults.HidePolicy != "hide" {
		t.Fatalf("HidePolicy = %q, want hide", cfg.Defaults.HidePolicy)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default config written to disk: %v", err)
	}
}

func TestLoaderHotReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte(`{"defaults":{"outerPadding":1}}`), 0600); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(path)
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if l.Config().Defaults.OuterPadding != 1 {
		t.Fatalf("initial OuterPadding = %d, want 1", l.Config().Defaults.OuterPadding)
	}

	applied := make(chan *Config, 1)
	l.OnChange(func(c *Config) { applied <- c })

	if err := l.Watch(); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	defer l.Close()

	if err := os.WriteFile(path, []byte(`{"defaults":{"outerPadding":9}}`), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-applied:
		if c.Defaults.OuterPadding != 9 {
			t.Fatalf("reloaded OuterPadding = %d, want 9", c.Defaults.OuterPadding)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hot reload callback")
	}
}

func TestGlobalDefaultsToGlobalOptions(t *testing.T) {
	d := GlobalDefaults{HidePolicy: "minimize", CrossBoundary: "monitor", ResizeEpsilon: 3, MouseFollowsFocus: true}
	opts := d.ToGlobalOptions()
	if opts.HidePolicy != state.HidePolicyMinimize {
		t.Fatalf("HidePolicy = %v, want HidePolicyMinimize", opts.HidePolicy)
	}
	if opts.CrossBoundary != state.CrossBoundaryMonitor {
		t.Fatalf("CrossBoundary = %v, want CrossBoundaryMonitor", opts.CrossBoundary)
	}
	if !opts.MouseFollowsFocus || opts.ResizeEpsilon != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}

func TestWorkspaceConfigToPolicy(t *testing.T) {
	if (WorkspaceConfig{ContainerPolicy: "append"}).ToPolicy() != state.AppendToFocusedPolicy {
		t.Fatal("expected AppendToFocusedPolicy")
	}
	if (WorkspaceConfig{}).ToPolicy() != state.NewContainerPolicy {
		t.Fatal("expected NewContainerPolicy default")
	}
}

func TestResolveCustomLayoutsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	spec := layout.CustomSpec{Columns: []layout.CustomColumn{{Kind: layout.ColPrimary, WidthPercent: 0.6}}}
	data, _ := json.Marshal(spec)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{Monitors: []MonitorConfig{{Workspaces: []WorkspaceConfig{
		{Name: "1", Layout: LayoutConfig{Variant: "Custom", CustomPath: path}},
	}}}}

	specs, err := ResolveCustomLayouts(cfg)
	if err != nil {
		t.Fatalf("ResolveCustomLayouts: %v", err)
	}
	got, ok := specs[path]
	if !ok || len(got.Columns) != 1 || got.Columns[0].Kind != layout.ColPrimary {
		t.Fatalf("resolved spec = %+v", got)
	}
}

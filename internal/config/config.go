// Package config parses and validates the static JSON configuration
// document (spec §4.6): per-monitor workspace/layout definitions, display
// index preferences, global behavioral defaults, rule catalogs, workspace-
// assignment rules, and external bar config paths.
package config

import (
	"tilewm/internal/geometry"
	"tilewm/internal/layout"
	"tilewm/internal/rules"
	"tilewm/internal/state"
)

// Config is the root configuration document.
type Config struct {
	Monitors                []MonitorConfig                 `json:"monitors,omitempty"`
	DisplayIndexPreferences map[int]string                  `json:"displayIndexPreferences,omitempty"`
	Defaults                GlobalDefaults                  `json:"defaults"`
	Rules                   RuleCatalogs                    `json:"rules"`
	WorkspaceRules          []WorkspaceAssignmentRuleConfig `json:"workspaceRules,omitempty"`
	Bar                     BarConfig                       `json:"bar"`
	IPC                     IPCConfig                       `json:"ipc"`
	Logging                 LoggingConfig                   `json:"logging"`
}

// MonitorConfig describes one physical monitor's workspaces and optional
// binding to a specific display (spec §4.6 "monitor configurations").
type MonitorConfig struct {
	// Serial, when set, binds this configuration to a specific display by
	// device serial (spec §3 "Monitor" identity). Empty means "apply to
	// monitors in discovery order that have no more specific match".
	Serial         string            `json:"serial,omitempty"`
	Workspaces     []WorkspaceConfig `json:"workspaces,omitempty"`
	WorkAreaOffset PaddingConfig     `json:"workAreaOffset,omitempty"`
}

// WorkspaceConfig describes one workspace's layout and padding.
type WorkspaceConfig struct {
	Name            string             `json:"name"`
	Layout          LayoutConfig       `json:"layout"`
	LayoutRules     []LayoutRuleConfig `json:"layoutRules,omitempty"`
	OuterPadding    int                `json:"outerPadding"`
	InnerPadding    int                `json:"innerPadding"`
	WorkAreaOffset  PaddingConfig      `json:"workAreaOffset,omitempty"`
	ContainerPolicy string             `json:"containerPolicy,omitempty"` // "new" | "append"
}

// ToPolicy resolves the container policy string ("new", "append") into
// state.ContainerPolicy; anything else (including empty) defaults to
// NewContainerPolicy, matching state.NewWorkspace's own default.
func (w WorkspaceConfig) ToPolicy() state.ContainerPolicy {
	if w.ContainerPolicy == "append" {
		return state.AppendToFocusedPolicy
	}
	return state.NewContainerPolicy
}

// PaddingConfig mirrors geometry.Padding's outer/inner inset model, used
// for monitor and workspace work-area offsets.
type PaddingConfig struct {
	Outer int `json:"outer,omitempty"`
	Inner int `json:"inner,omitempty"`
}

// ToPadding converts to geometry.Padding.
func (p PaddingConfig) ToPadding() geometry.Padding {
	return geometry.Padding{Outer: p.Outer, Inner: p.Inner}
}

// LayoutConfig names a built-in layout variant or a custom layout loaded
// from disk, plus the ratio knobs spec §4.2 defines.
type LayoutConfig struct {
	Variant      string    `json:"variant"`
	CustomPath   string    `json:"customPath,omitempty"`
	ColumnRatios []float64 `json:"columnRatios,omitempty"`
	RowRatios    []float64 `json:"rowRatios,omitempty"`
}

// ToDescriptor resolves a LayoutConfig into a layout.Descriptor. Unknown
// variant names fall back to Columns, matching layout.Apply's own default.
func (l LayoutConfig) ToDescriptor() layout.Descriptor {
	kind := layout.Kind(l.Variant)
	switch kind {
	case layout.BSP, layout.Columns, layout.Rows, layout.VerticalStack,
		layout.RightMainVerticalStack, layout.HorizontalStack,
		layout.UltrawideVerticalStack, layout.Grid, layout.Custom:
	default:
		kind = layout.Columns
	}
	return layout.Descriptor{Kind: kind, Path: l.CustomPath}
}

// ToOptions resolves a LayoutConfig's ratio arrays into layout.Options,
// normalizing them per spec §4.2.1 (clamp to [0.1,0.9], truncate once the
// running sum reaches 1).
func (l LayoutConfig) ToOptions() layout.Options {
	return layout.Options{
		ColumnRatios: layout.NormalizeRatios(l.ColumnRatios),
		RowRatios:    layout.NormalizeRatios(l.RowRatios),
	}
}

// LayoutRuleConfig is one (threshold -> layout) entry of a workspace's
// dynamic layout rule list (spec §4.2.2).
type LayoutRuleConfig struct {
	Threshold int          `json:"threshold"`
	Layout    LayoutConfig `json:"layout"`
}

// RuleConfig is one identifier-match rule (spec §4.3.1), the serialized
// form of rules.Rule.
type RuleConfig struct {
	Field    string `json:"field"`
	Pattern  string `json:"pattern"`
	Strategy string `json:"strategy"`
}

// ToRule converts a RuleConfig into a rules.Rule. Callers must run
// rules.CompileAll over the converted batch before matching, so a
// Regex-strategy rule with an invalid pattern surfaces as a validation
// error rather than a silent non-match (spec §7 "Rule parse failure").
func (r RuleConfig) ToRule() rules.Rule {
	return rules.Rule{
		Field:    rules.Field(r.Field),
		Pattern:  r.Pattern,
		Strategy: rules.Strategy(r.Strategy),
	}
}

func toRuleSet(cfgs []RuleConfig) rules.Set {
	if len(cfgs) == 0 {
		return nil
	}
	out := make(rules.Set, len(cfgs))
	for i, c := range cfgs {
		out[i] = c.ToRule()
	}
	return out
}

// RuleCatalogs groups every global rule list spec §3 "Root state" names.
type RuleCatalogs struct {
	Float            []RuleConfig `json:"float,omitempty"`
	Ignore           []RuleConfig `json:"ignore,omitempty"`
	Manage           []RuleConfig `json:"manage,omitempty"`
	Tray             []RuleConfig `json:"tray,omitempty"`
	ObjectNameChange []RuleConfig `json:"objectNameChange,omitempty"`
	Layered          []RuleConfig `json:"layered,omitempty"`
	BorderOverflow   []RuleConfig `json:"borderOverflow,omitempty"`
}

// Sets converts every catalog to a rules.Set in one pass.
func (c RuleCatalogs) Sets() (float, ignore, manage, tray, objectNameChange, layered, borderOverflow rules.Set) {
	return toRuleSet(c.Float), toRuleSet(c.Ignore), toRuleSet(c.Manage),
		toRuleSet(c.Tray), toRuleSet(c.ObjectNameChange), toRuleSet(c.Layered),
		toRuleSet(c.BorderOverflow)
}

// WorkspaceAssignmentRuleConfig routes windows matching Rule to a named
// workspace on a named monitor (spec §4.3.1 step 6).
type WorkspaceAssignmentRuleConfig struct {
	Rule            RuleConfig `json:"rule"`
	TargetMonitor   string     `json:"targetMonitor,omitempty"`
	TargetWorkspace string     `json:"targetWorkspace"`
}

// StackbarConfig controls the optional per-stack tab strip (spec §1
// "optional per-stack tab strip").
type StackbarConfig struct {
	Enabled bool   `json:"enabled"`
	Height  int    `json:"height,omitempty"`
	Mode    string `json:"mode,omitempty"` // "always" | "multiWindow" | "never"
}

// GlobalDefaults bundles the process-wide behavioral knobs spec §4.6 names:
// padding, borders, animations, stackbar, window-hiding behavior,
// cross-boundary/cross-monitor move behavior, mouse-follows-focus, and
// focus-follows-mouse mode.
type GlobalDefaults struct {
	OuterPadding      int            `json:"outerPadding"`
	InnerPadding      int            `json:"innerPadding"`
	BorderEnabled     bool           `json:"borderEnabled"`
	BorderWidth       int            `json:"borderWidth,omitempty"`
	AnimationsEnabled bool           `json:"animationsEnabled"`
	Stackbar          StackbarConfig `json:"stackbar"`
	HidePolicy        string         `json:"hidePolicy"`    // "hide" | "minimize" | "cloak"
	CrossBoundary     string         `json:"crossBoundary"` // "none" | "workspace" | "monitor"
	CrossMonitorMove  string         `json:"crossMonitorMove,omitempty"`
	MouseFollowsFocus bool           `json:"mouseFollowsFocus"`
	FocusFollowsMouse string         `json:"focusFollowsMouse,omitempty"` // "off" | "sloppy" | "strict"
	ResizeEpsilon     int            `json:"resizeEpsilon"`
}

// ToGlobalOptions resolves the string-named behavioral knobs into the
// state package's enum types, for installing into state.Root.Options at
// startup and on every hot reload.
func (d GlobalDefaults) ToGlobalOptions() state.GlobalOptions {
	hide := state.HidePolicyHide
	switch d.HidePolicy {
	case "minimize":
		hide = state.HidePolicyMinimize
	case "cloak":
		hide = state.HidePolicyCloak
	}
	cross := state.CrossBoundaryNone
	switch d.CrossBoundary {
	case "workspace":
		cross = state.CrossBoundaryWorkspace
	case "monitor":
		cross = state.CrossBoundaryMonitor
	}
	return state.GlobalOptions{
		HidePolicy:        hide,
		MouseFollowsFocus: d.MouseFollowsFocus,
		CrossBoundary:     cross,
		ResizeEpsilon:     d.ResizeEpsilon,
		BorderEnabled:     d.BorderEnabled,
	}
}

// BarConfig stores file paths consumed by an external status-bar process;
// the core reads and hot-reloads them but never interprets their contents
// (spec §1 "the status bar ... specified only via their interfaces").
type BarConfig struct {
	ConfigPaths []string `json:"configPaths,omitempty"`
}

// IPCConfig configures the control server's listeners (spec §4.5).
type IPCConfig struct {
	SocketPath string `json:"socketPath,omitempty"`
	TCPAddr    string `json:"tcpAddr,omitempty"`
}

// LoggingConfig configures the structured logger (internal/logging).
type LoggingConfig struct {
	Level string `json:"level,omitempty"`
	Path  string `json:"path,omitempty"`
}

// Default returns a minimal, valid Config: no monitor-specific overrides,
// BSP-friendly padding, hide-on-unfocus, no rules.
func Default() *Config {
	return &Config{
		Defaults: GlobalDefaults{
			OuterPadding:  10,
			InnerPadding:  10,
			HidePolicy:    "hide",
			CrossBoundary: "none",
			ResizeEpsilon: 2,
		},
		IPC: IPCConfig{
			SocketPath: DefaultSocketPath(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tilewm/internal/layout"
	"tilewm/internal/rules"
)

// ValidationError represents a single configuration validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

var validHidePolicies = map[string]bool{"hide": true, "minimize": true, "cloak": true}
var validCrossBoundary = map[string]bool{"none": true, "workspace": true, "monitor": true}
var validStrategies = map[rules.Strategy]bool{
	rules.Legacy: true, rules.Equals: true, rules.StartsWith: true,
	rules.EndsWith: true, rules.Contains: true, rules.Regex: true,
}
var validFields = map[rules.Field]bool{
	rules.FieldExecutable: true, rules.FieldClass: true,
	rules.FieldTitle: true, rules.FieldPath: true,
}

// ValidateConfig performs the field-level checks of the configuration (rule
// well-formedness, index sanity, ratio clamping) the schema alone can't
// express; JSON-schema structural validation of the raw document is
// ValidateDocument's job, which Parse runs first. Ratio arrays are normalized in
// place as a side effect, per spec §4.2.1, so a validated Config is ready
// to drive the layout engine directly.
func ValidateConfig(c *Config) error {
	var errs ValidationErrors

	errs = append(errs, validateRuleCatalogs(c.Rules)...)
	errs = append(errs, validateWorkspaceRules(c.WorkspaceRules)...)
	errs = append(errs, validateMonitors(c.Monitors)...)
	errs = append(errs, validateGlobalDefaults(&c.Defaults)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateDocument runs the embedded JSON Schema against a raw config
// document, independent of whether it unmarshals cleanly into Config. This
// catches structural mistakes (wrong types, unknown required fields) that
// a partial unmarshal would silently drop.
func ValidateDocument(raw []byte) error {
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("config: invalid JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		return fmt.Errorf("config: schema resource: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("config: schema compile: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("config: schema validation: %w", err)
	}
	return nil
}

func validateRuleConfig(field string, r RuleConfig) ValidationErrors {
	var errs ValidationErrors
	if !validFields[rules.Field(r.Field)] {
		errs = append(errs, ValidationError{field + ".field", fmt.Sprintf("unknown field %q", r.Field)})
	}
	if !validStrategies[rules.Strategy(r.Strategy)] {
		errs = append(errs, ValidationError{field + ".strategy", fmt.Sprintf("unknown strategy %q", r.Strategy)})
		return errs
	}
	if r.Strategy == string(rules.Regex) {
		if _, err := regexp.Compile(r.Pattern); err != nil {
			errs = append(errs, ValidationError{field + ".pattern", fmt.Sprintf("invalid regex: %v", err)})
		}
	}
	return errs
}

func validateRuleCatalogSlice(name string, cfgs []RuleConfig) ValidationErrors {
	var errs ValidationErrors
	for i, r := range cfgs {
		errs = append(errs, validateRuleConfig(fmt.Sprintf("rules.%s[%d]", name, i), r)...)
	}
	return errs
}

func validateRuleCatalogs(rc RuleCatalogs) ValidationErrors {
	var errs ValidationErrors
	errs = append(errs, validateRuleCatalogSlice("float", rc.Float)...)
	errs = append(errs, validateRuleCatalogSlice("ignore", rc.Ignore)...)
	errs = append(errs, validateRuleCatalogSlice("manage", rc.Manage)...)
	errs = append(errs, validateRuleCatalogSlice("tray", rc.Tray)...)
	errs = append(errs, validateRuleCatalogSlice("objectNameChange", rc.ObjectNameChange)...)
	errs = append(errs, validateRuleCatalogSlice("layered", rc.Layered)...)
	errs = append(errs, validateRuleCatalogSlice("borderOverflow", rc.BorderOverflow)...)
	return errs
}

func validateWorkspaceRules(wrs []WorkspaceAssignmentRuleConfig) ValidationErrors {
	var errs ValidationErrors
	for i, wr := range wrs {
		errs = append(errs, validateRuleConfig(fmt.Sprintf("workspaceRules[%d].rule", i), wr.Rule)...)
		if wr.TargetWorkspace == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("workspaceRules[%d].targetWorkspace", i),
				Message: "must not be empty",
			})
		}
	}
	return errs
}

func validateLayoutConfig(field string, l *LayoutConfig) ValidationErrors {
	var errs ValidationErrors
	if l.ToDescriptor().Kind == layout.Custom {
		if l.CustomPath == "" {
			errs = append(errs, ValidationError{field + ".customPath", "required when variant is Custom"})
		}
	}
	l.ColumnRatios = layout.NormalizeRatios(l.ColumnRatios)
	l.RowRatios = layout.NormalizeRatios(l.RowRatios)
	return errs
}

func validateMonitors(monitors []MonitorConfig) ValidationErrors {
	var errs ValidationErrors
	for mi := range monitors {
		m := &monitors[mi]
		seen := make(map[string]bool)
		for wi := range m.Workspaces {
			w := &m.Workspaces[wi]
			if w.Name != "" {
				if seen[w.Name] {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("monitors[%d].workspaces[%d].name", mi, wi),
						Message: fmt.Sprintf("duplicate workspace name %q", w.Name),
					})
				}
				seen[w.Name] = true
			}
			errs = append(errs, validateLayoutConfig(fmt.Sprintf("monitors[%d].workspaces[%d].layout", mi, wi), &w.Layout)...)
			for ri := range w.LayoutRules {
				errs = append(errs, validateLayoutConfig(
					fmt.Sprintf("monitors[%d].workspaces[%d].layoutRules[%d].layout", mi, wi, ri),
					&w.LayoutRules[ri].Layout)...)
			}
			if w.ContainerPolicy != "" && w.ContainerPolicy != "new" && w.ContainerPolicy != "append" {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("monitors[%d].workspaces[%d].containerPolicy", mi, wi),
					Message: fmt.Sprintf("must be \"new\" or \"append\", got %q", w.ContainerPolicy),
				})
			}
		}
	}
	return errs
}

func validateGlobalDefaults(d *GlobalDefaults) ValidationErrors {
	var errs ValidationErrors
	if d.HidePolicy != "" && !validHidePolicies[d.HidePolicy] {
		errs = append(errs, ValidationError{"defaults.hidePolicy", fmt.Sprintf("must be one of hide/minimize/cloak, got %q", d.HidePolicy)})
	}
	if d.CrossBoundary != "" && !validCrossBoundary[d.CrossBoundary] {
		errs = append(errs, ValidationError{"defaults.crossBoundary", fmt.Sprintf("must be one of none/workspace/monitor, got %q", d.CrossBoundary)})
	}
	if d.ResizeEpsilon < 0 {
		errs = append(errs, ValidationError{"defaults.resizeEpsilon", "must be >= 0"})
	}
	return errs
}

package config

// configSchema is the JSON Schema the raw configuration document is
// validated against before field-level checks run (spec §4.6 "JSON-schema
// validation of the raw document"). Kept permissive on unknown top-level
// shapes a future field might add; strict on the types that matter for
// safe unmarshaling (ratio arrays, rule strategy enums).
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "monitors": {
      "type": "array",
      "items": { "$ref": "#/$defs/monitor" }
    },
    "displayIndexPreferences": {
      "type": "object",
      "additionalProperties": { "type": "string" }
    },
    "defaults": { "$ref": "#/$defs/globalDefaults" },
    "rules": { "$ref": "#/$defs/ruleCatalogs" },
    "workspaceRules": {
      "type": "array",
      "items": { "$ref": "#/$defs/workspaceAssignmentRule" }
    },
    "bar": {
      "type": "object",
      "properties": {
        "configPaths": { "type": "array", "items": { "type": "string" } }
      }
    },
    "ipc": {
      "type": "object",
      "properties": {
        "socketPath": { "type": "string" },
        "tcpAddr": { "type": "string" }
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": { "type": "string" },
        "path": { "type": "string" }
      }
    }
  },
  "$defs": {
    "ratioArray": {
      "type": "array",
      "items": { "type": "number" }
    },
    "layout": {
      "type": "object",
      "properties": {
        "variant": { "type": "string" },
        "customPath": { "type": "string" },
        "columnRatios": { "$ref": "#/$defs/ratioArray" },
        "rowRatios": { "$ref": "#/$defs/ratioArray" }
      },
      "required": ["variant"]
    },
    "layoutRule": {
      "type": "object",
      "properties": {
        "threshold": { "type": "integer", "minimum": 0 },
        "layout": { "$ref": "#/$defs/layout" }
      },
      "required": ["threshold", "layout"]
    },
    "padding": {
      "type": "object",
      "properties": {
        "outer": { "type": "integer" },
        "inner": { "type": "integer" }
      }
    },
    "workspace": {
      "type": "object",
      "properties": {
        "name": { "type": "string" },
        "layout": { "$ref": "#/$defs/layout" },
        "layoutRules": { "type": "array", "items": { "$ref": "#/$defs/layoutRule" } },
        "outerPadding": { "type": "integer" },
        "innerPadding": { "type": "integer" },
        "workAreaOffset": { "$ref": "#/$defs/padding" },
        "containerPolicy": { "type": "string", "enum": ["new", "append", ""] }
      },
      "required": ["name"]
    },
    "monitor": {
      "type": "object",
      "properties": {
        "serial": { "type": "string" },
        "workspaces": { "type": "array", "items": { "$ref": "#/$defs/workspace" } },
        "workAreaOffset": { "$ref": "#/$defs/padding" }
      }
    },
    "rule": {
      "type": "object",
      "properties": {
        "field": { "type": "string", "enum": ["Executable", "Class", "Title", "Path"] },
        "pattern": { "type": "string" },
        "strategy": {
          "type": "string",
          "enum": ["Legacy", "Equals", "StartsWith", "EndsWith", "Contains", "Regex"]
        }
      },
      "required": ["field", "pattern", "strategy"]
    },
    "ruleCatalogs": {
      "type": "object",
      "properties": {
        "float": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "ignore": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "manage": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "tray": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "objectNameChange": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "layered": { "type": "array", "items": { "$ref": "#/$defs/rule" } },
        "borderOverflow": { "type": "array", "items": { "$ref": "#/$defs/rule" } }
      }
    },
    "workspaceAssignmentRule": {
      "type": "object",
      "properties": {
        "rule": { "$ref": "#/$defs/rule" },
        "targetMonitor": { "type": "string" },
        "targetWorkspace": { "type": "string" }
      },
      "required": ["rule", "targetWorkspace"]
    },
    "stackbar": {
      "type": "object",
      "properties": {
        "enabled": { "type": "boolean" },
        "height": { "type": "integer" },
        "mode": { "type": "string", "enum": ["always", "multiWindow", "never", ""] }
      }
    },
    "globalDefaults": {
      "type": "object",
      "properties": {
        "outerPadding": { "type": "integer" },
        "innerPadding": { "type": "integer" },
        "borderEnabled": { "type": "boolean" },
        "borderWidth": { "type": "integer" },
        "animationsEnabled": { "type": "boolean" },
        "stackbar": { "$ref": "#/$defs/stackbar" },
        "hidePolicy": { "type": "string", "enum": ["hide", "minimize", "cloak", ""] },
        "crossBoundary": { "type": "string", "enum": ["none", "workspace", "monitor", ""] },
        "crossMonitorMove": { "type": "string" },
        "mouseFollowsFocus": { "type": "boolean" },
        "focusFollowsMouse": { "type": "string", "enum": ["off", "sloppy", "strict", ""] },
        "resizeEpsilon": { "type": "integer" }
      }
    }
  }
}`

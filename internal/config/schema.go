package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// configSchema is the JSON Schema the parsed configuration must satisfy,
// applied after format-specific decoding so TOML, JSON, and YAML inputs
// are all held to the same shape.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "imeswitchd configuration",
  "type": "object",
  "required": ["version", "locales"],
  "properties": {
    "version": {"type": "integer", "minimum": 1},
    "locales": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "trigger_key", "layout", "mode_toggle_key", "native", "alphanumeric"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "trigger_key": {"type": "string", "minLength": 1},
          "layout": {"type": "string", "pattern": "^(0[xX])?[0-9a-fA-F]{1,8}$"},
          "engine": {"type": "string"},
          "mode_toggle_key": {"type": "string", "minLength": 1},
          "conversion_key": {"type": "string"},
          "native": {"$ref": "#/definitions/modeSpec"},
          "alphanumeric": {"$ref": "#/definitions/modeSpec"},
          "relaxed_native": {"type": "boolean"}
        }
      }
    },
    "hotkeys": {
      "type": "object",
      "properties": {
        "convert": {"type": "string"}
      }
    },
    "settle": {
      "type": "object",
      "properties": {
        "interval_ms": {"type": "integer", "minimum": 0},
        "timeout_ms": {"type": "integer", "minimum": 0}
      }
    },
    "journal": {
      "type": "object",
      "properties": {
        "backend": {"enum": ["", "none", "file", "sqlite"]},
        "path": {"type": "string"}
      }
    },
    "notify": {
      "type": "object",
      "properties": {
        "enabled": {"type": "boolean"},
        "timeout_ms": {"type": "integer", "minimum": 0}
      }
    },
    "logging": {
      "type": "object",
      "properties": {
        "level": {"enum": ["", "debug", "info", "warn", "warning", "error"]},
        "format": {"enum": ["", "text", "json"]},
        "output": {"enum": ["", "stdout", "stderr", "file", "both"]},
        "file_path": {"type": "string"},
        "max_size_mb": {"type": "integer", "minimum": 0},
        "max_backups": {"type": "integer", "minimum": 0}
      }
    }
  },
  "definitions": {
    "modeSpec": {
      "type": "object",
      "required": ["conversion", "open"],
      "properties": {
        "conversion": {"type": "integer", "minimum": 0},
        "open": {"type": "integer", "enum": [0, 1]},
        "switch_key": {"type": "string"}
      }
    }
  }
}`

// ValidateSchema checks the configuration against the embedded JSON
// Schema. The config is round-tripped through JSON so the instance the
// validator sees matches what a JSON config file would contain.
func ValidateSchema(c *Config) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("unmarshal config instance: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", strings.NewReader(configSchema)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}

package config

// configSchema validates the knest.yaml document after YAML-to-JSON
// conversion. Unknown top-level keys are rejected so typos surface as
// errors instead of being silently ignored.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "version": {
      "type": "integer",
      "enum": [1]
    },
    "store": {
      "type": "string",
      "minLength": 1
    },
    "keyring": {
      "type": "boolean"
    },
    "kdf": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "mem_cost_kib": {"type": "integer", "minimum": 8},
        "time_cost": {"type": "integer", "minimum": 1},
        "parallelism": {"type": "integer", "minimum": 1}
      }
    }
  },
  "required": ["version"]
}`

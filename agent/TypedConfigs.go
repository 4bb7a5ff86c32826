package agent

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TypedConfig implements functionality for typing a Config. In this
// way, a Config can explicitly have its type stored so that it can be
// deserialized into its concrete type without declaring a variable of
// that type first.
//
// Serialized, a TypedConfig looks like:
//
//	type: joint
//	config:
//	  temperature: 0.1
type TypedConfig struct {
	Type
	Config
}

// NewTypedConfig types the argument Config and returns it as a
// TypedConfig which explicitly holds its Type
func NewTypedConfig(c Config) TypedConfig {
	return TypedConfig{Type: c.Type(), Config: c}
}

// MarshalJSON implements the json.Marshaler interface
func (t TypedConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   Type   `json:"type"`
		Config Config `json:"config"`
	}{t.Type, t.Config})
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (t *TypedConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type   Type            `json:"type"`
		Config json.RawMessage `json:"config"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	value, err := newConfig(raw.Type)
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %w", err)
	}
	if len(raw.Config) > 0 {
		if err := json.Unmarshal(raw.Config, value.Interface()); err != nil {
			return fmt.Errorf("unmarshalJSON: %w", err)
		}
	}

	t.Type = raw.Type
	t.Config = value.Elem().Interface().(Config)
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface
func (t TypedConfig) MarshalYAML() (interface{}, error) {
	return struct {
		Type   Type   `yaml:"type"`
		Config Config `yaml:"config"`
	}{t.Type, t.Config}, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (t *TypedConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Type   Type      `yaml:"type"`
		Config yaml.Node `yaml:"config"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	value, err := newConfig(raw.Type)
	if err != nil {
		return fmt.Errorf("unmarshalYAML: %w", err)
	}
	if !raw.Config.IsZero() {
		if err := raw.Config.Decode(value.Interface()); err != nil {
			return fmt.Errorf("unmarshalYAML: %w", err)
		}
	}

	t.Type = raw.Type
	t.Config = value.Elem().Interface().(Config)
	return nil
}

// Validate returns an error if the Config is missing, invalid, or of a
// different Type than recorded
func (t TypedConfig) Validate() error {
	if t.Config == nil {
		return fmt.Errorf("validate: no config for agent type %q", t.Type)
	}
	if t.Config.Type() != t.Type {
		return fmt.Errorf("validate: config of type %q recorded as %q",
			t.Config.Type(), t.Type)
	}
	return t.Config.Validate()
}

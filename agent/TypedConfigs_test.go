package agent

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goalnav/grid"
	"github.com/samuelfneumann/goalnav/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const still Type = "still"

type stillConfig struct {
	Action string  `json:"action" yaml:"action"`
	Weight float64 `json:"weight" yaml:"weight"`
}

func (c stillConfig) CreateAgent(rand.Source, *slog.Logger) (Agent, error) {
	return stillAgent{}, nil
}

func (c stillConfig) Validate() error {
	if c.Weight < 0 {
		return fmt.Errorf("weight must be >= 0")
	}
	return nil
}

func (c stillConfig) Type() Type { return still }

type stillAgent struct{}

func (stillAgent) SelectAction(timestep.Observation) (grid.Action, error) {
	return grid.Left, nil
}

func init() {
	Register(still, stillConfig{Action: "left", Weight: 1})
}

func TestTypedConfigJSON(t *testing.T) {
	var c TypedConfig
	err := json.Unmarshal([]byte(`{"type": "still", "config": {"weight": 2}}`),
		&c)
	require.NoError(t, err)

	assert.Equal(t, still, c.Type)
	assert.Equal(t, stillConfig{Action: "left", Weight: 2}, c.Config,
		"defaults are kept for missing fields")
	assert.NoError(t, c.Validate())

	data, err := json.Marshal(c)
	require.NoError(t, err)
	var again TypedConfig
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, c, again)
}

func TestTypedConfigYAML(t *testing.T) {
	var c TypedConfig
	require.NoError(t, yaml.Unmarshal([]byte("type: still\n"), &c))
	assert.Equal(t, stillConfig{Action: "left", Weight: 1}, c.Config)

	err := yaml.Unmarshal([]byte("type: still\nconfig:\n  weight: -1\n"), &c)
	require.NoError(t, err)
	assert.Error(t, c.Validate())
}

func TestTypedConfigUnregistered(t *testing.T) {
	var c TypedConfig
	err := json.Unmarshal([]byte(`{"type": "nope"}`), &c)
	assert.Error(t, err)

	err = yaml.Unmarshal([]byte("type: nope\n"), &c)
	assert.Error(t, err)
}

func TestTypedConfigValidate(t *testing.T) {
	assert.Error(t, TypedConfig{Type: still}.Validate(), "missing config")
	assert.Error(t, TypedConfig{Type: Joint, Config: stillConfig{}}.Validate(),
		"mismatched type")
	assert.NoError(t, NewTypedConfig(stillConfig{}).Validate())
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, Registered(), still)
}

func TestDefault(t *testing.T) {
	c, err := Default(still)
	require.NoError(t, err)
	assert.Equal(t, stillConfig{Action: "left", Weight: 1}, c)

	_, err = Default("nope")
	assert.Error(t, err)
}

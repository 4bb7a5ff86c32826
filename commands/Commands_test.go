package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/goalnav/experiment/tracker"
	"github.com/samuelfneumann/goalnav/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := GetRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestChoose(t *testing.T) {
	out, _, err := execute(t, "choose", "--position", "0,0", "--goal", "0,3")
	require.NoError(t, err)
	assert.Contains(t, out, "action: right")
	for _, a := range grid.Actions() {
		assert.Contains(t, out, a.String())
	}
}

func TestChooseValues(t *testing.T) {
	out, _, err := execute(t, "choose", "--position", "0,0", "--goal", "0,3",
		"--obstacle", "1,1", "--values")
	require.NoError(t, err)
	assert.Contains(t, out, " 30.00|")
	assert.Contains(t, out, "   ###|")
	assert.Contains(t, out, "action: right")
	assert.NotContains(t, out, "\x1b[")
}

func TestChooseObstacle(t *testing.T) {
	out, _, err := execute(t, "choose", "--position", "0,0", "--goal", "0,3",
		"--obstacle", "0,1")
	require.NoError(t, err)
	assert.Contains(t, out, "action: down")
}

func TestChooseJoint(t *testing.T) {
	t.Setenv("GOALNAV_AGENT", "joint")
	out, _, err := execute(t, "choose", "--position", "0,0", "--partner",
		"0,4", "--goal", "0,2")
	require.NoError(t, err)
	assert.Contains(t, out, "action: ")
	assert.Contains(t, out, "right")
}

func TestChooseErrors(t *testing.T) {
	_, _, err := execute(t, "choose", "--position", "zero")
	assert.Error(t, err)

	_, _, err = execute(t, "choose", "--goal", "99,99")
	assert.Error(t, err, "goal outside of the grid")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "none"),
		"choose")
	assert.Error(t, err)

	_, _, err = execute(t, "--log-level", "loud", "choose")
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	out, stderr, err := execute(t, "--log-level", "warn", "run",
		"--episodes", "2", "--out", dir, "--start", "0,0", "--goal", "3,0",
		"--png", "--heatmap", "--chart")
	require.NoError(t, err)
	assert.Contains(t, out, "episodes: 2  steps: 6")
	assert.Contains(t, out, "mean return: 28.000  mean length: 3.000")
	assert.Contains(t, stderr, "100.00%")

	lengths, err := tracker.LoadData[int](filepath.Join(dir,
		"episode_length.bin"))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 3}, lengths)

	for _, name := range []string{"return.bin", "trajectory.bin",
		"trajectory_0.png", "trajectory_1.png", "values.png",
		"episodes.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "goalnav.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
agent:
  type: individual
  config:
    grid_size: 5
experiment:
  type: online
  max_steps: 100
  episodes: 1
scenario:
  start: {row: 4, col: 4}
  goals:
    - {row: 0, col: 4}
`), 0o600))

	out, _, err := execute(t, "--config", path, "run", "--out",
		filepath.Join(dir, "results"))
	require.NoError(t, err)
	assert.Contains(t, out, "episodes: 1  steps: 4")
}

func TestRunStarts(t *testing.T) {
	dir := t.TempDir()
	out, _, err := execute(t, "run", "--episodes", "20", "--out", dir,
		"--starts", "3,0", "--starts", "0,3", "--goal", "0,0")
	require.NoError(t, err)
	assert.Contains(t, out, "episodes: 20  steps: 60")

	paths, err := tracker.LoadData[[]grid.Cell](filepath.Join(dir,
		"trajectory.bin"))
	require.NoError(t, err)
	starts := make(map[grid.Cell]bool)
	for _, path := range paths {
		starts[path[0]] = true
	}
	assert.Equal(t, map[grid.Cell]bool{{Row: 3, Col: 0}: true,
		{Row: 0, Col: 3}: true}, starts)
}

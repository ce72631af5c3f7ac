package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
	"gopkg.in/yaml.v2"
)

func TestRuntimeConfigDefaults(t *testing.T) {
	rc := config.NewRuntimeConfig(config.Config{})
	assert.EqualValues(t, config.DefaultSignalPeriod, rc.C.SignalPeriod)
	assert.EqualValues(t, config.DefaultPatience, rc.C.Patience)
	assert.Equal(t, config.DefaultLaneWindow, rc.C.LaneWindow)
	assert.Equal(t, config.DefaultInterval, rc.C.Step.Interval)
	assert.True(t, rc.ReplanOnNode)
	assert.Nil(t, rc.All.Output)
}

func TestRuntimeConfigFromYaml(t *testing.T) {
	data := `
input:
  map: maps/city.txt
  graph: maps/city.yaml
control:
  step:
    start: 0
    total: 500
    interval: 1
  signal_period: 7
  patience: 5
  replan_on_node: false
  seed: 3
spawn:
  interval: 2
  amount: 4
  points: [[0, 0], [9, 9]]
output:
  uri: mongodb://localhost:27017
  db: sim
  col: ticks
`
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(data), &c))
	rc := config.NewRuntimeConfig(c)
	assert.EqualValues(t, 7, rc.C.SignalPeriod)
	assert.EqualValues(t, 5, rc.C.Patience)
	assert.False(t, rc.ReplanOnNode)
	assert.EqualValues(t, 500, rc.C.Step.Total)
	assert.Equal(t, [][2]int{{0, 0}, {9, 9}}, rc.All.Spawn.Points)
	require.NotNil(t, rc.All.Output)
	assert.Equal(t, config.DefaultBuffer, rc.All.Output.Buffer)
}

func TestLaneWindowBounded(t *testing.T) {
	for _, n := range []int{-1, 0, 4, 10} {
		rc := config.NewRuntimeConfig(config.Config{Control: config.Control{LaneWindow: n}})
		assert.Equal(t, config.DefaultLaneWindow, rc.C.LaneWindow, "lane_window %d", n)
	}
	rc := config.NewRuntimeConfig(config.Config{Control: config.Control{LaneWindow: 2}})
	assert.Equal(t, 2, rc.C.LaneWindow)
}

func TestUnknownFieldRejected(t *testing.T) {
	var c config.Config
	err := yaml.UnmarshalStrict([]byte("control:\n  unknown_flag: 1\n"), &c)
	assert.Error(t, err)
}

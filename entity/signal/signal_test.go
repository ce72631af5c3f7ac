package signal_test

import (
	"context"
	"strings"
	"testing"

	"connectrpc.com/connect"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/grid"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/signal"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

var (
	horizontal = entity.Cell{X: 1, Y: 0}
	vertical   = entity.Cell{X: 3, Y: 1}
)

func newManager(t *testing.T, period int32) *signal.Manager {
	m, err := input.ParseMap(strings.NewReader("###s#\n>S>^<"))
	require.NoError(t, err)
	return signal.NewManager(grid.New(m), period)
}

func TestSignalInitialColors(t *testing.T) {
	m := newManager(t, 10)
	assert.True(t, m.IsRed(horizontal))
	assert.False(t, m.IsRed(vertical))
	assert.Equal(t, mapv2.LightState_LIGHT_STATE_GREEN, m.ColorAt(entity.Cell{X: 0, Y: 0}))

	states := m.Signals()
	require.Len(t, states, 2)
	assert.Equal(t, horizontal, states[0].Cell)
	assert.Equal(t, entity.Horizontal, states[0].Orientation)
	assert.Equal(t, vertical, states[1].Cell)
	assert.Equal(t, entity.Vertical, states[1].Orientation)
}

func TestSignalPeriodicity(t *testing.T) {
	const period = 10
	m := newManager(t, period)
	for tick := 0; tick < 5*period; tick++ {
		// 第k个周期内颜色保持不变，周期之间交替
		red := (tick/period)%2 == 0
		assert.Equal(t, red, m.IsRed(horizontal), "tick %d", tick)
		assert.Equal(t, !red, m.IsRed(vertical), "tick %d", tick)
		m.Update()
	}
}

func TestGetTrafficLight(t *testing.T) {
	m := newManager(t, 4)
	m.Update()

	res, err := m.GetTrafficLight(context.Background(), connect.NewRequest(&mapv2.GetTrafficLightRequest{JunctionId: 1}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Msg.PhaseIndex)
	assert.Equal(t, 3.0, res.Msg.TimeRemaining)
	require.Len(t, res.Msg.TrafficLight.Phases, 2)
	assert.Equal(t, 4.0, res.Msg.TrafficLight.Phases[0].Duration)

	_, err = m.GetTrafficLight(context.Background(), connect.NewRequest(&mapv2.GetTrafficLightRequest{JunctionId: 9}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

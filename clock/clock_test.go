package clock_test

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	clockv1 "git.fiblab.net/sim/protos/v2/go/city/clock/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/clock"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
)

func TestClockRange(t *testing.T) {
	c := clock.New(config.ControlStep{Start: 5, Total: 3, Interval: 2})
	assert.EqualValues(t, 5, c.Step)
	assert.Equal(t, 10.0, c.T)
	assert.False(t, c.Ended())

	c.Tick()
	c.Tick()
	assert.True(t, c.IsLast())
	assert.False(t, c.Ended())
	c.Tick()
	assert.True(t, c.Ended())
	assert.EqualValues(t, 3, c.Elapsed())
	assert.Equal(t, "00:00:16", c.String())

	c.Init()
	assert.EqualValues(t, 0, c.Elapsed())
}

func TestClockUnbounded(t *testing.T) {
	c := clock.New(config.ControlStep{})
	assert.Equal(t, 1.0, c.DT)
	for i := 0; i < 1000; i++ {
		c.Tick()
	}
	assert.False(t, c.Ended())
	assert.False(t, c.IsLast())
}

func TestClockNow(t *testing.T) {
	c := clock.New(config.ControlStep{Interval: 0.5})
	c.Tick()
	res, err := c.Now(context.Background(), connect.NewRequest(&clockv1.NowRequest{}))
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.Msg.T)
}

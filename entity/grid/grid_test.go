package grid_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/grid"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

func newGrid(t *testing.T, rows ...string) *grid.Grid {
	m, err := input.ParseMap(strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	return grid.New(m)
}

func TestGridSpec(t *testing.T) {
	g := newGrid(t, "D#", ">S")
	assert.Equal(t, 2, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.True(t, g.IsDestination(entity.Cell{X: 0, Y: 1}))
	assert.False(t, g.IsDestination(entity.Cell{X: 0, Y: 0}))
	assert.Equal(t, entity.KindSignal, g.Spec(entity.Cell{X: 1, Y: 0}).Kind)
	assert.Equal(t, entity.KindEmpty, g.Spec(entity.Cell{X: 2, Y: 0}).Kind)
	assert.Equal(t, []entity.Cell{{X: 0, Y: 1}}, g.Destinations())
	assert.Equal(t, []entity.Cell{{X: 1, Y: 1}}, g.Obstacles())
}

func TestGridOccupancy(t *testing.T) {
	g := newGrid(t, "D#", ">>")
	a, b := entity.Cell{X: 0, Y: 0}, entity.Cell{X: 1, Y: 0}

	require.NoError(t, g.Occupy(a, 1))
	assert.True(t, g.IsCarInCell(a))
	id, ok := g.Occupant(a)
	assert.True(t, ok)
	assert.EqualValues(t, 1, id)

	// 同一格子不允许第二辆车
	assert.Error(t, g.Occupy(a, 2))
	// 障碍物与网格外不可进入
	assert.Error(t, g.Occupy(entity.Cell{X: 1, Y: 1}, 2))
	assert.Error(t, g.Occupy(entity.Cell{X: 5, Y: 5}, 2))

	require.NoError(t, g.Occupy(b, 2))
	// 目标格被占用时移动失败且网格不变
	assert.Error(t, g.MoveCar(a, b))
	id, _ = g.Occupant(a)
	assert.EqualValues(t, 1, id)
	id, _ = g.Occupant(b)
	assert.EqualValues(t, 2, id)

	g.Vacate(b)
	require.NoError(t, g.MoveCar(a, b))
	assert.False(t, g.IsCarInCell(a))
	id, _ = g.Occupant(b)
	assert.EqualValues(t, 1, id)

	assert.Error(t, g.MoveCar(a, b))
}

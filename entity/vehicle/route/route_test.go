package route_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/grid"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/roadgraph"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/vehicle/route"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input/inputtest"
)

func newGraph(t *testing.T, rows []string, graph string) *roadgraph.Graph {
	t.Helper()
	in := inputtest.MustParse(t, rows, graph)
	g, err := roadgraph.New(grid.New(in.Map), in.Graph)
	require.NoError(t, err)
	return g
}

func TestPlanIntersection(t *testing.T) {
	g := newGraph(t, inputtest.CrossRows, inputtest.CrossGraph)
	dest := entity.Cell{X: 2, Y: 5}
	r, err := route.Plan(g, nil, 1, dest)
	require.NoError(t, err)
	assert.Equal(t, route.Route{{Node: 1, Dir: entity.DirUp}, {Node: 2, Dir: entity.DirNone}}, r)
	assert.NoError(t, r.Validate(g, dest))
	assert.Equal(t, []entity.Direction{entity.DirUp}, r.Dirs())

	// 已在目的地节点
	r, err = route.Plan(g, nil, 2, dest)
	require.NoError(t, err)
	assert.Equal(t, route.Route{{Node: 2, Dir: entity.DirNone}}, r)
}

func TestPlanIdempotent(t *testing.T) {
	g := newGraph(t, inputtest.ChainRows, inputtest.ChainGraph)
	dest := entity.Cell{X: 1, Y: 5}
	speeds := map[entity.EdgeKey]float64{{From: 1, To: 4}: 0.5}
	speed := func(from, to entity.NodeID) float64 { return speeds[entity.EdgeKey{From: from, To: to}] }
	first, err := route.Plan(g, speed, 1, dest)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := route.Plan(g, speed, 1, dest)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestPlanAdaptiveCost(t *testing.T) {
	g := newGraph(t, inputtest.ChainRows, inputtest.ChainGraph)
	dest := entity.Cell{X: 1, Y: 5}

	r, err := route.Plan(g, nil, 1, dest)
	require.NoError(t, err)
	assert.Equal(t, route.Route{
		{Node: 1, Dir: entity.DirUp},
		{Node: 4, Dir: entity.DirUp},
		{Node: 5, Dir: entity.DirNone},
	}, r)

	// 直行边学习到的速度很低时改走绕行路线
	slow := func(from, to entity.NodeID) float64 {
		if from == 1 && to == 4 {
			return 0.1
		}
		return 0
	}
	r, err = route.Plan(g, slow, 1, dest)
	require.NoError(t, err)
	assert.Equal(t, route.Route{
		{Node: 1, Dir: entity.DirRight},
		{Node: 2, Dir: entity.DirUp},
		{Node: 3, Dir: entity.DirLeft},
		{Node: 4, Dir: entity.DirUp},
		{Node: 5, Dir: entity.DirNone},
	}, r)
	assert.NoError(t, r.Validate(g, dest))
}

func TestPlanUnreachable(t *testing.T) {
	g := newGraph(t, inputtest.ChainRows, inputtest.ChainGraph)
	_, err := route.Plan(g, nil, 4, entity.Cell{X: 0, Y: 1})
	assert.ErrorIs(t, err, route.ErrUnreachable)
	_, err = route.Plan(g, nil, 1, entity.Cell{X: 1, Y: 2})
	assert.ErrorIs(t, err, route.ErrUnreachable)
	_, err = route.Plan(g, nil, 99, entity.Cell{X: 1, Y: 5})
	assert.ErrorIs(t, err, route.ErrUnreachable)
}

func TestRouteValidate(t *testing.T) {
	g := newGraph(t, inputtest.ChainRows, inputtest.ChainGraph)
	dest := entity.Cell{X: 1, Y: 5}
	cases := map[string]route.Route{
		"empty":        {},
		"missing edge": {{Node: 1, Dir: entity.DirDown}, {Node: 5, Dir: entity.DirNone}},
		"wrong target": {{Node: 1, Dir: entity.DirRight}, {Node: 4, Dir: entity.DirNone}},
		"open end":     {{Node: 1, Dir: entity.DirUp}, {Node: 4, Dir: entity.DirUp}},
		"wrong end":    {{Node: 1, Dir: entity.DirLeft}, {Node: 6, Dir: entity.DirNone}},
	}
	for name, r := range cases {
		assert.Error(t, r.Validate(g, dest), name)
	}

	r := route.Route{{Node: 1, Dir: entity.DirUp}, {Node: 4, Dir: entity.DirUp}, {Node: 5, Dir: entity.DirNone}}
	assert.NoError(t, r.Validate(g, dest))
	head, ok := r.Head()
	assert.True(t, ok)
	assert.EqualValues(t, 1, head.Node)
	assert.Len(t, r.Pop(), 2)
	_, ok = route.Route{}.Head()
	assert.False(t, ok)
}

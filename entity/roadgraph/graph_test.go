package roadgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/grid"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/roadgraph"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input/inputtest"
)

func build(t *testing.T, rows []string, graph string) (*roadgraph.Graph, error) {
	t.Helper()
	in := inputtest.MustParse(t, rows, graph)
	return roadgraph.New(grid.New(in.Map), in.Graph)
}

func TestGraphAccessors(t *testing.T) {
	g, err := build(t, inputtest.CrossRows, inputtest.CrossGraph)
	require.NoError(t, err)

	id, ok := g.NodeOf(entity.Cell{X: 2, Y: 3})
	require.True(t, ok)
	assert.EqualValues(t, 1, id)
	_, ok = g.NodeOf(entity.Cell{X: 2, Y: 0})
	assert.False(t, ok)

	assert.Equal(t, []entity.Cell{{X: 2, Y: 3}}, g.CellsOf(1))
	assert.Nil(t, g.CellsOf(42))
	assert.True(t, g.DirectionsOf(1).Has(entity.DirUp))
	assert.False(t, g.DirectionsOf(1).Has(entity.DirDown))
	assert.Len(t, g.EdgesFrom(1), 3)
	assert.Empty(t, g.EdgesFrom(2))

	e, ok := g.EdgeTowards(1, entity.DirLeft)
	require.True(t, ok)
	assert.EqualValues(t, 3, e.To)
	_, ok = g.EdgeTowards(1, entity.DirDown)
	assert.False(t, ok)

	assert.True(t, g.IsDestinationNode(2))
	assert.False(t, g.IsDestinationNode(1))
	assert.Equal(t, entity.Cell{X: 0, Y: 3}, g.Representative(3))
	assert.Equal(t, []entity.NodeID{1, 2, 3, 4}, g.Nodes())
}

func TestGraphPassThrough(t *testing.T) {
	g, err := build(t, inputtest.ChainRows, inputtest.ChainGraph)
	require.NoError(t, err)
	// 单出边
	assert.True(t, g.IsPassThrough(2))
	assert.True(t, g.IsPassThrough(3))
	assert.True(t, g.IsPassThrough(4))
	// 三条出边的单格路口
	assert.False(t, g.IsPassThrough(1))
	// 目的地
	assert.False(t, g.IsPassThrough(5))

	g, err = build(t, inputtest.TwoLaneRows, inputtest.TwoLaneGraph)
	require.NoError(t, err)
	// 两个格子的节点
	assert.True(t, g.IsPassThrough(1))
}

func TestGraphValidation(t *testing.T) {
	cases := []struct {
		name  string
		graph string
	}{
		{"node without cells", `
nodes:
  - {id: 1, directions: [up], cells: []}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"cell out of grid", `
nodes:
  - {id: 1, directions: [up], cells: [[9, 9]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"obstacle cell", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1], [0, 0]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"shared cell", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2], [2, 1]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"unknown target", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 7, direction: up, distance: 1}
`},
		{"self loop", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 1, direction: left, distance: 1}
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"non-positive distance", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 0}
`},
		{"duplicate direction", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
  - {id: 3, directions: [], cells: [[1, 1]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
  - {from: 1, to: 3, direction: up, distance: 1}
`},
		{"destination outside nodes", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
edges: []
`},
		{"destination with edges", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
  - {from: 2, to: 1, direction: down, distance: 1}
`},
		{"dead end", `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
  - {id: 3, directions: [], cells: [[1, 1]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`},
		{"unreachable destination", `
nodes:
  - {id: 1, directions: [left], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
  - {id: 3, directions: [], cells: [[1, 1]]}
  - {id: 4, directions: [], cells: [[3, 1]]}
edges:
  - {from: 1, to: 3, direction: left, distance: 1}
  - {from: 1, to: 4, direction: right, distance: 1}
  - {from: 3, to: 1, direction: right, distance: 1}
  - {from: 4, to: 1, direction: left, distance: 1}
`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := build(t, inputtest.MergeRows, c.graph)
			assert.Error(t, err)
		})
	}

	_, err := build(t, inputtest.MergeRows, inputtest.MergeGraph)
	assert.NoError(t, err)
}

package input_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

func TestParseMap(t *testing.T) {
	m, err := input.ParseMap(strings.NewReader("#D^\n<Ss\nqvx\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Width)
	assert.Equal(t, 3, m.Height)

	// 第一行位于最上方
	assert.Equal(t, entity.KindObstacle, m.Spec(entity.Cell{X: 0, Y: 2}).Kind)
	assert.Equal(t, entity.KindDestination, m.Spec(entity.Cell{X: 1, Y: 2}).Kind)
	assert.Equal(t, []entity.Cell{{X: 1, Y: 2}}, m.Destinations)

	up := m.Spec(entity.Cell{X: 2, Y: 2})
	assert.Equal(t, entity.KindStreet, up.Kind)
	assert.Equal(t, entity.NewDirectionSet(entity.DirUp), up.Directions)

	h := m.Spec(entity.Cell{X: 1, Y: 1})
	assert.Equal(t, entity.KindSignal, h.Kind)
	assert.Equal(t, entity.Horizontal, h.Orientation)
	assert.Equal(t, entity.Vertical, m.Spec(entity.Cell{X: 2, Y: 1}).Orientation)

	assert.Equal(t, entity.NewDirectionSet(entity.DirUp, entity.DirLeft), m.Spec(entity.Cell{X: 0, Y: 0}).Directions)
	assert.Equal(t, 4, m.Spec(entity.Cell{X: 2, Y: 0}).Directions.Len())

	assert.Equal(t, entity.KindEmpty, m.Spec(entity.Cell{X: 3, Y: 0}).Kind)
	assert.Equal(t, entity.KindEmpty, m.Spec(entity.Cell{X: 0, Y: -1}).Kind)
}

func TestParseMapErrors(t *testing.T) {
	_, err := input.ParseMap(strings.NewReader("\n\n"))
	assert.Error(t, err)
	_, err = input.ParseMap(strings.NewReader("###\n##\n"))
	assert.Error(t, err)
}

func TestParseGraph(t *testing.T) {
	data := `
nodes:
  - id: 1
    directions: [up, Left]
    cells: [[2, 3], [2, 4]]
  - id: 2
    directions: []
    cells: [[2, 5]]
edges:
  - {from: 1, to: 2, direction: up, distance: 2}
`
	g, err := input.ParseGraph([]byte(data))
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	assert.Equal(t, entity.NodeID(1), g.Nodes[0].ID)
	assert.True(t, g.Nodes[0].Directions.Has(entity.DirLeft))
	assert.Equal(t, []entity.Cell{{X: 2, Y: 3}, {X: 2, Y: 4}}, g.Nodes[0].Cells)
	assert.Equal(t, []entity.Edge{{From: 1, To: 2, Direction: entity.DirUp, Distance: 2}}, g.Edges)
}

func TestParseGraphJSON(t *testing.T) {
	data := `{"nodes": [{"id": 7, "directions": ["down"], "cells": [[0, 0]]}], "edges": []}`
	g, err := input.ParseGraph([]byte(data))
	require.NoError(t, err)
	assert.Equal(t, entity.NewDirectionSet(entity.DirDown), g.Nodes[0].Directions)
}

func TestParseGraphErrors(t *testing.T) {
	cases := map[string]string{
		"bad direction": "nodes:\n  - {id: 1, directions: [north], cells: [[0, 0]]}\n",
		"duplicated id": "nodes:\n  - {id: 1, cells: [[0, 0]]}\n  - {id: 1, cells: [[1, 0]]}\n",
		"bad edge":      "edges:\n  - {from: 1, to: 2, direction: sideways, distance: 1}\n",
		"unknown field": "vertices: []\n",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := input.ParseGraph([]byte(data))
			assert.Error(t, err)
		})
	}
}

package roadgraph

import (
	"fmt"
	"sort"

	"git.fiblab.net/general/common/v2/parallel"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

var log = logrus.WithField("module", "roadgraph")

// node 路网节点（路口/转向区）
type node struct {
	id          entity.NodeID
	cells       []entity.Cell
	directions  entity.DirectionSet
	edges       []entity.Edge // 出边，保持描述文件中的顺序
	destination bool          // 是否包含目的地格
}

// Graph 静态路网
// 功能：提供格子到节点的映射、节点属性与出边查询
// 说明：构建后只读，由所有车辆共享
type Graph struct {
	nodes      map[entity.NodeID]*node
	ids        []entity.NodeID
	cellToNode map[entity.Cell]entity.NodeID
}

// New 根据网格与路网描述构建路网
// 功能：建立节点、格子映射与出边表，并完成配置一致性检查
// 参数：grid-网格（用于检查格子合法性与目的地），in-路网描述
// 返回：路网实例，配置不一致时返回错误
// 算法说明：
// 1. 并行构造节点对象，检查节点至少包含一个格子
// 2. 建立格子到节点的映射，检查格子在网格内、可通行且不被两个节点共享
// 3. 加入出边，检查端点存在、无自环、距离为正、同一节点同一方向至多一条出边
// 4. 检查目的地与出边的关系及目的地可达性（见validate）
func New(grid entity.IGrid, in *input.Graph) (*Graph, error) {
	g := &Graph{
		cellToNode: make(map[entity.Cell]entity.NodeID),
	}
	nodes := parallel.GoMap(in.Nodes, func(n input.Node) *node {
		return &node{
			id:         n.ID,
			cells:      append([]entity.Cell{}, n.Cells...),
			directions: n.Directions,
			edges:      make([]entity.Edge, 0),
		}
	})
	g.nodes = lo.SliceToMap(nodes, func(n *node) (entity.NodeID, *node) {
		return n.id, n
	})
	if len(g.nodes) != len(nodes) {
		return nil, fmt.Errorf("duplicated node ids in graph description")
	}
	g.ids = lo.Keys(g.nodes)
	sort.Slice(g.ids, func(i, j int) bool { return g.ids[i] < g.ids[j] })

	for _, id := range g.ids {
		n := g.nodes[id]
		if len(n.cells) == 0 {
			return nil, fmt.Errorf("node %d has no cells", id)
		}
		for _, c := range n.cells {
			if !grid.InBounds(c) {
				return nil, fmt.Errorf("node %d: cell %v out of grid", id, c)
			}
			if !grid.Spec(c).Kind.Drivable() {
				return nil, fmt.Errorf("node %d: cell %v is %v", id, c, grid.Spec(c).Kind)
			}
			if other, ok := g.cellToNode[c]; ok {
				return nil, fmt.Errorf("cell %v claimed by nodes %d and %d", c, other, id)
			}
			g.cellToNode[c] = id
			if grid.IsDestination(c) {
				n.destination = true
			}
		}
	}

	for _, e := range in.Edges {
		from, ok := g.nodes[e.From]
		if !ok {
			return nil, fmt.Errorf("%v: unknown source node", e)
		}
		if _, ok := g.nodes[e.To]; !ok {
			return nil, fmt.Errorf("%v: unknown target node", e)
		}
		if e.From == e.To {
			return nil, fmt.Errorf("%v: self loop", e)
		}
		if e.Direction == entity.DirNone {
			return nil, fmt.Errorf("%v: missing direction", e)
		}
		if e.Distance <= 0 {
			return nil, fmt.Errorf("%v: non-positive distance", e)
		}
		if lo.ContainsBy(from.edges, func(o entity.Edge) bool { return o.Direction == e.Direction }) {
			return nil, fmt.Errorf("%v: node %d already has an edge towards %v", e, e.From, e.Direction)
		}
		from.edges = append(from.edges, e)
	}

	if err := g.validate(grid); err != nil {
		return nil, err
	}
	log.Infof("road graph: %d nodes, %d cells mapped", len(g.ids), len(g.cellToNode))
	return g, nil
}

// NodeOf 格子所属节点
func (g *Graph) NodeOf(c entity.Cell) (entity.NodeID, bool) {
	id, ok := g.cellToNode[c]
	return id, ok
}

// CellsOf 节点包含的格子，未知节点返回nil
func (g *Graph) CellsOf(id entity.NodeID) []entity.Cell {
	if n, ok := g.nodes[id]; ok {
		return n.cells
	}
	return nil
}

// DirectionsOf 节点允许的行驶方向
func (g *Graph) DirectionsOf(id entity.NodeID) entity.DirectionSet {
	if n, ok := g.nodes[id]; ok {
		return n.directions
	}
	return 0
}

// EdgesFrom 节点的出边，终点节点返回空
func (g *Graph) EdgesFrom(id entity.NodeID) []entity.Edge {
	if n, ok := g.nodes[id]; ok {
		return n.edges
	}
	return nil
}

// EdgeTowards 节点沿方向d的出边
func (g *Graph) EdgeTowards(id entity.NodeID, d entity.Direction) (entity.Edge, bool) {
	return lo.Find(g.EdgesFrom(id), func(e entity.Edge) bool { return e.Direction == d })
}

// IsPassThrough 是否为直通节点
// 说明：唯一出边或恰好两个格子的节点，拥堵信息沿此类节点向前传播
func (g *Graph) IsPassThrough(id entity.NodeID) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	return len(n.edges) == 1 || len(n.cells) == 2
}

// IsDestinationNode 节点是否包含目的地格
func (g *Graph) IsDestinationNode(id entity.NodeID) bool {
	n, ok := g.nodes[id]
	return ok && n.destination
}

// Representative 节点代表格（第一个格子）
func (g *Graph) Representative(id entity.NodeID) entity.Cell {
	return g.nodes[id].cells[0]
}

// Nodes 全部节点ID（升序）
func (g *Graph) Nodes() []entity.NodeID {
	return g.ids
}

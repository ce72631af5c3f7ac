package roadgraph

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// validate 检查路网的目的地约束
// 功能：保证每个目的地格属于一个无出边的节点、每个非目的地节点至少有一条出边、每个目的地可达
// 参数：grid-网格
// 返回：第一个发现的配置错误
// 算法说明：
// 1. 目的地格必须被某个节点包含，该节点不能有出边
// 2. 非目的地节点必须有出边，否则车辆会在此处无路可走
// 3. 用gonum有向图检查每个目的地节点至少能从一个非目的地节点到达
func (g *Graph) validate(grid entity.IGrid) error {
	for _, c := range grid.Destinations() {
		id, ok := g.cellToNode[c]
		if !ok {
			return fmt.Errorf("destination %v does not belong to any node", c)
		}
		if n := len(g.nodes[id].edges); n > 0 {
			return fmt.Errorf("destination node %d has %d outgoing edges", id, n)
		}
	}
	sources := lo.Filter(g.ids, func(id entity.NodeID, _ int) bool {
		return !g.nodes[id].destination
	})
	for _, id := range sources {
		if len(g.nodes[id].edges) == 0 {
			return fmt.Errorf("node %d is a dead end but holds no destination", id)
		}
	}

	dg := simple.NewDirectedGraph()
	for _, id := range g.ids {
		dg.AddNode(simple.Node(id))
	}
	for _, id := range g.ids {
		for _, e := range g.nodes[id].edges {
			dg.SetEdge(dg.NewEdge(simple.Node(e.From), simple.Node(e.To)))
		}
	}
	for _, id := range g.ids {
		if !g.nodes[id].destination {
			continue
		}
		reachable := lo.ContainsBy(sources, func(src entity.NodeID) bool {
			return topo.PathExistsIn(dg, simple.Node(src), simple.Node(id))
		})
		if !reachable {
			return fmt.Errorf("destination node %d is unreachable", id)
		}
	}
	return nil
}

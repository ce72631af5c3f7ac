package input

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"gopkg.in/yaml.v2"
)

// rawNode 路网描述文件中的节点
type rawNode struct {
	ID         int32    `yaml:"id"`
	Directions []string `yaml:"directions"`
	Cells      [][2]int `yaml:"cells"`
}

// rawEdge 路网描述文件中的边
type rawEdge struct {
	From      int32   `yaml:"from"`
	To        int32   `yaml:"to"`
	Direction string  `yaml:"direction"`
	Distance  float64 `yaml:"distance"`
}

type rawGraph struct {
	Nodes []rawNode `yaml:"nodes"`
	Edges []rawEdge `yaml:"edges"`
}

// Node 节点描述
type Node struct {
	ID         entity.NodeID
	Directions entity.DirectionSet
	Cells      []entity.Cell
}

// Graph 路网描述
// 说明：仅完成格式解析，拓扑一致性由roadgraph.New检查
type Graph struct {
	Nodes []Node
	Edges []entity.Edge
}

// ParseGraph 解析路网描述
// 功能：将YAML/JSON格式的节点与边描述转换为内部结构
// 参数：data-文件内容
// 返回：路网描述，方向字符串非法或节点ID重复时返回错误
func ParseGraph(data []byte) (*Graph, error) {
	var raw rawGraph
	if err := yaml.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	g := &Graph{
		Nodes: make([]Node, 0, len(raw.Nodes)),
		Edges: make([]entity.Edge, 0, len(raw.Edges)),
	}
	seen := make(map[int32]struct{})
	for _, n := range raw.Nodes {
		if _, ok := seen[n.ID]; ok {
			return nil, fmt.Errorf("duplicated node id %d", n.ID)
		}
		seen[n.ID] = struct{}{}
		var ds entity.DirectionSet
		for _, s := range n.Directions {
			d, err := entity.ParseDirection(s)
			if err != nil {
				return nil, fmt.Errorf("node %d: %w", n.ID, err)
			}
			ds = ds.Add(d)
		}
		g.Nodes = append(g.Nodes, Node{
			ID:         entity.NodeID(n.ID),
			Directions: ds,
			Cells: lo.Map(n.Cells, func(xy [2]int, _ int) entity.Cell {
				return entity.Cell{X: xy[0], Y: xy[1]}
			}),
		})
	}
	for i, e := range raw.Edges {
		d, err := entity.ParseDirection(e.Direction)
		if err != nil {
			return nil, fmt.Errorf("edge %d (%d->%d): %w", i, e.From, e.To, err)
		}
		g.Edges = append(g.Edges, entity.Edge{
			From:      entity.NodeID(e.From),
			To:        entity.NodeID(e.To),
			Direction: d,
			Distance:  e.Distance,
		})
	}
	return g, nil
}

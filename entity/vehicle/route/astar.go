package route

import (
	"fmt"

	"git.fiblab.net/general/common/v2/mathutil"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/container"
)

// DefaultSpeed 未学习过的节点对的通行速度
const DefaultSpeed = 1.0

// SpeedFunc 节点对(from,to)的学习速度，返回值不大于0时视为DefaultSpeed
type SpeedFunc func(from, to entity.NodeID) float64

// parent A*搜索树中的前驱
type parent struct {
	node entity.NodeID
	dir  entity.Direction
}

// Plan A*路径规划
// 功能：在路网上搜索从start到包含dest的节点的最短路径
// 参数：g-路网，speed-车辆自己的学习速度（可为nil），start-起点节点，dest-目的地格
// 返回：路径，目的地不在任何节点中或不可达时返回ErrUnreachable
// 算法说明：
// 1. 边代价为distance/speed，启发函数为节点代表格到dest的曼哈顿距离
// 2. open表为最小堆，相同f值按入队顺序出队，重复规划得到相同的路径
// 3. 节点出队即关闭，后续同一节点的旧条目直接跳过
// 4. 到达目标节点后沿前驱回溯得到路径
func Plan(g entity.IRoadGraph, speed SpeedFunc, start entity.NodeID, dest entity.Cell) (Route, error) {
	goal, ok := g.NodeOf(dest)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not in any node", ErrUnreachable, dest)
	}
	if g.CellsOf(start) == nil {
		return nil, fmt.Errorf("%w: unknown start node %d", ErrUnreachable, start)
	}
	h := func(n entity.NodeID) float64 {
		return float64(g.Representative(n).Manhattan(dest))
	}
	cost := func(e entity.Edge) float64 {
		s := DefaultSpeed
		if speed != nil {
			if v := speed(e.From, e.To); v > 0 {
				s = v
			}
		}
		return e.Distance / s
	}

	gScore := map[entity.NodeID]float64{start: 0}
	parents := make(map[entity.NodeID]parent)
	closed := make(map[entity.NodeID]struct{})
	open := container.NewPriorityQueue[entity.NodeID]()
	open.HeapPush(start, h(start))
	for open.Len() > 0 {
		cur, _ := open.HeapPop()
		if _, ok := closed[cur]; ok {
			continue
		}
		if cur == goal {
			return backtrack(parents, start, goal), nil
		}
		closed[cur] = struct{}{}
		for _, e := range g.EdgesFrom(cur) {
			if _, ok := closed[e.To]; ok {
				continue
			}
			tentative := gScore[cur] + cost(e)
			old, seen := gScore[e.To]
			if !seen {
				old = mathutil.INF
			}
			if tentative < old {
				gScore[e.To] = tentative
				parents[e.To] = parent{node: cur, dir: e.Direction}
				open.HeapPush(e.To, tentative+h(e.To))
			}
		}
	}
	log.Debugf("no route from node %d to %v", start, dest)
	return nil, ErrUnreachable
}

func backtrack(parents map[entity.NodeID]parent, start, goal entity.NodeID) Route {
	r := Route{{Node: goal, Dir: entity.DirNone}}
	for n := goal; n != start; {
		p := parents[n]
		r = append(r, entity.Step{Node: p.node, Dir: p.dir})
		n = p.node
	}
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return r
}

package route

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

var log = logrus.WithField("module", "route")

// ErrUnreachable 目的地不可达
// 说明：车辆保持无路径状态，下一步重新规划
var ErrUnreachable = errors.New("destination unreachable")

// Route 节点序列路径
// 说明：每一步记录在该节点离开的方向，最后一步为目的地节点，方向为DirNone
type Route []entity.Step

// Head 当前应处于的节点及离开方向
func (r Route) Head() (entity.Step, bool) {
	if len(r) == 0 {
		return entity.Step{Node: entity.NoNode}, false
	}
	return r[0], true
}

// Pop 离开当前节点后剩余的路径
func (r Route) Pop() Route {
	if len(r) == 0 {
		return r
	}
	return r[1:]
}

// Dirs 按顺序列出路径上的离开方向（不含终点）
func (r Route) Dirs() []entity.Direction {
	res := make([]entity.Direction, 0, len(r))
	for _, s := range r {
		if s.Dir == entity.DirNone {
			break
		}
		res = append(res, s.Dir)
	}
	return res
}

func (r Route) String() string {
	parts := make([]string, len(r))
	for i, s := range r {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Validate 检查路径合法性
// 功能：每一步都对应路网中的一条边，终点节点包含目的地格
// 参数：g-路网，dest-目的地格
// 返回：第一个不合法之处
func (r Route) Validate(g entity.IRoadGraph, dest entity.Cell) error {
	if len(r) == 0 {
		return errors.New("empty route")
	}
	for i := 0; i < len(r)-1; i++ {
		e, ok := g.EdgeTowards(r[i].Node, r[i].Dir)
		if !ok {
			return fmt.Errorf("step %d: node %d has no edge towards %v", i, r[i].Node, r[i].Dir)
		}
		if e.To != r[i+1].Node {
			return fmt.Errorf("step %d: edge %v does not lead to node %d", i, e, r[i+1].Node)
		}
	}
	last := r[len(r)-1]
	if last.Dir != entity.DirNone {
		return fmt.Errorf("final step %v has a direction", last)
	}
	if !slices.Contains(g.CellsOf(last.Node), dest) {
		return fmt.Errorf("final node %d does not contain destination %v", last.Node, dest)
	}
	return nil
}

package vehicle

import (
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

// travelDir 当前的行进方向：路段上为行驶方向，节点内为上次移动方向
func (v *Vehicle) travelDir(m *Manager) entity.Direction {
	if _, ok := m.graph.NodeOf(v.cell); ok {
		return v.lastDir
	}
	return v.flow(m)
}

// escape 脱困
// 功能：连续停滞过久时，尝试驶入前方、左前方、右前方三个格子之一
// 返回：是否成功
// 算法说明：
// 1. 候选格依次为正前方、左前方、右前方
// 2. 第一个无车、且为允许沿行进方向通行的道路格、信号灯格（或自己的目的地）的候选格胜出
// 3. 成功后重置停滞计数与车道窗口，丢弃路径并按新位置重新定位当前节点
// 4. 失败时保持停滞计数，下一步再试
func (v *Vehicle) escape(m *Manager) bool {
	f := v.travelDir(m)
	if f == entity.DirNone {
		return false
	}
	ahead := v.cell.Move(f)
	candidates := [3]entity.Cell{ahead, ahead.Move(f.LeftOf()), ahead.Move(f.RightOf())}
	for _, c := range candidates {
		switch spec := m.grid.Spec(c); spec.Kind {
		case entity.KindStreet:
			if !spec.Directions.Has(f) {
				continue
			}
		case entity.KindSignal:
		case entity.KindDestination:
			if c != v.dest {
				continue
			}
		case entity.KindEmpty, entity.KindObstacle:
			continue
		}
		if m.grid.IsCarInCell(c) || !m.move(v, c) {
			continue
		}
		log.Debugf("vehicle %d: escaped to %v after %d stalls", v.id, c, v.stalls)
		v.stalls = 0
		v.lastDir = f
		v.route = nil
		v.forceReplan = true
		v.prevNode = entity.NoNode
		v.onNode = entity.NoNode
		v.curNode = locate(m.grid, m.graph, c, f)
		v.congestion.ResetWindow()
		m.escapes++
		return true
	}
	log.Debugf("vehicle %d: escape failed at %v", v.id, v.cell)
	return false
}

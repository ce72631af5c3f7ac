package vehicle

import (
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

// lane 相对行驶方向的车道
type lane int

const (
	laneNone  lane = iota // 单车道或无偏好
	laneLeft              // 左侧车道
	laneRight             // 右侧车道
)

// side 车道相对行驶方向f所在的一侧
func (l lane) side(f entity.Direction) entity.Direction {
	switch l {
	case laneLeft:
		return f.LeftOf()
	case laneRight:
		return f.RightOf()
	case laneNone:
	}
	return entity.DirNone
}

// laneFor 在行驶方向f上，之后要向d转弯时应处的车道；掉头视为左转
func laneFor(f, d entity.Direction) lane {
	switch d {
	case f.RightOf():
		return laneRight
	case f.LeftOf(), f.Opposite():
		return laneLeft
	}
	return laneNone
}

// updateOnStreet 路段上的决策
// 参数：m-车辆管理器，red-当前格是否为红灯
// 算法说明：
// 1. 红灯时原地等待
// 2. 由格子的唯一通行方向（否则为上次移动方向）确定行驶方向f
// 3. 下一次转弯方向不是直行时必须进入对应车道，否则偏向之后第一次转弯对应的车道
// 4. 不在期望车道时先尝试斜向前进换道，失败或无需换道时尝试直行
// 5. 记录本步速度观测，不在期望车道时与相邻车道的车辆速度取平均
func (v *Vehicle) updateOnStreet(m *Manager, red bool) outcome {
	v.onNode = entity.NoNode
	key := entity.EdgeKey{From: v.prevNode, To: v.curNode}
	if red {
		v.congestion.Record(false)
		v.congestion.Learn(m.graph, key, v.congestion.Current())
		return outcomeSignal
	}
	f := v.flow(m)
	if f == entity.DirNone {
		v.congestion.Record(false)
		return outcomeStall
	}
	v.ensureRoute(m.graph, v.curNode, false, false)

	want := v.wantedLane(f)
	cur := v.presentLane(m, f)
	inWanted := want == laneNone || cur == laneNone || cur == want

	ahead := v.cell.Move(f)
	changed, moved := false, false
	if !inWanted {
		to := ahead.Move(want.side(f))
		if (v.sameFlow(m, to, f) || v.inCurrentNode(m, to)) && v.enterable(m, to) && m.move(v, to) {
			changed, moved = true, true
		}
	}
	if !moved && v.enterable(m, ahead) && m.move(v, ahead) {
		moved = true
	}
	if moved {
		v.lastDir = f
	} else {
		log.Debugf("vehicle %d: stalled at %v heading %v", v.id, v.cell, f)
	}

	v.congestion.Record(moved)
	speed := v.congestion.Current()
	if !inWanted {
		if other, ok := m.vehicleAt(v.cell.Move(want.side(f))); ok {
			speed = (speed + other.congestion.Current()) / 2
		}
	}
	v.congestion.Learn(m.graph, key, speed)
	if changed {
		v.congestion.ResetWindow()
	}
	if moved {
		return outcomeMoved
	}
	return outcomeStall
}

// flow 路段行驶方向：格子只有一个通行方向时取该方向，否则沿用上次移动方向
func (v *Vehicle) flow(m *Manager) entity.Direction {
	spec := m.grid.Spec(v.cell)
	switch spec.Kind {
	case entity.KindStreet:
		if d, ok := spec.Directions.Only(); ok {
			return d
		}
		if v.lastDir != entity.DirNone || spec.Directions.Len() == 0 {
			return v.lastDir
		}
		return spec.Directions.List()[0]
	case entity.KindSignal, entity.KindDestination:
		return v.lastDir
	case entity.KindEmpty, entity.KindObstacle:
	}
	return entity.DirNone
}

// wantedLane 期望车道
func (v *Vehicle) wantedLane(f entity.Direction) lane {
	head, ok := v.route.Head()
	if !ok {
		return laneNone
	}
	if head.Dir != entity.DirNone && head.Dir != f {
		// 下一次转弯不是直行，必须进入对应车道
		return laneFor(f, head.Dir)
	}
	for _, d := range v.route.Dirs() {
		if d != f {
			return laneFor(f, d)
		}
	}
	return laneNone
}

// presentLane 通过相邻格判断车辆当前所在车道
// 说明：右侧是同向车道说明车辆在左车道，反之在右车道；两侧都不是或都是时无法区分
func (v *Vehicle) presentLane(m *Manager, f entity.Direction) lane {
	left := v.sameFlow(m, v.cell.Move(f.LeftOf()), f)
	right := v.sameFlow(m, v.cell.Move(f.RightOf()), f)
	switch {
	case right && !left:
		return laneLeft
	case left && !right:
		return laneRight
	}
	return laneNone
}

// sameFlow 格子c是否为与f同向的车道
func (v *Vehicle) sameFlow(m *Manager, c entity.Cell, f entity.Direction) bool {
	spec := m.grid.Spec(c)
	switch spec.Kind {
	case entity.KindStreet:
		return spec.Directions.Has(f)
	case entity.KindSignal:
		return true
	case entity.KindEmpty, entity.KindObstacle, entity.KindDestination:
	}
	return false
}

func (v *Vehicle) inCurrentNode(m *Manager, c entity.Cell) bool {
	n, ok := m.graph.NodeOf(c)
	return ok && n == v.curNode
}

package vehicle

import (
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

// outcome 一步决策的结果
type outcome int

const (
	outcomeStall    outcome = iota // 停滞
	outcomeSignal                  // 红灯等待，不计入连续停滞
	outcomeMoved                   // 移动了一格
	outcomeFinished                // 到达目的地
)

// update 车辆一步决策
// 功能：读取网格、做出决策、通过管理器写入网格
// 参数：m-车辆管理器，提供网格、路网、信号灯的只读句柄与唯一的写入入口
// 返回：本步结果
// 算法说明：
// 1. 已在目的地则结束
// 2. 连续停滞超过耐心值且不在红灯处时尝试脱困
// 3. 在节点内按路径选择方向，否则按路段规则（车道、信号灯）前进
// 4. 更新连续停滞计数，移动后到达目的地则结束
func (v *Vehicle) update(m *Manager) outcome {
	if v.cell == v.dest {
		return outcomeFinished
	}
	red := m.signals.IsRed(v.cell)
	if v.stalls > m.patience && !red {
		if v.escape(m) {
			return v.settle(outcomeMoved)
		}
	}
	var res outcome
	if n, ok := m.graph.NodeOf(v.cell); ok {
		res = v.updateInNode(m, n)
	} else {
		res = v.updateOnStreet(m, red)
	}
	return v.settle(res)
}

func (v *Vehicle) settle(res outcome) outcome {
	switch res {
	case outcomeMoved:
		v.stalls = 0
		if v.cell == v.dest {
			return outcomeFinished
		}
	case outcomeStall:
		v.stalls++
	case outcomeSignal, outcomeFinished:
	}
	return res
}

// updateInNode 节点内的决策
// 算法说明：
// 1. 确保持有从本节点出发的合法路径
// 2. 已在目的地节点时向目的地格靠近
// 3. 计划方向被节点允许且目标格可进入时沿计划方向前进
// 4. 否则按固定顺序尝试节点允许的其他方向，不进入其他车辆的目的地，也不驶向只通往其他目的地的出边
// 5. 都不可行则停滞
func (v *Vehicle) updateInNode(m *Manager, node entity.NodeID) outcome {
	arrived := v.onNode != node
	v.onNode = node
	v.curNode = node
	v.ensureRoute(m.graph, node, arrived, m.replanOnNode)

	key := entity.EdgeKey{From: node, To: entity.NoNode}
	planned := entity.DirNone
	if head, ok := v.route.Head(); ok {
		planned = head.Dir
		if len(v.route) > 1 {
			key.To = v.route[1].Node
		}
		if planned == entity.DirNone {
			return v.approach(m, node)
		}
	} else {
		log.Debugf("vehicle %d: no route from node %d, improvising", v.id, node)
	}

	permitted := m.graph.DirectionsOf(node)
	if planned != entity.DirNone && permitted.Has(planned) {
		if to := v.cell.Move(planned); v.enterable(m, to) && m.move(v, to) {
			v.leaveCell(m, node, key, planned, true)
			return outcomeMoved
		}
	}
	for _, d := range permitted.List() {
		if d == planned || v.foreignTarget(m, node, d) {
			continue
		}
		if to := v.cell.Move(d); v.enterable(m, to) && m.move(v, to) {
			v.leaveCell(m, node, key, d, false)
			return outcomeMoved
		}
	}
	log.Debugf("vehicle %d: stalled in node %d", v.id, node)
	v.congestion.Record(false)
	v.congestion.Learn(m.graph, key, v.congestion.Current())
	return outcomeStall
}

// foreignTarget 节点node沿方向d的出边是否通往不含本车目的地的目的地节点
func (v *Vehicle) foreignTarget(m *Manager, node entity.NodeID, d entity.Direction) bool {
	e, ok := m.graph.EdgeTowards(node, d)
	if !ok || !m.graph.IsDestinationNode(e.To) {
		return false
	}
	return !lo.Contains(m.graph.CellsOf(e.To), v.dest)
}

// leaveCell 节点内移动成功后的状态更新
// 说明：驶出节点时，按计划移动则弹出路径中已完成的一步，否则以该方向出边的终点为当前节点并强制重规划
func (v *Vehicle) leaveCell(m *Manager, node entity.NodeID, key entity.EdgeKey, d entity.Direction, onPlan bool) {
	v.lastDir = d
	v.congestion.Record(true)
	v.congestion.Learn(m.graph, key, v.congestion.Current())
	if n, ok := m.graph.NodeOf(v.cell); ok && n == node {
		return
	}
	v.prevNode = node
	v.congestion.ResetWindow()
	var next entity.NodeID
	if e, ok := m.graph.EdgeTowards(node, d); ok {
		next = e.To
	} else {
		next = locate(m.grid, m.graph, v.cell, d)
	}
	if !onPlan {
		v.curNode = next
		v.forceReplan = true
		return
	}
	v.route = v.route.Pop()
	if head, ok := v.route.Head(); ok {
		v.curNode = head.Node
		return
	}
	log.Errorf("vehicle %d: route exhausted after leaving node %d towards %v", v.id, node, d)
	v.curNode = next
	v.forceReplan = true
}

// approach 在目的地节点内向目的地格移动一格
func (v *Vehicle) approach(m *Manager, node entity.NodeID) outcome {
	dist := v.cell.Manhattan(v.dest)
	for _, d := range entity.AllDirections {
		to := v.cell.Move(d)
		if n, ok := m.graph.NodeOf(to); !ok || n != node || to.Manhattan(v.dest) >= dist {
			continue
		}
		if v.enterable(m, to) && m.move(v, to) {
			v.lastDir = d
			v.congestion.Record(true)
			return outcomeMoved
		}
	}
	v.congestion.Record(false)
	return outcomeStall
}

// enterable 目标格是否可以进入：可通行、不是其他车辆的目的地、当前无车
func (v *Vehicle) enterable(m *Manager, c entity.Cell) bool {
	if !m.grid.Spec(c).Kind.Drivable() {
		return false
	}
	if m.grid.IsDestination(c) && c != v.dest {
		return false
	}
	return !m.grid.IsCarInCell(c)
}

package vehicle

import (
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/vehicle/route"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/container"
)

// Vehicle 车辆
// 功能：记录车辆位置、目的地、路径与学习到的拥堵信息
// 说明：curNode为车辆所在节点，或在路段上时为路径前方将要到达的节点；
// prevNode为最近离开的节点，用于确定路段上观测速度对应的节点对
type Vehicle struct {
	container.IncrementalItemBase

	id   int32
	cell entity.Cell
	dest entity.Cell

	curNode  entity.NodeID
	prevNode entity.NodeID
	onNode   entity.NodeID // 上一次决策时所在的节点，路段上为NoNode
	route    route.Route

	congestion  *Congestion
	stalls      int32            // 连续停滞步数（红灯等待不计）
	lastDir     entity.Direction // 最近一次移动的方向
	forceReplan bool
}

func newVehicle(id int32, cell, dest entity.Cell, windowLen int) *Vehicle {
	return &Vehicle{
		id:         id,
		cell:       cell,
		dest:       dest,
		curNode:    entity.NoNode,
		prevNode:   entity.NoNode,
		onNode:     entity.NoNode,
		congestion: NewCongestion(windowLen),
	}
}

func (v *Vehicle) ID() int32 {
	return v.id
}

func (v *Vehicle) Cell() entity.Cell {
	return v.cell
}

func (v *Vehicle) Destination() entity.Cell {
	return v.dest
}

// CurrentNode 所在节点或将要到达的节点
func (v *Vehicle) CurrentNode() entity.NodeID {
	return v.curNode
}

// Route 当前持有的路径（可能为空）
func (v *Vehicle) Route() route.Route {
	return v.route
}

// Stalls 连续停滞步数
func (v *Vehicle) Stalls() int32 {
	return v.stalls
}

func (v *Vehicle) LastDirection() entity.Direction {
	return v.lastDir
}

func (v *Vehicle) Congestion() *Congestion {
	return v.congestion
}

// ensureRoute 在需要时从start重新规划路径
// 触发条件：无路径、路径首节点与start不一致、强制重规划、或arrived且开启了进入节点即重规划
func (v *Vehicle) ensureRoute(g entity.IRoadGraph, start entity.NodeID, arrived, replanOnNode bool) {
	head, ok := v.route.Head()
	if ok && head.Node == start && !v.forceReplan && !(arrived && replanOnNode) {
		return
	}
	v.forceReplan = false
	if start == entity.NoNode {
		v.route = nil
		return
	}
	r, err := route.Plan(g, v.congestion.Speed, start, v.dest)
	if err != nil {
		log.Debugf("vehicle %d: plan from node %d failed: %v", v.id, start, err)
		v.route = nil
		return
	}
	v.route = r
}

// locate 从格子c沿行驶方向向前查找第一个节点
// 说明：c本身在节点内时直接返回该节点；遇到不可通行格或超过网格大小的步数时返回NoNode
func locate(grid entity.IGrid, g entity.IRoadGraph, c entity.Cell, d entity.Direction) entity.NodeID {
	limit := grid.Width() * grid.Height()
	for i := 0; i < limit; i++ {
		if n, ok := g.NodeOf(c); ok {
			return n
		}
		spec := grid.Spec(c)
		if !spec.Kind.Drivable() {
			return entity.NoNode
		}
		if only, ok := spec.Directions.Only(); ok {
			d = only
		}
		if d == entity.DirNone {
			return entity.NoNode
		}
		c = c.Move(d)
	}
	return entity.NoNode
}

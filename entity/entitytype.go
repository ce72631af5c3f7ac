package entity

import (
	"fmt"

	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
)

// CellKind 网格格子的静态类型（带标签的变体）
// 说明：一个格子只属于一种类型，车辆占用是独立的一层
type CellKind uint8

const (
	KindEmpty       CellKind = iota // 网格外或未定义
	KindObstacle                    // 障碍物（建筑）
	KindStreet                      // 道路，带有允许通行方向
	KindSignal                      // 信号灯所在道路格
	KindDestination                 // 目的地
)

func (k CellKind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindObstacle:
		return "obstacle"
	case KindStreet:
		return "street"
	case KindSignal:
		return "signal"
	case KindDestination:
		return "destination"
	}
	return fmt.Sprintf("CellKind(%d)", uint8(k))
}

// Drivable 车辆是否可以驶入该类型的格子（不考虑占用与目的地归属）
func (k CellKind) Drivable() bool {
	switch k {
	case KindStreet, KindSignal, KindDestination:
		return true
	case KindEmpty, KindObstacle:
		return false
	}
	return false
}

// Orientation 信号灯朝向
type Orientation uint8

const (
	Horizontal Orientation = iota // 地图字符'S'
	Vertical                      // 地图字符's'
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// CellSpec 格子的静态属性
type CellSpec struct {
	Kind        CellKind
	Directions  DirectionSet // 仅道路格有效
	Orientation Orientation  // 仅信号灯格有效
}

// NodeID 路网节点ID
type NodeID int32

// NoNode 无效节点
const NoNode NodeID = -1

// Edge 有向边
type Edge struct {
	From      NodeID
	To        NodeID
	Direction Direction // 离开From时的行驶方向
	Distance  float64   // 基础距离
}

func (e Edge) String() string {
	return fmt.Sprintf("Edge{%d-%v->%d, %.1f}", e.From, e.Direction, e.To, e.Distance)
}

// EdgeKey 节点对，学习到的通行速度按节点对索引
type EdgeKey struct {
	From, To NodeID
}

// Step 路径中的一步：在Node中沿Dir离开，最后一步的Dir为DirNone
type Step struct {
	Node NodeID
	Dir  Direction
}

func (s Step) String() string {
	return fmt.Sprintf("%d:%v", s.Node, s.Dir)
}

// SignalState 信号灯观测结果
type SignalState struct {
	ID          int32
	Cell        Cell
	Orientation Orientation
	Color       mapv2.LightState
}

// VehiclePosition 车辆位置观测结果
type VehiclePosition struct {
	ID   int32
	Cell Cell
}

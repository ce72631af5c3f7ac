package entity

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/clock"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
)

// 依赖倒置

// entity/grid/grid.go的只读接口
type IGrid interface {
	Width() int
	Height() int
	InBounds(c Cell) bool          // 坐标是否在网格内
	Spec(c Cell) CellSpec          // 格子的静态属性，网格外返回KindEmpty
	IsDestination(c Cell) bool     // 是否为目的地格
	Destinations() []Cell          // 所有目的地格（按读取顺序）
	Obstacles() []Cell             // 所有障碍物格（按y、x升序）
	IsCarInCell(c Cell) bool       // 格子内是否有车
	Occupant(c Cell) (int32, bool) // 格子内车辆ID
}

// entity/grid/grid.go的写接口，仅由车辆管理器调用
type IGridWriter interface {
	IGrid
	Occupy(c Cell, id int32) error // 车辆进入空格子
	Vacate(c Cell)                 // 车辆离开格子
	MoveCar(from, to Cell) error   // 车辆从from移动到to
}

// entity/roadgraph/graph.go的依赖倒置
type IRoadGraph interface {
	NodeOf(c Cell) (NodeID, bool)                   // 格子所属节点
	CellsOf(n NodeID) []Cell                        // 节点包含的格子
	DirectionsOf(n NodeID) DirectionSet             // 节点允许的行驶方向
	EdgesFrom(n NodeID) []Edge                      // 节点的出边
	EdgeTowards(n NodeID, d Direction) (Edge, bool) // 节点沿方向d的出边
	IsPassThrough(n NodeID) bool                    // 是否为直通节点（唯一出边或恰好两个格子）
	IsDestinationNode(n NodeID) bool                // 节点是否包含目的地格
	Representative(n NodeID) Cell                   // 节点代表格，用于启发函数
	Nodes() []NodeID                                // 全部节点ID（升序）
}

// entity/signal/signal.go的读取接口
type ISignalGetter interface {
	ColorAt(c Cell) mapv2.LightState // 非信号灯格返回绿灯
	IsRed(c Cell) bool
}

// entity/signal/manager.go的依赖倒置
type ISignalManager interface {
	ISignalGetter
	Register(sidecar *syncer.Sidecar) // 注册到Sidecar

	Update()                // 更新阶段：推进所有信号灯计时
	Signals() []SignalState // 所有信号灯状态
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	Register(sidecar *syncer.Sidecar) // 注册到Sidecar

	// 在空闲道路格cell放入一辆以dest为目的地的车辆，返回车辆ID
	PlaceVehicle(cell, dest Cell) (int32, error)

	Prepare() // 准备阶段：应用缓冲的增删
	Update()  // 更新阶段：按随机顺序处理每辆车

	Count() int                   // 在途车辆数（含本步待加入）
	Positions() []VehiclePosition // 在途车辆位置（按ID升序）
	Finished() []int32            // 本步到达目的地的车辆ID
	Moved() int                   // 本步发生移动的车辆数
	TotalFinished() int32         // 累计到达车辆数
}

type ITaskContext interface {
	Clock() *clock.Clock
	Grid() IGridWriter
	RoadGraph() IRoadGraph
	SignalManager() ISignalManager
	VehicleManager() IVehicleManager
	RuntimeConfig() *config.RuntimeConfig
}

package vehicle

import (
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/container"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/randengine"
)

var (
	ErrCellOccupied   = errors.New("cell occupied by another vehicle")
	ErrNotDestination = errors.New("not a destination cell")
	ErrNotStreet      = errors.New("not a street cell")
)

// Manager 车辆管理器
// 功能：管理所有在途车辆，是网格占用层唯一的写入者
// 说明：增删缓冲在IncrementalArray中，下一步Prepare时生效；每步按新生成的随机排列依次处理车辆
type Manager struct {
	ctx entity.ITaskContext

	grid    entity.IGridWriter
	graph   entity.IRoadGraph
	signals entity.ISignalGetter

	patience     int32
	windowLen    int
	replanOnNode bool

	vehicles  *container.IncrementalArray[*Vehicle]
	data      map[int32]*Vehicle // 含待加入的车辆
	nextID    int32
	generator *randengine.Engine

	finished      []int32 // 本步到达的车辆
	totalFinished int32
	moved         int // 本步移动的车辆数
	escapes       int // 本步脱困次数
}

// NewManager 创建车辆管理器
// 参数：ctx-任务上下文，需已创建网格、路网与信号灯管理器
func NewManager(ctx entity.ITaskContext) *Manager {
	rc := ctx.RuntimeConfig()
	return &Manager{
		ctx:          ctx,
		grid:         ctx.Grid(),
		graph:        ctx.RoadGraph(),
		signals:      ctx.SignalManager(),
		patience:     rc.C.Patience,
		windowLen:    rc.C.LaneWindow,
		replanOnNode: rc.ReplanOnNode,
		vehicles:     container.NewIncrementalArray[*Vehicle](),
		data:         make(map[int32]*Vehicle),
		generator:    randengine.New(rc.C.Seed),
		finished:     make([]int32, 0),
	}
}

// PlaceVehicle 放入一辆车
// 功能：在空闲的道路格cell放入以dest为目的地的车辆，立即占用网格，下一步开始参与决策
// 参数：cell-起点，dest-目的地格
// 返回：车辆ID（从1开始），cell不是道路格、已有车或dest不是目的地时返回错误
func (m *Manager) PlaceVehicle(cell, dest entity.Cell) (int32, error) {
	if !m.grid.IsDestination(dest) {
		return 0, fmt.Errorf("place at %v: %w: %v", cell, ErrNotDestination, dest)
	}
	spec := m.grid.Spec(cell)
	if spec.Kind != entity.KindStreet && spec.Kind != entity.KindSignal {
		return 0, fmt.Errorf("place at %v: %w: %v", cell, ErrNotStreet, spec.Kind)
	}
	if other, ok := m.grid.Occupant(cell); ok {
		return 0, fmt.Errorf("place at %v: %w %d", cell, ErrCellOccupied, other)
	}
	id := m.nextID + 1
	if err := m.grid.Occupy(cell, id); err != nil {
		return 0, fmt.Errorf("place at %v: %w", cell, err)
	}
	m.nextID = id

	v := newVehicle(id, cell, dest, m.windowLen)
	if d, ok := spec.Directions.Only(); ok {
		v.lastDir = d
	}
	v.curNode = locate(m.grid, m.graph, cell, v.lastDir)
	m.vehicles.Add(v)
	m.data[id] = v
	log.Debugf("vehicle %d placed at %v towards %v, node %d", id, cell, dest, v.curNode)
	return id, nil
}

// Prepare 准备阶段：应用上一步缓冲的增删
func (m *Manager) Prepare() {
	m.vehicles.Prepare()
}

// Update 更新阶段：按随机顺序逐辆处理车辆
// 说明：本步到达的车辆立即让出格子，但要到下一步Prepare才从数组中删除
func (m *Manager) Update() {
	m.finished = m.finished[:0]
	m.moved = 0
	m.escapes = 0
	vehicles := m.vehicles.Data()
	for _, i := range m.generator.Perm(len(vehicles)) {
		v := vehicles[i]
		if v.update(m) != outcomeFinished {
			continue
		}
		m.grid.Vacate(v.cell)
		m.vehicles.Remove(v)
		delete(m.data, v.id)
		m.finished = append(m.finished, v.id)
		m.totalFinished++
		log.Debugf("vehicle %d finished at %v", v.id, v.cell)
	}
	slices.Sort(m.finished)
}

// move 车辆移动到相邻格，目标格有车时拒绝（视为停滞）
func (m *Manager) move(v *Vehicle, to entity.Cell) bool {
	if other, ok := m.grid.Occupant(to); ok {
		log.Debugf("vehicle %d: %v is taken by vehicle %d", v.id, to, other)
		return false
	}
	if err := m.grid.MoveCar(v.cell, to); err != nil {
		log.Debugf("vehicle %d: %v", v.id, err)
		return false
	}
	v.cell = to
	m.moved++
	return true
}

// vehicleAt 格子内的车辆
func (m *Manager) vehicleAt(c entity.Cell) (*Vehicle, bool) {
	id, ok := m.grid.Occupant(c)
	if !ok {
		return nil, false
	}
	v, ok := m.data[id]
	return v, ok
}

// Get 根据ID获取在途车辆
func (m *Manager) Get(id int32) (*Vehicle, bool) {
	v, ok := m.data[id]
	return v, ok
}

// Count 在途车辆数（含待加入）
func (m *Manager) Count() int {
	return len(m.data)
}

// Positions 在途车辆位置（按ID升序）
func (m *Manager) Positions() []entity.VehiclePosition {
	res := lo.MapToSlice(m.data, func(id int32, v *Vehicle) entity.VehiclePosition {
		return entity.VehiclePosition{ID: id, Cell: v.cell}
	})
	slices.SortFunc(res, func(a, b entity.VehiclePosition) int { return int(a.ID - b.ID) })
	return res
}

// Finished 本步到达目的地的车辆ID（升序）
func (m *Manager) Finished() []int32 {
	return m.finished
}

// Moved 本步移动的车辆数
func (m *Manager) Moved() int {
	return m.moved
}

// Escapes 本步发生的脱困次数
func (m *Manager) Escapes() int {
	return m.escapes
}

func (m *Manager) TotalFinished() int32 {
	return m.totalFinished
}

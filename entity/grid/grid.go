package grid

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

var log = logrus.WithField("module", "grid")

// empty 空格子的占用值，车辆ID从1开始
const empty int32 = 0

// Grid 多层网格
// 功能：静态层保存格子类型（道路/信号灯/障碍/目的地），占用层保存至多一辆车
// 说明：占用层只允许车辆管理器写入，保证任意时刻每个格子至多一辆车
type Grid struct {
	width, height int
	cells         []entity.CellSpec
	occupants     []int32
	destinations  []entity.Cell
	isDestination map[entity.Cell]struct{}
	obstacles     []entity.Cell
}

// New 根据字符地图创建网格
func New(m *input.Map) *Grid {
	g := &Grid{
		width:         m.Width,
		height:        m.Height,
		cells:         make([]entity.CellSpec, len(m.Cells)),
		occupants:     make([]int32, len(m.Cells)),
		destinations:  append([]entity.Cell{}, m.Destinations...),
		isDestination: make(map[entity.Cell]struct{}, len(m.Destinations)),
	}
	copy(g.cells, m.Cells)
	g.obstacles = make([]entity.Cell, 0)
	for i, spec := range g.cells {
		if spec.Kind == entity.KindObstacle {
			g.obstacles = append(g.obstacles, entity.Cell{X: i % g.width, Y: i / g.width})
		}
	}
	for _, c := range g.destinations {
		g.isDestination[c] = struct{}{}
	}
	return g
}

func (g *Grid) index(c entity.Cell) int {
	return c.Y*g.width + c.X
}

func (g *Grid) Width() int {
	return g.width
}

func (g *Grid) Height() int {
	return g.height
}

func (g *Grid) InBounds(c entity.Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// Spec 获取格子静态属性，网格外返回KindEmpty
func (g *Grid) Spec(c entity.Cell) entity.CellSpec {
	if !g.InBounds(c) {
		return entity.CellSpec{Kind: entity.KindEmpty}
	}
	return g.cells[g.index(c)]
}

func (g *Grid) IsDestination(c entity.Cell) bool {
	_, ok := g.isDestination[c]
	return ok
}

func (g *Grid) Destinations() []entity.Cell {
	return g.destinations
}

// Obstacles 所有障碍物格（按y、x升序）
func (g *Grid) Obstacles() []entity.Cell {
	return g.obstacles
}

// IsCarInCell 格子内是否有车，网格外视为无车
func (g *Grid) IsCarInCell(c entity.Cell) bool {
	_, ok := g.Occupant(c)
	return ok
}

// Occupant 获取格子内车辆ID
func (g *Grid) Occupant(c entity.Cell) (int32, bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	id := g.occupants[g.index(c)]
	return id, id != empty
}

// Occupy 车辆进入空格子
// 功能：在占用层写入车辆ID
// 返回：格子越界、不可通行或已被占用时返回错误
func (g *Grid) Occupy(c entity.Cell, id int32) error {
	if !g.InBounds(c) {
		return fmt.Errorf("cell %v out of grid", c)
	}
	if id == empty {
		return fmt.Errorf("invalid vehicle id %d", id)
	}
	if !g.cells[g.index(c)].Kind.Drivable() {
		return fmt.Errorf("cell %v is %v", c, g.cells[g.index(c)].Kind)
	}
	i := g.index(c)
	if other := g.occupants[i]; other != empty {
		return fmt.Errorf("cell %v already occupied by vehicle %d", c, other)
	}
	g.occupants[i] = id
	return nil
}

// Vacate 车辆离开格子
func (g *Grid) Vacate(c entity.Cell) {
	if !g.InBounds(c) {
		return
	}
	g.occupants[g.index(c)] = empty
}

// MoveCar 车辆从from移动到to
// 功能：先检查目标格可进入，再清空原格子并写入目标格
// 返回：原格子无车或目标格不可进入时返回错误，此时网格不变
func (g *Grid) MoveCar(from, to entity.Cell) error {
	id, ok := g.Occupant(from)
	if !ok {
		return fmt.Errorf("no vehicle at %v", from)
	}
	g.Vacate(from)
	if err := g.Occupy(to, id); err != nil {
		// 回滚
		g.occupants[g.index(from)] = id
		return err
	}
	log.Tracef("vehicle %d moved %v -> %v", id, from, to)
	return nil
}

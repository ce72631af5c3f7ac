package signal

import (
	"git.fiblab.net/general/common/v2/parallel"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

var log = logrus.WithField("module", "signal")

// Manager 信号灯管理器
// 功能：持有网格中所有信号灯，每步统一推进，并提供按格子查询颜色的接口
type Manager struct {
	mapv2connect.UnimplementedTrafficLightServiceHandler

	signals []*Signal
	byCell  map[entity.Cell]*Signal
	byID    map[int32]*Signal
}

// NewManager 扫描网格中的信号灯格创建管理器
// 参数：grid-网格，period-切换周期（步）
// 说明：信号灯ID按(y, x)升序从1开始编号
func NewManager(grid entity.IGrid, period int32) *Manager {
	if period <= 0 {
		log.Panicf("invalid signal period %d", period)
	}
	m := &Manager{
		signals: make([]*Signal, 0),
	}
	for y := 0; y < grid.Height(); y++ {
		for x := 0; x < grid.Width(); x++ {
			c := entity.Cell{X: x, Y: y}
			spec := grid.Spec(c)
			if spec.Kind != entity.KindSignal {
				continue
			}
			m.signals = append(m.signals, newSignal(int32(len(m.signals)+1), c, spec.Orientation, period))
		}
	}
	m.byCell = lo.SliceToMap(m.signals, func(s *Signal) (entity.Cell, *Signal) {
		return s.cell, s
	})
	m.byID = lo.SliceToMap(m.signals, func(s *Signal) (int32, *Signal) {
		return s.id, s
	})
	log.Infof("%d signals, period %d", len(m.signals), period)
	return m
}

// Update 更新阶段：所有信号灯推进一步
func (m *Manager) Update() {
	parallel.GoFor(m.signals, func(s *Signal) { s.update() })
}

// ColorAt 格子处的信号颜色，非信号灯格视为绿灯
func (m *Manager) ColorAt(c entity.Cell) mapv2.LightState {
	if s, ok := m.byCell[c]; ok {
		return s.color
	}
	return mapv2.LightState_LIGHT_STATE_GREEN
}

func (m *Manager) IsRed(c entity.Cell) bool {
	return m.ColorAt(c) == mapv2.LightState_LIGHT_STATE_RED
}

// Signals 所有信号灯状态（按ID升序）
func (m *Manager) Signals() []entity.SignalState {
	return lo.Map(m.signals, func(s *Signal, _ int) entity.SignalState { return s.state() })
}

// Get 根据ID获取信号灯
func (m *Manager) Get(id int32) (*Signal, bool) {
	s, ok := m.byID[id]
	return s, ok
}

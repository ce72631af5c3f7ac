package signal

import (
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

const (
	phaseGreen int32 = 0 // 信号程序中绿灯相位的索引
	phaseRed   int32 = 1 // 信号程序中红灯相位的索引
)

// Signal 定周期两相位信号灯
// 功能：红绿两种状态，每period步切换一次
// 说明：横向信号灯('S')初始为红灯，纵向信号灯('s')初始为绿灯
type Signal struct {
	id          int32
	cell        entity.Cell
	orientation entity.Orientation

	color  mapv2.LightState
	timer  int32 // 当前相位已持续的步数
	period int32 // 切换周期
}

func newSignal(id int32, cell entity.Cell, orientation entity.Orientation, period int32) *Signal {
	s := &Signal{
		id:          id,
		cell:        cell,
		orientation: orientation,
		color:       mapv2.LightState_LIGHT_STATE_GREEN,
		period:      period,
	}
	if orientation == entity.Horizontal {
		s.color = mapv2.LightState_LIGHT_STATE_RED
	}
	return s
}

// update 推进一步，计时到达周期时切换颜色
func (s *Signal) update() {
	s.timer++
	if s.timer >= s.period {
		s.timer = 0
		if s.color == mapv2.LightState_LIGHT_STATE_RED {
			s.color = mapv2.LightState_LIGHT_STATE_GREEN
		} else {
			s.color = mapv2.LightState_LIGHT_STATE_RED
		}
	}
}

func (s *Signal) ID() int32 {
	return s.id
}

func (s *Signal) Cell() entity.Cell {
	return s.cell
}

func (s *Signal) Color() mapv2.LightState {
	return s.color
}

func (s *Signal) IsRed() bool {
	return s.color == mapv2.LightState_LIGHT_STATE_RED
}

// PhaseIndex 当前相位在Program中的索引
func (s *Signal) PhaseIndex() int32 {
	if s.IsRed() {
		return phaseRed
	}
	return phaseGreen
}

// Remaining 当前相位剩余步数
func (s *Signal) Remaining() int32 {
	return s.period - s.timer
}

// Program 以信号程序形式描述的两相位配时
func (s *Signal) Program() *mapv2.TrafficLight {
	d := float64(s.period)
	return &mapv2.TrafficLight{
		JunctionId: s.id,
		Phases: []*mapv2.Phase{
			{Duration: d, States: []mapv2.LightState{mapv2.LightState_LIGHT_STATE_GREEN}},
			{Duration: d, States: []mapv2.LightState{mapv2.LightState_LIGHT_STATE_RED}},
		},
	}
}

func (s *Signal) state() entity.SignalState {
	return entity.SignalState{
		ID:          s.id,
		Cell:        s.cell,
		Orientation: s.orientation,
		Color:       s.color,
	}
}

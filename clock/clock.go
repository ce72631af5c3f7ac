package clock

import (
	"fmt"

	"git.fiblab.net/sim/protos/v2/go/city/clock/v1/clockv1connect"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
)

// Clock 仿真时钟
// 功能：记录当前步数与对应的仿真时间，并通过RPC对外提供
// 说明：模拟区间为[Start, End)，End为0表示不限步数
type Clock struct {
	clockv1connect.UnimplementedClockServiceHandler

	DT    float64 // 每步对应的仿真时间（秒）
	Start int32   // 起始步
	End   int32   // 结束步，0表示不限

	Step int32   // 当前步
	T    float64 // 当前时间（秒）
}

// New 根据配置创建时钟
// 参数：stepConfig-步数配置，Interval不大于0时视为1秒
func New(stepConfig config.ControlStep) *Clock {
	dt := stepConfig.Interval
	if dt <= 0 {
		dt = config.DefaultInterval
	}
	c := &Clock{
		DT:    dt,
		Start: stepConfig.Start,
	}
	if stepConfig.Total > 0 {
		c.End = stepConfig.Start + stepConfig.Total
	}
	c.Init()
	return c
}

// Init 重置到起始步
func (c *Clock) Init() {
	c.Step = c.Start
	c.T = float64(c.Step) * c.DT
}

// Tick 前进一步
func (c *Clock) Tick() {
	c.Step++
	c.T = float64(c.Step) * c.DT
}

// Elapsed 已经模拟的步数
func (c *Clock) Elapsed() int32 {
	return c.Step - c.Start
}

// Ended 是否已到达结束步
func (c *Clock) Ended() bool {
	return c.End > 0 && c.Step >= c.End
}

// IsLast 下一步是否为最后一步
func (c *Clock) IsLast() bool {
	return c.End > 0 && c.Step+1 >= c.End
}

// String 格式化为HH:MM:SS
func (c *Clock) String() string {
	t := int(c.T)
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, t%3600/60, t%60)
}

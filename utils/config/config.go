package config

const (
	DefaultSignalPeriod = 10  // 默认信号灯切换周期
	DefaultPatience     = 15  // 默认脱困耐心
	DefaultLaneWindow   = 3   // 默认车道速度窗口长度，也是允许的最大值
	DefaultInterval     = 1.0 // 默认步长（秒）
	DefaultBuffer       = 256 // 默认输出缓冲区
)

// RuntimeConfig 运行时配置
// 功能：存储默认值填充后的配置，供各管理器读取
type RuntimeConfig struct {
	All Config  // 全部配置
	C   Control // 全局控制配置

	ReplanOnNode bool // 解析后的ReplanOnNode
}

// NewRuntimeConfig 根据配置初始化运行时配置
// 功能：创建运行时配置对象，填充默认值
// 参数：config-原始配置对象
// 返回：初始化的运行时配置指针
// 算法说明：
// 1. 信号周期、耐心、窗口长度、步长未指定或非法时使用默认值，窗口长度不超过3
// 2. ReplanOnNode未指定时默认为true
// 3. 输出缓冲区未指定时使用默认值
func NewRuntimeConfig(config Config) *RuntimeConfig {
	rc := &RuntimeConfig{}

	c := config.Control
	if c.SignalPeriod <= 0 {
		c.SignalPeriod = DefaultSignalPeriod
	}
	if c.Patience <= 0 {
		c.Patience = DefaultPatience
	}
	if c.LaneWindow <= 0 || c.LaneWindow > DefaultLaneWindow {
		c.LaneWindow = DefaultLaneWindow
	}
	if c.Step.Interval <= 0 {
		c.Step.Interval = DefaultInterval
	}
	rc.ReplanOnNode = c.ReplanOnNode == nil || *c.ReplanOnNode
	config.Control = c
	if config.Output != nil && config.Output.Buffer <= 0 {
		out := *config.Output
		out.Buffer = DefaultBuffer
		config.Output = &out
	}

	rc.All = config
	rc.C = c

	return rc
}

package config

// Input 指定模拟器输入数据来源的配置项
// 功能：定义地图字符网格与路网描述文件的路径
// 说明：路网描述支持YAML或JSON格式
type Input struct {
	Map   string `yaml:"map"`   // 字符地图文件路径
	Graph string `yaml:"graph"` // 路网节点与边描述文件路径
}

// ControlStep 指定模拟器模拟时间范围和间隔的配置项
// 功能：定义仿真时间控制参数
// 说明：Total为0表示不限步数
type ControlStep struct {
	Start    int32   `yaml:"start"`    // 开始步数
	Total    int32   `yaml:"total"`    // 总步数
	Interval float64 `yaml:"interval"` // 每步的时间间隔
}

// Control 模拟器控制配置
// 功能：定义仿真系统的核心控制参数
// 说明：未填写的字段在RuntimeConfig中使用默认值
type Control struct {
	Step            ControlStep `yaml:"step"`
	SignalPeriod    int32       `yaml:"signal_period,omitempty"`     // 信号灯切换周期（步）
	Patience        int32       `yaml:"patience,omitempty"`          // 连续停滞多少步后尝试脱困
	LaneWindow      int         `yaml:"lane_window,omitempty"`       // 车道速度滑动窗口长度（1~3）
	ReplanOnNode    *bool       `yaml:"replan_on_node,omitempty"`    // 每次进入新节点时重新规划路径
	Seed            uint64      `yaml:"seed,omitempty"`              // 随机种子
	NoProgressLimit int32       `yaml:"no_progress_limit,omitempty"` // 连续多少步无车移动时结束模拟，0表示不检查
}

// Spawn 车辆生成策略配置
// 功能：每Interval步在空闲的生成点放入至多Amount辆车
// 说明：Points为空时使用网格四角的道路格
type Spawn struct {
	Interval int32    `yaml:"interval"`         // 生成间隔（步），0表示不生成
	Amount   int      `yaml:"amount"`           // 每次生成数量上限
	Points   [][2]int `yaml:"points,omitempty"` // 生成点坐标
}

// Output 每步快照输出配置（MongoDB）
type Output struct {
	URI    string `yaml:"uri"`              // MongoDB连接字符串
	DB     string `yaml:"db"`               // 数据库名
	Col    string `yaml:"col"`              // 集合名
	Buffer int    `yaml:"buffer,omitempty"` // 写入缓冲区大小
}

// Config YAML配置文件的根结构
// 功能：定义整个仿真系统的配置结构
// 说明：包含输入、控制、生成、输出等所有配置项
type Config struct {
	Input   Input   `yaml:"input"`            // 输入
	Control Control `yaml:"control"`          // 模拟过程控制
	Spawn   Spawn   `yaml:"spawn"`            // 车辆生成
	Output  *Output `yaml:"output,omitempty"` // 输出，为空则不输出
}

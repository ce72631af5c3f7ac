package task

import (
	"fmt"
	"sync/atomic"

	"git.fiblab.net/sim/syncer/v3"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/clock"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/grid"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/roadgraph"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/signal"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/vehicle"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/output"
)

// Context 仿真任务上下文
// 功能：包含一次仿真任务的所有变量和状态，替代全局变量
// 说明：管理网格、路网、信号灯、车辆、时钟、车辆生成与输出
type Context struct {

	// 任务名
	job string
	// 关闭指令
	closed atomic.Bool

	// 时钟
	clock *clock.Clock

	// 辅助程序，处理与syncer的交互并提供RPC服务，为空时独立运行
	sidecar *syncer.Sidecar
	// sidecar close channel
	sidecarCloseCh chan struct{}
	// 是否由本任务启动了sidecar服务
	serving bool

	// 网格（静态层与占用层）
	grid *grid.Grid
	// 路网
	roadGraph *roadgraph.Graph
	// 信号灯管理器
	signalManager *signal.Manager
	// 车辆管理器
	vehicleManager *vehicle.Manager

	// 运行时配置文件
	runtimeConfig *config.RuntimeConfig
	// 用于初始化的输入
	initRes *input.Input

	// 车辆生成
	spawner *spawner
	// 快照输出，未配置时为空
	output *output.Writer

	// 本步生成的车辆数
	spawned int
	// 连续没有进展的步数
	idleSteps int32
}

// NewContext 创建新的仿真任务上下文
// 功能：根据配置与输入数据构建所有仿真组件
// 参数：
//   - job: 任务名称
//   - c: 配置对象
//   - in: 已加载的地图与路网描述
//   - sidecar: 外部sidecar实例，为空时不注册RPC服务
//   - startSidecarServe: 是否启动sidecar服务
//
// 返回：初始化完成的Context实例，路网或生成点配置不一致时返回错误
// 算法说明：
// 1. 填充运行时配置默认值，创建时钟
// 2. 构建网格与路网（含一致性检查）
// 3. 创建信号灯管理器与车辆管理器
// 4. 创建车辆生成器与快照输出
// 5. 注册RPC服务到sidecar并按需启动服务
func NewContext(
	job string,
	c config.Config,
	in *input.Input,
	sidecar *syncer.Sidecar,
	startSidecarServe bool,
) (*Context, error) {
	ctx := &Context{
		job:            job,
		sidecar:        sidecar,
		sidecarCloseCh: make(chan struct{}),
		initRes:        in,
	}
	ctx.runtimeConfig = config.NewRuntimeConfig(c)
	rc := ctx.runtimeConfig
	ctx.clock = clock.New(rc.C.Step)

	ctx.grid = grid.New(in.Map)
	var err error
	if ctx.roadGraph, err = roadgraph.New(ctx.grid, in.Graph); err != nil {
		return nil, fmt.Errorf("build road graph: %w", err)
	}
	ctx.signalManager = signal.NewManager(ctx.grid, rc.C.SignalPeriod)
	ctx.vehicleManager = vehicle.NewManager(ctx)
	if ctx.spawner, err = newSpawner(rc.All.Spawn, ctx.grid, rc.C.Seed); err != nil {
		return nil, fmt.Errorf("spawn config: %w", err)
	}
	if rc.All.Output != nil {
		ctx.output = output.New(*rc.All.Output)
	}

	if ctx.sidecar != nil {
		ctx.clock.Register(ctx.sidecar)
		ctx.signalManager.Register(ctx.sidecar)
		ctx.vehicleManager.Register(ctx.sidecar)

		// sidecar协程，用于提供RPC服务
		if startSidecarServe {
			ctx.serving = true
			go func() {
				err := ctx.sidecar.Serve()
				if err != nil {
					log.Panicf("failed to serve: %v", err)
				}
				ctx.sidecarCloseCh <- struct{}{}
			}()
		}
	}
	log.Infof("job %s: %dx%d grid, %d nodes, %d signals",
		job, ctx.grid.Width(), ctx.grid.Height(), len(ctx.roadGraph.Nodes()), len(ctx.signalManager.Signals()))
	return ctx, nil
}

func (ctx *Context) GetInput() *input.Input {
	return ctx.initRes
}

func (ctx *Context) Clock() *clock.Clock {
	return ctx.clock
}

func (ctx *Context) Grid() entity.IGridWriter {
	return ctx.grid
}

func (ctx *Context) RoadGraph() entity.IRoadGraph {
	return ctx.roadGraph
}

func (ctx *Context) SignalManager() entity.ISignalManager {
	return ctx.signalManager
}

func (ctx *Context) VehicleManager() entity.IVehicleManager {
	return ctx.vehicleManager
}

func (ctx *Context) RuntimeConfig() *config.RuntimeConfig {
	return ctx.runtimeConfig
}

// Close 关闭输出与sidecar，可重复调用
func (ctx *Context) Close() {
	if ctx.closed.Swap(true) {
		return
	}
	if ctx.output != nil {
		ctx.output.Close()
	}
	if ctx.sidecar != nil {
		ctx.sidecar.Close()
		if ctx.serving {
			// wait for graceful stop
			<-ctx.sidecarCloseCh
		}
	}
}

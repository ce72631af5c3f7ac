package task

import (
	"flag"
	"slices"

	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

const (
	SelfName = "gridtraffic" // 本程序在模拟任务集群中的名字
)

var (
	heartBeatInterval = flag.Int("log.heartbeat_interval", 100, "心跳日志间隔步数")
)

// Snapshot 一步结束后的观测结果
type Snapshot struct {
	Job      string                   `bson:"job"`
	Step     int32                    `bson:"step"`     // 当前步
	T        float64                  `bson:"t"`        // 当前时间（秒）
	Vehicles []entity.VehiclePosition `bson:"vehicles"` // 在途车辆位置（按ID升序）
	Finished []int32                  `bson:"finished"` // 本步到达的车辆ID
	Signals  []entity.SignalState     `bson:"signals"`  // 信号灯颜色
}

// prepare 准备阶段，每步执行一次
// 功能：在每个仿真步骤开始时进行准备工作
// 算法说明：
// 1. 更新时钟：增加步数并计算当前时间
// 2. 心跳日志：定期输出系统状态信息
// 3. 车辆管理器：应用上一步缓冲的车辆增删
func (ctx *Context) prepare() {
	ctx.clock.Tick()

	if *heartBeatInterval > 0 && ctx.clock.Step%int32(*heartBeatInterval) == 0 {
		log.Infof(
			"STEP: %d(%v) vehicles: %d finished: %d",
			ctx.clock.Step, ctx.clock,
			ctx.vehicleManager.Count(), ctx.vehicleManager.TotalFinished(),
		)
	}

	ctx.vehicleManager.Prepare()
}

// update 更新阶段，每步执行一次
// 功能：在每个仿真步骤中执行主要的仿真逻辑
// 算法说明：
// 1. 信号灯推进一步
// 2. 车辆按随机顺序逐辆决策与移动
// 3. 车辆生成：新车在下一步准备阶段加入
// 4. 进展统计：移动、到达与生成都算作进展
// 5. 快照输出
// 说明：各阶段顺序执行，车辆决策依赖本步的信号灯颜色
func (ctx *Context) update() {
	ctx.signalManager.Update()
	ctx.vehicleManager.Update()
	ctx.spawned = ctx.spawner.spawn(ctx.clock.Elapsed(), ctx.grid, ctx.vehicleManager)

	vm := ctx.vehicleManager
	switch {
	case vm.Moved() > 0 || len(vm.Finished()) > 0 || ctx.spawned > 0:
		ctx.idleSteps = 0
	case vm.Count() > 0 || !ctx.spawner.enabled():
		ctx.idleSteps++
	}
	log.Debugf("step %d: %d moved, %d finished, %d spawned, %d escapes",
		ctx.clock.Step, vm.Moved(), len(vm.Finished()), ctx.spawned, vm.Escapes())

	if ctx.output != nil {
		ctx.output.Write(ctx.Snapshot())
	}
}

// Step 推进一步
func (ctx *Context) Step() {
	ctx.prepare()
	ctx.update()
}

// IsRunning 模拟是否应继续
// 说明：已关闭、到达结束步，或连续NoProgressLimit步没有任何进展时返回false
func (ctx *Context) IsRunning() bool {
	if ctx.closed.Load() || ctx.clock.Ended() {
		return false
	}
	limit := ctx.runtimeConfig.C.NoProgressLimit
	return limit <= 0 || ctx.idleSteps < limit
}

// PlaceVehicle 在空闲道路格cell放入一辆以dest为目的地的车辆
func (ctx *Context) PlaceVehicle(cell, dest entity.Cell) (int32, error) {
	return ctx.vehicleManager.PlaceVehicle(cell, dest)
}

// Snapshot 当前步的观测结果
func (ctx *Context) Snapshot() Snapshot {
	return Snapshot{
		Job:      ctx.job,
		Step:     ctx.clock.Step,
		T:        ctx.clock.T,
		Vehicles: ctx.vehicleManager.Positions(),
		Finished: slices.Clone(ctx.vehicleManager.Finished()),
		Signals:  ctx.signalManager.Signals(),
	}
}

// Run 运行
// 说明：有sidecar时由syncer驱动步进，否则独立运行直到IsRunning返回false
func (ctx *Context) Run() {
	defer ctx.Close()
	if ctx.sidecar == nil {
		for ctx.IsRunning() {
			ctx.Step()
		}
		log.Infof("engine complete at step %d, %d finished", ctx.clock.Step, ctx.vehicleManager.TotalFinished())
		return
	}
	// init syncer
	ctx.sidecar.Step(false)
	for {
		ctx.prepare()
		// 通知准备阶段完成
		log.Debugf("step %d: prepare complete and call NotifyStepReady", ctx.clock.Step)
		ctx.sidecar.NotifyStepReady()
		log.Debugf("step %d: NotifyStepReady complete", ctx.clock.Step)
		ctx.update()
		log.Debugf("step %d: update complete", ctx.clock.Step)
		running := ctx.IsRunning()
		close := ctx.sidecar.Step(!running || ctx.clock.IsLast())
		if close || !running {
			break
		}
	}
	log.Infof("engine complete at step %d, %d finished", ctx.clock.Step, ctx.vehicleManager.TotalFinished())
}

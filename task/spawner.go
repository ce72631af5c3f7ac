package task

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/randengine"
)

// spawner 车辆生成器
// 功能：每interval步在空闲的生成点放入至多amount辆车，目的地从所有目的地格中均匀抽取
type spawner struct {
	interval  int32
	amount    int
	points    []entity.Cell
	dests     []entity.Cell
	generator *randengine.Engine
}

// newSpawner 根据配置创建车辆生成器
// 参数：c-生成配置，grid-网格，seed-随机种子
// 返回：Interval不大于0时返回不生成车辆的生成器；生成点不是道路格或没有可用的生成点、目的地时返回错误
// 算法说明：
// 1. 未配置生成点时使用网格四角中的道路格
// 2. Amount不大于0或超过生成点数量时取生成点数量
func newSpawner(c config.Spawn, grid entity.IGrid, seed uint64) (*spawner, error) {
	s := &spawner{interval: c.Interval}
	if s.interval <= 0 {
		s.interval = 0
		return s, nil
	}
	spawnable := func(p entity.Cell) bool {
		kind := grid.Spec(p).Kind
		return kind == entity.KindStreet || kind == entity.KindSignal
	}
	if len(c.Points) > 0 {
		for _, p := range c.Points {
			cell := entity.Cell{X: p[0], Y: p[1]}
			if !spawnable(cell) {
				return nil, fmt.Errorf("spawn point %v is %v", cell, grid.Spec(cell).Kind)
			}
			s.points = append(s.points, cell)
		}
	} else {
		w, h := grid.Width()-1, grid.Height()-1
		corners := []entity.Cell{{X: 0, Y: 0}, {X: w, Y: 0}, {X: 0, Y: h}, {X: w, Y: h}}
		s.points = lo.Filter(corners, func(p entity.Cell, _ int) bool { return spawnable(p) })
	}
	s.points = lo.Uniq(s.points)
	if len(s.points) == 0 {
		return nil, errors.New("no street cell available for spawning")
	}
	s.dests = grid.Destinations()
	if len(s.dests) == 0 {
		return nil, errors.New("no destination cell in map")
	}
	s.amount = c.Amount
	if s.amount <= 0 || s.amount > len(s.points) {
		s.amount = len(s.points)
	}
	s.generator = randengine.New(seed + 1)
	log.Infof("spawning up to %d vehicles every %d steps at %v", s.amount, s.interval, s.points)
	return s, nil
}

func (s *spawner) enabled() bool {
	return s.interval > 0
}

// spawn 第elapsed步的车辆生成
// 返回：成功放入的车辆数
// 说明：被占用的生成点本次跳过，放入失败只记录调试日志
func (s *spawner) spawn(elapsed int32, grid entity.IGrid, vm entity.IVehicleManager) int {
	if !s.enabled() || elapsed%s.interval != 0 {
		return 0
	}
	free := lo.Filter(s.points, func(p entity.Cell, _ int) bool { return !grid.IsCarInCell(p) })
	n := 0
	for _, i := range s.generator.Perm(len(free)) {
		if n >= s.amount {
			break
		}
		dest := randengine.Pick(s.generator, s.dests)
		if _, err := vm.PlaceVehicle(free[i], dest); err != nil {
			log.Debugf("spawn: %v", err)
			continue
		}
		n++
	}
	return n
}

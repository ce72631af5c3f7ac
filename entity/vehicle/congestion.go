package vehicle

import (
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity/vehicle/route"
)

// Congestion 车辆自己的拥堵模型
// 功能：维护当前车道的速度滑动窗口，并把观测到的速度写入节点对速度表
// 说明：窗口中每一项表示"一次成功移动所花费的步数"，速度=窗口长度/窗口之和，取值在(0,1]
type Congestion struct {
	window    []int
	windowLen int
	speeds    map[entity.EdgeKey]float64
}

// NewCongestion 创建拥堵模型，windowLen为车道速度窗口长度
func NewCongestion(windowLen int) *Congestion {
	return &Congestion{
		window:    make([]int, 0, windowLen),
		windowLen: windowLen,
		speeds:    make(map[entity.EdgeKey]float64),
	}
}

// Record 记录一次移动尝试
// 成功时追加1，失败时最近一项加1（窗口为空时视为一次失败后的等待，记为2）
func (c *Congestion) Record(success bool) {
	if success {
		c.window = append(c.window, 1)
	} else if n := len(c.window); n > 0 {
		c.window[n-1]++
	} else {
		c.window = append(c.window, 2)
	}
	if n := len(c.window); n > c.windowLen {
		c.window = append(c.window[:0], c.window[n-c.windowLen:]...)
	}
}

// ResetWindow 进入新的路段或车道时清空窗口
func (c *Congestion) ResetWindow() {
	c.window = c.window[:0]
}

// Window 当前窗口内容
func (c *Congestion) Window() []int {
	return c.window
}

// Current 当前车道的观测速度，窗口为空时返回DefaultSpeed
func (c *Congestion) Current() float64 {
	if len(c.window) == 0 {
		return route.DefaultSpeed
	}
	sum := 0
	for _, w := range c.window {
		sum += w
	}
	return float64(len(c.window)) / float64(sum)
}

// Speed 节点对的学习速度，未观测时返回DefaultSpeed，可直接作为route.SpeedFunc
func (c *Congestion) Speed(from, to entity.NodeID) float64 {
	if s, ok := c.speeds[entity.EdgeKey{From: from, To: to}]; ok {
		return s
	}
	return route.DefaultSpeed
}

// Learn 写入节点对速度并沿直通节点向前传播
// 参数：g-路网，key-观测到的节点对，speed-观测速度
// 算法说明：
// 1. 写入key对应的速度
// 2. 若key.To为直通节点，则其所有出边获得相同的速度
// 3. 直通节点只有一条出边时沿该边继续前进，否则停止
// 4. 每个节点至多访问一次，步数不超过节点总数，成环的路网也能结束
func (c *Congestion) Learn(g entity.IRoadGraph, key entity.EdgeKey, speed float64) {
	if key.From == entity.NoNode || key.To == entity.NoNode {
		return
	}
	c.speeds[key] = speed
	visited := make(map[entity.NodeID]struct{})
	n := key.To
	for i := 0; i < len(g.Nodes()); i++ {
		if _, ok := visited[n]; ok || !g.IsPassThrough(n) {
			return
		}
		visited[n] = struct{}{}
		edges := g.EdgesFrom(n)
		for _, e := range edges {
			c.speeds[entity.EdgeKey{From: n, To: e.To}] = speed
		}
		if len(edges) != 1 {
			return
		}
		n = edges[0].To
	}
}

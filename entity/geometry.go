package entity

import (
	"fmt"
	"strings"

	"git.fiblab.net/general/common/v2/mathutil"
)

// Cell 网格坐标
// 功能：表示网格中的一个格子，身份由坐标决定
// 说明：y轴向上递增，地图文件第一行对应最大的y
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Move 沿方向d移动一格后的坐标
func (c Cell) Move(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan 两格之间的曼哈顿距离
func (c Cell) Manhattan(o Cell) int {
	return int(mathutil.Abs(float64(c.X-o.X)) + mathutil.Abs(float64(c.Y-o.Y)))
}

// Direction 行驶方向
type Direction uint8

const (
	DirNone  Direction = iota // 无方向（路径终点）
	DirUp                     // y+1
	DirDown                   // y-1
	DirLeft                   // x-1
	DirRight                  // x+1
)

// AllDirections 按固定顺序排列的四个方向，用于需要确定性遍历的场合
var AllDirections = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

var directionNames = map[Direction]string{
	DirNone:  "none",
	DirUp:    "up",
	DirDown:  "down",
	DirLeft:  "left",
	DirRight: "right",
}

func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// ParseDirection 从字符串解析方向（大小写不敏感）
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	}
	return DirNone, fmt.Errorf("unknown direction %q", s)
}

// Delta 方向对应的坐标增量
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, 1
	case DirDown:
		return 0, -1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite 反方向
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return DirNone
}

// LeftOf 面向d时的左手方向
func (d Direction) LeftOf() Direction {
	switch d {
	case DirUp:
		return DirLeft
	case DirLeft:
		return DirDown
	case DirDown:
		return DirRight
	case DirRight:
		return DirUp
	}
	return DirNone
}

// RightOf 面向d时的右手方向
func (d Direction) RightOf() Direction {
	return d.LeftOf().Opposite()
}

// Vertical 是否为纵向（上/下）
func (d Direction) Vertical() bool {
	return d == DirUp || d == DirDown
}

// DirectionSet 方向集合（位掩码）
type DirectionSet uint8

// NewDirectionSet 由方向列表构造集合
func NewDirectionSet(ds ...Direction) DirectionSet {
	var s DirectionSet
	for _, d := range ds {
		s = s.Add(d)
	}
	return s
}

// Add 返回加入d后的集合
func (s DirectionSet) Add(d Direction) DirectionSet {
	if d == DirNone {
		return s
	}
	return s | 1<<d
}

// Has 集合中是否包含d
func (s DirectionSet) Has(d Direction) bool {
	return d != DirNone && s&(1<<d) != 0
}

// Len 集合大小
func (s DirectionSet) Len() int {
	n := 0
	for _, d := range AllDirections {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// List 按AllDirections顺序列出集合中的方向
func (s DirectionSet) List() []Direction {
	ds := make([]Direction, 0, 4)
	for _, d := range AllDirections {
		if s.Has(d) {
			ds = append(ds, d)
		}
	}
	return ds
}

// Only 集合恰有一个方向时返回该方向
func (s DirectionSet) Only() (Direction, bool) {
	if s.Len() != 1 {
		return DirNone, false
	}
	return s.List()[0], true
}

func (s DirectionSet) String() string {
	names := make([]string, 0, 4)
	for _, d := range s.List() {
		names = append(names, d.String())
	}
	return "{" + strings.Join(names, ",") + "}"
}

package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
)

// Map 字符地图解析结果
// 功能：保存每个格子的静态属性与目的地列表
// 说明：Cells按y*Width+x索引，y=0为地图文件最后一行
type Map struct {
	Width        int
	Height       int
	Cells        []entity.CellSpec
	Destinations []entity.Cell
}

// Spec 获取格子属性，越界返回KindEmpty
func (m *Map) Spec(c entity.Cell) entity.CellSpec {
	if c.X < 0 || c.Y < 0 || c.X >= m.Width || c.Y >= m.Height {
		return entity.CellSpec{Kind: entity.KindEmpty}
	}
	return m.Cells[c.Y*m.Width+c.X]
}

// streetDirections 道路字符到允许方向的映射，未列出的字符表示四向通行
var streetDirections = map[byte]entity.DirectionSet{
	'^': entity.NewDirectionSet(entity.DirUp),
	'v': entity.NewDirectionSet(entity.DirDown),
	'>': entity.NewDirectionSet(entity.DirRight),
	'<': entity.NewDirectionSet(entity.DirLeft),
	'q': entity.NewDirectionSet(entity.DirUp, entity.DirLeft),
	'e': entity.NewDirectionSet(entity.DirUp, entity.DirRight),
	'z': entity.NewDirectionSet(entity.DirDown, entity.DirLeft),
	'c': entity.NewDirectionSet(entity.DirDown, entity.DirRight),
}

var allDirections = entity.NewDirectionSet(entity.AllDirections[:]...)

// parseCell 解析单个地图字符
func parseCell(ch byte) entity.CellSpec {
	switch ch {
	case '#':
		return entity.CellSpec{Kind: entity.KindObstacle}
	case 'S':
		return entity.CellSpec{Kind: entity.KindSignal, Orientation: entity.Horizontal}
	case 's':
		return entity.CellSpec{Kind: entity.KindSignal, Orientation: entity.Vertical}
	case 'D':
		return entity.CellSpec{Kind: entity.KindDestination}
	}
	if ds, ok := streetDirections[ch]; ok {
		return entity.CellSpec{Kind: entity.KindStreet, Directions: ds}
	}
	return entity.CellSpec{Kind: entity.KindStreet, Directions: allDirections}
}

// ParseMap 解析字符地图
// 功能：读取字符网格，生成每个格子的类型、道路方向与信号灯朝向
// 参数：r-地图数据
// 返回：解析结果，行长度不一致或为空时返回错误
// 算法说明：
// 1. 逐行读取并去除首尾空白，跳过空行
// 2. 第一行对应网格最上方，即y=Height-1
// 3. 记录所有目的地格
func ParseMap(r io.Reader) (*Map, error) {
	lines := make([]string, 0)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	if len(lines) == 0 {
		return nil, errors.New("empty map")
	}
	m := &Map{
		Width:        len(lines[0]),
		Height:       len(lines),
		Destinations: make([]entity.Cell, 0),
	}
	m.Cells = make([]entity.CellSpec, m.Width*m.Height)
	for row, line := range lines {
		if len(line) != m.Width {
			return nil, fmt.Errorf("map row %d has width %d, want %d", row, len(line), m.Width)
		}
		y := m.Height - 1 - row
		for x := 0; x < m.Width; x++ {
			spec := parseCell(line[x])
			m.Cells[y*m.Width+x] = spec
		}
	}
	// 按y、x升序记录，保证顺序与文件行序无关
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			if m.Cells[y*m.Width+x].Kind == entity.KindDestination {
				m.Destinations = append(m.Destinations, entity.Cell{X: x, Y: y})
			}
		}
	}
	return m, nil
}

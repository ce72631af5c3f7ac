// 测试用的小型地图与路网
package inputtest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
)

// CrossRows 十字路口：车辆从(2,0)向上，路口(2,3)可向上/左/右，三个目的地
var CrossRows = []string{
	"##D##",
	"##^##",
	"D<+>D",
	"##^##",
	"##^##",
	"##^##",
}

// CrossGraph 十字路口路网：1为路口，2/3/4分别为上/左/右目的地
const CrossGraph = `
nodes:
  - {id: 1, directions: [up, left, right], cells: [[2, 3]]}
  - {id: 2, directions: [], cells: [[2, 5]]}
  - {id: 3, directions: [], cells: [[0, 3]]}
  - {id: 4, directions: [], cells: [[4, 3]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 2}
  - {from: 1, to: 3, direction: left, distance: 2}
  - {from: 1, to: 4, direction: right, distance: 2}
`

// MergeRows 对向汇入：两侧车辆争夺同一个单车道格(2,1)
var MergeRows = []string{
	"##D##",
	">>+<<",
	"#####",
}

const MergeGraph = `
nodes:
  - {id: 1, directions: [up], cells: [[2, 1]]}
  - {id: 2, directions: [], cells: [[2, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 1}
`

// SignalRows 信号灯：水平信号灯(1,0)初始为红灯
var SignalRows = []string{
	"####D",
	"####^",
	">S>>+",
}

const SignalGraph = `
nodes:
  - {id: 1, directions: [up], cells: [[4, 0]]}
  - {id: 2, directions: [], cells: [[4, 2]]}
edges:
  - {from: 1, to: 2, direction: up, distance: 2}
`

// TwoLaneRows 双车道：x=1为左车道、x=2为右车道，路口(1,4)(2,4)可左转或右转
var TwoLaneRows = []string{
	"D++D",
	"#^^#",
	"#^^#",
	"#^^#",
	"#^^#",
}

const TwoLaneGraph = `
nodes:
  - {id: 1, directions: [left, right], cells: [[1, 4], [2, 4]]}
  - {id: 2, directions: [], cells: [[0, 4]]}
  - {id: 3, directions: [], cells: [[3, 4]]}
edges:
  - {from: 1, to: 2, direction: left, distance: 1}
  - {from: 1, to: 3, direction: right, distance: 1}
`

// ChainRows 绕行链：路口1可直行经4到达目的地5，也可右转经直通节点2、3绕行
var ChainRows = []string{
	"#D###",
	"#^###",
	"#+<<+",
	"#^##^",
	"D+>>+",
	"#^###",
}

const ChainGraph = `
nodes:
  - {id: 1, directions: [up, left, right], cells: [[1, 1]]}
  - {id: 2, directions: [up], cells: [[4, 1]]}
  - {id: 3, directions: [left], cells: [[4, 3]]}
  - {id: 4, directions: [up], cells: [[1, 3]]}
  - {id: 5, directions: [], cells: [[1, 5]]}
  - {id: 6, directions: [], cells: [[0, 1]]}
edges:
  - {from: 1, to: 4, direction: up, distance: 2}
  - {from: 1, to: 2, direction: right, distance: 3}
  - {from: 1, to: 6, direction: left, distance: 1}
  - {from: 2, to: 3, direction: up, distance: 2}
  - {from: 3, to: 4, direction: left, distance: 3}
  - {from: 4, to: 5, direction: up, distance: 2}
`

// MustParse 解析测试地图与路网
func MustParse(t testing.TB, rows []string, graph string) *input.Input {
	t.Helper()
	m, err := input.ParseMap(strings.NewReader(strings.Join(rows, "\n")))
	require.NoError(t, err)
	g, err := input.ParseGraph([]byte(graph))
	require.NoError(t, err)
	return &input.Input{Map: m, Graph: g}
}

package input

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
)

var log = logrus.WithField("module", "input")

// Input 输入数据
// 功能：存储仿真所需的地图与路网描述
type Input struct {
	Map   *Map
	Graph *Graph
}

// Init 加载数据
// 功能：根据配置读取字符地图与路网描述文件
// 参数：config-配置对象
// 返回：加载完成的输入数据指针
// 说明：任何文件或格式错误都会panic，模拟器拒绝在不完整的输入上启动
func Init(config config.Config) *Input {
	res := &Input{}

	f, err := os.Open(config.Input.Map)
	if err != nil {
		log.Panicf("failed to open map file: %v", err)
	}
	defer f.Close()
	if res.Map, err = ParseMap(f); err != nil {
		log.Panicf("failed to load map from file %s: %v", config.Input.Map, err)
	}

	data, err := os.ReadFile(config.Input.Graph)
	if err != nil {
		log.Panicf("failed to read graph file: %v", err)
	}
	if res.Graph, err = ParseGraph(data); err != nil {
		log.Panicf("failed to load graph from file %s: %v", config.Input.Graph, err)
	}

	log.Infof("map %dx%d, %d destinations, %d nodes, %d edges",
		res.Map.Width, res.Map.Height, len(res.Map.Destinations),
		len(res.Graph.Nodes), len(res.Graph.Edges))
	return res
}

package main

import (
	"encoding/base64"
	"flag"
	"os"

	"git.fiblab.net/sim/syncer/v3"
	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/task"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/config"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils/input"
	"gopkg.in/yaml.v2"
)

var (
	// 分布式模式syncer地址，如果设置为空则激活独立部署模式
	// 独立部署：不需要syncer，不向其他服务提供受保护的RPC访问
	syncerAddr = flag.String("syncer", "", "syncer address (empty means standalone mode), e.g. http://localhost:53001")
	// 模拟任务名，主要用于服务注册与输出快照的标记
	job = flag.String("job", "job0", "the name of the whole simulation task")
	// 本程序监听的RPC地址
	grpcAddr = flag.String("listen", ":51102", "gRPC listening address")
	// 配置文件路径
	configPath = flag.String("config", "", "config file path")
	// 配置文件Base64编码后的数据
	configData = flag.String("config-data", "", "config file base64 encoded data")

	// log
	logLevels = map[string]logrus.Level{
		"trace":    logrus.TraceLevel,
		"debug":    logrus.DebugLevel,
		"info":     logrus.InfoLevel,
		"warn":     logrus.WarnLevel,
		"error":    logrus.ErrorLevel,
		"critical": logrus.FatalLevel,
		"off":      logrus.PanicLevel,
	}
	logLevel = flag.String("log.level", "info", "日志级别（可选项：trace debug info warn error critical off）")

	log = logrus.WithField("module", "gridtraffic")
)

func main() {
	flag.Parse()
	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	// log: 运行时才修改
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		log.Panicf("log.level must be one of %v", logLevels)
	}
	c := loadConfig()

	// 读取地图与路网
	in := input.Init(c)

	sidecar := syncer.NewSidecar(task.SelfName, *grpcAddr, *syncerAddr)
	t, err := task.NewContext(*job, c, in, sidecar, true)
	if err != nil {
		log.Panicf("failed to init simulation: %v", err)
	}
	t.Run()
}

// loadConfig 从-config文件或-config-data读取YAML配置，未知字段视为错误
func loadConfig() (c config.Config) {
	var (
		data []byte
		err  error
	)
	switch {
	case *configPath != "":
		if data, err = os.ReadFile(*configPath); err != nil {
			log.Panicf("read config %s: %v", *configPath, err)
		}
	case *configData != "":
		if data, err = base64.StdEncoding.DecodeString(*configData); err != nil {
			log.Panicf("decode config data: %v", err)
		}
	default:
		log.Panic("config file or config data must be specified")
	}
	if err = yaml.UnmarshalStrict(data, &c); err != nil {
		log.Panicf("parse config: %v", err)
	}
	log.Infof("config: %+v", c)
	return c
}

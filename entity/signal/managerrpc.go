package signal

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"
	mapv2 "git.fiblab.net/sim/protos/v2/go/city/map/v2"
	mapv2connect "git.fiblab.net/sim/protos/v2/go/city/map/v2/mapv2connect"
	"git.fiblab.net/sim/syncer/v3"
)

// Register 将信号灯服务注册到sidecar
func (m *Manager) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(
		mapv2connect.TrafficLightServiceName,
		func(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
			return mapv2connect.NewTrafficLightServiceHandler(m, opts...)
		},
	)
}

// GetTrafficLight RPC接口：获取指定信号灯的配时与当前状态
// 参数：ctx-上下文，in-请求，JunctionId字段为信号灯ID
// 返回：两相位程序（绿、红）、当前相位索引与剩余步数
// 说明：信号配时固定，不提供修改接口
func (m *Manager) GetTrafficLight(
	ctx context.Context, in *connect.Request[mapv2.GetTrafficLightRequest],
) (*connect.Response[mapv2.GetTrafficLightResponse], error) {
	s, ok := m.Get(in.Msg.JunctionId)
	if !ok {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("signal id does not exist"))
	}
	return connect.NewResponse(&mapv2.GetTrafficLightResponse{
		TrafficLight:  s.Program(),
		PhaseIndex:    s.PhaseIndex(),
		TimeRemaining: float64(s.Remaining()),
	}), nil
}

package vehicle

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"git.fiblab.net/sim/syncer/v3"
	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/entity"
	"github.com/tsinghua-fib-lab/gridtraffic-sim/utils"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// VehicleServiceName 车辆观测服务名
	VehicleServiceName = "gridtraffic.v1.VehicleService"

	GetVehiclesProcedure         = "/" + VehicleServiceName + "/GetVehicles"
	GetFinishedVehiclesProcedure = "/" + VehicleServiceName + "/GetFinishedVehicles"
	GetObstaclesProcedure        = "/" + VehicleServiceName + "/GetObstacles"
)

// Register 将车辆服务注册到sidecar
func (m *Manager) Register(sidecar *syncer.Sidecar) {
	sidecar.Register(VehicleServiceName, m.NewHandler)
}

// NewHandler 构造车辆服务的HTTP处理器
// 说明：请求与响应均为通用的google.protobuf.Struct，无需额外的protobuf定义
func (m *Manager) NewHandler(opts ...connect.HandlerOption) (pattern string, handler http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(GetVehiclesProcedure, connect.NewUnaryHandler(GetVehiclesProcedure, m.GetVehicles, opts...))
	mux.Handle(GetFinishedVehiclesProcedure, connect.NewUnaryHandler(GetFinishedVehiclesProcedure, m.GetFinishedVehicles, opts...))
	mux.Handle(GetObstaclesProcedure, connect.NewUnaryHandler(GetObstaclesProcedure, m.GetObstacles, opts...))
	return "/" + VehicleServiceName + "/", mux
}

// GetVehicles RPC接口：获取在途车辆的位置与目的地
// 参数：ctx-上下文，in-请求，可选字段ids为要查询的车辆ID列表，为空时返回全部车辆
// 返回：vehicles为车辆列表（按ID升序），missing为不存在的ID
func (m *Manager) GetVehicles(
	ctx context.Context, in *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	var ids []int32
	if in.Msg != nil {
		if list := in.Msg.GetFields()["ids"].GetListValue(); list != nil {
			for _, x := range list.GetValues() {
				n, ok := x.GetKind().(*structpb.Value_NumberValue)
				if !ok {
					return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("ids must be numbers, got %v", x))
				}
				ids = append(ids, int32(n.NumberValue))
			}
		}
	}
	all := lo.Map(m.Positions(), func(p entity.VehiclePosition, _ int) *Vehicle { return m.data[p.ID] })
	found, missing := utils.Find(m.data, all, ids)
	res, err := structpb.NewStruct(map[string]any{
		"vehicles": lo.Map(found, func(v *Vehicle, _ int) any {
			return map[string]any{
				"id":     v.id,
				"x":      v.cell.X,
				"y":      v.cell.Y,
				"dest_x": v.dest.X,
				"dest_y": v.dest.Y,
				"node":   int32(v.curNode),
				"stalls": v.stalls,
			}
		}),
		"missing": lo.Map(missing, func(id int32, _ int) any { return id }),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// GetFinishedVehicles RPC接口：获取本步到达目的地的车辆
// 返回：finished为本步到达的车辆ID，total为累计到达数
func (m *Manager) GetFinishedVehicles(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	res, err := structpb.NewStruct(map[string]any{
		"finished": lo.Map(m.finished, func(id int32, _ int) any { return id }),
		"total":    m.totalFinished,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

// GetObstacles RPC接口：获取地图中的障碍物格，供可视化客户端绘制
// 返回：obstacles为障碍物坐标列表，每项为{x, y}
func (m *Manager) GetObstacles(
	ctx context.Context, in *connect.Request[emptypb.Empty],
) (*connect.Response[structpb.Struct], error) {
	res, err := structpb.NewStruct(map[string]any{
		"obstacles": lo.Map(m.grid.Obstacles(), func(c entity.Cell, _ int) any {
			return map[string]any{"x": c.X, "y": c.Y}
		}),
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(res), nil
}

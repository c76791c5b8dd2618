package qpu

import (
	"context"
	"fmt"

	"github.com/oqtopus-team/oqtopus-mcvqe/circuit"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/oqtopus-team/oqtopus-mcvqe/pauli"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type EstimatorServiceServer interface {
	Estimate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// EstimatorServer exposes any executor as the remote estimator the gateway
// talks to.
type EstimatorServer struct {
	executor core.Executor
}

func NewEstimatorServer(e core.Executor) *EstimatorServer {
	return &EstimatorServer{executor: e}
}

func RegisterEstimatorServer(s grpc.ServiceRegistrar, srv EstimatorServiceServer) {
	s.RegisterService(&estimatorServiceDesc, srv)
}

func (s *EstimatorServer) Estimate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	qasm := fields[fieldQASM].GetStringValue()
	if qasm == "" {
		return nil, status.Error(codes.InvalidArgument, "no input qasm")
	}
	c, err := circuit.ParseQASM(qasm)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	obs := pauli.New()
	if err := obs.UnmarshalJSON([]byte(fields[fieldOperators].GetStringValue())); err != nil {
		return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("invalid operators: %s", err))
	}
	nQubits := int(fields[fieldNQubits].GetNumberValue())
	if nQubits < c.NQubits() || nQubits < obs.NQubits() {
		return nil, status.Error(codes.InvalidArgument,
			fmt.Sprintf("n_qubits %d is smaller than the circuit or the observable", nQubits))
	}
	e, err := s.executor.Estimate(ctx, c, obs, nil)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to estimate/reason:%s", err))
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStruct(map[string]interface{}{fieldExpValue: e})
}

func estimateHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(EstimatorServiceServer).Estimate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: EstimateMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(EstimatorServiceServer).Estimate(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var estimatorServiceDesc = grpc.ServiceDesc{
	ServiceName: "mcvqe.estimator.v1.EstimatorService",
	HandlerType: (*EstimatorServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Estimate",
			Handler:    estimateHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "mcvqe/estimator/v1/estimator.proto",
}

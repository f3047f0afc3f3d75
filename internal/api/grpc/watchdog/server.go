package watchdog

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/alarm-watchdog/internal/domain/alarm"
	"github.com/oshokin/alarm-watchdog/internal/version"
)

// Service abstracts the scheduler operations the transport layer depends on.
type Service interface {
	Snapshot() []alarm.Info
	Stats() alarm.Stats
}

// Server implements WatchdogServiceServer on top of a Service.
type Server struct {
	// service provides the live alarm data.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// ListAlarms returns the live alarms ordered by deadline.
func (s *Server) ListAlarms(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	resp, err := AlarmsToStruct(s.service.Snapshot(), time.Now())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode alarms")
	}

	return resp, nil
}

// GetStats returns the scheduler counters and the server version.
func (s *Server) GetStats(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	resp, err := StatsToStruct(s.service.Stats(), version.Short())
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to encode stats")
	}

	return resp, nil
}

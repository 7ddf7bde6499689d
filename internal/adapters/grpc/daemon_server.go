package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/andrescamacho/colony-go/internal/adapters/metrics"
	"github.com/andrescamacho/colony-go/internal/application/common"
)

// StatusSource is the running colony as seen by the status service
type StatusSource interface {
	CurrentTick() int64
	RoomInfos() []metrics.RoomInfo
}

// DaemonServer serves live colony status over a unix socket
type DaemonServer struct {
	source     StatusSource
	listener   net.Listener
	socketPath string
	grpcServer *grpc.Server
}

// NewDaemonServer binds socketPath, replacing a stale socket file
func NewDaemonServer(source StatusSource, socketPath string) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Owner only
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s := &DaemonServer{
		source:     source,
		listener:   listener,
		socketPath: socketPath,
		grpcServer: grpc.NewServer(),
	}
	RegisterStatusServiceServer(s.grpcServer, &statusService{source: source})
	return s, nil
}

// Serve handles requests until ctx is cancelled, then stops gracefully and
// removes the socket
func (s *DaemonServer) Serve(ctx context.Context) error {
	logger := common.LoggerFromContext(ctx)
	logger.Log(common.LevelInfo, "Status service listening", map[string]interface{}{
		"socket": s.socketPath,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case err := <-errChan:
		_ = os.Remove(s.socketPath)
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.grpcServer.GracefulStop()
		<-errChan
		if err := os.Remove(s.socketPath); err != nil && !os.IsNotExist(err) {
			logger.Log(common.LevelWarn, "Failed to remove status socket", map[string]interface{}{
				"socket": s.socketPath,
				"error":  err.Error(),
			})
		}
		logger.Log(common.LevelInfo, "Status service stopped", nil)
		return nil
	}
}

type statusService struct {
	source StatusSource
}

func (s *statusService) GetStatus(_ context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	room := req.GetValue()
	report := StatusReport{Tick: s.source.CurrentTick()}
	for _, info := range s.source.RoomInfos() {
		if room != "" && info.Name != room {
			continue
		}
		report.Rooms = append(report.Rooms, RoomStatusFromInfo(info))
	}
	if room != "" && len(report.Rooms) == 0 {
		return nil, status.Errorf(codes.NotFound, "room %s not found", room)
	}

	out, err := ToProtobufStatus(report)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

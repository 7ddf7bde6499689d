package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ErrRoomNotFound is returned when the daemon does not run the requested room
type ErrRoomNotFound struct {
	Room string
}

func (e *ErrRoomNotFound) Error() string {
	return fmt.Sprintf("room %s is not running in the daemon", e.Room)
}

// DaemonClient queries a running daemon over its unix socket
type DaemonClient struct {
	conn   *grpc.ClientConn
	client *statusServiceClient
}

// NewDaemonClient creates a client for socketPath. The connection is made
// lazily on the first call.
func NewDaemonClient(socketPath string) (*DaemonClient, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return &DaemonClient{conn: conn, client: newStatusServiceClient(conn)}, nil
}

// Close closes the gRPC connection
func (c *DaemonClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status fetches the live status of room, or of every room when room is empty
func (c *DaemonClient) Status(ctx context.Context, room string) (StatusReport, error) {
	resp, err := c.client.GetStatus(ctx, wrapperspb.String(room))
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return StatusReport{}, &ErrRoomNotFound{Room: room}
		}
		return StatusReport{}, fmt.Errorf("failed to get status: %w", err)
	}
	return FromProtobufStatus(resp)
}

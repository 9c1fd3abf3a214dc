package flightsrv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/23skdu/longbow-mergegen/internal/arrowio"
	"github.com/23skdu/longbow-mergegen/internal/scenario"
)

var (
	ErrNotConnected = errors.New("client not connected, call Connect() first")
	ErrNotFound     = errors.New("fixture not found")
)

// Client fetches fixtures from a Server.
type Client struct {
	client  flight.Client
	addr    string
	timeout time.Duration
}

func NewClient(addr string) *Client {
	return &Client{addr: addr, timeout: 30 * time.Second}
}

// Connect creates the underlying gRPC connection. The dial is lazy, so an
// unreachable server surfaces on the first call.
func (c *Client) Connect(ctx context.Context) error {
	cl, err := flight.NewClientWithMiddleware(c.addr, nil, nil,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("failed to create Flight client: %w", err)
	}
	c.client = cl
	return nil
}

func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// List returns the names of every fixture the server offers.
func (c *Client) List(ctx context.Context) ([]string, error) {
	if c.client == nil {
		return nil, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream, err := c.client.ListFlights(ctx, &flight.Criteria{})
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	var names []string
	for {
		info, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return names, nil
		}
		if err != nil {
			return nil, fmt.Errorf("list flights: %w", err)
		}
		names = append(names, info.GetFlightDescriptor().GetPath()...)
	}
}

// Fetch resolves name with GetFlightInfo and streams its single record.
func (c *Client) Fetch(ctx context.Context, name string) (scenario.Fixture, error) {
	if c.client == nil {
		return scenario.Fixture{}, ErrNotConnected
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	info, err := c.client.GetFlightInfo(ctx, &flight.FlightDescriptor{
		Type: flight.DescriptorPATH,
		Path: []string{name},
	})
	if status.Code(err) == codes.NotFound {
		return scenario.Fixture{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return scenario.Fixture{}, fmt.Errorf("failed to get flight info: %w", err)
	}
	if len(info.GetEndpoint()) == 0 {
		return scenario.Fixture{}, fmt.Errorf("flight info for %s has no endpoints", name)
	}

	stream, err := c.client.DoGet(ctx, info.GetEndpoint()[0].GetTicket())
	if err != nil {
		return scenario.Fixture{}, fmt.Errorf("failed to create DoGet reader: %w", err)
	}
	rdr, err := flight.NewRecordReader(stream)
	if err != nil {
		return scenario.Fixture{}, fmt.Errorf("read %s: %w", name, err)
	}
	defer rdr.Release()

	if !rdr.Next() {
		if err := rdr.Err(); err != nil {
			return scenario.Fixture{}, fmt.Errorf("read %s: %w", name, err)
		}
		return scenario.Fixture{}, fmt.Errorf("read %s: empty stream", name)
	}
	fixtures, err := arrowio.FromRecord(rdr.Record())
	if err != nil {
		return scenario.Fixture{}, err
	}
	if len(fixtures) != 1 {
		return scenario.Fixture{}, fmt.Errorf("read %s: got %d rows, want 1", name, len(fixtures))
	}
	return fixtures[0], nil
}

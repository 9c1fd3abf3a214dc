// Package flightsrv serves generated fixtures over Arrow Flight so a remote
// merge harness can fetch sources and goldens together with their shapes.
package flightsrv

import (
	"context"
	"fmt"
	"net"

	"github.com/apache/arrow-go/v18/arrow/flight"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/23skdu/longbow-mergegen/internal/arrowio"
	"github.com/23skdu/longbow-mergegen/internal/logger"
	"github.com/23skdu/longbow-mergegen/internal/metrics"
	"github.com/23skdu/longbow-mergegen/internal/scenario"
)

// Server exposes a manifest read-only. Tickets and descriptor paths are the
// fixture file names, e.g. "channel.golden".
type Server struct {
	flight.BaseFlightServer

	manifest *scenario.Manifest
	mem      memory.Allocator
	srv      flight.Server
}

func NewServer(m *scenario.Manifest) *Server {
	return &Server{manifest: m, mem: memory.NewGoAllocator()}
}

// Listen binds addr and registers the Flight service. Use ":0" or
// "localhost:0" for an ephemeral port and read it back with Addr.
func (s *Server) Listen(addr string) error {
	s.srv = flight.NewServerWithMiddleware(nil)
	if err := s.srv.Init(addr); err != nil {
		return fmt.Errorf("flight listen %s: %w", addr, err)
	}
	s.srv.RegisterFlightService(s)
	return nil
}

func (s *Server) Addr() net.Addr {
	return s.srv.Addr()
}

// Serve blocks until Shutdown is called.
func (s *Server) Serve() error {
	logger.Log.Info("serving fixtures over flight", "addr", s.Addr().String(), "fixtures", len(s.manifest.Fixtures))
	return s.srv.Serve()
}

func (s *Server) Shutdown() {
	s.srv.Shutdown()
}

func (s *Server) info(f scenario.Fixture) *flight.FlightInfo {
	return &flight.FlightInfo{
		Schema: flight.SerializeSchema(arrowio.Schema, s.mem),
		FlightDescriptor: &flight.FlightDescriptor{
			Type: flight.DescriptorPATH,
			Path: []string{f.Name},
		},
		Endpoint: []*flight.FlightEndpoint{{
			Ticket: &flight.Ticket{Ticket: []byte(f.Name)},
		}},
		TotalRecords: 1,
		TotalBytes:   f.Buffer.ByteLen(),
	}
}

func (s *Server) ListFlights(_ *flight.Criteria, stream flight.FlightService_ListFlightsServer) error {
	for _, f := range s.manifest.Fixtures {
		if err := stream.Send(s.info(f)); err != nil {
			metrics.RecordFlightRequest("ListFlights", "error")
			return err
		}
	}
	metrics.RecordFlightRequest("ListFlights", "ok")
	return nil
}

func (s *Server) GetFlightInfo(_ context.Context, desc *flight.FlightDescriptor) (*flight.FlightInfo, error) {
	if desc.GetType() != flight.DescriptorPATH || len(desc.GetPath()) != 1 {
		metrics.RecordFlightRequest("GetFlightInfo", "invalid")
		return nil, status.Error(codes.InvalidArgument, "descriptor must be a single-element path")
	}
	f, ok := s.manifest.Lookup(desc.GetPath()[0])
	if !ok {
		metrics.RecordFlightRequest("GetFlightInfo", "not_found")
		return nil, status.Errorf(codes.NotFound, "fixture %q not found", desc.GetPath()[0])
	}
	metrics.RecordFlightRequest("GetFlightInfo", "ok")
	return s.info(f), nil
}

func (s *Server) DoGet(tkt *flight.Ticket, stream flight.FlightService_DoGetServer) error {
	name := string(tkt.GetTicket())
	f, ok := s.manifest.Lookup(name)
	if !ok {
		metrics.RecordFlightRequest("DoGet", "not_found")
		return status.Errorf(codes.NotFound, "fixture %q not found", name)
	}

	rec := arrowio.BuildRecord(s.mem, []scenario.Fixture{f})
	defer rec.Release()

	w := flight.NewRecordWriter(stream, ipc.WithSchema(arrowio.Schema), ipc.WithAllocator(s.mem))
	defer func() { _ = w.Close() }()
	if err := w.Write(rec); err != nil {
		metrics.RecordFlightRequest("DoGet", "error")
		return status.Errorf(codes.Internal, "write %s: %v", name, err)
	}
	metrics.RecordFlightRequest("DoGet", "ok")
	logger.Log.Debug("served fixture", "name", name, "elements", f.Buffer.Len())
	return nil
}

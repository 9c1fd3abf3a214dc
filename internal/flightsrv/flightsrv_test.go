package flightsrv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/23skdu/longbow-mergegen/internal/generate"
	"github.com/23skdu/longbow-mergegen/internal/scenario"
)

func startServer(t *testing.T) (*scenario.Manifest, *Client) {
	t.Helper()
	sel, err := scenario.Select(scenario.Defaults(), []string{"channel"})
	require.NoError(t, err)
	m, err := scenario.NewRunner(t.TempDir(), generate.New(1)).Run(sel)
	require.NoError(t, err)

	srv := NewServer(m)
	require.NoError(t, srv.Listen("localhost:0"))
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Shutdown)

	c := NewClient(srv.Addr().String())
	require.NoError(t, c.Connect(context.Background()))
	t.Cleanup(func() { _ = c.Close() })
	return m, c
}

func TestListFixtures(t *testing.T) {
	m, c := startServer(t)

	names, err := c.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, m.Names(), names)
}

func TestFetchGolden(t *testing.T) {
	m, c := startServer(t)

	want, ok := m.Lookup("channel.golden")
	require.True(t, ok)

	got, err := c.Fetch(context.Background(), "channel.golden")
	require.NoError(t, err)
	require.Equal(t, "channel", got.Scenario)
	require.Equal(t, scenario.RoleGolden, got.Role)
	require.Equal(t, want.Buffer.Shape, got.Buffer.Shape)
	require.Equal(t, want.Buffer.Data, got.Buffer.Data)
}

func TestFetchUnknown(t *testing.T) {
	_, c := startServer(t)

	_, err := c.Fetch(context.Background(), "height.golden")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestClientNotConnected(t *testing.T) {
	c := NewClient("localhost:1")

	_, err := c.List(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
	_, err = c.Fetch(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotConnected)
	require.NoError(t, c.Close())
}

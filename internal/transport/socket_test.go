package transport_test

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/internal/transport"
)

func completionChan() (*api.SendRequest, chan *api.SendRequest) {
	ch := make(chan *api.SendRequest, 1)
	return &api.SendRequest{Completed: func(r *api.SendRequest, _ uint64) { ch <- r }}, ch
}

func await(t *testing.T, ch chan *api.SendRequest) *api.SendRequest {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("completion not delivered")
		return nil
	}
}

func TestNewSocketRejectsBadInput(t *testing.T) {
	_, err := transport.NewSocket(nil)
	require.ErrorIs(t, err, api.ErrInvalidArgument)

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	cfg := control.DefaultConfig()
	cfg.WriterQueue = 0
	_, err = transport.NewSocket(a, transport.WithConfig(cfg))
	require.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestPortableSocketSingleAndList(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	sock, err := transport.NewSocket(a)
	require.NoError(t, err)
	require.Equal(t, transport.BackendPortable, transport.BackendOf(sock))

	got := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 11)
		_, _ = io.ReadFull(b, buf)
		got <- buf
	}()

	req, ch := completionChan()
	req.SetBuffer(api.NewArraySegment([]byte("hello")))
	require.True(t, sock.SendAsync(req))
	r := await(t, ch)
	require.NoError(t, r.Err)
	require.Equal(t, 5, r.BytesTransferred)

	req.ClearBuffer()
	req.Reset()
	req.BufferList = []api.ArraySegment{
		api.NewArraySegment([]byte(" wo")),
		{Array: []byte("xxrldxx"), Offset: 2, Count: 3},
	}
	require.True(t, sock.SendAsync(req))
	r = await(t, ch)
	require.NoError(t, r.Err)
	require.Equal(t, 6, r.BytesTransferred)

	select {
	case buf := <-got:
		require.Equal(t, "hello world", string(buf))
	case <-time.After(5 * time.Second):
		t.Fatal("peer did not receive data")
	}

	require.NoError(t, sock.Close())
	require.NoError(t, sock.Close())
}

func TestPortableSocketClose(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	sock, err := transport.NewSocket(a, transport.WithPortable())
	require.NoError(t, err)

	// Nobody reads b, so the write blocks until Close.
	req, ch := completionChan()
	req.SetBuffer(api.NewArraySegment([]byte("stuck")))
	require.True(t, sock.SendAsync(req))

	require.NoError(t, sock.Close())
	r := await(t, ch)
	require.Error(t, r.Err)
	require.Equal(t, api.SocketErrorShutdown, api.SocketErrorCodeOf(r.Err))

	req.Reset()
	require.False(t, sock.SendAsync(req))
	require.Equal(t, api.SocketErrorShutdown, api.SocketErrorCodeOf(req.Err))
	require.Equal(t, 0, req.BytesTransferred)
}

//go:build linux

package transport_test

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
	"github.com/momentics/hioload-sock/control"
	"github.com/momentics/hioload-sock/internal/transport"
)

func tcpPair(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			close(accepted)
			return
		}
		accepted <- c
	}()
	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server = <-accepted
	require.NotNil(t, server)
	return client, server
}

func newPort(t *testing.T) *transport.Port {
	t.Helper()
	p, err := transport.NewPort(control.DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { p.Close() })
	return p
}

func TestEpollSocketSyncCompletion(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()

	sock, err := transport.NewSocket(client, transport.WithPort(newPort(t)))
	require.NoError(t, err)
	defer sock.Close()
	require.Equal(t, transport.BackendEpoll, transport.BackendOf(sock))

	req, _ := completionChan()
	req.BufferList = []api.ArraySegment{
		api.NewArraySegment([]byte("scatter ")),
		api.NewArraySegment([]byte("gather")),
	}
	require.False(t, sock.SendAsync(req), "small write into an empty socket buffer completes inline")
	require.NoError(t, req.Err)
	require.Equal(t, 14, req.BytesTransferred)

	buf := make([]byte, 14)
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	require.Equal(t, "scatter gather", string(buf))
}

func TestEpollSocketDeferredCompletion(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()

	port := newPort(t)
	sock, err := transport.NewSocket(client, transport.WithPort(port))
	require.NoError(t, err)
	defer sock.Close()

	payload := bytes.Repeat([]byte("x"), 64<<20)
	req, ch := completionChan()
	total := 0

	// Fill the kernel buffers until a send parks.
	pending := false
	for !pending {
		req.Reset()
		req.SetBuffer(api.NewArraySegment(payload[total:]))
		pending = sock.SendAsync(req)
		if !pending {
			require.NoError(t, req.Err)
			require.Positive(t, req.BytesTransferred)
			total += req.BytesTransferred
		}
	}
	require.Equal(t, 1, port.Sockets())

	drained := make(chan int64, 1)
	go func() {
		n, _ := io.Copy(io.Discard, server)
		drained <- n
	}()

	r := await(t, ch)
	require.NoError(t, r.Err)
	require.Positive(t, r.BytesTransferred)
	total += r.BytesTransferred

	require.NoError(t, sock.Close())
	require.Equal(t, 0, port.Sockets())
	require.Equal(t, int64(total), <-drained)
}

func TestEpollSocketCloseFailsParkedSend(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()

	sock, err := transport.NewSocket(client, transport.WithPort(newPort(t)))
	require.NoError(t, err)

	payload := bytes.Repeat([]byte("y"), 64<<20)
	req, ch := completionChan()
	off := 0
	for {
		req.Reset()
		req.SetBuffer(api.NewArraySegment(payload[off:]))
		if sock.SendAsync(req) {
			break
		}
		require.NoError(t, req.Err)
		off += req.BytesTransferred
	}

	require.NoError(t, sock.Close())
	r := await(t, ch)
	require.Equal(t, api.SocketErrorShutdown, api.SocketErrorCodeOf(r.Err))
	require.Equal(t, 0, r.BytesTransferred)

	req.Reset()
	require.False(t, sock.SendAsync(req))
	require.Equal(t, api.SocketErrorShutdown, api.SocketErrorCodeOf(req.Err))
}

func TestEpollSocketPeerReset(t *testing.T) {
	client, server := tcpPair(t)

	sock, err := transport.NewSocket(client, transport.WithPort(newPort(t)))
	require.NoError(t, err)
	defer sock.Close()

	// Unread data at close makes the peer answer with RST.
	_, err = client.Write([]byte("unread"))
	require.NoError(t, err)
	server.(*net.TCPConn).SetLinger(0)
	require.NoError(t, server.Close())
	time.Sleep(50 * time.Millisecond)

	req, ch := completionChan()
	var last error
	for i := 0; i < 100 && last == nil; i++ {
		req.Reset()
		req.SetBuffer(api.NewArraySegment(bytes.Repeat([]byte("z"), 4096)))
		if sock.SendAsync(req) {
			req = await(t, ch)
		}
		last = req.Err
	}
	require.Error(t, last)
	require.True(t, api.IsSocketError(last))
	code := api.SocketErrorCodeOf(last)
	require.Contains(t, []api.SocketErrorCode{api.SocketErrorConnectionReset, api.SocketErrorBrokenPipe}, code)
}

package tcp_test

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/transport/tcp"
)

func TestEchoListener(t *testing.T) {
	l, err := tcp.Listen(tcp.ListenerConfig{Addr: "127.0.0.1:0", AcceptCPU: -1})
	require.NoError(t, err)
	go l.Serve()
	defer l.Close()

	c, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Write([]byte("ping"))
	require.NoError(t, err)
	buf := make([]byte, 4)
	_, err = io.ReadFull(c, buf)
	require.NoError(t, err)
	require.Equal(t, "ping", string(buf))
}

func TestCollectAndClose(t *testing.T) {
	got := make(chan []byte, 1)
	l, err := tcp.Listen(tcp.ListenerConfig{Addr: "127.0.0.1:0", AcceptCPU: -1, ConnHandler: tcp.Collect(got)})
	require.NoError(t, err)
	served := make(chan error, 1)
	go func() { served <- l.Serve() }()

	c, err := net.Dial("tcp", l.Addr().String())
	require.NoError(t, err)
	_, err = c.Write([]byte("abc"))
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.Equal(t, "abc", string(<-got))

	require.NoError(t, l.Close())
	require.NoError(t, <-served)
}

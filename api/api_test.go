package api_test

import (
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
)

func TestArraySegment(t *testing.T) {
	var zero api.ArraySegment
	require.True(t, zero.IsZero())
	require.Nil(t, zero.Bytes())

	s := api.ArraySegment{Array: []byte("abcdef"), Offset: 2, Count: 3}
	require.False(t, s.IsZero())
	require.Equal(t, "cde", string(s.Bytes()))
	require.Equal(t, 4, api.NewArraySegment([]byte("wxyz")).Count)
}

func TestSendRequest(t *testing.T) {
	req := &api.SendRequest{}
	req.SetBuffer(api.NewArraySegment([]byte("hello")))
	require.Equal(t, 5, req.Count())

	req.ClearBuffer()
	req.BufferList = []api.ArraySegment{
		api.NewArraySegment([]byte("ab")),
		api.NewArraySegment([]byte("cde")),
	}
	require.Equal(t, 5, req.Count())

	req.SetResult(3, api.ErrSocketClosed)
	require.Equal(t, 3, req.BytesTransferred)
	req.Reset()
	require.Zero(t, req.BytesTransferred)
	require.NoError(t, req.Err)
}

func TestTicketCarriesIssuedGeneration(t *testing.T) {
	var got []uint64
	req := &api.SendRequest{Completed: func(_ *api.SendRequest, gen uint64) { got = append(got, gen) }}
	require.True(t, api.Ticket{}.IsZero())

	req.Generation = 1
	first := req.Ticket()
	req.Generation = 2
	second := req.Ticket()
	require.False(t, first.IsZero())

	second.Complete()
	first.Complete()
	require.Equal(t, []uint64{2, 1}, got)
}

func TestSocketError(t *testing.T) {
	se := api.NewSocketError("write", api.SocketErrorBrokenPipe, syscall.EPIPE)
	wrapped := fmt.Errorf("send: %w", se)

	require.True(t, api.IsSocketError(wrapped))
	require.Equal(t, api.SocketErrorBrokenPipe, api.SocketErrorCodeOf(wrapped))
	require.ErrorIs(t, wrapped, syscall.EPIPE)
	assert.Contains(t, se.Error(), "broken pipe")

	require.False(t, api.IsSocketError(api.ErrUnsupportedSegment))
	require.Equal(t, api.SocketErrorUnknown, api.SocketErrorCodeOf(nil))
	assert.Equal(t, "write: shutdown", api.NewSocketError("write", api.SocketErrorShutdown, nil).Error())
}

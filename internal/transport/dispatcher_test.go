package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-sock/api"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := newDispatcher(1)

	var (
		mu  sync.Mutex
		got []int
		wg  sync.WaitGroup
	)
	const n = 100
	wg.Add(n)
	for i := 0; i < n; i++ {
		req := &api.SendRequest{UserToken: i}
		req.Completed = func(r *api.SendRequest, _ uint64) {
			mu.Lock()
			got = append(got, r.UserToken.(int))
			mu.Unlock()
			wg.Done()
		}
		d.Post(req.Ticket())
	}
	wg.Wait()
	d.Close()

	require.Len(t, got, n)
	for i, v := range got {
		require.Equal(t, i, v)
	}
	require.Equal(t, 0, d.Len())
}

func TestDispatcherCloseFlushesAndRunsInline(t *testing.T) {
	d := newDispatcher(4)
	var count int
	var mu sync.Mutex
	for i := 0; i < 10; i++ {
		req := &api.SendRequest{Completed: func(*api.SendRequest, uint64) {
			mu.Lock()
			count++
			mu.Unlock()
		}}
		d.Post(req.Ticket())
	}
	d.Close()
	require.Equal(t, 10, count)

	inline := false
	late := &api.SendRequest{Completed: func(*api.SendRequest, uint64) { inline = true }}
	d.Post(late.Ticket())
	require.True(t, inline)

	d.Close()
}

package push

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChannel struct {
	mu         sync.Mutex
	wrote      []interface{}
	failWrites bool
	closed     bool
	block      chan struct{}
}

func (f *fakeChannel) WriteJSON(v interface{}) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrites {
		return errors.New("broken pipe")
	}
	f.wrote = append(f.wrote, v)
	return nil
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeChannel) written() []interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]interface{}, len(f.wrote))
	copy(out, f.wrote)
	return out
}

func TestSendToUnregisteredUser(t *testing.T) {
	r := NewRegistry(nil)
	assert.False(t, r.Send(1, time.Second, "hello"))
}

func TestRegisterSendUnregister(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch := &fakeChannel{}
	require.Nil(t, r.Register(uid, ch))
	require.True(t, r.IsLive(uid))

	require.True(t, r.Send(uid, time.Second, "hello"))
	require.Len(t, ch.written(), 1)
	assert.Equal(t, "hello", ch.written()[0])

	r.Unregister(uid)
	assert.False(t, r.IsLive(uid))
	assert.False(t, r.Send(uid, time.Second, "again"))
	assert.Len(t, ch.written(), 1)
}

func TestUnregisterIsIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	r.Register(uid, &fakeChannel{})
	r.Unregister(uid)
	r.Unregister(uid)
	assert.False(t, r.IsLive(uid))
}

func TestRegisterReplacesPreviousChannel(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch1 := &fakeChannel{}
	ch2 := &fakeChannel{}

	require.Nil(t, r.Register(uid, ch1))
	replaced := r.Register(uid, ch2)
	require.Equal(t, Channel(ch1), replaced, "old channel handed back to caller")
	assert.False(t, ch1.closed, "registry must not close the displaced transport")

	require.True(t, r.Send(uid, time.Second, "only-new"))
	assert.Empty(t, ch1.written())
	require.Len(t, ch2.written(), 1)
}

func TestSendFailureUnregistersDeadChannel(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch := &fakeChannel{failWrites: true}
	r.Register(uid, ch)

	assert.False(t, r.Send(uid, time.Second, "doomed"))
	assert.False(t, r.IsLive(uid), "dead channel must be evicted")
}

func TestSendTimeoutTreatedAsUndelivered(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch := &fakeChannel{block: make(chan struct{})}
	r.Register(uid, ch)

	start := time.Now()
	delivered := r.Send(uid, 50*time.Millisecond, "slow")
	assert.False(t, delivered)
	assert.Less(t, time.Since(start), time.Second, "send must not block past its timeout")
	assert.False(t, r.IsLive(uid))

	close(ch.block) // release the stuck writer
}

func TestUnregisterChannelOnlyRemovesMatching(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch1 := &fakeChannel{}
	ch2 := &fakeChannel{}
	r.Register(uid, ch1)
	r.Register(uid, ch2)

	// stale read loop of the replaced connection must not evict the new one
	r.UnregisterChannel(uid, ch1)
	require.True(t, r.IsLive(uid))
	require.True(t, r.Send(uid, time.Second, "still-routed"))
	require.Len(t, ch2.written(), 1)

	r.UnregisterChannel(uid, ch2)
	assert.False(t, r.IsLive(uid))
}

func TestConcurrentSendsAllDelivered(t *testing.T) {
	r := NewRegistry(nil)
	const uid = 1
	ch := &fakeChannel{}
	r.Register(uid, ch)

	const n = 50
	var wg sync.WaitGroup
	var delivered int64
	var mu sync.Mutex
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if r.Send(uid, 2*time.Second, i) {
				mu.Lock()
				delivered++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, n, delivered)
	assert.Len(t, ch.written(), n)
}

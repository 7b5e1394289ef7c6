package push

import (
	"sync"
	"time"

	"BobaLink/pkg/config"
)

// Channel is one live outbound transport for a user. The production
// implementation wraps a websocket connection; tests substitute fakes.
type Channel interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Registry maps a user id to at most one live channel. It is an owned
// object constructed at startup and passed by handle to every request
// handler, not ambient global state; its lifetime is the process's.
type Registry struct {
	conns           sync.Map // key: int64, value: *ConnectionHolder
	sendChannelSize int
}

func NewRegistry(cfg *config.DispatcherConfig) *Registry {
	buf := 128
	if cfg != nil && cfg.SendChannelSize > 0 {
		buf = cfg.SendChannelSize
	}
	return &Registry{sendChannelSize: buf}
}

type sendRequest struct {
	msg  interface{}
	resp chan error
}

// ConnectionHolder owns a channel plus the queue feeding its writer
// goroutine. Writes to the underlying transport are serialized through
// writerLoop; closeCh stops the loop when the holder is replaced or removed.
type ConnectionHolder struct {
	ch        Channel
	sendCh    chan sendRequest
	closeCh   chan struct{}
	closeOnce sync.Once
}

func (h *ConnectionHolder) shutdown() {
	h.closeOnce.Do(func() { close(h.closeCh) })
}

// writerLoop 串行化对通道的写入并将结果返回给请求方
func writerLoop(h *ConnectionHolder) {
	for {
		select {
		case req := <-h.sendCh:
			err := h.ch.WriteJSON(req.msg)
			if req.resp != nil {
				select {
				case req.resp <- err:
				default:
				}
			}
			if err != nil {
				// transport is dead; stop writing. The registry entry is
				// removed by the Send that observed the failure or by the
				// transport's read loop.
				return
			}
		case <-h.closeCh:
			return
		}
	}
}

// Register installs ch as the live channel for userID. A user maps to at most
// one channel: any previous mapping is abandoned and its channel returned so
// the transport layer can close it. The registry itself never closes
// transports.
func (r *Registry) Register(userID int64, ch Channel) (replaced Channel) {
	holder := &ConnectionHolder{
		ch:      ch,
		sendCh:  make(chan sendRequest, r.sendChannelSize),
		closeCh: make(chan struct{}),
	}
	if prev, loaded := r.conns.Swap(userID, holder); loaded {
		old := prev.(*ConnectionHolder)
		old.shutdown()
		replaced = old.ch
	}
	go writerLoop(holder)
	return replaced
}

// Unregister removes the mapping for userID. No-op when none exists.
func (r *Registry) Unregister(userID int64) {
	if val, ok := r.conns.LoadAndDelete(userID); ok {
		val.(*ConnectionHolder).shutdown()
	}
}

// UnregisterChannel removes the mapping only if it still routes to ch.
// Transports call this from their read loops so a connection that died after
// being replaced cannot evict its successor.
func (r *Registry) UnregisterChannel(userID int64, ch Channel) {
	val, ok := r.conns.Load(userID)
	if !ok {
		return
	}
	h := val.(*ConnectionHolder)
	if h.ch != ch {
		return
	}
	if r.conns.CompareAndDelete(userID, val) {
		h.shutdown()
	}
}

// IsLive reports whether userID currently has a registered channel.
func (r *Registry) IsLive(userID int64) bool {
	_, ok := r.conns.Load(userID)
	return ok
}

// Send pushes msg through userID's live channel, waiting at most timeout for
// enqueue plus write. Returns false when the user has no channel, the write
// fails, or the timeout fires; a failed channel is unregistered as a side
// effect so later sends don't hit a stale handle.
func (r *Registry) Send(userID int64, timeout time.Duration, msg interface{}) (delivered bool) {
	val, ok := r.conns.Load(userID)
	if !ok {
		return false
	}
	h := val.(*ConnectionHolder)

	req := sendRequest{msg: msg, resp: make(chan error, 1)}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case h.sendCh <- req:
	case <-h.closeCh:
		return false
	case <-timer.C:
		r.dropDead(userID, h)
		return false
	}

	select {
	case err := <-req.resp:
		if err != nil {
			r.dropDead(userID, h)
			return false
		}
		return true
	case <-h.closeCh:
		return false
	case <-timer.C:
		r.dropDead(userID, h)
		return false
	}
}

// dropDead evicts h only while it is still the current mapping.
func (r *Registry) dropDead(userID int64, h *ConnectionHolder) {
	if r.conns.CompareAndDelete(userID, h) {
		h.shutdown()
	}
}

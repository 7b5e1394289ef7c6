package match

import (
	"context"
	"sync"
	"testing"

	"BobaLink/internal/ledger"
	"BobaLink/pkg/push"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// in-memory ledger store, same invariants as the MySQL one
type memStore struct {
	mu    sync.Mutex
	edges map[[2]int64]struct{}
}

func newMemStore() *memStore {
	return &memStore{edges: map[[2]int64]struct{}{}}
}

func (m *memStore) InsertEdge(ctx context.Context, from, to int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{from, to}
	if _, ok := m.edges[key]; ok {
		return false, nil
	}
	m.edges[key] = struct{}{}
	return true, nil
}

func (m *memStore) EdgeExists(ctx context.Context, from, to int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.edges[[2]int64{from, to}]
	return ok, nil
}

func (m *memStore) MutualIDs(ctx context.Context, id int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []int64
	for key := range m.edges {
		if key[0] != id {
			continue
		}
		if _, ok := m.edges[[2]int64{key[1], id}]; ok {
			out = append(out, key[1])
		}
	}
	return out, nil
}

type recorder struct {
	mu   sync.Mutex
	msgs []push.PushMessage
}

func (r *recorder) notify(msg push.PushMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func newTestService() (*Service, *recorder) {
	rec := &recorder{}
	svc := NewService(ledger.NewService(newMemStore()), rec.notify)
	return svc, rec
}

func TestFirstRequestNotifiesRecipientOnly(t *testing.T) {
	svc, rec := newTestService()

	connected, err := svc.SubmitConnectionRequest(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)

	require.Len(t, rec.msgs, 1)
	msg := rec.msgs[0]
	assert.Equal(t, push.KindRequest, msg.Kind)
	assert.Equal(t, []int64{2}, msg.TargetIDs, "the requester is not notified of their own request")
	assert.EqualValues(t, 1, msg.SenderID)
}

func TestSecondDirectionCompletesMatch(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	_, err := svc.SubmitConnectionRequest(ctx, 1, 2)
	require.NoError(t, err)

	connected, err := svc.SubmitConnectionRequest(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, connected)

	require.Len(t, rec.msgs, 2)
	matchMsg := rec.msgs[1]
	assert.Equal(t, push.KindMatch, matchMsg.Kind)
	assert.ElementsMatch(t, []int64{1, 2}, matchMsg.TargetIDs, "both parties get exactly one match notification")
}

func TestDuplicateRequestIsSilentNoOp(t *testing.T) {
	svc, rec := newTestService()
	ctx := context.Background()

	_, err := svc.SubmitConnectionRequest(ctx, 1, 2)
	require.NoError(t, err)

	connected, err := svc.SubmitConnectionRequest(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)
	assert.Len(t, rec.msgs, 1, "a duplicate request must not re-notify the recipient")
}

func TestResubmitAfterMatchStillAnnouncesMatch(t *testing.T) {
	// A→B, then B→A completes the pair. A resubmitting A→B finds its edge
	// already present AND the reverse present: it must still fire match
	// notifications to both (this is the out-of-order arrival case).
	svc, rec := newTestService()
	ctx := context.Background()

	_, err := svc.SubmitConnectionRequest(ctx, 1, 2)
	require.NoError(t, err)
	_, err = svc.SubmitConnectionRequest(ctx, 2, 1)
	require.NoError(t, err)

	connected, err := svc.SubmitConnectionRequest(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, connected)

	require.Len(t, rec.msgs, 3)
	last := rec.msgs[2]
	assert.Equal(t, push.KindMatch, last.Kind)
	assert.ElementsMatch(t, []int64{1, 2}, last.TargetIDs)
}

func TestSelfRequestRejectedWithoutSideEffects(t *testing.T) {
	svc, rec := newTestService()

	connected, err := svc.SubmitConnectionRequest(context.Background(), 3, 3)
	require.ErrorIs(t, err, ledger.ErrSelfConnection)
	assert.False(t, connected)
	assert.Empty(t, rec.msgs)
}

func TestDeliveryFailureDoesNotFailRequest(t *testing.T) {
	// Notify that reaches nobody (all targets offline) is still success for
	// the caller: the ledger write is the source of truth.
	svc, _ := newTestService()
	svc.Notify = func(push.PushMessage) {} // swallow everything

	connected, err := svc.SubmitConnectionRequest(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, connected)
}

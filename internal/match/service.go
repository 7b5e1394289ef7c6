package match

import (
	"context"

	"BobaLink/pkg/push"
)

// Ledger is the slice of the connection ledger the orchestrator needs.
type Ledger interface {
	RequestConnection(ctx context.Context, from, to int64) (alreadyExisted bool, err error)
	HasReverse(ctx context.Context, from, to int64) (bool, error)
}

// Service composes the ledger write with live notification. The ledger write
// decides the outcome; pushes are fired after it and can never fail the
// request.
type Service struct {
	Ledger Ledger
	// Notify is the post-commit delivery hook, the dispatcher's Dispatch in
	// production.
	Notify func(push.PushMessage)
}

func NewService(l Ledger, notify func(push.PushMessage)) *Service {
	return &Service{Ledger: l, Notify: notify}
}

// SubmitConnectionRequest records from → to and reports whether this call
// completed a mutual pair.
//
// Whichever call observes both directions present announces the match to
// both parties, even when its own edge already existed: out-of-order and
// double-submitted requests behave the same as the plain second-arrival
// case. A duplicate request that does not complete a pair is a full no-op
// and re-notifies nobody.
func (s *Service) SubmitConnectionRequest(ctx context.Context, from, to int64) (connected bool, err error) {
	alreadyExisted, err := s.Ledger.RequestConnection(ctx, from, to)
	if err != nil {
		return false, err
	}
	reverse, err := s.Ledger.HasReverse(ctx, from, to)
	if err != nil {
		return false, err
	}
	if reverse {
		s.Notify(push.PushMessage{
			Kind:      push.KindMatch,
			SenderID:  from,
			TargetIDs: []int64{from, to},
			Payload:   "It's a match!",
		})
		return true, nil
	}
	if !alreadyExisted {
		s.Notify(push.PushMessage{
			Kind:      push.KindRequest,
			SenderID:  from,
			TargetIDs: []int64{to},
			Payload:   "You received a new connection request",
		})
	}
	return false, nil
}

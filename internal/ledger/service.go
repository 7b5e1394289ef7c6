package ledger

import (
	"context"
	"errors"
)

var ErrSelfConnection = errors.New("cannot send a connection request to yourself")

// Store persists directed connection edges. Edges are never mutated or
// deleted; at most one row exists per (from, to) pair.
type Store interface {
	InsertEdge(ctx context.Context, from, to int64) (created bool, err error)
	EdgeExists(ctx context.Context, from, to int64) (bool, error)
	MutualIDs(ctx context.Context, id int64) ([]int64, error)
}

type Service struct {
	Store Store
}

func NewService(s Store) *Service {
	return &Service{Store: s}
}

// RequestConnection records the directed edge from → to. Repeated calls with
// the same pair are no-ops reporting alreadyExisted=true.
func (s *Service) RequestConnection(ctx context.Context, from, to int64) (alreadyExisted bool, err error) {
	if from == to {
		return false, ErrSelfConnection
	}
	created, err := s.Store.InsertEdge(ctx, from, to)
	if err != nil {
		return false, err
	}
	return !created, nil
}

// HasReverse reports whether the opposite edge (to → from) exists.
func (s *Service) HasReverse(ctx context.Context, from, to int64) (bool, error) {
	return s.Store.EdgeExists(ctx, to, from)
}

// MutualsOf returns every x with both (id → x) and (x → id) present.
func (s *Service) MutualsOf(ctx context.Context, id int64) ([]int64, error) {
	return s.Store.MutualIDs(ctx, id)
}

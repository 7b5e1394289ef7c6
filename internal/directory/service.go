package directory

import (
	"BobaLink/internal/user"
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"
)

var (
	ErrNotFound            = errors.New("user not found")
	ErrLocationUnavailable = errors.New("user has not shared location")
	ErrInvalidRadius       = errors.New("radius must be positive")
	ErrInvalidCoordinates  = errors.New("coordinates out of range")
)

// Service answers directory queries: point lookup, proximity search and
// location updates. The geo index is the query path; MySQL stays the record
// of truth.
type Service struct {
	Users UserStore
	Geo   GeoIndex
}

func NewService(users UserStore, geo GeoIndex) *Service {
	return &Service{Users: users, Geo: geo}
}

func (s *Service) FindByID(ctx context.Context, id int64) (*user.User, error) {
	return s.Users.GetByID(ctx, id)
}

// UpdateLocation validates and stores new coordinates, then refreshes the
// geo index entry. Index refresh failure is logged, not fatal: the fallback
// scan still sees the MySQL row.
func (s *Service) UpdateLocation(ctx context.Context, id int64, lat, lng float64) error {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return ErrInvalidCoordinates
	}
	if err := s.Users.UpdateLocation(ctx, id, lat, lng); err != nil {
		return err
	}
	if err := s.Geo.Upsert(ctx, id, lat, lng); err != nil {
		zap.L().Warn("failed to refresh geo index", zap.Int64("userID", id), zap.Error(err))
	}
	return nil
}

// FindNear returns users within radiusMeters of id, nearest first, excluding
// the caller and anyone without coordinates.
func (s *Service) FindNear(ctx context.Context, id int64, radiusMeters float64) ([]user.User, error) {
	if radiusMeters <= 0 {
		return nil, ErrInvalidRadius
	}
	me, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !me.HasLocation() {
		return nil, ErrLocationUnavailable
	}

	ids, err := s.Geo.Search(ctx, *me.Lat, *me.Lng, radiusMeters)
	if err != nil {
		zap.L().Warn("geo index unavailable, falling back to linear scan", zap.Error(err))
		return s.scanNear(ctx, me, radiusMeters)
	}

	// drop the caller before hydrating
	filtered := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			filtered = append(filtered, candidate)
		}
	}
	users, err := s.Users.GetByIDs(ctx, filtered)
	if err != nil {
		return nil, err
	}

	// restore nearest-first order (IN queries don't preserve it) and guard
	// against index entries whose rows lost their coordinates since
	rank := make(map[int64]int, len(filtered))
	for i, uid := range filtered {
		rank[uid] = i
	}
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		if u.ID != id && u.HasLocation() {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return rank[out[i].ID] < rank[out[j].ID] })
	return out, nil
}

// scanNear is the degraded path when redis is down: O(population) over every
// located user. Fine for small populations, a scalability limit beyond that.
func (s *Service) scanNear(ctx context.Context, me *user.User, radiusMeters float64) ([]user.User, error) {
	all, err := s.Users.ListLocated(ctx)
	if err != nil {
		return nil, err
	}
	type scored struct {
		u user.User
		d float64
	}
	hits := make([]scored, 0, len(all))
	for _, u := range all {
		if u.ID == me.ID || !u.HasLocation() {
			continue
		}
		d := Haversine(*me.Lat, *me.Lng, *u.Lat, *u.Lng)
		if d <= radiusMeters {
			hits = append(hits, scored{u: u, d: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].d < hits[j].d })
	out := make([]user.User, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.u)
	}
	return out, nil
}

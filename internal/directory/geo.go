package directory

import (
	"context"
	"math"
	"strconv"

	rdb "BobaLink/pkg/db/redis"

	"github.com/redis/go-redis/v9"
)

const geoKey = "geo:users"

// GeoIndex answers "ids within radius of a point". The production index is
// the Redis GEO set; distance there is great-circle.
type GeoIndex interface {
	Upsert(ctx context.Context, id int64, lat, lng float64) error
	Search(ctx context.Context, lat, lng, radiusMeters float64) ([]int64, error)
}

type RedisGeoIndex struct{}

func (RedisGeoIndex) Upsert(ctx context.Context, id int64, lat, lng float64) error {
	return rdb.Rdb.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      strconv.FormatInt(id, 10),
		Latitude:  lat,
		Longitude: lng,
	}).Err()
}

func (RedisGeoIndex) Search(ctx context.Context, lat, lng, radiusMeters float64) ([]int64, error) {
	locs, err := rdb.Rdb.GeoSearchLocation(ctx, geoKey, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Latitude:   lat,
			Longitude:  lng,
			Radius:     radiusMeters,
			RadiusUnit: "m",
			Sort:       "ASC",
		},
	}).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(locs))
	for _, loc := range locs {
		id, err := strconv.ParseInt(loc.Name, 10, 64)
		if err != nil {
			// foreign member in the geo set, skip it
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters between two
// lat/lng points given in degrees. Coordinates are spherical: planar
// Euclidean distance over degrees would be wrong, not just imprecise.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180.0
	phi1 := lat1 * degToRad
	phi2 := lat2 * degToRad
	dPhi := (lat2 - lat1) * degToRad
	dLambda := (lng2 - lng1) * degToRad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

package travel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"food-dispatch/internal/domain"
)

type stubDirections struct {
	req    *maps.DirectionsRequest
	routes []maps.Route
	err    error
}

func (s *stubDirections) Directions(_ context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error) {
	s.req = r
	return s.routes, nil, s.err
}

func TestConstant(t *testing.T) {
	m, err := Constant(12).Minutes(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Equal(t, 12, m)
}

func TestDirections_RoundsUp(t *testing.T) {
	stub := &stubDirections{routes: []maps.Route{{Legs: []*maps.Leg{{Duration: 7*time.Minute + 10*time.Second}}}}}
	d := &Directions{client: stub}

	m, err := d.Minutes(context.Background(), &domain.Point{Lat: 31.5, Lng: 34.4}, &domain.Point{Lat: 31.52, Lng: 34.45})
	require.NoError(t, err)
	require.Equal(t, 8, m)
	require.Equal(t, "31.500000,34.400000", stub.req.Origin)
	require.Equal(t, maps.TravelModeDriving, stub.req.Mode)
}

func TestDirections_Failures(t *testing.T) {
	d := &Directions{client: &stubDirections{}}
	_, err := d.Minutes(context.Background(), nil, &domain.Point{})
	require.ErrorIs(t, err, ErrNoRoute)

	_, err = d.Minutes(context.Background(), &domain.Point{}, &domain.Point{})
	require.ErrorIs(t, err, ErrNoRoute)

	boom := errors.New("quota")
	d = &Directions{client: &stubDirections{err: boom}}
	_, err = d.Minutes(context.Background(), &domain.Point{}, &domain.Point{})
	require.ErrorIs(t, err, boom)
}

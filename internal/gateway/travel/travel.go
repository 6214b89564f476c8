// Package travel estimates how long a courier needs to reach a branch.
package travel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"googlemaps.github.io/maps"

	"food-dispatch/internal/domain"
)

// ErrNoRoute is returned when an estimate cannot be produced for the given points.
var ErrNoRoute = errors.New("no route")

// Estimator returns whole travel minutes between two points.
type Estimator interface {
	Minutes(ctx context.Context, from, to *domain.Point) (int, error)
}

// Constant always returns the same estimate.
type Constant int

// Minutes returns c.
func (c Constant) Minutes(context.Context, *domain.Point, *domain.Point) (int, error) {
	return int(c), nil
}

type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// Directions asks the Google Maps Directions API for a driving estimate.
type Directions struct {
	client directionsClient
}

// NewDirections creates a Directions estimator with the given API key.
func NewDirections(apiKey string) (*Directions, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Directions{client: client}, nil
}

// Minutes returns the first route's duration, rounded up to whole minutes.
func (d *Directions) Minutes(ctx context.Context, from, to *domain.Point) (int, error) {
	if from == nil || to == nil {
		return 0, ErrNoRoute
	}
	routes, _, err := d.client.Directions(ctx, &maps.DirectionsRequest{
		Origin:      latLng(*from),
		Destination: latLng(*to),
		Mode:        maps.TravelModeDriving,
	})
	if err != nil {
		return 0, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return 0, ErrNoRoute
	}

	var total time.Duration
	for _, leg := range routes[0].Legs {
		total += leg.Duration
	}
	return int(math.Ceil(total.Minutes())), nil
}

func latLng(p domain.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}

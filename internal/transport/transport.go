// Package transport estimates haulage cost between two places.
package transport

import (
	"context"
	"errors"
)

var (
	ErrUnknownPlace = errors.New("unknown_place")
	ErrNoRoute      = errors.New("no_route")
)

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Geocoder resolves a free-text place to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (Point, error)
}

// Router returns the road distance in kilometres.
type Router interface {
	Distance(ctx context.Context, from, to Point) (float64, error)
}

type EstimateRequest struct {
	FromLocation string `json:"fromLocation"`
	ToLocation   string `json:"toLocation"`
	VehicleType  string `json:"vehicleType"`
	Quantity     any    `json:"quantity"`
}

type Estimate struct {
	FromLocation string  `json:"fromLocation"`
	ToLocation   string  `json:"toLocation"`
	VehicleType  string  `json:"vehicleType"`
	Quantity     float64 `json:"quantity"`
	DistanceKm   float64 `json:"distanceKm"`
	Trips        int     `json:"trips"`
	RatePerKm    float64 `json:"ratePerKm"`
	BaseCharge   float64 `json:"baseCharge"`
	Cost         float64 `json:"cost"`
}

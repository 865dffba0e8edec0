package handlers

import (
	"github.com/kosarica/invite-service/internal/customers"
	"github.com/kosarica/invite-service/internal/geodesy"
)

// Location represents a geographic location
type Location struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

func (l *Location) coordinate() geodesy.Coordinate {
	return geodesy.Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}
}

// CustomerInput is one customer record in a request body
type CustomerInput struct {
	UserID    *int     `json:"userId" binding:"required,gte=0"`
	Name      *string  `json:"name" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

func (c *CustomerInput) customer() customers.Customer {
	return customers.Customer{
		UserID:    *c.UserID,
		Name:      *c.Name,
		Latitude:  *c.Latitude,
		Longitude: *c.Longitude,
	}
}

func toCustomers(in []*CustomerInput) []customers.Customer {
	out := make([]customers.Customer, len(in))
	for i, c := range in {
		out[i] = c.customer()
	}
	return out
}

// DistanceRequest asks for both estimates between origin and target
type DistanceRequest struct {
	Target *Location `json:"target" binding:"required"`
	Origin *Location `json:"origin,omitempty"`
}

// InvitesRequest selects customers within a radius of the origin
type InvitesRequest struct {
	Customers     []*CustomerInput `json:"customers" binding:"required,min=1,max=10000,dive,required"`
	Origin        *Location        `json:"origin,omitempty"`
	MaxDistanceKm *float64         `json:"maxDistanceKm,omitempty" binding:"omitempty,gte=0"`
	Method        string           `json:"method,omitempty" binding:"omitempty,oneof=vincenty spherical"`
}

// CompareRequest cross-checks the estimators for every customer
type CompareRequest struct {
	Customers   []*CustomerInput `json:"customers" binding:"required,min=1,max=10000,dive,required"`
	Origin      *Location        `json:"origin,omitempty"`
	ToleranceKm *float64         `json:"toleranceKm,omitempty" binding:"omitempty,gte=0"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string             `json:"status"`
	Origin geodesy.Coordinate `json:"origin"`
}

// ErrorResponse is returned for every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

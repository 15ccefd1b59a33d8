package dto

import "time"

type ItemRequest struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Addresses are either a formatted string or a {street, city, state, zip} object.
type CreateDeliveryRequest struct {
	OrderID        string        `json:"orderId"`
	PickupAddress  any           `json:"pickupAddress"`
	DropoffAddress any           `json:"dropoffAddress"`
	OrderValue     float64       `json:"orderValue"`
	Items          []ItemRequest `json:"items"`
}

type CreateDeliveryResponse struct {
	Success               bool      `json:"success"`
	DeliveryID            string    `json:"deliveryId"`
	TrackingURL           string    `json:"trackingUrl"`
	EstimatedPickupTime   time.Time `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time `json:"estimatedDeliveryTime"`
	Fee                   float64   `json:"fee"`
	IsSandbox             bool      `json:"isSandbox"`
}

type EventResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type DeliveryResponse struct {
	DeliveryID            string          `json:"deliveryId"`
	OrderID               string          `json:"orderId"`
	Status                string          `json:"status"`
	TrackingURL           string          `json:"trackingUrl"`
	PickupAddress         string          `json:"pickupAddress,omitempty"`
	DropoffAddress        string          `json:"dropoffAddress,omitempty"`
	EstimatedPickupTime   time.Time       `json:"estimatedPickupTime"`
	EstimatedDeliveryTime time.Time       `json:"estimatedDeliveryTime"`
	Fee                   float64         `json:"fee"`
	DasherName            string          `json:"dasherName,omitempty"`
	DasherPhone           string          `json:"dasherPhone,omitempty"`
	Events                []EventResponse `json:"events"`
	Synthesized           bool            `json:"synthesized"`
	IsSandbox             bool            `json:"isSandbox"`
}

type ListDeliveriesResponse struct {
	Deliveries []DeliveryResponse `json:"deliveries"`
}

type UpdateStatusRequest struct {
	DeliveryID    string `json:"deliveryId"`
	Status        string `json:"status"`
	SimulateError string `json:"simulateError,omitempty"`
}

// Applied is false when the delivery id was unknown and nothing changed.
type UpdateStatusResponse struct {
	Success    bool   `json:"success"`
	Applied    bool   `json:"applied"`
	DeliveryID string `json:"deliveryId"`
	Status     string `json:"status"`
}

type AckResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sandbox-delivery-service/internal/api/dto"
	"sandbox-delivery-service/internal/domain"
	"sandbox-delivery-service/internal/services"
)

type deliveryStore interface {
	Create(ctx context.Context, req services.CreateDeliveryRequest) (*domain.SandboxDelivery, error)
	GetStatus(ctx context.Context, id string) (services.DeliveryStatusView, error)
	List(ctx context.Context) ([]services.DeliveryStatusView, error)
	SetManualStatus(ctx context.Context, id, status, simulateError string) (services.OverrideResult, error)
	Delete(ctx context.Context, id string) error
}

// SandboxDeliveryHandler exposes the simulated delivery lifecycle over HTTP.
type SandboxDeliveryHandler struct {
	Store deliveryStore
}

func NewSandboxDeliveryHandler(store deliveryStore) *SandboxDeliveryHandler {
	if store == nil {
		panic("handlers.NewSandboxDeliveryHandler: nil store")
	}
	return &SandboxDeliveryHandler{Store: store}
}

// Create registers a new simulated delivery.
func (h *SandboxDeliveryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]domain.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.Item{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	d, err := h.Store.Create(r.Context(), services.CreateDeliveryRequest{
		OrderID:        req.OrderID,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		OrderValue:     req.OrderValue,
		Items:          items,
	})
	if err != nil {
		writeAppError(w, r, "create sandbox delivery", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.CreateDeliveryResponse{
		Success:               true,
		DeliveryID:            d.ID,
		TrackingURL:           domain.TrackingURL(d.ID),
		EstimatedPickupTime:   d.EstimatedPickupTime,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		Fee:                   d.Fee,
		IsSandbox:             true,
	})
}

// Get returns the current status of one delivery.
func (h *SandboxDeliveryHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.Store.GetStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeAppError(w, r, "get sandbox delivery", err)
		return
	}

	writeJSON(w, r, http.StatusOK, toDeliveryResponse(view))
}

// List returns every stored delivery. The caller must pass action=list.
func (h *SandboxDeliveryHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("action") != "list" {
		writeError(w, r, http.StatusBadRequest, "delivery id or action=list is required")
		return
	}

	views, err := h.Store.List(r.Context())
	if err != nil {
		writeAppError(w, r, "list sandbox deliveries", err)
		return
	}

	res := dto.ListDeliveriesResponse{
		Deliveries: make([]dto.DeliveryResponse, 0, len(views)),
	}
	for _, v := range views {
		res.Deliveries = append(res.Deliveries, toDeliveryResponse(v))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// UpdateStatus forces a status or simulates a failure.
func (h *SandboxDeliveryHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Store.SetManualStatus(r.Context(), req.DeliveryID, req.Status, req.SimulateError)
	if err != nil {
		writeAppError(w, r, "update sandbox delivery status", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.UpdateStatusResponse{
		Success:    true,
		Applied:    res.Applied,
		DeliveryID: req.DeliveryID,
		Status:     req.Status,
	})
}

// Delete removes a delivery. Unknown ids still succeed.
func (h *SandboxDeliveryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeAppError(w, r, "delete sandbox delivery", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AckResponse{Success: true})
}

// decodeBody reads exactly one JSON object into v. On failure it writes a
// 400 response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()

	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}

func toDeliveryResponse(v services.DeliveryStatusView) dto.DeliveryResponse {
	res := dto.DeliveryResponse{
		DeliveryID:            v.DeliveryID,
		OrderID:               v.OrderID,
		Status:                string(v.Status),
		TrackingURL:           v.TrackingURL,
		PickupAddress:         v.PickupAddress,
		DropoffAddress:        v.DropoffAddress,
		EstimatedPickupTime:   v.EstimatedPickupTime,
		EstimatedDeliveryTime: v.EstimatedDeliveryTime,
		Fee:                   v.Fee,
		Events:                make([]dto.EventResponse, 0, len(v.Events)),
		Synthesized:           v.Synthesized,
		IsSandbox:             true,
	}
	if v.Dasher != nil {
		res.DasherName = v.Dasher.Name
		res.DasherPhone = v.Dasher.Phone
	}
	for _, ev := range v.Events {
		res.Events = append(res.Events, dto.EventResponse{Status: string(ev.Status), Timestamp: ev.Timestamp})
	}
	return res
}

package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/coupons"
	kafkax "github.com/aminekb/bebeshop/internal/kafka"
	"github.com/aminekb/bebeshop/internal/orders"
	"github.com/aminekb/bebeshop/internal/redisx"
	"github.com/aminekb/bebeshop/internal/shipping"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type OrderStore interface {
	Checkout(ctx context.Context, in orders.CheckoutInput) (orders.Order, bool, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	GetStatus(ctx context.Context, id string) (orders.Status, error)
	List(ctx context.Context, f orders.ListFilter) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, to orders.Status) (orders.Status, error)
	Delete(ctx context.Context, id string) (orders.Status, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// OrderCache is the slice of the Redis client the handler touches for the
// checkout replay shortcut and the status cache.
type OrderCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type OrdersHandler struct {
	Store          OrderStore
	ProducerCreate Publisher // shop.order.created
	ProducerStatus Publisher // shop.order.status_changed
	Redis          OrderCache
	Service        string
	Log            *zap.Logger
}

type CheckoutReq struct {
	ExternalID   string                `json:"external_id"`
	CustomerName string                `json:"customer_name"`
	Phone        string                `json:"phone"`
	WilayaCode   int                   `json:"wilaya_code"`
	Address      string                `json:"address"`
	DeliveryType string                `json:"delivery_type"`
	CouponCode   string                `json:"coupon_code"`
	Note         string                `json:"note"`
	Items        []orders.CheckoutItem `json:"items"`
}

type CheckoutResp struct {
	Order      orders.Order `json:"order"`
	Idempotent bool         `json:"idempotent"`
}

func (h *OrdersHandler) Register(r *chi.Mux, gate *Gate) {
	r.Post("/checkout", h.checkout)
	r.Get("/orders/{id}", h.trackOrder)

	r.Route("/admin/orders", func(r chi.Router) {
		r.With(gate.Require(staff.PermOrdersWrite)).Get("/", h.listOrders)
		r.With(gate.Require(staff.PermOrdersWrite)).Get("/{id}", h.getOrder)
		r.With(gate.Require(staff.PermOrdersWrite)).Patch("/{id}/status", h.updateStatus)
		r.With(gate.Require(staff.PermOrdersDelete)).Delete("/{id}", h.deleteOrder)
	})
}

func (h *OrdersHandler) checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ExternalID == "" || req.CustomerName == "" || req.Phone == "" ||
		req.Address == "" || req.WilayaCode <= 0 {
		writeErr(w, http.StatusBadRequest, "missing fields")
		return
	}
	if len(req.Items) == 0 {
		writeErr(w, http.StatusBadRequest, "cart is empty")
		return
	}
	dt := shipping.DeliveryType(req.DeliveryType)
	if !dt.Valid() {
		writeErr(w, http.StatusBadRequest, "delivery_type must be home or desk")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	// replay shortcut: a remembered external id maps straight to its order.
	// The external_id probe inside Checkout stays the authority whenever the
	// cache cannot answer.
	idemKey := fmt.Sprintf(redisx.KeyIdemCheckout, req.ExternalID)
	if id, err := h.Redis.Get(ctx, idemKey).Result(); err == nil && id != "" {
		if o, err := h.Store.Get(ctx, id); err == nil {
			writeJSON(w, http.StatusCreated, CheckoutResp{Order: o, Idempotent: true})
			return
		}
	}

	o, existed, err := h.Store.Checkout(ctx, orders.CheckoutInput{
		ExternalID:   req.ExternalID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		WilayaCode:   req.WilayaCode,
		Address:      req.Address,
		DeliveryType: dt,
		CouponCode:   req.CouponCode,
		Note:         req.Note,
		Items:        req.Items,
	})
	if err != nil {
		var insuf *orders.InsufficientStockError
		switch {
		case errors.As(err, &insuf):
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":     insuf.Error(),
				"shortages": insuf.Shortages,
			})
		case errors.Is(err, orders.ErrEmptyCart),
			errors.Is(err, shipping.ErrUnknownWilaya),
			errors.Is(err, coupons.ErrNotFound),
			errors.Is(err, coupons.ErrInactive),
			errors.Is(err, coupons.ErrExpired),
			errors.Is(err, coupons.ErrExhausted):
			writeErr(w, http.StatusBadRequest, err.Error())
		default:
			h.Log.Error("checkout failed", zap.Error(err))
			writeErr(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	// remember the external id for future replays, prime the status cache
	_ = h.Redis.Set(ctx, idemKey, o.ID, redisx.TTLIdempotency).Err()
	h.cacheStatus(ctx, o.ID, o.Status)

	if !existed {
		h.publishCreated(r, o)
	}

	writeJSON(w, http.StatusCreated, CheckoutResp{Order: o, Idempotent: existed})
}

func (h *OrdersHandler) publishCreated(r *http.Request, o orders.Order) {
	items := make([]orders.ItemQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orders.ItemQty{ProductID: it.ProductID, Qty: it.Qty, Color: it.Color})
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(orders.OrderCreatedPayload{
			OrderID:      o.ID,
			ExternalID:   o.ExternalID,
			CustomerName: o.CustomerName,
			WilayaCode:   o.WilayaCode,
			Items:        items,
			TotalCents:   o.TotalCents,
		}),
	}
	h.ProducerCreate.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

// trackOrder is the public endpoint behind the "where is my order" page;
// it only exposes the status, cached like the staff console's reads.
func (h *OrdersHandler) trackOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		writeJSON(w, http.StatusOK, json.RawMessage(s))
		return
	}

	status, err := h.Store.GetStatus(ctx, orderID)
	if err != nil {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	h.cacheStatus(ctx, orderID, status)
	writeJSON(w, http.StatusOK, map[string]any{"status": status})
}

func (h *OrdersHandler) cacheStatus(ctx context.Context, orderID string, status orders.Status) {
	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	b, _ := json.Marshal(map[string]any{"status": status})
	_ = h.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err()
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	f := orders.ListFilter{Status: orders.Status(r.URL.Query().Get("status"))}
	f.Limit, f.Offset = pageParams(r, 50)
	if f.Status != "" && !orders.Valid(f.Status) {
		writeErr(w, http.StatusBadRequest, "unknown status")
		return
	}

	list, err := h.Store.List(ctx, f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.Get(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type UpdateStatusReq struct {
	Status orders.Status `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	from, err := h.Store.UpdateStatus(ctx, orderID, req.Status)
	switch {
	case errors.Is(err, orders.ErrOrderNotFound):
		writeErr(w, http.StatusNotFound, "not found")
		return
	case errors.Is(err, orders.ErrInvalidTransition):
		writeErr(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		h.Log.Error("status update failed",
			zap.String("order_id", orderID), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.cacheStatus(ctx, orderID, req.Status)
	if from != req.Status {
		h.publishStatusChanged(r, orderID, from, req.Status)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order_id": orderID, "from": from, "to": req.Status,
	})
}

func (h *OrdersHandler) publishStatusChanged(r *http.Request, orderID string, from, to orders.Status) {
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload: kafkax.MustMarshal(orders.OrderStatusChangedPayload{
			OrderID: orderID, From: from, To: to,
		}),
	}
	h.ProducerStatus.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, err := h.Store.Delete(ctx, orderID)
	if errors.Is(err, orders.ErrOrderNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		h.Log.Error("order delete failed",
			zap.String("order_id", orderID), zap.Error(err))
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	_ = h.Redis.Del(ctx, fmt.Sprintf(redisx.KeyOrderStatus, orderID)).Err()

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderDeleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(orders.OrderDeletedPayload{OrderID: orderID, Status: status}),
	}
	h.ProducerStatus.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderDeleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	w.WriteHeader(http.StatusNoContent)
}

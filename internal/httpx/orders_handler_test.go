package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aminekb/bebeshop/internal/orders"
	"github.com/aminekb/bebeshop/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	checkoutOut     orders.Order
	checkoutExisted bool
	checkoutErr     error
	getOut          orders.Order
	getErr          error
	statusOut       orders.Status
	statusErr       error
	listOut         []orders.Order
	updateFrom      orders.Status
	updateErr       error
	deleteStatus    orders.Status
	deleteErr       error

	gotCheckout *orders.CheckoutInput
	gotUpdateTo orders.Status
	gotDeleteID string
}

func (s *fakeOrderStore) Checkout(_ context.Context, in orders.CheckoutInput) (orders.Order, bool, error) {
	s.gotCheckout = &in
	return s.checkoutOut, s.checkoutExisted, s.checkoutErr
}
func (s *fakeOrderStore) Get(context.Context, string) (orders.Order, error) {
	return s.getOut, s.getErr
}
func (s *fakeOrderStore) GetStatus(context.Context, string) (orders.Status, error) {
	return s.statusOut, s.statusErr
}
func (s *fakeOrderStore) List(context.Context, orders.ListFilter) ([]orders.Order, error) {
	return s.listOut, nil
}
func (s *fakeOrderStore) UpdateStatus(_ context.Context, _ string, to orders.Status) (orders.Status, error) {
	s.gotUpdateTo = to
	return s.updateFrom, s.updateErr
}
func (s *fakeOrderStore) Delete(_ context.Context, id string) (orders.Status, error) {
	s.gotDeleteID = id
	return s.deleteStatus, s.deleteErr
}

type fakePublisher struct {
	messages [][]byte
}

func (p *fakePublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	p.messages = append(p.messages, value)
}

// deadRedis points nowhere: every call fails fast and the handler code is
// expected to treat the cache as best-effort.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond})
}

// fakeRedis answers from a map, for tests that need cache hits.
type fakeRedis struct {
	vals map[string]string
}

func newFakeRedis() *fakeRedis { return &fakeRedis{vals: map[string]string{}} }

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if v, ok := f.vals[key]; ok {
		return redis.NewStringResult(v, nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, _ time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case string:
		f.vals[key] = v
	case []byte:
		f.vals[key] = string(v)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	for _, k := range keys {
		delete(f.vals, k)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func newOrdersRig(store *fakeOrderStore) (*OrdersHandler, *fakePublisher, *fakePublisher, http.Handler) {
	pc := &fakePublisher{}
	ps := &fakePublisher{}
	h := &OrdersHandler{
		Store:          store,
		ProducerCreate: pc,
		ProducerStatus: ps,
		Redis:          deadRedis(),
		Service:        "shop-api-test",
		Log:            zap.NewNop(),
	}
	r := NewRouter()
	h.Register(r, newTestGate())
	return h, pc, ps, r
}

func checkoutBody(t *testing.T, items []orders.CheckoutItem) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(CheckoutReq{
		ExternalID:   "ext-1",
		CustomerName: "فاطمة بن علي",
		Phone:        "0550123456",
		WilayaCode:   16,
		Address:      "حي بن عكنون، الجزائر",
		DeliveryType: "home",
		Items:        items,
	})
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func TestCheckoutValidation(t *testing.T) {
	_, pc, _, r := newOrdersRig(&fakeOrderStore{})

	t.Run("invalid json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString("{")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		b, _ := json.Marshal(CheckoutReq{ExternalID: "x"})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(b)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty cart", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", checkoutBody(t, nil)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad delivery type", func(t *testing.T) {
		b, _ := json.Marshal(CheckoutReq{
			ExternalID: "x", CustomerName: "y", Phone: "z", Address: "a",
			WilayaCode: 16, DeliveryType: "drone",
			Items: []orders.CheckoutItem{{ProductID: "p", Qty: 1}},
		})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBuffer(b)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	assert.Empty(t, pc.messages, "nothing published on rejected checkouts")
}

func TestCheckoutInsufficientStock(t *testing.T) {
	store := &fakeOrderStore{checkoutErr: &orders.InsufficientStockError{
		Shortages: []orders.StockShortage{{ProductID: "p-1", Requested: 5, Available: 3}},
	}}
	_, pc, _, r := newOrdersRig(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout",
		checkoutBody(t, []orders.CheckoutItem{{ProductID: "p-1", Qty: 5}})))

	require.Equal(t, http.StatusConflict, rec.Code)
	var body struct {
		Error     string                 `json:"error"`
		Shortages []orders.StockShortage `json:"shortages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Shortages, 1)
	assert.Equal(t, "p-1", body.Shortages[0].ProductID)
	assert.Equal(t, 3, body.Shortages[0].Available)
	assert.Empty(t, pc.messages)
}

func TestCheckoutSuccess(t *testing.T) {
	store := &fakeOrderStore{checkoutOut: orders.Order{
		ID: "o-1", ExternalID: "ext-1", Status: orders.StatusPending,
		TotalCents: 195000,
		Items:      []orders.OrderItem{{ProductID: "p-1", Qty: 3, PriceCents: 50000}},
	}}
	_, pc, _, r := newOrdersRig(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout",
		checkoutBody(t, []orders.CheckoutItem{{ProductID: "p-1", Qty: 3}})))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp CheckoutResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "o-1", resp.Order.ID)
	assert.False(t, resp.Idempotent)

	require.Len(t, pc.messages, 1)
	var env orders.Envelope
	require.NoError(t, json.Unmarshal(pc.messages[0], &env))
	assert.Equal(t, orders.EventOrderCreated, env.EventType)
	assert.Equal(t, "o-1", env.CorrelationID)
}

func TestCheckoutIdempotentReplay(t *testing.T) {
	store := &fakeOrderStore{
		checkoutOut:     orders.Order{ID: "o-1", Status: orders.StatusPending},
		checkoutExisted: true,
	}
	_, pc, _, r := newOrdersRig(store)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout",
		checkoutBody(t, []orders.CheckoutItem{{ProductID: "p-1", Qty: 1}})))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CheckoutResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Idempotent)
	assert.Empty(t, pc.messages, "replays do not publish a second event")
}

func TestCheckoutCachedReplay(t *testing.T) {
	store := &fakeOrderStore{getOut: orders.Order{
		ID: "o-1", ExternalID: "ext-1", Status: orders.StatusPending,
	}}
	h, pc, _, r := newOrdersRig(store)
	cache := newFakeRedis()
	cache.vals[fmt.Sprintf(redisx.KeyIdemCheckout, "ext-1")] = "o-1"
	h.Redis = cache

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout",
		checkoutBody(t, []orders.CheckoutItem{{ProductID: "p-1", Qty: 1}})))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CheckoutResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Idempotent)
	assert.Equal(t, "o-1", resp.Order.ID)
	assert.Nil(t, store.gotCheckout, "cache hit skips the checkout transaction")
	assert.Empty(t, pc.messages)
}

func TestTrackOrder(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		_, _, _, r := newOrdersRig(&fakeOrderStore{statusOut: orders.StatusShipped})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/o-1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"shipped"}`, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		_, _, _, r := newOrdersRig(&fakeOrderStore{statusErr: orders.ErrOrderNotFound})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/o-404", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func adminReq(method, path string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(staffTokenHeader, "admin-token")
	return req
}

func TestUpdateStatus(t *testing.T) {
	t.Run("requires staff token", func(t *testing.T) {
		_, _, _, r := newOrdersRig(&fakeOrderStore{})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/admin/orders/o-1/status",
			bytes.NewBufferString(`{"status":"cancelled"}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid transition", func(t *testing.T) {
		store := &fakeOrderStore{updateErr: orders.ErrInvalidTransition}
		_, _, ps, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodPatch, "/admin/orders/o-1/status",
			bytes.NewBufferString(`{"status":"cancelled"}`)))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, ps.messages)
	})

	t.Run("not found", func(t *testing.T) {
		store := &fakeOrderStore{updateErr: orders.ErrOrderNotFound}
		_, _, _, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodPatch, "/admin/orders/o-404/status",
			bytes.NewBufferString(`{"status":"confirmed"}`)))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("repeating the current status publishes nothing", func(t *testing.T) {
		store := &fakeOrderStore{updateFrom: orders.StatusCancelled}
		_, _, ps, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodPatch, "/admin/orders/o-1/status",
			bytes.NewBufferString(`{"status":"cancelled"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, ps.messages)
	})

	t.Run("cancel publishes the transition", func(t *testing.T) {
		store := &fakeOrderStore{updateFrom: orders.StatusConfirmed}
		_, _, ps, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodPatch, "/admin/orders/o-1/status",
			bytes.NewBufferString(`{"status":"cancelled"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, orders.StatusCancelled, store.gotUpdateTo)

		require.Len(t, ps.messages, 1)
		var env orders.Envelope
		require.NoError(t, json.Unmarshal(ps.messages[0], &env))
		assert.Equal(t, orders.EventOrderStatusChanged, env.EventType)
		assert.Contains(t, string(env.Payload), `"from":"confirmed"`)
		assert.Contains(t, string(env.Payload), `"to":"cancelled"`)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("needs delete permission", func(t *testing.T) {
		_, _, _, r := newOrdersRig(&fakeOrderStore{})
		req := httptest.NewRequest(http.MethodDelete, "/admin/orders/o-1", nil)
		req.Header.Set(staffTokenHeader, "operator-token")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("deletes and publishes", func(t *testing.T) {
		store := &fakeOrderStore{deleteStatus: orders.StatusPending}
		_, _, ps, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodDelete, "/admin/orders/o-1", nil))

		require.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "o-1", store.gotDeleteID)

		require.Len(t, ps.messages, 1)
		var env orders.Envelope
		require.NoError(t, json.Unmarshal(ps.messages[0], &env))
		assert.Equal(t, orders.EventOrderDeleted, env.EventType)
	})

	t.Run("not found", func(t *testing.T) {
		store := &fakeOrderStore{deleteErr: orders.ErrOrderNotFound}
		_, _, _, r := newOrdersRig(store)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, adminReq(http.MethodDelete, "/admin/orders/o-404", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrdersRejectsUnknownStatus(t *testing.T) {
	_, _, _, r := newOrdersRig(&fakeOrderStore{})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, adminReq(http.MethodGet, "/admin/orders/?status=bogus", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

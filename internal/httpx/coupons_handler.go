package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/coupons"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type CouponsHandler struct {
	Repo *coupons.Repo
}

func (h *CouponsHandler) Register(r *chi.Mux, gate *Gate) {
	// storefront preview: "what would this code take off my cart"
	r.Post("/coupons/validate", h.validate)

	r.Route("/admin/coupons", func(r chi.Router) {
		r.Use(gate.Require(staff.PermCouponsWrite))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/{code}", h.update)
		r.Delete("/{code}", h.delete)
	})
}

type ValidateCouponReq struct {
	Code          string `json:"code"`
	SubtotalCents int    `json:"subtotal_cents"`
}

func (h *CouponsHandler) validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" || req.SubtotalCents < 0 {
		writeErr(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c, err := h.Repo.Get(ctx, req.Code)
	if errors.Is(err, coupons.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "coupon not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := coupons.Validate(c, time.Now()); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"code":           c.Code,
		"discount_cents": coupons.Discount(c, req.SubtotalCents),
	})
}

type CouponReq struct {
	Code      string       `json:"code"`
	Kind      coupons.Kind `json:"kind"`
	Value     int          `json:"value"`
	ExpiresAt time.Time    `json:"expires_at"`
	MaxUses   int          `json:"max_uses"`
	Active    *bool        `json:"active"`
}

func (req CouponReq) validate() error {
	if req.Kind != coupons.KindPercent && req.Kind != coupons.KindFixed {
		return errors.New("kind must be percent or fixed")
	}
	if req.Value <= 0 {
		return errors.New("value must be positive")
	}
	if req.Kind == coupons.KindPercent && req.Value > 100 {
		return errors.New("percent value cannot exceed 100")
	}
	return nil
}

func (h *CouponsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Code == "" {
		writeErr(w, http.StatusBadRequest, "missing code")
		return
	}
	if err := req.validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c := coupons.Coupon{
		Code: req.Code, Kind: req.Kind, Value: req.Value,
		ExpiresAt: req.ExpiresAt, MaxUses: req.MaxUses,
	}
	if err := h.Repo.Create(ctx, c); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CouponsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req CouponReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := req.validate(); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	c := coupons.Coupon{
		Code: chi.URLParam(r, "code"), Kind: req.Kind, Value: req.Value,
		ExpiresAt: req.ExpiresAt, MaxUses: req.MaxUses, Active: true,
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	err := h.Repo.Update(ctx, c)
	if errors.Is(err, coupons.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CouponsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cs, err := h.Repo.List(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (h *CouponsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "code"))
	if errors.Is(err, coupons.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

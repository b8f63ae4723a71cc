package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aminekb/bebeshop/internal/shipping"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type ShippingHandler struct {
	Repo *shipping.Repo
}

func (h *ShippingHandler) Register(r *chi.Mux, gate *Gate) {
	r.Get("/shipping", h.list)

	r.Route("/admin/shipping", func(r chi.Router) {
		r.Use(gate.Require(staff.PermShippingWrite))
		r.Put("/{code}", h.upsert)
		r.Post("/seed", h.seed)
	})
}

func (h *ShippingHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rates, err := h.Repo.List(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rates)
}

type ShippingRateReq struct {
	NameAr    string `json:"name_ar"`
	NameFr    string `json:"name_fr"`
	HomeCents int    `json:"home_cents"`
	DeskCents int    `json:"desk_cents"`
}

func (h *ShippingHandler) upsert(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 1 || code > 58 {
		writeErr(w, http.StatusBadRequest, "invalid wilaya code")
		return
	}
	var req ShippingRateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.NameAr == "" || req.HomeCents < 0 || req.DeskCents < 0 {
		writeErr(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rate := shipping.Rate{
		WilayaCode: code, NameAr: req.NameAr, NameFr: req.NameFr,
		HomeCents: req.HomeCents, DeskCents: req.DeskCents,
	}
	if err := h.Repo.Upsert(ctx, rate); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// seed fills in any wilaya rows that are still missing; existing tariffs
// are left alone.
func (h *ShippingHandler) seed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.Seed(ctx, shipping.Defaults()); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

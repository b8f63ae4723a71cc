package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/reviews"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type ReviewsHandler struct {
	Repo *reviews.Repo
}

func (h *ReviewsHandler) Register(r *chi.Mux, gate *Gate) {
	r.Get("/products/{id}/reviews", h.listForProduct)
	r.Post("/products/{id}/reviews", h.create)

	r.Route("/admin/reviews", func(r chi.Router) {
		r.Use(gate.Require(staff.PermReviewsModerate))
		r.Get("/", h.listAll)
		r.Post("/{id}/approve", h.approve)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ReviewsHandler) listForProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rs, err := h.Repo.ListForProduct(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

type ReviewReq struct {
	Author  string `json:"author"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *ReviewsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Author == "" {
		writeErr(w, http.StatusBadRequest, "missing author")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rv := reviews.Review{
		ProductID: chi.URLParam(r, "id"),
		Author:    req.Author,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	err := h.Repo.Create(ctx, &rv)
	if errors.Is(err, reviews.ErrInvalidRating) {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *ReviewsHandler) listAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rs, err := h.Repo.ListAll(ctx, r.URL.Query().Get("approved") == "true")
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *ReviewsHandler) approve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Approve(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, reviews.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ReviewsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, reviews.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/contact"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type ContactHandler struct {
	Repo *contact.Repo
}

func (h *ContactHandler) Register(r *chi.Mux, gate *Gate) {
	r.Post("/contact", h.create)

	r.Route("/admin/messages", func(r chi.Router) {
		r.Use(gate.Require(staff.PermContactRead))
		r.Get("/", h.list)
		r.Post("/{id}/read", h.markRead)
		r.Delete("/{id}", h.delete)
	})
}

type ContactReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

func (h *ContactHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ContactReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Body == "" || (req.Phone == "" && req.Email == "") {
		writeErr(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	m := contact.Message{Name: req.Name, Phone: req.Phone, Email: req.Email, Body: req.Body}
	if err := h.Repo.Create(ctx, &m); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *ContactHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ms, err := h.Repo.List(ctx, r.URL.Query().Get("unread") == "true")
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ms)
}

func (h *ContactHandler) markRead(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.MarkRead(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, contact.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContactHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, contact.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

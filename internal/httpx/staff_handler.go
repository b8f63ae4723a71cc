package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type StaffHandler struct {
	Repo *staff.Repo
}

func (h *StaffHandler) Register(r *chi.Mux, gate *Gate) {
	r.Route("/admin/staff", func(r chi.Router) {
		r.Use(gate.Require(staff.PermStaffAdmin))
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Delete("/{id}", h.delete)
	})
	r.Route("/admin/roles", func(r chi.Router) {
		r.Use(gate.Require(staff.PermStaffAdmin))
		r.Get("/", h.listRoles)
		r.Put("/{name}", h.upsertRole)
	})
}

type StaffReq struct {
	Name  string `json:"name"`
	Token string `json:"token"`
	Role  string `json:"role"`
}

func (h *StaffHandler) create(w http.ResponseWriter, r *http.Request) {
	var req StaffReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Name == "" || req.Token == "" || req.Role == "" {
		writeErr(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	u, err := h.Repo.Create(ctx, req.Name, req.Token, req.Role)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *StaffHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	us, err := h.Repo.List(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, us)
}

func (h *StaffHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, staff.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *StaffHandler) listRoles(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	roles, err := h.Repo.ListRoles(ctx)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

type RoleReq struct {
	Permissions []string `json:"permissions"`
}

func (h *StaffHandler) upsertRole(w http.ResponseWriter, r *http.Request) {
	var req RoleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	role := staff.Role{Name: chi.URLParam(r, "name"), Permissions: req.Permissions}
	if err := h.Repo.UpsertRole(ctx, role); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, role)
}

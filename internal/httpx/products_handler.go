package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aminekb/bebeshop/internal/catalog"
	"github.com/aminekb/bebeshop/internal/staff"
	"github.com/go-chi/chi/v5"
)

type ProductsHandler struct {
	Repo *catalog.Repo
}

type ProductReq struct {
	SKU           string         `json:"sku"`
	NameAr        string         `json:"name_ar"`
	NameFr        string         `json:"name_fr"`
	DescriptionAr string         `json:"description_ar"`
	DescriptionFr string         `json:"description_fr"`
	Category      string         `json:"category"`
	Brand         string         `json:"brand"`
	PriceCents    int            `json:"price_cents"`
	OldPriceCents int            `json:"old_price_cents"`
	Stock         int            `json:"stock"`
	ColorStock    map[string]int `json:"color_stock"`
	Images        []string       `json:"images"`
	Active        *bool          `json:"active"`
}

func (h *ProductsHandler) Register(r *chi.Mux, gate *Gate) {
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)

	r.Route("/admin/products", func(r chi.Router) {
		r.Use(gate.Require(staff.PermCatalogWrite))
		r.Get("/", h.listAll)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Post("/{id}/disable", h.disable)
		r.Delete("/{id}", h.delete)
	})
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, true)
}

func (h *ProductsHandler) listAll(w http.ResponseWriter, r *http.Request) {
	h.listWith(w, r, false)
}

func (h *ProductsHandler) listWith(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	f := catalog.Filter{
		Category:   r.URL.Query().Get("category"),
		Search:     r.URL.Query().Get("q"),
		ActiveOnly: activeOnly,
	}
	f.Limit, f.Offset = pageParams(r, 50)

	ps, err := h.Repo.List(ctx, f)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Repo.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) || (err == nil && !p.Active) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func decodeProductReq(r *http.Request) (ProductReq, error) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, errors.New("invalid json")
	}
	if req.SKU == "" || req.NameAr == "" || req.Category == "" || req.PriceCents <= 0 {
		return req, errors.New("missing fields")
	}
	if req.Stock < 0 {
		return req, errors.New("stock cannot be negative")
	}
	for color, n := range req.ColorStock {
		if color == "" || n < 0 {
			return req, errors.New("invalid color_stock entry")
		}
	}
	return req, nil
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProductReq(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p := catalog.Product{
		SKU: req.SKU, NameAr: req.NameAr, NameFr: req.NameFr,
		DescriptionAr: req.DescriptionAr, DescriptionFr: req.DescriptionFr,
		Category: req.Category, Brand: req.Brand,
		PriceCents: req.PriceCents, OldPriceCents: req.OldPriceCents,
		Stock: req.Stock, ColorStock: req.ColorStock, Images: req.Images,
	}
	if err := h.Repo.Create(ctx, &p); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	req, err := decodeProductReq(r)
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	cur, err := h.Repo.GetByID(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}

	cur.SKU, cur.NameAr, cur.NameFr = req.SKU, req.NameAr, req.NameFr
	cur.DescriptionAr, cur.DescriptionFr = req.DescriptionAr, req.DescriptionFr
	cur.Category, cur.Brand = req.Category, req.Brand
	cur.PriceCents, cur.OldPriceCents = req.PriceCents, req.OldPriceCents
	cur.Stock, cur.ColorStock, cur.Images = req.Stock, req.ColorStock, req.Images
	if req.Active != nil {
		cur.Active = *req.Active
	}

	if err := h.Repo.Update(ctx, &cur); err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cur)
}

func (h *ProductsHandler) disable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Disable(ctx, chi.URLParam(r, "id"))
	if errors.Is(err, catalog.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	err := h.Repo.Delete(ctx, chi.URLParam(r, "id"))
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found")
	case errors.Is(err, catalog.ErrReferenced):
		// orders reference it: disable instead of deleting history
		writeErr(w, http.StatusConflict, "product has orders; disable it instead")
	case err != nil:
		writeErr(w, http.StatusInternalServerError, err.Error())
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

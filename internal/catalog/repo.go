package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound   = errors.New("product not found")
	ErrReferenced = errors.New("product is referenced by orders")
)

type Repo struct{ DB *pgxpool.Pool }

type Filter struct {
	Category   string
	Search     string // matches sku or either name
	ActiveOnly bool
	Limit      int
	Offset     int
}

const productCols = `id, sku, name_ar, name_fr, description_ar, description_fr,
	category, brand, price_cents, old_price_cents, stock, sold, color_stock,
	images, active, created_at, updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	var colors []byte
	err := row.Scan(&p.ID, &p.SKU, &p.NameAr, &p.NameFr, &p.DescriptionAr, &p.DescriptionFr,
		&p.Category, &p.Brand, &p.PriceCents, &p.OldPriceCents, &p.Stock, &p.Sold, &colors,
		&p.Images, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	if len(colors) > 0 {
		if err := json.Unmarshal(colors, &p.ColorStock); err != nil {
			return Product{}, fmt.Errorf("decode color_stock: %w", err)
		}
	}
	return p, nil
}

func colorStockParam(m map[string]int) (any, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Create inserts the product. When a color map is given the aggregate stock
// is recomputed as its sum so the two cannot start out inconsistent.
func (r *Repo) Create(ctx context.Context, p *Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.ColorStock != nil {
		p.Stock = SumColorStock(p.ColorStock)
	}
	colors, err := colorStockParam(p.ColorStock)
	if err != nil {
		return err
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, sku, name_ar, name_fr, description_ar, description_fr,
			category, brand, price_cents, old_price_cents, stock, sold, color_stock, images, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,0,$12,$13,true)
		RETURNING created_at, updated_at`,
		p.ID, p.SKU, p.NameAr, p.NameFr, p.DescriptionAr, p.DescriptionFr,
		p.Category, p.Brand, p.PriceCents, p.OldPriceCents, p.Stock, colors, p.Images)
	if err := row.Scan(&p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.Sold = 0
	p.Active = true
	return nil
}

// Update replaces the editable fields. Stock follows the same sum rule as
// Create when a color map is present; sold is never touched here.
func (r *Repo) Update(ctx context.Context, p *Product) error {
	if p.ColorStock != nil {
		p.Stock = SumColorStock(p.ColorStock)
	}
	colors, err := colorStockParam(p.ColorStock)
	if err != nil {
		return err
	}
	ct, err := r.DB.Exec(ctx, `
		UPDATE products SET sku=$2, name_ar=$3, name_fr=$4, description_ar=$5, description_fr=$6,
			category=$7, brand=$8, price_cents=$9, old_price_cents=$10, stock=$11,
			color_stock=$12, images=$13, active=$14, updated_at=now()
		WHERE id=$1`,
		p.ID, p.SKU, p.NameAr, p.NameFr, p.DescriptionAr, p.DescriptionFr,
		p.Category, p.Brand, p.PriceCents, p.OldPriceCents, p.Stock, colors, p.Images, p.Active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id string) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Product, error) {
	q := `SELECT ` + productCols + ` FROM products`
	var conds []string
	var args []any
	if f.ActiveOnly {
		conds = append(conds, "active")
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category=$%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(sku ILIKE $%d OR name_ar ILIKE $%d OR name_fr ILIKE $%d)", n, n, n))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Disable hides the product from the storefront without touching history.
func (r *Repo) Disable(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET active=false, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the product only when no order item references it; callers
// should fall back to Disable on ErrReferenced.
func (r *Repo) Delete(ctx context.Context, id string) error {
	var n int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM order_items WHERE product_id=$1`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrReferenced
	}
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

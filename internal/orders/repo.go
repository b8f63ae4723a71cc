package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aminekb/bebeshop/internal/coupons"
	"github.com/aminekb/bebeshop/internal/shipping"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrEmptyCart         = errors.New("order has no items")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// StockShortage identifies a line the shop cannot fill, with the quantity
// still on the shelf so the customer can adjust the cart.
type StockShortage struct {
	ProductID string `json:"product_id"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// InsufficientStockError rejects a whole checkout; there is no partial
// acceptance.
type InsufficientStockError struct {
	Shortages []StockShortage
}

func (e *InsufficientStockError) Error() string {
	s := e.Shortages[0]
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		s.ProductID, s.Requested, s.Available)
}

type CheckoutItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
	Color     string `json:"color,omitempty"`
}

type CheckoutInput struct {
	ExternalID   string
	CustomerName string
	Phone        string
	WilayaCode   int
	Address      string
	DeliveryType shipping.DeliveryType
	CouponCode   string
	Note         string
	Items        []CheckoutItem
}

type ListFilter struct {
	Status Status
	Limit  int
	Offset int
}

type Repo struct{ DB *pgxpool.Pool }

// Checkout creates the order, its items, and takes the ordered quantities
// off the aggregate stock, all in one transaction. Prices and the shipping
// tariff come from the database; the sales counter and per-color stock are
// untouched here (they only move on cancel / un-cancel). Idempotent via
// external id.
func (r *Repo) Checkout(ctx context.Context, in CheckoutInput) (Order, bool, error) {
	if len(in.Items) == 0 {
		return Order{}, false, ErrEmptyCart
	}

	// existing order for this external id wins
	var existingID string
	err := r.DB.QueryRow(ctx, `SELECT id FROM orders WHERE external_id=$1`, in.ExternalID).Scan(&existingID)
	if err == nil {
		o, err := r.Get(ctx, existingID)
		return o, true, err
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return Order{}, false, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// lock every product once, price the items, and collect shortages;
	// lines naming the same product (color variants) draw from one balance
	items := make([]OrderItem, 0, len(in.Items))
	var shortages []StockShortage
	left := cartStock{}
	prices := make(map[string]int, len(in.Items))
	for _, it := range in.Items {
		if it.Qty <= 0 {
			return Order{}, false, fmt.Errorf("invalid qty for product %s", it.ProductID)
		}
		if _, seen := prices[it.ProductID]; !seen {
			var price, stock int
			var active bool
			err := tx.QueryRow(ctx,
				`SELECT price_cents, stock, active FROM products WHERE id=$1 FOR UPDATE`,
				it.ProductID).Scan(&price, &stock, &active)
			if errors.Is(err, pgx.ErrNoRows) {
				return Order{}, false, fmt.Errorf("product not found: %s", it.ProductID)
			}
			if err != nil {
				return Order{}, false, err
			}
			if !active {
				return Order{}, false, fmt.Errorf("product not available: %s", it.ProductID)
			}
			prices[it.ProductID] = price
			left[it.ProductID] = stock
		}
		avail, ok := left.take(it.ProductID, it.Qty)
		if !ok {
			shortages = append(shortages, StockShortage{
				ProductID: it.ProductID, Requested: it.Qty, Available: avail,
			})
			continue
		}
		items = append(items, OrderItem{
			ProductID: it.ProductID, Qty: it.Qty, PriceCents: prices[it.ProductID], Color: it.Color,
		})
	}
	if len(shortages) > 0 {
		return Order{}, false, &InsufficientStockError{Shortages: shortages}
	}

	subtotal := Subtotal(items)

	// coupon: validate under lock and burn one use inside the same tx
	discount := 0
	if in.CouponCode != "" {
		var c coupons.Coupon
		err := tx.QueryRow(ctx,
			`SELECT code, kind, value, expires_at, max_uses, used, active
			 FROM coupons WHERE code=$1 FOR UPDATE`, in.CouponCode).
			Scan(&c.Code, &c.Kind, &c.Value, &c.ExpiresAt, &c.MaxUses, &c.Used, &c.Active)
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, false, coupons.ErrNotFound
		}
		if err != nil {
			return Order{}, false, err
		}
		if err := coupons.Validate(c, time.Now()); err != nil {
			return Order{}, false, err
		}
		discount = coupons.Discount(c, subtotal)
		if _, err := tx.Exec(ctx, `UPDATE coupons SET used=used+1 WHERE code=$1`, c.Code); err != nil {
			return Order{}, false, err
		}
	}

	// shipping tariff by wilaya and delivery type
	var rate shipping.Rate
	err = tx.QueryRow(ctx,
		`SELECT wilaya_code, home_cents, desk_cents FROM shipping_rates WHERE wilaya_code=$1`,
		in.WilayaCode).Scan(&rate.WilayaCode, &rate.HomeCents, &rate.DeskCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, false, shipping.ErrUnknownWilaya
	}
	if err != nil {
		return Order{}, false, err
	}
	shippingCents := rate.PriceFor(in.DeliveryType)
	discount, total := Totals(subtotal, discount, shippingCents)

	orderID := uuid.NewString()
	_, err = tx.Exec(ctx, `
		INSERT INTO orders(id, external_id, customer_name, phone, wilaya_code, address,
			delivery_type, status, coupon_code, subtotal_cents, discount_cents,
			shipping_cents, total_cents, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		orderID, in.ExternalID, in.CustomerName, in.Phone, in.WilayaCode, in.Address,
		in.DeliveryType, StatusPending, in.CouponCode, subtotal, discount,
		shippingCents, total, in.Note)
	if err != nil {
		return Order{}, false, err
	}

	for i := range items {
		items[i].OrderID = orderID
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, qty, price_cents, color)
			VALUES ($1,$2,$3,$4,$5)`,
			orderID, items[i].ProductID, items[i].Qty, items[i].PriceCents, items[i].Color); err != nil {
			return Order{}, false, err
		}
		// rows are already locked from the pricing pass
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock = stock - $2, updated_at=now() WHERE id=$1`,
			items[i].ProductID, items[i].Qty); err != nil {
			return Order{}, false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, false, err
	}

	now := time.Now()
	return Order{
		ID: orderID, ExternalID: in.ExternalID, CustomerName: in.CustomerName,
		Phone: in.Phone, WilayaCode: in.WilayaCode, Address: in.Address,
		DeliveryType: in.DeliveryType, Status: StatusPending, CouponCode: in.CouponCode,
		SubtotalCents: subtotal, DiscountCents: discount, ShippingCents: shippingCents,
		TotalCents: total, Note: in.Note, Items: items, CreatedAt: now, UpdatedAt: now,
	}, false, nil
}

const orderCols = `id, external_id, customer_name, phone, wilaya_code, address,
	delivery_type, status, coupon_code, subtotal_cents, discount_cents,
	shipping_cents, total_cents, note, created_at, updated_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.ExternalID, &o.CustomerName, &o.Phone, &o.WilayaCode, &o.Address,
		&o.DeliveryType, &o.Status, &o.CouponCode, &o.SubtotalCents, &o.DiscountCents,
		&o.ShippingCents, &o.TotalCents, &o.Note, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrOrderNotFound
	}
	return o, err
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadItems(ctx context.Context, q querier, orderID string) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, qty, price_cents, color
		FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderItem
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Qty, &it.PriceCents, &it.Color); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return Order{}, err
	}
	o.Items, err = loadItems(ctx, r.DB, id)
	return o, err
}

func (r *Repo) GetStatus(ctx context.Context, id string) (Status, error) {
	var s string
	err := r.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1`, id).Scan(&s)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	return Status(s), err
}

// List returns order summaries (no items), newest first.
func (r *Repo) List(ctx context.Context, f ListFilter) ([]Order, error) {
	q := `SELECT ` + orderCols + ` FROM orders`
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` WHERE status=$1`
	}
	q += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		q += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpdateStatus moves the order to the new status and reconciles inventory
// when a cancel boundary is crossed: into cancelled restores stock, out of
// cancelled re-reserves it, everything else leaves inventory alone. The
// status write and every per-item adjustment share one transaction.
func (r *Repo) UpdateStatus(ctx context.Context, id string, to Status) (from Status, err error) {
	if !Valid(to) {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	from = Status(cur)
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	if RestoresStock(from, to) || ReservesStock(from, to) {
		items, err := loadItems(ctx, tx, id)
		if err != nil {
			return from, err
		}
		if err := adjustStock(ctx, tx, items, RestoresStock(from, to)); err != nil {
			return from, err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, to); err != nil {
		return from, err
	}
	return from, tx.Commit(ctx)
}

// Delete removes the order and its items. A non-cancelled order restores
// stock first, exactly as cancelling it would; a cancelled order already
// gave the stock back so only the rows go.
func (r *Repo) Delete(ctx context.Context, id string) (Status, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var cur string
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&cur)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	status := Status(cur)

	if status != StatusCancelled {
		items, err := loadItems(ctx, tx, id)
		if err != nil {
			return status, err
		}
		if err := adjustStock(ctx, tx, items, true); err != nil {
			return status, err
		}
	}

	// order_items go with the order (ON DELETE CASCADE)
	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id); err != nil {
		return status, err
	}
	return status, tx.Commit(ctx)
}

package orders

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aminekb/bebeshop/internal/catalog"
	"github.com/jackc/pgx/v5"
)

// productCounters is one product's inventory state as read under lock.
type productCounters struct {
	Stock  int
	Sold   int
	Colors map[string]int
}

// restock returns the counters after putting an item back on the shelf:
// aggregate up, sales rolled back, and the variant entry bumped when the
// item names a color and the product tracks per-color stock (a missing
// entry counts as zero).
func restock(pc productCounters, it OrderItem) productCounters {
	pc.Stock += it.Qty
	pc.Sold -= it.Qty
	if it.Color != "" && pc.Colors != nil {
		pc.Colors = catalog.AddColorStock(pc.Colors, it.Color, it.Qty)
	}
	return pc
}

// reserve is the inverse of restock, except the variant entry is floored at
// zero while the aggregate is not.
func reserve(pc productCounters, it OrderItem) productCounters {
	pc.Stock -= it.Qty
	pc.Sold += it.Qty
	if it.Color != "" && pc.Colors != nil {
		pc.Colors = catalog.AddColorStock(pc.Colors, it.Color, -it.Qty)
	}
	return pc
}

// cartStock tracks each product's sellable balance while a cart is priced.
// A later line naming the same product draws from what earlier lines left,
// not from the original shelf count.
type cartStock map[string]int

func (s cartStock) take(id string, qty int) (available int, ok bool) {
	avail := s[id]
	if avail < qty {
		return avail, false
	}
	s[id] = avail - qty
	return avail, true
}

// adjustStock applies restock or reserve to every item of an order inside
// the caller's transaction. Each product row is locked before its
// read-modify-write, and because everything runs in one transaction the
// whole batch commits or none of it does.
func adjustStock(ctx context.Context, tx pgx.Tx, items []OrderItem, doRestock bool) error {
	for _, it := range items {
		var pc productCounters
		var raw []byte
		err := tx.QueryRow(ctx,
			`SELECT stock, sold, color_stock FROM products WHERE id=$1 FOR UPDATE`,
			it.ProductID).Scan(&pc.Stock, &pc.Sold, &raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: %s", catalog.ErrNotFound, it.ProductID)
		}
		if err != nil {
			return err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &pc.Colors); err != nil {
				return fmt.Errorf("decode color_stock for %s: %w", it.ProductID, err)
			}
		}

		if doRestock {
			pc = restock(pc, it)
		} else {
			pc = reserve(pc, it)
		}

		var colors any
		if pc.Colors != nil {
			colors, err = json.Marshal(pc.Colors)
			if err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock=$2, sold=$3, color_stock=$4, updated_at=now() WHERE id=$1`,
			it.ProductID, pc.Stock, pc.Sold, colors); err != nil {
			return err
		}
	}
	return nil
}

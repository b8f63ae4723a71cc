package coupons

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const couponCols = `code, kind, value, expires_at, max_uses, used, active, created_at`

func scanCoupon(row pgx.Row) (Coupon, error) {
	var c Coupon
	err := row.Scan(&c.Code, &c.Kind, &c.Value, &c.ExpiresAt, &c.MaxUses, &c.Used, &c.Active, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Coupon{}, ErrNotFound
	}
	return c, err
}

func (r *Repo) Create(ctx context.Context, c Coupon) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO coupons(code, kind, value, expires_at, max_uses, used, active)
		VALUES ($1,$2,$3,$4,$5,0,true)`,
		c.Code, c.Kind, c.Value, c.ExpiresAt, c.MaxUses)
	return err
}

func (r *Repo) Update(ctx context.Context, c Coupon) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE coupons SET kind=$2, value=$3, expires_at=$4, max_uses=$5, active=$6
		WHERE code=$1`,
		c.Code, c.Kind, c.Value, c.ExpiresAt, c.MaxUses, c.Active)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, code string) (Coupon, error) {
	return scanCoupon(r.DB.QueryRow(ctx, `SELECT `+couponCols+` FROM coupons WHERE code=$1`, code))
}

func (r *Repo) List(ctx context.Context) ([]Coupon, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+couponCols+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, code string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM coupons WHERE code=$1`, code)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

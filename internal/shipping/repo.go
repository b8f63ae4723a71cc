package shipping

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUnknownWilaya = errors.New("unknown wilaya")

type Repo struct{ DB *pgxpool.Pool }

// Upsert replaces the whole row for one wilaya (the table is keyed by code,
// nothing more clever than that).
func (r *Repo) Upsert(ctx context.Context, rate Rate) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO shipping_rates(wilaya_code, name_ar, name_fr, home_cents, desk_cents)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (wilaya_code) DO UPDATE
		SET name_ar=EXCLUDED.name_ar, name_fr=EXCLUDED.name_fr,
		    home_cents=EXCLUDED.home_cents, desk_cents=EXCLUDED.desk_cents`,
		rate.WilayaCode, rate.NameAr, rate.NameFr, rate.HomeCents, rate.DeskCents)
	return err
}

func (r *Repo) Get(ctx context.Context, code int) (Rate, error) {
	var rate Rate
	err := r.DB.QueryRow(ctx, `
		SELECT wilaya_code, name_ar, name_fr, home_cents, desk_cents
		FROM shipping_rates WHERE wilaya_code=$1`, code).
		Scan(&rate.WilayaCode, &rate.NameAr, &rate.NameFr, &rate.HomeCents, &rate.DeskCents)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrUnknownWilaya
	}
	return rate, err
}

func (r *Repo) List(ctx context.Context) ([]Rate, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT wilaya_code, name_ar, name_fr, home_cents, desk_cents
		FROM shipping_rates ORDER BY wilaya_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Rate
	for rows.Next() {
		var rate Rate
		if err := rows.Scan(&rate.WilayaCode, &rate.NameAr, &rate.NameFr, &rate.HomeCents, &rate.DeskCents); err != nil {
			return nil, err
		}
		out = append(out, rate)
	}
	return out, rows.Err()
}

// Seed inserts missing wilayas without overwriting tariffs staff already
// tuned.
func (r *Repo) Seed(ctx context.Context, rates []Rate) error {
	for _, rate := range rates {
		_, err := r.DB.Exec(ctx, `
			INSERT INTO shipping_rates(wilaya_code, name_ar, name_fr, home_cents, desk_cents)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (wilaya_code) DO NOTHING`,
			rate.WilayaCode, rate.NameAr, rate.NameFr, rate.HomeCents, rate.DeskCents)
		if err != nil {
			return err
		}
	}
	return nil
}

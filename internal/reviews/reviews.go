package reviews

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Review is a customer rating for one product. New reviews are hidden until
// a moderator approves them.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, rv *Review) error {
	if rv.Rating < 1 || rv.Rating > 5 {
		return ErrInvalidRating
	}
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO reviews(id, product_id, author, rating, comment, approved)
		VALUES ($1,$2,$3,$4,$5,false)
		RETURNING created_at`,
		rv.ID, rv.ProductID, rv.Author, rv.Rating, rv.Comment)
	if err := row.Scan(&rv.CreatedAt); err != nil {
		return err
	}
	rv.Approved = false
	return nil
}

// ListForProduct returns approved reviews only; the moderation queue uses
// ListAll.
func (r *Repo) ListForProduct(ctx context.Context, productID string) ([]Review, error) {
	return r.list(ctx, `
		SELECT id, product_id, author, rating, comment, approved, created_at
		FROM reviews WHERE product_id=$1 AND approved ORDER BY created_at DESC`, productID)
}

func (r *Repo) ListAll(ctx context.Context, approvedOnly bool) ([]Review, error) {
	q := `SELECT id, product_id, author, rating, comment, approved, created_at FROM reviews`
	if approvedOnly {
		q += ` WHERE approved`
	}
	q += ` ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *Repo) list(ctx context.Context, q string, args ...any) ([]Review, error) {
	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Author, &rv.Rating, &rv.Comment, &rv.Approved, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) Approve(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE reviews SET approved=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("message not found")

type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, m *Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO contact_messages(id, name, phone, email, body, read)
		VALUES ($1,$2,$3,$4,$5,false)
		RETURNING created_at`,
		m.ID, m.Name, m.Phone, m.Email, m.Body)
	return row.Scan(&m.CreatedAt)
}

func (r *Repo) List(ctx context.Context, unreadOnly bool) ([]Message, error) {
	q := `SELECT id, name, phone, email, body, read, created_at FROM contact_messages`
	if unreadOnly {
		q += ` WHERE NOT read`
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE contact_messages SET read=true WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM contact_messages WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

package staff

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Permissions gate the console routes. A role is just a named permission
// set.
const (
	PermCatalogWrite    = "catalog:write"
	PermOrdersWrite     = "orders:write"
	PermOrdersDelete    = "orders:delete"
	PermShippingWrite   = "shipping:write"
	PermCouponsWrite    = "coupons:write"
	PermReviewsModerate = "reviews:moderate"
	PermContactRead     = "contact:read"
	PermStaffAdmin      = "staff:admin"
)

var (
	ErrNotFound     = errors.New("staff user not found")
	ErrUnknownToken = errors.New("unknown staff token")
)

type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (u User) Can(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type Repo struct{ DB *pgxpool.Pool }

// ByToken resolves the opaque console token to a user and the permission
// set of its role. Token issuance happens outside this service.
func (r *Repo) ByToken(ctx context.Context, token string) (User, error) {
	var u User
	err := r.DB.QueryRow(ctx, `
		SELECT u.id, u.name, u.role, r.permissions, u.created_at
		FROM staff_users u JOIN roles r ON r.name = u.role
		WHERE u.token=$1`, token).
		Scan(&u.ID, &u.Name, &u.Role, &u.Permissions, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUnknownToken
	}
	return u, err
}

func (r *Repo) Create(ctx context.Context, name, token, role string) (User, error) {
	u := User{ID: uuid.NewString(), Name: name, Role: role}
	row := r.DB.QueryRow(ctx, `
		INSERT INTO staff_users(id, name, token, role)
		VALUES ($1,$2,$3,$4) RETURNING created_at`,
		u.ID, name, token, role)
	if err := row.Scan(&u.CreatedAt); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT u.id, u.name, u.role, r.permissions, u.created_at
		FROM staff_users u JOIN roles r ON r.name = u.role
		ORDER BY u.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.Permissions, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM staff_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertRole replaces a role's permission set.
func (r *Repo) UpsertRole(ctx context.Context, role Role) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO roles(name, permissions) VALUES ($1,$2)
		ON CONFLICT (name) DO UPDATE SET permissions=EXCLUDED.permissions`,
		role.Name, role.Permissions)
	return err
}

func (r *Repo) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.DB.Query(ctx, `SELECT name, permissions FROM roles ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.Name, &role.Permissions); err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, rows.Err()
}

package httpx

import (
	"context"
	"net/http"

	"github.com/aminekb/bebeshop/internal/staff"
)

// StaffDirectory resolves a console token to a staff user with its role's
// permissions. Token issuance and sessions live outside this service.
type StaffDirectory interface {
	ByToken(ctx context.Context, token string) (staff.User, error)
}

const staffTokenHeader = "X-Staff-Token"

type ctxKey int

const userKey ctxKey = iota

// Gate protects console routes.
type Gate struct {
	Staff StaffDirectory
}

// Authenticate admits any known staff token and stores the user in the
// request context.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(staffTokenHeader)
		if token == "" {
			writeErr(w, http.StatusUnauthorized, "missing staff token")
			return
		}
		u, err := g.Staff.ByToken(r.Context(), token)
		if err != nil {
			writeErr(w, http.StatusUnauthorized, "unknown staff token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
	})
}

// Require admits only staff whose role carries the permission.
func (g *Gate) Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, _ := UserFrom(r.Context())
			if !u.Can(perm) {
				writeErr(w, http.StatusForbidden, "permission denied")
				return
			}
			next.ServeHTTP(w, r)
		}))
	}
}

func UserFrom(ctx context.Context) (staff.User, bool) {
	u, ok := ctx.Value(userKey).(staff.User)
	return u, ok
}

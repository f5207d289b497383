package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursenotes/cmd/internal/domain/entity"
	"coursenotes/cmd/internal/infrastructure/tokenstore"
	"coursenotes/cmd/internal/utils"
	"coursenotes/cmd/internal/utils/uid"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapUsers map[string]*entity.User

func (m mapUsers) FindByID(_ context.Context, id string) (*entity.User, error) {
	return m[id], nil
}

func TestAuthMiddleware(t *testing.T) {
	ids, err := uid.New(1)
	require.NoError(t, err)

	tokens := utils.NewTokenManager("secret", "coursenotes", "coursenotes-client", time.Hour, ids)
	revoked := tokenstore.NewMemoryStore()

	user := &entity.User{ID: "u-1", Email: "ana@example.com"}
	ghost := &entity.User{ID: "u-2", Email: "gone@example.com"}

	valid, _, err := tokens.Issue(user)
	require.NoError(t, err)
	orphan, _, err := tokens.Issue(ghost)
	require.NoError(t, err)
	loggedOut, loggedOutData, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(context.Background(), loggedOutData.JTI, loggedOutData.ExpiresAt()))

	mw := NewAuthMiddleware(&AuthMiddlewareConfig{
		UserRepo: mapUsers{user.ID: user},
		Tokens:   tokens,
		Revoked:  revoked,
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"revoked token", "Bearer " + loggedOut, http.StatusUnauthorized},
		{"deleted user", "Bearer " + orphan, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen *entity.User
			err := mw(func(c echo.Context) error {
				seen, _ = utils.GetUserFromContext(c)
				return c.NoContent(http.StatusOK)
			})(c)

			require.NoError(t, err)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, user.ID, seen.ID)
			}
		})
	}
}

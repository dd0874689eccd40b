package httpx

import (
	"context"
	"net/http"
	"strings"

	"libraryapi/internal/auth"
)

// BlacklistRepository answers whether a token's jti has been revoked by
// a logout.
type BlacklistRepository interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

func AuthMiddleware(secret string, blacklistRepo BlacklistRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}
			token := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
				return
			}

			if blacklistRepo != nil {
				isBlacklisted, err := blacklistRepo.IsBlacklisted(r.Context(), claims.ID)
				if err != nil || isBlacklisted {
					JSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
					return
				}
			}

			ctx := ContextWithUser(r.Context(), claims.Sub, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

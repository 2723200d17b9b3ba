package auth

import (
	"context"
	"net/http"
	"strings"

	"doc-attest/internal/model"

	"gopkg.in/square/go-jose.v2/jwt"
)

type contextKey string

const identityKey contextKey = "identity"

// ExtractIdentity pulls the authenticated identity out of the bearer token
// and stores it in the request context. Token validation happens at the
// gateway; here only the claims are read. Requests without a token pass
// through with an empty identity and fail later on the authentication
// precondition.
func ExtractIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		identity, err := identityFromToken(token)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("failed to parse the auth token: " + err.Error()))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by ExtractIdentity; the
// zero identity when the request carried no token.
func IdentityFromContext(ctx context.Context) model.Identity {
	identity, _ := ctx.Value(identityKey).(model.Identity)
	return identity
}

func identityFromToken(tokenString string) (model.Identity, error) {
	if tokenString == "" {
		return model.Identity{}, nil
	}

	token, err := jwt.ParseSigned(tokenString)
	if err != nil {
		return model.Identity{}, err
	}

	var claims map[string]interface{}
	if err := token.UnsafeClaimsWithoutVerification(&claims); err != nil {
		return model.Identity{}, err
	}

	identity := model.Identity{
		SubjectID:     stringClaim(claims, "oid", "sub"),
		DisplayName:   stringClaim(claims, "name"),
		Email:         stringClaim(claims, "email", "preferred_username"),
		WalletAddress: stringClaim(claims, "wallet_address"),
	}

	return identity, nil
}

func stringClaim(claims map[string]interface{}, names ...string) string {
	for _, name := range names {
		if value, ok := claims[name].(string); ok && value != "" {
			return value
		}
	}
	return ""
}

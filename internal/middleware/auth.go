package middleware

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/internal/config"
	"github.com/SudhatriNandimalla1116/HealthAssist-Ai/pkg/utils"
)

type contextKey string

const userContextKey contextKey = "user"

// AnonymousUser is the identity reported for a context that carries no caller.
const AnonymousUser = "anonymous"

const issuer = "healthassist"

// Claims are the JWT claims of an anonymous session.
type Claims struct {
	jwt.RegisteredClaims
	Anonymous bool `json:"anon"`
}

// Token is an issued bearer token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	UserID      string    `json:"userId"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Authenticator mints and verifies HS256 tokens for anonymous users.
type Authenticator struct {
	secret    []byte
	ephemeral bool
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthenticator creates an authenticator. Without a configured secret a
// random one is generated, so tokens stop verifying after a restart.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	a := &Authenticator{secret: []byte(cfg.JWTSecret), ttl: ttl, now: time.Now}
	if len(a.secret) == 0 {
		a.secret = make([]byte, 32)
		_, _ = rand.Read(a.secret)
		a.ephemeral = true
	}
	return a
}

// Ephemeral reports whether the signing secret was generated at startup.
func (a *Authenticator) Ephemeral() bool {
	return a.ephemeral
}

// IssueAnonymous mints a token for a fresh random subject.
func (a *Authenticator) IssueAnonymous() (Token, error) {
	userID := uuid.NewString()
	now := a.now().UTC()
	expires := now.Add(a.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Anonymous: true,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: "Bearer", UserID: userID, ExpiresAt: expires}, nil
}

// Parse validates a signed token and returns its subject.
func (a *Authenticator) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}

// Middleware requires a valid bearer token and stores its subject in the
// request context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, err := a.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID)))
	})
}

// WithUser stores the caller identity in ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userContextKey, userID)
}

// UserID extracts the caller identity, defaulting to AnonymousUser.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userContextKey).(string); ok && id != "" {
		return id
	}
	return AnonymousUser
}

package middleware

import (
	"errors"
	"strings"

	"github.com/Asus75000/sae-prof/internal/app/auth"
	"github.com/Asus75000/sae-prof/internal/app/repositories"
	"github.com/Asus75000/sae-prof/internal/pkg/apperrors"
	pkgauth "github.com/Asus75000/sae-prof/internal/pkg/auth"
	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// AuthMiddleware resolves the bearer token into the acting identity
type AuthMiddleware struct {
	jwtService *pkgauth.JWTService
	memberRepo repositories.IMemberRepository
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *pkgauth.JWTService, memberRepo repositories.IMemberRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		memberRepo: memberRepo,
	}
}

// tokenFrom reads the Authorization header, falling back to the query parameter Swagger UI may use
func tokenFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		header = c.Query("authorization")
	}
	header = strings.Trim(strings.TrimSpace(header), "\"'")
	if header == "" {
		return ""
	}
	token, err := pkgauth.ExtractBearerToken(header)
	if err != nil {
		return ""
	}
	return token
}

// resolve validates the token and reloads the member so that capabilities
// always reflect the current record
func (m *AuthMiddleware) resolve(c *gin.Context, token string) (auth.Identity, error) {
	claims, err := m.jwtService.ValidateToken(token)
	if err != nil {
		return auth.Anonymous(), err
	}

	member, err := m.memberRepo.GetByID(c.Request.Context(), claims.MemberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return auth.Anonymous(), apperrors.ErrTokenInvalid
		}
		return auth.Anonymous(), err
	}
	return auth.IdentityFromMember(member), nil
}

// OptionalAuth sets the identity when a valid token is present and lets
// anonymous visitors through otherwise
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.Anonymous()
		if token := tokenFrom(c); token != "" {
			resolved, err := m.resolve(c, token)
			if err != nil && !errors.Is(err, apperrors.ErrTokenInvalid) &&
				!errors.Is(err, pkgauth.ErrInvalidToken) && !errors.Is(err, pkgauth.ErrExpiredToken) {
				HandleAPIError(c, err)
				return
			}
			if err != nil {
				logger.Debug().Err(err).Msg("Ignoring invalid token on public route")
			}
			identity = resolved
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAuth rejects requests without a valid token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFrom(c)
		if token == "" {
			HandleAPIError(c, apperrors.ErrUnauthenticated)
			return
		}

		identity, err := m.resolve(c, token)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequirePermission rejects identities lacking p. It must run after RequireAuth.
func RequirePermission(p auth.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := GetIdentity(c).Require(p); err != nil {
			HandleAPIError(c, err)
			return
		}
		c.Next()
	}
}

// GetIdentity returns the identity set by the auth middleware, anonymous if none
func GetIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Anonymous()
}

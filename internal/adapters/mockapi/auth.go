package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	TokenIssuer = "NebuloViz"

	PermissionViewPredictions = "view_predictions"
	PermissionViewSegments    = "view_segments"
	PermissionCreateOrder     = "create_order"

	claimsContextKey = "claims"
)

var DefaultPermissions = []string{PermissionViewPredictions, PermissionViewSegments, PermissionCreateOrder}

// TokenClaims is the payload of tokens issued and accepted by the mock backend.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID      int      `json:"user_id"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type TokenRequest struct {
	UserID      int
	Role        string
	Permissions []string
	TTL         time.Duration
	Now         time.Time
}

// IssueToken signs an HS256 token the mock backend will accept with secret.
func IssueToken(secret string, req TokenRequest) (string, error) {
	if secret == "" {
		return "", errors.New("token secret is required")
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	ttl := req.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	permissions := req.Permissions
	if permissions == nil {
		permissions = DefaultPermissions
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    TokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:      req.UserID,
		Role:        req.Role,
		Permissions: permissions,
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *Server) parseToken(raw string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *Server) authenticate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}

	claims, err := s.parseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		requestLogger(c).Warn("rejected token", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
		return
	}

	c.Set(claimsContextKey, claims)
	c.Next()
}

// requirePermissions is a no-op when authentication is disabled.
func (s *Server) requirePermissions(required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.secret == "" {
			c.Next()
			return
		}

		value, _ := c.Get(claimsContextKey)
		claims, ok := value.(*TokenClaims)
		if !ok || !hasPermissions(claims.Permissions, required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Access forbidden"})
			return
		}
		c.Next()
	}
}

func hasPermissions(granted []string, required []string) bool {
	set := make(map[string]bool, len(granted))
	for _, p := range granted {
		set[p] = true
	}
	for _, p := range required {
		if !set[p] {
			return false
		}
	}
	return true
}

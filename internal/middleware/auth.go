package middleware

import (
	"context"
	"fmt"
	"log"
	"strings"

	"learning-service/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	userIDKey  = "user_id"
	UserHeader = "X-User-ID"
)

// Claims mirrors the token issued by the auth service.
type Claims struct {
	jwt.RegisteredClaims
	Id          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// SessionChecker reports whether a token's session is still live.
type SessionChecker interface {
	SessionActive(ctx context.Context, token string) (bool, error)
}

// RedisSessionChecker treats a token as live while the auth service keeps
// its session key in Redis.
type RedisSessionChecker struct {
	client *redis.Client
}

func NewRedisSessionChecker(client *redis.Client) *RedisSessionChecker {
	return &RedisSessionChecker{client: client}
}

func (r *RedisSessionChecker) SessionActive(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, token).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

type AuthMiddleware struct {
	secretKey       []byte
	sessions        SessionChecker
	trustUserHeader bool
}

// NewAuthMiddleware builds the identity adapter. sessions may be nil to
// skip the revocation check.
func NewAuthMiddleware(jwtSecret string, sessions SessionChecker, trustUserHeader bool) *AuthMiddleware {
	return &AuthMiddleware{
		secretKey:       []byte(jwtSecret),
		sessions:        sessions,
		trustUserHeader: trustUserHeader,
	}
}

// VerifyToken validates an HMAC-signed token. Without a configured secret
// every token is rejected.
func (m *AuthMiddleware) VerifyToken(tokenString string) (*Claims, error) {
	if len(m.secretKey) == 0 {
		return nil, fmt.Errorf("JWT secret is not configured")
	}
	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return m.secretKey, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// RequireUser resolves the caller's user id and stores it on the context.
func (m *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.trustUserHeader {
			if header := c.GetHeader(UserHeader); header != "" {
				m.setUser(c, header)
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			utils.UnauthorizedResponse(c, "Authorization token required")
			return
		}

		claims, err := m.VerifyToken(tokenString)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			utils.UnauthorizedResponse(c, "Invalid or expired token")
			return
		}

		if m.sessions != nil {
			active, err := m.sessions.SessionActive(c.Request.Context(), tokenString)
			if err != nil {
				log.Printf("Session lookup failed, allowing token: %v", err)
			} else if !active {
				utils.UnauthorizedResponse(c, "Session has ended")
				return
			}
		}

		m.setUser(c, claims.Id)
	}
}

func (m *AuthMiddleware) setUser(c *gin.Context, raw string) {
	userID, err := bson.ObjectIDFromHex(raw)
	if err != nil {
		utils.UnauthorizedResponse(c, "Invalid user identity")
		return
	}
	c.Set(userIDKey, userID)
	c.Next()
}

// UserID returns the id stored by RequireUser.
func UserID(c *gin.Context) (bson.ObjectID, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return bson.ObjectID{}, false
	}
	userID, ok := value.(bson.ObjectID)
	return userID, ok
}

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"meal-service/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// Auth resolves the caller from gateway headers (X-User-ID, X-User-Role, X-User-Email),
// then the matching cookies, then an HS256 bearer token signed with jwtSecret.
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		role := c.GetHeader("X-User-Role")
		email := c.GetHeader("X-User-Email")

		if userID == "" {
			if v, err := c.Cookie("user_id"); err == nil {
				userID = v
			}
		}
		if role == "" {
			if v, err := c.Cookie("user_role"); err == nil {
				role = v
			}
		}
		if email == "" {
			if v, err := c.Cookie("user_email"); err == nil {
				email = v
			}
		}

		if userID == "" {
			claims, err := bearerClaims(c.GetHeader("Authorization"), jwtSecret)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "code": "UNAUTHORIZED"})
				return
			}
			userID, role, email = claims.subject(), claims.Role, claims.Email
		}

		id, err := uuid.Parse(userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID format", "code": "UNAUTHORIZED"})
			return
		}
		if role == "" {
			role = models.RoleUser
		}

		c.Set(UserContextKey, id)
		c.Set(RoleContextKey, role)
		c.Set(EmailContextKey, email)
		c.Next()
	}
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) subject() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserID
}

func bearerClaims(header, secret string) (*tokenClaims, error) {
	if secret == "" {
		return nil, errors.New("jwt verification not configured")
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin role required", "code": "FORBIDDEN"})
			return
		}
		c.Next()
	}
}

// Helper functions for controllers

func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uuid.UUID); ok && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}

func GetRole(c *gin.Context) string {
	return c.GetString(RoleContextKey)
}

func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == models.RoleAdmin
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/booking-engine/internal/httperr"
)

const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
	ContextStaffID  = "staffID"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// AuthMiddleware validates an HMAC-signed bearer token. Claims: "sub" is the
// user id, "role" one of customer/provider/admin, and providers may carry
// "staff_id" for the calendar they own.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "expected a bearer token")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			httperr.Unauthorized(c, "invalid_token", "token is invalid or expired")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			httperr.Unauthorized(c, "invalid_token_claims", "token claims are unreadable")
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			httperr.Unauthorized(c, "invalid_token_payload", "token subject must be a uuid")
			return
		}

		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleCustomer
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserRole, role)

		if raw, ok := claims["staff_id"].(string); ok {
			if staffID, err := uuid.Parse(raw); err == nil {
				c.Set(ContextStaffID, staffID)
			}
		}

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		httperr.Forbidden(c, "forbidden", "insufficient role")
	}
}

// UserID returns the authenticated user, if any.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// ActorID is UserID shaped for audit events.
func ActorID(c *gin.Context) *uuid.UUID {
	if id, ok := UserID(c); ok {
		return &id
	}
	return nil
}

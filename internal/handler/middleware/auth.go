package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"marketfill/internal/domain/customer"
	"marketfill/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxCustomerIDKey   = "customer_id"
	ctxCustomerRoleKey = "customer_role"
)

var roleHierarchy = map[customer.Role]int{
	customer.RoleCustomer: 1,
	customer.RoleAdmin:    2,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string

		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		customerID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("Token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxCustomerIDKey, customerID)
		c.Set(ctxCustomerRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"customer_id": customerID.String(),
			"role":        string(role),
		})
		c.Next()
	}
}

func hasMinimumRole(customerRole, minRole customer.Role) bool {
	customerLevel, customerExists := roleHierarchy[customerRole]
	minLevel, minExists := roleHierarchy[minRole]
	return customerExists && minExists && customerLevel >= minLevel
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole customer.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetCustomerRole(c)
		if !ok {
			// Unexpected error: should be used after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			c.Abort()
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	customerID, exists := c.Get(ctxCustomerIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := customerID.(uuid.UUID)
	return id, ok
}

func GetCustomerRole(c *gin.Context) (customer.Role, bool) {
	customerRole, exists := c.Get(ctxCustomerRoleKey)
	if !exists {
		return "", false
	}

	role, ok := customerRole.(customer.Role)
	return role, ok
}

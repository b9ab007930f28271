package api

import (
	"net/http"

	reqdto "marketfill/internal/handler/dto/request"
	resdto "marketfill/internal/handler/dto/response"
	"marketfill/internal/handler/middleware"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
}

func NewAuthHandler(authUseCase usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

// @Summary Register customer
// @Description Register a new customer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Register request"
// @Success 201 {object} resdto.RegisterResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	email, pass, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	view, err := h.authUseCase.Register(c.Request.Context(), email, pass)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrEmailAlreadyUsed):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Email already registered",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.RegisterResponse{Customer: view})
}

// @Summary Customer login
// @Description Login with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	email, pass, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request data",
		})
		return
	}

	token, view, err := h.authUseCase.Login(c.Request.Context(), email, pass)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		case errs.Is(err, usecase.ErrCustomerNotFound):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	response := resdto.LoginResponse{
		AccessToken: token,
		Customer:    view,
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get current customer
// @Description Get current authenticated customer information
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.AuthorizedCustomerView
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Customer not authenticated",
		})
		return
	}

	view, err := h.authUseCase.GetCurrentCustomer(c.Request.Context(), customerID)
	if err != nil {
		switch {
		case errs.Is(err, usecase.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Customer not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

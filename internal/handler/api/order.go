package api

import (
	"errors"
	"net/http"

	reqdto "marketfill/internal/handler/dto/request"
	resdto "marketfill/internal/handler/dto/response"
	"marketfill/internal/handler/middleware"
	"marketfill/internal/pkg/errs"
	"marketfill/internal/usecase/commands"
	"marketfill/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	fulfillment  commands.FulfillmentCommands
	orderQueries queries.OrderQueries
}

func NewOrderHandler(fulfillment commands.FulfillmentCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		fulfillment:  fulfillment,
		orderQueries: orderQueries,
	}
}

// @Summary Process cart
// @Description Resolve offers, apply discounts, split by vendor and commit the order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Idempotency key for duplicate prevention"
// @Param request body reqdto.ProcessCartRequest true "Cart contents"
// @Success 201 {object} resdto.ProcessCartResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) ProcessCart(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idempotencyKey, err := h.getIdempotencyKey(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	var req reqdto.ProcessCartRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	cart, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	result, err := h.fulfillment.ProcessCart(c.Request.Context(), customerID, cart, idempotencyKey)
	if err != nil {
		h.respondProcessCartError(c, err)
		return
	}

	if result.IsReplayed {
		// Replayed requests carry no purchased lines; serve the stored order.
		view, err := h.orderQueries.GetByIDSystem(c.Request.Context(), result.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		resp, err := resdto.FromOrderView(view)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromProcessCartResult(result))
}

func (h *OrderHandler) respondProcessCartError(c *gin.Context, err error) {
	var stockErr *commands.InsufficientStockError
	var productErr *commands.NoProductFoundError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": stockErr.Error(),
		})
	case errors.As(err, &productErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": productErr.Error(),
		})
	case errs.Is(err, commands.ErrProductNotFound):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Product not found",
		})
	case errs.Is(err, commands.ErrInsufficientStock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Insufficient stock",
		})
	case errs.Is(err, commands.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Cart is empty",
		})
	case errs.Is(err, commands.ErrIdempotencyInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error": "Order request is currently being processed",
		})
	case errs.Is(err, commands.ErrDomainValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Domain validation failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// @Summary Get order
// @Description Get order by ID with vendor sub-orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	customerID, ok := middleware.GetCustomerID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid order ID format",
		})
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), customerID, id)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Order not found",
			})
		case errs.Is(err, queries.ErrOrderAccess):
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Order belongs to another customer",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	resp, err := resdto.FromOrderView(view)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) getIdempotencyKey(c *gin.Context) (*uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return nil, nil
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return nil, errors.New("invalid idempotency key format")
	}

	return &key, nil
}

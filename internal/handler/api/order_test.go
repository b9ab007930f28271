//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"marketfill/internal/handler/api"
	resdto "marketfill/internal/handler/dto/response"
	"marketfill/internal/usecase/commands"
	"marketfill/internal/usecase/queries"
	"marketfill/tests/common/builder"
	"marketfill/tests/common/httptest"
	"marketfill/tests/common/testutil"
	commandsmock "marketfill/tests/mock/commands"
	queriesmock "marketfill/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type OrderHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockFulfillmentCommands
	mockQueries  *queriesmock.MockOrderQueries
	handler      *api.OrderHandler
	customerID   uuid.UUID
}

func (s *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockFulfillmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockOrderQueries(s.mockCtrl)
	s.handler = api.NewOrderHandler(s.mockCommands, s.mockQueries)
	s.customerID = uuid.New()

	// Mock middleware behavior: inject the authenticated customer
	withAuth := func(h gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set("customer_id", s.customerID)
			h(c)
		}
	}

	s.router.POST("/orders", withAuth(s.handler.ProcessCart))
	s.router.GET("/orders/:id", withAuth(s.handler.GetOrder))
}

func (s *OrderHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestOrderHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}

func (s *OrderHandlerTestSuite) TestProcessCart() {
	url := "/orders"

	reqBody := builder.NewCartBuilder().BuildDTO()

	s.Run("success: returns 201 Created with purchased lines", func() {
		result := builder.NewProcessCartResultBuilder().Build()
		s.mockCommands.EXPECT().ProcessCart(gomock.Any(), s.customerID, gomock.Any(), gomock.Nil()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.ProcessCartResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(result.OrderID, response.OrderID)
		s.Require().Len(response.Purchased, 1)
		s.Equal("WIDGET-STD", response.Purchased[0].SKU)
		s.Equal(2, response.Purchased[0].Quantity)
		s.InDelta(12.50, response.Purchased[0].UnitPrice, 0.001)
		s.InDelta(12.50, response.Purchased[0].UnitPriceAfterDiscount, 0.001)
	})

	s.Run("success: replayed idempotent request returns 200 with stored order", func() {
		key := uuid.New()
		orderID := uuid.New()
		s.mockCommands.EXPECT().ProcessCart(gomock.Any(), s.customerID, gomock.Any(), &key).
			Return(&commands.ProcessCartResult{OrderID: orderID, IsReplayed: true}, nil).Times(1)
		s.mockQueries.EXPECT().GetByIDSystem(gomock.Any(), orderID).
			Return(&queries.OrderView{
				ID:              orderID,
				CustomerID:      s.customerID,
				Cart:            json.RawMessage(`[{"sku":"WIDGET-STD","quantity":2}]`),
				TotalPrice:      decimal.RequireFromString("12.50"),
				TotalFinalPrice: decimal.RequireFromString("12.50"),
				TotalQuantity:   2,
				Status:          "pending",
			}, nil).Times(1)

		rec := httptest.PerformRequestWithIdempotencyKey(s.T(), s.router, http.MethodPost, url, reqBody, "", key.String())

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
		s.Equal("12.50", response.TotalPrice)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "missing items", mutate: testutil.Field("items", nil), expectCode: http.StatusBadRequest},
			{name: "empty items", mutate: testutil.Field("items", []any{}), expectCode: http.StatusBadRequest},
			{name: "zero quantity", mutate: testutil.Field("items", []map[string]any{{"sku": "WIDGET-STD", "quantity": 0}}), expectCode: http.StatusBadRequest},
			{name: "missing sku", mutate: testutil.Field("items", []map[string]any{{"quantity": 1}}), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: invalid idempotency key format returns 400", func() {
		rec := httptest.PerformRequestWithIdempotencyKey(s.T(), s.router, http.MethodPost, url, reqBody, "", "not-a-uuid")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "invalid idempotency key format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "insufficient stock carries the user-facing message",
				commandsError:  &commands.InsufficientStockError{SKU: "WIDGET-STD", Quantity: 500},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Insufficient stock for product WIDGET-STD. Requested quantity: 500.",
			},
			{
				name:           "unknown sku",
				commandsError:  &commands.NoProductFoundError{SKU: "NO-SUCH-SKU"},
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "no product found for sku NO-SUCH-SKU",
			},
			{
				name:           "idempotency in progress",
				commandsError:  commands.ErrIdempotencyInProgress,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "currently being processed",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ProcessCart(gomock.Any(), s.customerID, gomock.Any(), gomock.Nil()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *OrderHandlerTestSuite) TestGetOrder() {
	orderID := uuid.New()
	url := "/orders/" + orderID.String()

	s.Run("success: returns 200 OK with vendor sub-orders", func() {
		vendorID := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.customerID, orderID).
			Return(&queries.OrderView{
				ID:              orderID,
				CustomerID:      s.customerID,
				Cart:            json.RawMessage(`[{"sku":"WIDGET-STD","quantity":2}]`),
				TotalPrice:      decimal.RequireFromString("24.40"),
				TotalFinalPrice: decimal.RequireFromString("24.40"),
				TotalQuantity:   2,
				Status:          "pending",
				SubOrders: []queries.SubOrderView{
					{
						ID:                 uuid.New(),
						OrderID:            orderID,
						VendorID:           vendorID,
						VendorName:         "Northwind Traders",
						SubTotalPrice:      decimal.RequireFromString("24.40"),
						SubTotalFinalPrice: decimal.RequireFromString("24.40"),
						SubTotalQuantity:   2,
						Status:             "pending",
						Lines: []queries.OrderLineView{
							{
								ID:             uuid.New(),
								ProductID:      uuid.New(),
								SKU:            "WIDGET-STD",
								ProductName:    "Standard Widget",
								VendorID:       vendorID,
								Quantity:       2,
								UnitPrice:      decimal.RequireFromString("12.20"),
								UnitFinalPrice: decimal.RequireFromString("12.20"),
								Discounts:      json.RawMessage(`[]`),
							},
						},
					},
				},
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.OrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(orderID, response.ID)
		s.Require().Len(response.SubOrders, 1)
		s.Equal("Northwind Traders", response.SubOrders[0].VendorName)
		s.Equal("24.40", response.SubOrders[0].SubTotalPrice)
		s.Require().Len(response.SubOrders[0].Lines, 1)
		s.Equal("12.20", response.SubOrders[0].Lines[0].UnitPrice)
	})

	s.Run("error: invalid id format returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/orders/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid order ID format")
	})

	s.Run("error: not found returns 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.customerID, orderID).
			Return(nil, queries.ErrOrderNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Order not found")
	})

	s.Run("error: other customer's order returns 403", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.customerID, orderID).
			Return(nil, queries.ErrOrderAccess).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "another customer")
	})
}

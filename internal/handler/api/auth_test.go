//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"marketfill/internal/handler/api"
	resdto "marketfill/internal/handler/dto/response"
	"marketfill/internal/usecase"
	"marketfill/internal/usecase/queries"
	"marketfill/tests/common/builder"
	"marketfill/tests/common/httptest"
	"marketfill/tests/common/testutil"
	usecasemock "marketfill/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockUseCase *usecasemock.MockAuthUseCase
	handler     *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockUseCase = usecasemock.NewMockAuthUseCase(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockUseCase)

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Mock middleware behavior for /auth/me
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			c.Set("customer_id", uuid.New())
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"
	reqBody := builder.NewAuthBuilder().BuildRegisterDTO()

	s.Run("success: returns 201 Created", func() {
		view := &queries.AuthorizedCustomerView{
			ID:    uuid.New(),
			Email: reqBody.Email,
			Role:  "customer",
		}
		s.mockUseCase.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.RegisterResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.Email, response.Customer.Email)
	})

	s.Run("error: duplicate email returns 409", func() {
		s.mockUseCase.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, usecase.ErrEmailAlreadyUsed).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Email already registered")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name       string
			mutate     func(m map[string]any)
			expectCode int
		}{
			{name: "invalid email", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "missing email", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "short password", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
			{name: "missing password", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := builder.NewAuthBuilder().BuildLoginDTO()

	s.Run("success: returns 200 OK with access token", func() {
		view := &queries.AuthorizedCustomerView{
			ID:    uuid.New(),
			Email: reqBody.Email,
			Role:  "customer",
		}
		s.mockUseCase.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
			Return("test-jwt-token", view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("test-jwt-token", response.AccessToken)
		s.Equal(view.Email, response.Customer.Email)
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			useCaseError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid credentials",
				useCaseError:   usecase.ErrInvalidCredentials,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "customer not found",
				useCaseError:   usecase.ErrCustomerNotFound,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "internal server error",
				useCaseError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockUseCase.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", nil, tc.useCaseError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns current customer", func() {
		view := &queries.AuthorizedCustomerView{
			ID:    uuid.New(),
			Email: "test@example.com",
			Role:  "customer",
		}
		s.mockUseCase.EXPECT().GetCurrentCustomer(gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response queries.AuthorizedCustomerView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.Email, response.Email)
	})

	s.Run("error: unauthenticated request returns 401", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Customer not authenticated")
	})

	s.Run("error: missing row returns 404", func() {
		s.mockUseCase.EXPECT().GetCurrentCustomer(gomock.Any(), gomock.Any()).
			Return(nil, usecase.ErrCustomerNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Customer not found")
	})
}

//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"marketfill/internal/domain/customer"
	"marketfill/internal/handler/dto/request"
	"marketfill/internal/handler/dto/response"
	"marketfill/tests/common/dbtest"
	"marketfill/tests/common/httptest"
	"marketfill/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	// テスト用顧客を作成
	dbtest.CreateTestCustomer(s.T(), s.DB, "test@example.com", string(customer.RoleCustomer))
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "正常な登録",
			email:          "fresh@example.com",
			password:       "password123",
			expectedStatus: http.StatusCreated,
			description:    "新しいメールアドレスで登録できること",
		},
		{
			name:           "重複したメールアドレス",
			email:          "test@example.com",
			password:       "password123",
			expectedStatus: http.StatusConflict,
			description:    "登録済みメールアドレスは拒否されること",
		},
		{
			name:           "不正なメールアドレス",
			email:          "not-an-email",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
			description:    "不正な形式のメールアドレスは拒否されること",
		},
		{
			name:           "短すぎるパスワード",
			email:          "short@example.com",
			password:       "short",
			expectedStatus: http.StatusBadRequest,
			description:    "8文字未満のパスワードは拒否されること",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.RegisterRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
		description    string
	}{
		{
			name:           "正常なログイン",
			email:          "test@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
			description:    "有効な認証情報でログインできること",
		},
		{
			name:           "存在しない顧客",
			email:          "nonexistent@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
			description:    "存在しない顧客でログインできないこと",
		},
		{
			name:           "間違ったパスワード",
			email:          "test@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
			description:    "間違ったパスワードでログインできないこと",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{Email: tt.email, Password: tt.password}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, tt.description)

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				httptest.DecodeResponseBody(t, w.Body, &loginRes)
				require.NotEmpty(t, loginRes.AccessToken, "アクセストークンが空")
				require.NotNil(t, loginRes.Customer, "顧客情報が空")
				require.Equal(t, tt.email, loginRes.Customer.Email)
			}
		})
	}
}

func (s *authSuite) TestMe() {
	s.Run("自分の情報が取得できること", func() {
		t := s.T()

		reqBody := request.LoginRequest{Email: "test@example.com", Password: "password123"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code)
		var loginRes response.LoginResponse
		httptest.DecodeResponseBody(t, w.Body, &loginRes)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, loginRes.AccessToken)
		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), "test@example.com")
		require.NotContains(t, w.Body.String(), "password", "レスポンスにパスワード情報が含まれている")
	})

	s.Run("無効なトークンは拒否されること", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "invalid-token")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	s.Run("トークンなしは拒否されること", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

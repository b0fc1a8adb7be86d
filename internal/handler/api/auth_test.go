//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"psyconnect/internal/handler/api"
	resdto "psyconnect/internal/handler/dto/response"
	"psyconnect/internal/pkg/errs"
	"psyconnect/internal/usecase/commands"
	"psyconnect/tests/common/builder"
	"psyconnect/tests/common/httptest"
	"psyconnect/tests/common/testutil"
	commandsmock "psyconnect/tests/mock/commands"
	queriesmock "psyconnect/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockStore    *queriesmock.MockUserReadStore
	handler      *api.AuthHandler
	userID       uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockStore = queriesmock.NewMockUserReadStore(s.mockCtrl)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockStore)
	s.userID = uuid.New()

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Mock middleware behavior for /auth/me
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			c.Set("user_id", s.userID)
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

	reqBody := map[string]any{
		"email":        "new@example.com",
		"password":     "password123",
		"role":         "patient",
		"display_name": "New Patient",
	}

	s.Run("success: returns 201 Created with token", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(&commands.AuthResult{
				UserID: s.userID,
				Role:   "patient",
				Token:  "test-jwt-token",
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("test-jwt-token", response.AccessToken)
		s.Equal("patient", response.Role)
	})

	s.Run("error: 400 Bad Request when the command rejects the input", func() {
		rejected := errs.Mark(errs.New("role must be patient or professional"), commands.ErrInvalidUserInput)
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, rejected).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request data")
	})

	s.Run("error: 409 Conflict for duplicate email", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrEmailTaken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Email already registered")
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "invalid email", mutate: testutil.Field("email", "not-an-email")},
			{name: "password below 8 chars", mutate: testutil.Field("password", strings.Repeat("a", 7))},
			{name: "unknown role", mutate: testutil.Field("role", "director")},
			{name: "admin role not self-servable", mutate: testutil.Field("role", "admin")},
			{name: "missing email", mutate: testutil.Field("email", nil)},
			{name: "missing display name", mutate: testutil.Field("display_name", nil)},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	reqBody := map[string]any{
		"email":    "patient@example.com",
		"password": "password123",
	}

	s.Run("success: returns 200 OK for valid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(&commands.AuthResult{
				UserID: s.userID,
				Role:   "patient",
				Token:  "test-jwt-token",
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(s.userID, response.UserID)
	})

	s.Run("error: 401 Unauthorized for bad credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInvalidCredentials).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("error: unknown user reads the same as a bad password", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrUserNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("error: 403 Forbidden for inactive account", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrUserInactive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Account is inactive")
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: returns current user", func() {
		credential := builder.NewUserBuilder().BuildReadModel()
		s.mockStore.EXPECT().FindByID(gomock.Any(), s.userID).
			Return(credential, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "some-token")

		var response resdto.UserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(credential.Email, response.Email)
	})

	s.Run("error: 401 without authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}

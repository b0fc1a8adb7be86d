//go:build unit

package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"psyconnect/internal/handler/api"
	resdto "psyconnect/internal/handler/dto/response"
	"psyconnect/internal/usecase/commands"
	"psyconnect/internal/usecase/queries"
	"psyconnect/tests/common/httptest"
	"psyconnect/tests/common/testutil"
	commandsmock "psyconnect/tests/mock/commands"
	queriesmock "psyconnect/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockCtrl       *gomock.Controller
	mockCommands   *commandsmock.MockAvailabilityCommands
	mockQueries    *queriesmock.MockAvailabilityQueries
	handler        *api.AvailabilityHandler
	professionalID uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAvailabilityCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockCommands, s.mockQueries)
	s.professionalID = uuid.New()

	// Mock middleware behavior: authenticated requests carry the suite's user
	injectUser := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.professionalID)
		}
	}

	s.router.POST("/availabilities", injectUser, s.handler.Create)
	s.router.GET("/availabilities", injectUser, s.handler.List)
	s.router.DELETE("/availabilities/:id", injectUser, s.handler.Delete)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestCreate() {
	url := "/availabilities"

	reqBody := map[string]any{
		"date":       "2026-09-14",
		"start_time": "09:00:00",
		"end_time":   "12:00:00",
	}

	s.Run("success: returns 201 Created with the window ID", func() {
		windowID := uuid.New()
		s.mockCommands.EXPECT().
			CreateWindow(gomock.Any(), s.professionalID, gomock.Any()).
			Return(windowID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var response resdto.CreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(windowID, response.ID)
	})

	s.Run("error: 400 when start is not before end", func() {
		s.mockCommands.EXPECT().
			CreateWindow(gomock.Any(), s.professionalID, gomock.Any()).
			Return(uuid.Nil, commands.ErrInvalidWindow).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Window start must be before end")
	})

	s.Run("error: 400 for missing fields", func() {
		cases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing date", mutate: testutil.Field("date", nil)},
			{name: "missing start time", mutate: testutil.Field("start_time", nil)},
			{name: "missing end time", mutate: testutil.Field("end_time", nil)},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
				s.Equal(http.StatusBadRequest, rec.Code)
			})
		}
	})
}

func (s *AvailabilityHandlerTestSuite) TestList() {
	url := "/availabilities"

	s.Run("success: returns the professional's windows", func() {
		views := []*queries.AvailabilityView{
			{ID: uuid.New(), ProfessionalID: s.professionalID, Date: "2026-09-14", StartTime: "09:00:00", EndTime: "12:00:00"},
			{ID: uuid.New(), ProfessionalID: s.professionalID, Date: "2026-09-15", StartTime: "14:00:00", EndTime: "17:00:00"},
		}
		s.mockQueries.EXPECT().
			ListForProfessional(gomock.Any(), s.professionalID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")

		var response []*queries.AvailabilityView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
		s.Equal("2026-09-14", response[0].Date)
	})

	s.Run("error: 500 when the store fails", func() {
		s.mockQueries.EXPECT().
			ListForProfessional(gomock.Any(), s.professionalID).
			Return(nil, errors.New("connection refused")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "token")
		s.Equal(http.StatusInternalServerError, rec.Code)
	})
}

func (s *AvailabilityHandlerTestSuite) TestDelete() {
	windowID := uuid.New()
	url := fmt.Sprintf("/availabilities/%s", windowID)

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().
			DeleteWindow(gomock.Any(), s.professionalID, windowID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 for a window the professional does not own", func() {
		s.mockCommands.EXPECT().
			DeleteWindow(gomock.Any(), s.professionalID, windowID).
			Return(commands.ErrWindowNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Window not found")
	})

	s.Run("error: 409 when active reservations remain", func() {
		s.mockCommands.EXPECT().
			DeleteWindow(gomock.Any(), s.professionalID, windowID).
			Return(commands.ErrWindowHasActive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Window has active reservations")
	})

	s.Run("error: 400 for malformed window ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/availabilities/garbage", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid window ID format")
	})
}

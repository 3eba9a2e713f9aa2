//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"dormwash/internal/handler/api"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"
	commandsmock "dormwash/tests/mock/commands"
	queriesmock "dormwash/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WaitlistHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockWaitlistCommands
	mockQueries  *queriesmock.MockWaitlistQueries
	handler      *api.WaitlistHandler
}

func (s *WaitlistHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockWaitlistCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockWaitlistQueries(s.mockCtrl)
	s.handler = api.NewWaitlistHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/machines/:id/waitlist", s.handler.JoinWaitlist)
	s.router.DELETE("/machines/:id/waitlist", s.handler.LeaveWaitlist)
	s.router.GET("/machines/:id/waitlist", s.handler.PeekWaitlist)
}

func (s *WaitlistHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWaitlistHandlerSuite(t *testing.T) {
	suite.Run(t, new(WaitlistHandlerTestSuite))
}

func (s *WaitlistHandlerTestSuite) TestJoin() {
	machineID := uuid.New()
	memberID := uuid.New()
	body := map[string]any{"member_id": memberID.String()}

	s.Run("created", func() {
		result := &commands.JoinResult{
			Entry: &commands.WaitEntrySnapshot{
				ID:        uuid.New(),
				MemberID:  memberID,
				MachineID: machineID,
				JoinedAt:  handlerTime,
				Seq:       1,
			},
		}
		s.mockCommands.EXPECT().Join(gomock.Any(), memberID, machineID).Return(result, nil)

		w := performJSON(s.router, http.MethodPost, "/machines/"+machineID.String()+"/waitlist", body)
		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), `"already_waiting":false`)
	})

	s.Run("already waiting", func() {
		result := &commands.JoinResult{
			Entry: &commands.WaitEntrySnapshot{
				ID:        uuid.New(),
				MemberID:  memberID,
				MachineID: machineID,
				JoinedAt:  handlerTime,
				Seq:       1,
			},
			AlreadyWaiting: true,
		}
		s.mockCommands.EXPECT().Join(gomock.Any(), memberID, machineID).Return(result, nil)

		w := performJSON(s.router, http.MethodPost, "/machines/"+machineID.String()+"/waitlist", body)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"already_waiting":true`)
	})

	s.Run("machine idle", func() {
		s.mockCommands.EXPECT().Join(gomock.Any(), memberID, machineID).Return(nil, commands.ErrMachineIdle)

		w := performJSON(s.router, http.MethodPost, "/machines/"+machineID.String()+"/waitlist", body)
		s.Equal(http.StatusConflict, w.Code)
		s.Contains(w.Body.String(), `"error":{"message":"Machine is free, reserve it directly"}`)
	})

	s.Run("machine not found", func() {
		s.mockCommands.EXPECT().Join(gomock.Any(), memberID, machineID).Return(nil, commands.ErrMachineNotFound)

		w := performJSON(s.router, http.MethodPost, "/machines/"+machineID.String()+"/waitlist", body)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("invalid machine id", func() {
		w := performJSON(s.router, http.MethodPost, "/machines/not-a-uuid/waitlist", body)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing member_id", func() {
		w := performJSON(s.router, http.MethodPost, "/machines/"+machineID.String()+"/waitlist", map[string]any{})
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *WaitlistHandlerTestSuite) TestLeave() {
	machineID := uuid.New()
	memberID := uuid.New()
	url := "/machines/" + machineID.String() + "/waitlist?member_id=" + memberID.String()

	s.Run("no content", func() {
		s.mockCommands.EXPECT().Leave(gomock.Any(), memberID, machineID).Return(nil)

		w := performJSON(s.router, http.MethodDelete, url, nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("not waiting", func() {
		s.mockCommands.EXPECT().Leave(gomock.Any(), memberID, machineID).Return(commands.ErrWaitEntryNotFound)

		w := performJSON(s.router, http.MethodDelete, url, nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("missing member_id", func() {
		w := performJSON(s.router, http.MethodDelete, "/machines/"+machineID.String()+"/waitlist", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *WaitlistHandlerTestSuite) TestPeek() {
	machineID := uuid.New()

	s.Run("positions in promotion order", func() {
		views := []*queries.WaitEntryView{
			{ID: uuid.New(), MemberID: uuid.New(), MachineID: machineID, JoinedAt: handlerTime, Position: 1},
			{ID: uuid.New(), MemberID: uuid.New(), MachineID: machineID, JoinedAt: handlerTime.Add(time.Minute), Position: 2},
		}
		s.mockQueries.EXPECT().PeekAll(gomock.Any(), machineID).Return(views, nil)

		w := performJSON(s.router, http.MethodGet, "/machines/"+machineID.String()+"/waitlist", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), `"position":1`)
		s.Contains(w.Body.String(), `"position":2`)
	})

	s.Run("empty queue", func() {
		s.mockQueries.EXPECT().PeekAll(gomock.Any(), machineID).Return([]*queries.WaitEntryView{}, nil)

		w := performJSON(s.router, http.MethodGet, "/machines/"+machineID.String()+"/waitlist", nil)
		s.Equal(http.StatusOK, w.Code)
		s.Equal("[]", w.Body.String())
	})
}

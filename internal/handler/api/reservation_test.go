//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dormwash/internal/handler/api"
	"dormwash/internal/infra"
	"dormwash/internal/usecase/commands"
	"dormwash/internal/usecase/queries"
	commandsmock "dormwash/tests/mock/commands"
	queriesmock "dormwash/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var handlerTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func performJSON(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type ReservationHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockLedger  *commandsmock.MockLedgerCommands
	mockQueries *queriesmock.MockReservationQueries
	handler     *api.ReservationHandler
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockLedger = commandsmock.NewMockLedgerCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockLedger, s.mockQueries)

	s.router.POST("/reservations", s.handler.CreateReservation)
	s.router.GET("/reservations", s.handler.ListMemberReservations)
	s.router.GET("/reservations/:id", s.handler.GetReservation)
	s.router.DELETE("/reservations/:id", s.handler.CancelReservation)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

func (s *ReservationHandlerTestSuite) createBody() map[string]any {
	return map[string]any{
		"member_id":  uuid.New().String(),
		"machine_id": uuid.New().String(),
		"start_time": handlerTime.Format(time.RFC3339),
		"end_time":   handlerTime.Add(time.Hour).Format(time.RFC3339),
	}
}

func (s *ReservationHandlerTestSuite) TestCreate() {
	s.Run("created", func() {
		snap := &commands.ReservationSnapshot{
			ID:        uuid.New(),
			MemberID:  uuid.New(),
			MachineID: uuid.New(),
			Start:     handlerTime,
			End:       handlerTime.Add(time.Hour),
			CreatedAt: handlerTime,
		}
		s.mockLedger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(snap, nil)

		w := performJSON(s.router, http.MethodPost, "/reservations", s.createBody())
		s.Equal(http.StatusCreated, w.Code)
		s.Contains(w.Body.String(), snap.ID.String())
	})

	s.Run("malformed body", func() {
		w := performJSON(s.router, http.MethodPost, "/reservations", map[string]any{"member_id": "nope"})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("missing fields", func() {
		w := performJSON(s.router, http.MethodPost, "/reservations", map[string]any{})
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("conflict", func() {
		s.mockLedger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrReservationConflict)

		w := performJSON(s.router, http.MethodPost, "/reservations", s.createBody())
		s.Equal(http.StatusConflict, w.Code)
		s.Contains(w.Body.String(), `"error":{"message":"Machine already reserved for this slot"}`)
	})

	s.Run("invalid slot", func() {
		s.mockLedger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrInvalidTimeSlot)

		w := performJSON(s.router, http.MethodPost, "/reservations", s.createBody())
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("machine not found", func() {
		s.mockLedger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrMachineNotFound)

		w := performJSON(s.router, http.MethodPost, "/reservations", s.createBody())
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("storage failure", func() {
		s.mockLedger.EXPECT().
			Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, commands.ErrStorageFailure)

		w := performJSON(s.router, http.MethodPost, "/reservations", s.createBody())
		s.Equal(http.StatusInternalServerError, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("found", func() {
		view := &queries.ReservationView{
			ID:        uuid.New(),
			MemberID:  uuid.New(),
			MachineID: uuid.New(),
			Start:     handlerTime,
			End:       handlerTime.Add(time.Hour),
			CreatedAt: handlerTime,
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)

		w := performJSON(s.router, http.MethodGet, "/reservations/"+view.ID.String(), nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), view.ID.String())
	})

	s.Run("invalid id", func() {
		w := performJSON(s.router, http.MethodGet, "/reservations/not-a-uuid", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().
			GetByID(gomock.Any(), id).
			Return(nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound))

		w := performJSON(s.router, http.MethodGet, "/reservations/"+id.String(), nil)
		s.Equal(http.StatusNotFound, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestList() {
	s.Run("member reservations", func() {
		memberID := uuid.New()
		views := []*queries.ReservationView{
			{ID: uuid.New(), MemberID: memberID, MachineID: uuid.New(), Start: handlerTime, End: handlerTime.Add(time.Hour)},
		}
		s.mockQueries.EXPECT().ListByMember(gomock.Any(), memberID).Return(views, nil)

		w := performJSON(s.router, http.MethodGet, "/reservations?member_id="+memberID.String(), nil)
		s.Equal(http.StatusOK, w.Code)
		s.Contains(w.Body.String(), views[0].ID.String())
	})

	s.Run("missing member_id", func() {
		w := performJSON(s.router, http.MethodGet, "/reservations", nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	member := uuid.New()

	s.Run("no content", func() {
		id := uuid.New()
		s.mockLedger.EXPECT().Cancel(gomock.Any(), id, member).Return(nil)

		w := performJSON(s.router, http.MethodDelete, "/reservations/"+id.String()+"?member_id="+member.String(), nil)
		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("not found", func() {
		id := uuid.New()
		s.mockLedger.EXPECT().Cancel(gomock.Any(), id, member).Return(commands.ErrReservationNotFound)

		w := performJSON(s.router, http.MethodDelete, "/reservations/"+id.String()+"?member_id="+member.String(), nil)
		s.Equal(http.StatusNotFound, w.Code)
	})

	s.Run("missing member_id", func() {
		w := performJSON(s.router, http.MethodDelete, "/reservations/"+uuid.New().String(), nil)
		s.Equal(http.StatusBadRequest, w.Code)
	})
}

package update_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule"
	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

type fakeScheduleService struct {
	gotReq *models.ReplaceScheduleRequest
	resp   *models.ScheduleResponse
	err    error
}

func (s *fakeScheduleService) ReplaceSchedule(_ context.Context, req *models.ReplaceScheduleRequest) (*models.ScheduleResponse, error) {
	s.gotReq = req
	return s.resp, s.err
}

func doRequest(h *Handler, businessID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/businesses/"+businessID+"/schedule", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"businessId": businessID})

	w := httptest.NewRecorder()
	h.Handle(w, req)
	return w
}

func TestHandle(t *testing.T) {
	t.Run("replaces schedule", func(t *testing.T) {
		svc := &fakeScheduleService{resp: &models.ScheduleResponse{
			BusinessID: 1,
			Rules:      []models.RuleResponse{{DayOfWeek: 1, StartTime: "09:00", EndTime: "18:00"}},
		}}
		h := NewHandler(svc, nopLogger{})

		w := doRequest(h, "1", `{"rules": [{"dayOfWeek": 1, "startTime": "09:00", "endTime": "18:00"}]}`)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, svc.gotReq)
		assert.Equal(t, int64(1), svc.gotReq.BusinessID)
		require.Len(t, svc.gotReq.Rules, 1)
		assert.Equal(t, "09:00", svc.gotReq.Rules[0].StartTime)
	})

	t.Run("malformed body", func(t *testing.T) {
		svc := &fakeScheduleService{}
		h := NewHandler(svc, nopLogger{})

		w := doRequest(h, "1", `{"rules": [`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, svc.gotReq)
	})

	t.Run("invalid business id", func(t *testing.T) {
		h := NewHandler(&fakeScheduleService{}, nopLogger{})

		w := doRequest(h, "abc", `{"rules": []}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid rules", func(t *testing.T) {
		h := NewHandler(&fakeScheduleService{err: schedule.ErrInvalidInput}, nopLogger{})

		w := doRequest(h, "1", `{"rules": [{"dayOfWeek": 9, "startTime": "09:00", "endTime": "18:00"}]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown business", func(t *testing.T) {
		h := NewHandler(&fakeScheduleService{err: schedule.ErrBusinessNotFound}, nopLogger{})

		w := doRequest(h, "99", `{"rules": []}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

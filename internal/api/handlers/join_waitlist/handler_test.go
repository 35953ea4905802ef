package join_waitlist

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-WaitlistService/internal/api/middleware"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist"
	"github.com/m04kA/SMC-WaitlistService/internal/service/waitlist/models"
)

type fakeService struct {
	gotReq *models.JoinRequest
	resp   *models.EntryResponse
	err    error
}

func (f *fakeService) Join(ctx context.Context, req *models.JoinRequest) (*models.EntryResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func doRequest(t *testing.T, svc *fakeService, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()

	h := NewHandler(svc, nopLogger{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist", bytes.NewBufferString(body))
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	rec := httptest.NewRecorder()
	middleware.Auth(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	svc := &fakeService{
		resp: &models.EntryResponse{
			ID:              5,
			CustomerID:      100,
			SalonID:         1,
			ServiceID:       3,
			Status:          "active",
			PositionInQueue: 2,
		},
	}

	rec := doRequest(t, svc, "100", `{"salonId": 1, "serviceId": 3}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, svc.gotReq)
	assert.Equal(t, int64(100), svc.gotReq.CustomerID)
	assert.Equal(t, int64(1), svc.gotReq.SalonID)
	assert.Nil(t, svc.gotReq.StaffID)

	var resp models.EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, 2, resp.PositionInQueue)
}

func TestHandle_PreferredStaffPassedThrough(t *testing.T) {
	svc := &fakeService{resp: &models.EntryResponse{ID: 1, Status: "active", PositionInQueue: 1}}

	rec := doRequest(t, svc, "100", `{"salonId": 1, "serviceId": 3, "staffId": 7}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.gotReq.StaffID)
	assert.Equal(t, int64(7), *svc.gotReq.StaffID)
}

func TestHandle_MissingUserID(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "", `{"salonId": 1, "serviceId": 3}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_InvalidBody(t *testing.T) {
	svc := &fakeService{}

	rec := doRequest(t, svc, "100", `{"salonId": "not-a-number"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, svc.gotReq)
}

func TestHandle_InvalidInput(t *testing.T) {
	svc := &fakeService{err: waitlist.ErrInvalidInput}

	rec := doRequest(t, svc, "100", `{"salonId": 0, "serviceId": 3}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_ServiceFailure(t *testing.T) {
	svc := &fakeService{err: waitlist.ErrInternal}

	rec := doRequest(t, svc, "100", `{"salonId": 1, "serviceId": 3}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

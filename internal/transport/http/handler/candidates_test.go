package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/careers-intake-api/internal/application/quota"
	"github.com/careers-intake-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockQuotaSvc struct{ mock.Mock }

func (m *mockQuotaSvc) Status(ctx context.Context, email string) (quota.Status, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(quota.Status), args.Error(1)
}

func TestCheckDuplicate_InvalidBody(t *testing.T) {
	svc := &mockQuotaSvc{}
	h := NewCandidateHandler(svc)
	r := httptest.NewRequest(http.MethodPost, "/candidates/check-duplicate", bytes.NewBufferString("{"))
	rr := httptest.NewRecorder()
	h.CheckDuplicate(rr, r)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCheckDuplicate_RemainingSlots(t *testing.T) {
	svc := &mockQuotaSvc{}
	svc.On("Status", mock.Anything, "jane@example.com").
		Return(quota.Status{Count: 1, Limit: 3, Remaining: 2}, nil)
	h := NewCandidateHandler(svc)
	rr := httptest.NewRecorder()
	h.CheckDuplicate(rr, postJSON("/candidates/check-duplicate", map[string]string{"email": "Jane@Example.com"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp QuotaEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.CanSubmit)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 3, resp.Limit)
	assert.Equal(t, 2, resp.Remaining)
	svc.AssertExpectations(t)
}

func TestCheckDuplicate_Exhausted(t *testing.T) {
	svc := &mockQuotaSvc{}
	svc.On("Status", mock.Anything, "jane@example.com").
		Return(quota.Status{Count: 3, Limit: 3, Remaining: 0}, nil)
	h := NewCandidateHandler(svc)
	rr := httptest.NewRecorder()
	h.CheckDuplicate(rr, postJSON("/candidates/check-duplicate", map[string]string{"email": "jane@example.com"}))
	assert.Equal(t, http.StatusOK, rr.Code)
	var resp QuotaEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.False(t, resp.CanSubmit)
	assert.Equal(t, 0, resp.Remaining)
}

func TestCheckDuplicate_StoreFailure(t *testing.T) {
	svc := &mockQuotaSvc{}
	svc.On("Status", mock.Anything, "jane@example.com").
		Return(quota.Status{}, fmt.Errorf("count submissions: %w", domain.ErrCollaborator))
	h := NewCandidateHandler(svc)
	rr := httptest.NewRecorder()
	h.CheckDuplicate(rr, postJSON("/candidates/check-duplicate", map[string]string{"email": "jane@example.com"}))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

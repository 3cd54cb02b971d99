package api

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/fairness"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/repository"
)

func TestToAppError(t *testing.T) {
	cases := []struct {
		err  error
		code errors.ErrorCode
	}{
		{fmt.Errorf("%w: 0", slot.ErrInvalidBet), errors.ErrInvalidBet},
		{slot.ErrInvalidGrid, errors.ErrInvalidGrid},
		{fairness.ErrSeedMismatch, errors.ErrSeedMismatch},
		{fairness.ErrInvalidSeed, errors.ErrInvalidSeed},
		{&slot.ConfigError{Component: "paytable", Reason: "x"}, errors.ErrConfigValidate},
		{repository.ErrSpinRecordNotFound, errors.ErrNotFound},
		{fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), errors.ErrAlreadyExists},
		{context.DeadlineExceeded, errors.ErrTimeout},
		{context.Canceled, errors.ErrCanceled},
		{errors.Wrap(stderrors.New("locked"), errors.ErrTransaction), errors.ErrTransaction},
		{stderrors.New("磁盘已满"), errors.ErrUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, toAppError(tc.err).Code, "err=%v", tc.err)
	}
}

func respond(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/slot/spin", nil)
	respondError(c, err)
	return w
}

func TestRespondError_Retryable(t *testing.T) {
	w := respond(errors.Wrapf(stderrors.New("database is locked"), errors.ErrTransaction, "占用nonce失败: seed_pair=%d", 7))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, errors.ErrTransaction, errorCode(t, w))
}

func TestRespondError_HidesInternalCause(t *testing.T) {
	w := respond(stderrors.New("dial tcp 10.0.0.1:5432: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.NotContains(t, w.Body.String(), "10.0.0.1")

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrUnknown, resp.Error.Code)
	assert.Empty(t, resp.Error.Stack)
}

func TestRespondError_Conflict(t *testing.T) {
	w := respond(gorm.ErrDuplicatedKey)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, errors.ErrAlreadyExists, errorCode(t, w))
}

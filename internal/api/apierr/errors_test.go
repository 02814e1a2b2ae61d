package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/psconsole/internal/model"
)

func TestWriteErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"wrapped preference", fmt.Errorf("%w: bad", model.ErrInvalidPreference), http.StatusBadRequest, CodeInvalidPreference},
		{"game not found", model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound},
		{"session in progress", model.ErrSessionInProgress, http.StatusConflict, CodeSessionInProgress},
		{"quota wrapped in unavailable", fmt.Errorf("%w: %w", model.ErrStorageUnavailable, model.ErrQuotaExceeded), http.StatusInsufficientStorage, CodeQuotaExceeded},
		{"storage unavailable", model.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeStorageUnavailable},
		{"missing origin", NewMissingOriginError(), http.StatusBadRequest, CodeMissingOrigin},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, tt.status, StatusOf(tt.err))
		})
	}
}

func TestUnknownErrorsDoNotLeakDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("dial tcp 10.0.0.1:6379: refused"))
	assert.NotContains(t, rr.Body.String(), "10.0.0.1")
}

package request

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/psconsole/internal/api/apierr"
)

func decode(t *testing.T, body string, dest any) error {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return DecodeJSONBody(r, dest)
}

func errorMessage(t *testing.T, err error) string {
	t.Helper()
	rr := httptest.NewRecorder()
	apierr.WriteError(rr, err)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error.Message
}

func TestDecodeValidBody(t *testing.T) {
	var req AddExperienceRequest
	require.NoError(t, decode(t, `{"amount":250}`, &req))
	assert.Equal(t, 250, req.Amount)
}

func TestDecodeUsesJSONFieldNames(t *testing.T) {
	var req StartSessionRequest
	err := decode(t, `{}`, &req)
	require.Error(t, err)
	assert.Equal(t, "game_id is required", errorMessage(t, err))
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	var req AddExperienceRequest
	err := decode(t, `{"amount":1,"bonus":true}`, &req)
	require.Error(t, err)
	assert.Equal(t, "invalid request body", errorMessage(t, err))
}

func TestDecodeOneOf(t *testing.T) {
	var req UpdatePreferencesRequest
	err := decode(t, `{"theme":"neon"}`, &req)
	require.Error(t, err)
	assert.Contains(t, errorMessage(t, err), "theme must be one of")
}

func TestPreferencesVolumeAcceptsZero(t *testing.T) {
	var req UpdatePreferencesRequest
	require.NoError(t, decode(t, `{"volume":0}`, &req))
	assert.False(t, req.Empty())
	assert.Equal(t, float64(0), req.Volume)
}

func TestSetInstalledRequiresExplicitValue(t *testing.T) {
	var req SetInstalledRequest
	require.Error(t, decode(t, `{}`, &req))

	req = SetInstalledRequest{}
	require.NoError(t, decode(t, `{"installed":false}`, &req))
	require.NotNil(t, req.Installed)
	assert.False(t, *req.Installed)
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/testutil"
)

func TestExtractOriginPrefersHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(OriginHeader, " console-a ")
	r.AddCookie(&http.Cookie{Name: OriginCookie, Value: "console-b"})

	assert.Equal(t, model.Origin("console-a"), ExtractOrigin(r))
}

func TestExtractOriginFallsBackToCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: OriginCookie, Value: "console-b"})

	assert.Equal(t, model.Origin("console-b"), ExtractOrigin(r))
}

func TestExtractOriginMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, model.Origin(""), ExtractOrigin(r))
}

func TestMustGetStorePanicsWithoutMiddleware(t *testing.T) {
	assert.Nil(t, GetStore(context.Background()))
	assert.Panics(t, func() { MustGetStore(context.Background()) })
}

func TestRecoveryWritesJSONError(t *testing.T) {
	h := Recovery(testutil.NopLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "INTERNAL_ERROR")
}

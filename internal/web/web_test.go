package web_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/psconsole/internal/factory"
	"github.com/mcoot/psconsole/internal/model"
	"github.com/mcoot/psconsole/internal/storage"
	"github.com/mcoot/psconsole/internal/storage/memory"
	"github.com/mcoot/psconsole/internal/testutil"
	"github.com/mcoot/psconsole/internal/web"
)

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithApp(t, factory.NewTestApp())
}

func newWebTestServerWithApp(t *testing.T, app *factory.TestApp) *webTestServer {
	t.Helper()

	app.LoadTestCatalog()
	app.MockRandom.QueueString("abc123def456")

	router := web.NewRouter(web.RouterConfig{
		Logger:      testutil.NopLogger(),
		Manager:     app.Manager,
		Catalog:     app.Catalog,
		Library:     app.Library,
		Tracker:     app.Tracker,
		Random:      app.Random,
		HTTPMetrics: app.HTTPMetrics,
	})

	return &webTestServer{
		t:       t,
		handler: router,
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	ts.cookies.extract(rr)
	return rr
}

func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	return ts.request(http.MethodPost, path, form)
}

// getPage makes a GET request and parses the HTML response
func (ts *webTestServer) getPage(path string) *goquery.Document {
	ts.t.Helper()
	rr := ts.get(path)
	require.Equal(ts.t, http.StatusOK, rr.Code, rr.Body.String())
	return parseHTML(ts.t, rr.Body)
}

// postAndFollow posts a form, checks the redirect and returns the page it leads to
func (ts *webTestServer) postAndFollow(path string, form url.Values) *goquery.Document {
	ts.t.Helper()
	rr := ts.post(path, form)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, rr.Body.String())
	return ts.getPage(rr.Header().Get("Location"))
}

func parseHTML(t *testing.T, r io.Reader) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(r)
	require.NoError(t, err)
	return doc
}

func flashText(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(".flash").Text())
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(cookie)
	}
}

func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

func (j *cookieJar) origin() string {
	if c, ok := j.cookies["console_origin"]; ok {
		return c.Value
	}
	return ""
}

func TestDashboardAllocatesOrigin(t *testing.T) {
	ts := newWebTestServer(t)

	doc := ts.getPage("/")

	assert.Equal(t, "console-abc123def456", ts.cookies.origin())
	body := doc.Find("body")
	assert.Equal(t, "console-abc123def456", body.AttrOr("data-origin", ""))
	assert.True(t, body.HasClass("theme-dark"))
	assert.Equal(t, "rtl", doc.Find("html").AttrOr("dir", ""))
	assert.Equal(t, "ضيف", doc.Find(".profile-header .username").Text())
	assert.Equal(t, "Lv. 1", doc.Find(".profile-header .level").Text())

	assert.Equal(t, "space-runner", doc.Find("#featured .game-card").AttrOr("data-game-id", ""))
	assert.Equal(t, 3, doc.Find("#recent .game-card").Length())
	assert.Equal(t, 2, doc.Find("#recommended .game-card").Length())
	assert.Equal(t, "Free", doc.Find(`#recent [data-game-id="space-runner"] .price`).Text())
	assert.Equal(t, "$39.99", doc.Find(`#recent [data-game-id="soccer-champs"] .price`).Text())
}

func TestDashboardKeepsOriginAcrossRequests(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")
	ts.app.MockRandom.QueueString("zzzzzzzzzzzz")

	doc := ts.getPage("/?screen=profile")

	assert.Equal(t, "console-abc123def456", doc.Find("body").AttrOr("data-origin", ""))
}

func TestDashboardOriginFromQuery(t *testing.T) {
	ts := newWebTestServer(t)

	doc := ts.getPage("/?origin=living-room")

	assert.Equal(t, "living-room", ts.cookies.origin())
	assert.Equal(t, "living-room", doc.Find("body").AttrOr("data-origin", ""))
}

func TestDashboardReplacesInvalidOrigin(t *testing.T) {
	ts := newWebTestServer(t)

	ts.getPage("/?origin=_system")

	assert.Equal(t, "console-abc123def456", ts.cookies.origin())
}

func TestStoreScreenSections(t *testing.T) {
	ts := newWebTestServer(t)

	doc := ts.getPage("/?screen=store&section=free")
	assert.Equal(t, 2, doc.Find("#store-games .game-card").Length())
	assert.True(t, doc.Find(`.sections a.active`).Is(`[href$="section=free"]`))

	doc = ts.getPage("/?screen=store&section=featured&q=LOGIC")
	require.Equal(t, 1, doc.Find("#store-games .game-card").Length())
	assert.Equal(t, "puzzle-master", doc.Find("#store-games .game-card").AttrOr("data-game-id", ""))
	assert.Equal(t, "LOGIC", doc.Find(`input[name="q"]`).AttrOr("value", ""))

	doc = ts.getPage("/?screen=store&section=bogus")
	assert.Equal(t, 2, doc.Find("#store-games .game-card").Length(), "unknown sections fall back to featured")
}

func TestAddToLibrary(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")

	rr := ts.post("/library/space-runner", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?screen=store", rr.Header().Get("Location"))

	doc := ts.getPage("/?screen=store")
	assert.Equal(t, "Added to your library", flashText(doc))
	assert.Equal(t, 1, doc.Find(`[data-game-id="space-runner"] .owned`).Length())

	doc = ts.postAndFollow("/library/space-runner", nil)
	assert.Equal(t, "Already in your library", flashText(doc))

	doc = ts.postAndFollow("/library/puzzle-master", nil)
	assert.Equal(t, "Added to your library", flashText(doc))

	doc = ts.getPage("/?screen=library")
	assert.Empty(t, flashText(doc), "flash is shown once")
	assert.Equal(t, 2, doc.Find(".library-card").Length())
	assert.Equal(t, "2", doc.Find(".library-stats .game-count").Text())
	assert.Equal(t, "0.4 GB", doc.Find(".library-stats .total-size").Text())
}

func TestAddUnknownGame(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")

	doc := ts.postAndFollow("/library/missing-game", nil)

	assert.Equal(t, "Game not found", flashText(doc))
	assert.True(t, doc.Find(".flash").HasClass("flash-error"))
}

func TestRemoveFromLibrary(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")
	ts.postAndFollow("/library/space-runner", nil)

	doc := ts.postAndFollow("/library/space-runner/remove", nil)

	assert.Equal(t, "Removed from your library", flashText(doc))
	assert.Equal(t, 0, doc.Find(".library-card").Length())
	assert.Equal(t, 1, doc.Find("#library .empty").Length())
}

func TestLibraryFlagsAndFilters(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")
	ts.postAndFollow("/library/space-runner", nil)
	ts.postAndFollow("/library/puzzle-master", nil)

	doc := ts.postAndFollow("/library/space-runner/favorite", nil)
	assert.Equal(t, "Added to favorites", flashText(doc))
	assert.True(t, doc.Find(`.library-card[data-game-id="space-runner"]`).HasClass("favorite"))

	doc = ts.postAndFollow("/library/puzzle-master/install", nil)
	assert.Equal(t, "Installed", flashText(doc))
	card := doc.Find(`.library-card[data-game-id="puzzle-master"]`)
	assert.True(t, card.HasClass("installed"))
	assert.Equal(t, 1, card.Find("button.uninstall").Length())

	doc = ts.getPage("/?screen=library&filter=favorites")
	require.Equal(t, 1, doc.Find(".library-card").Length())
	assert.Equal(t, "space-runner", doc.Find(".library-card").AttrOr("data-game-id", ""))

	doc = ts.getPage("/?screen=library&filter=installed")
	require.Equal(t, 1, doc.Find(".library-card").Length())
	assert.Equal(t, "puzzle-master", doc.Find(".library-card").AttrOr("data-game-id", ""))

	doc = ts.getPage("/?screen=library&filter=recent")
	require.Equal(t, 2, doc.Find(".library-card").Length())
	assert.Equal(t, "puzzle-master", doc.Find(".library-card").First().AttrOr("data-game-id", ""), "recent is newest first")

	doc = ts.postAndFollow("/library/puzzle-master/uninstall", nil)
	assert.Equal(t, "Uninstalled", flashText(doc))
	assert.False(t, doc.Find(`.library-card[data-game-id="puzzle-master"]`).HasClass("installed"))

	space, err := ts.app.Catalog.Get("space-runner")
	require.NoError(t, err)
	assert.Equal(t, "Space Runner", space.Title, "flags never touch catalog records")
}

func TestPlayAndStopRecordsSession(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")
	ts.postAndFollow("/library/space-runner", nil)

	doc := ts.postAndFollow("/play/space-runner", nil)
	assert.Equal(t, "Game started", flashText(doc))
	assert.Equal(t, "Space Runner", doc.Find("#now-playing .title").Text())
	assert.Equal(t, 1, doc.Find(`.library-card[data-game-id="space-runner"] button.stop`).Length())

	doc = ts.postAndFollow("/play/puzzle-master", nil)
	assert.Equal(t, "Stop the current game first", flashText(doc))

	ts.app.MockClock.Advance(90 * time.Minute)
	doc = ts.postAndFollow("/play/stop", nil)
	assert.Equal(t, "Game stopped", flashText(doc))
	assert.Equal(t, 0, doc.Find("#now-playing").Length())

	doc = ts.getPage("/?screen=profile")
	assert.Equal(t, "1h 30m", doc.Find("#profile-stats .play-time").Text())

	doc = ts.postAndFollow("/play/stop", nil)
	assert.Equal(t, "No game is running", flashText(doc))
}

func TestPreferencesForm(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")

	form := url.Values{"theme": {"light"}, "volume": {"30"}, "language": {"en"}}
	doc := ts.postAndFollow("/preferences", form)

	assert.Equal(t, "Settings saved", flashText(doc))
	assert.True(t, doc.Find("body").HasClass("theme-light"))
	assert.Equal(t, "en", doc.Find("html").AttrOr("lang", ""))
	assert.Equal(t, "ltr", doc.Find("html").AttrOr("dir", ""))
	assert.Equal(t, "30", doc.Find(`#preferences input[name="volume"]`).AttrOr("value", ""))
	assert.Equal(t, "light", doc.Find(`#preferences select[name="theme"] option[selected]`).AttrOr("value", ""))

	doc = ts.postAndFollow("/preferences", url.Values{"volume": {"200"}})
	assert.Equal(t, "Invalid settings", flashText(doc))
	assert.Equal(t, "30", doc.Find(`#preferences input[name="volume"]`).AttrOr("value", ""))
}

func TestPreferencesFormRejectedTogether(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")

	doc := ts.postAndFollow("/preferences", url.Values{"theme": {"light"}, "volume": {"200"}})
	assert.Equal(t, "Invalid settings", flashText(doc))
	assert.True(t, doc.Find("body").HasClass("theme-dark"))
	assert.Equal(t, "80", doc.Find(`#preferences input[name="volume"]`).AttrOr("value", ""))
}

// noRemoveStorage refuses to delete items
type noRemoveStorage struct {
	*memory.Storage
}

func (noRemoveStorage) RemoveItem(context.Context, model.Origin, string) error {
	return errors.New("storage is read-only")
}

func TestLogoutFailureKeepsPlaySession(t *testing.T) {
	app := factory.NewTestAppWithStorage(func(m *memory.Storage) storage.Storage {
		return noRemoveStorage{Storage: m}
	})
	ts := newWebTestServerWithApp(t, app)
	ts.getPage("/")
	ts.postAndFollow("/play/space-runner", nil)

	doc := ts.postAndFollow("/logout", nil)
	assert.Equal(t, "Changes could not be saved", flashText(doc))

	_, playing := ts.app.Tracker.Current("console-abc123def456")
	assert.True(t, playing)
}

func TestProfileScreen(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")

	store, err := ts.app.Manager.Open(t.Context(), "console-abc123def456")
	require.NoError(t, err)
	require.NoError(t, store.SetUsername(t.Context(), "<b>Nora</b>"))
	_, err = store.AddExperience(t.Context(), 1500)
	require.NoError(t, err)

	doc := ts.getPage("/?screen=profile")

	assert.Equal(t, "<b>Nora</b>", doc.Find(".profile-header .username").Text())
	assert.Equal(t, 0, doc.Find(".profile-header .username b").Length(), "user content is escaped")
	assert.Equal(t, "Lv. 2", doc.Find(".profile-header .level").Text())
	assert.Equal(t, "0", doc.Find("#profile-stats .games-owned").Text())
	assert.Equal(t, "5.0", doc.Find("#profile-stats .rating").Text())
}

func TestLogoutResetsProfile(t *testing.T) {
	ts := newWebTestServer(t)
	ts.getPage("/")
	ts.postAndFollow("/library/space-runner", nil)
	ts.postAndFollow("/play/space-runner", nil)

	rr := ts.post("/logout", nil)
	require.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/?screen=home", rr.Header().Get("Location"))

	doc := ts.getPage("/?screen=library")
	assert.Equal(t, 0, doc.Find(".library-card").Length())
	assert.Equal(t, 0, doc.Find("#now-playing").Length(), "open session is abandoned")
	assert.Equal(t, "console-abc123def456", ts.cookies.origin(), "the origin is kept")
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/no-such-page")

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticFileServing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "console.css"), []byte("body{}"), 0o600))

	app := factory.NewTestApp()
	router := web.NewRouter(web.RouterConfig{
		Logger:    testutil.NopLogger(),
		Manager:   app.Manager,
		Catalog:   app.Catalog,
		Library:   app.Library,
		Tracker:   app.Tracker,
		Random:    app.Random,
		StaticDir: dir,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/static/console.css", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body{}", rr.Body.String())
}

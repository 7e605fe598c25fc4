package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/quizdash/internal/app"
	"github.com/shrimpsizemoose/quizdash/internal/export"
	"github.com/shrimpsizemoose/quizdash/internal/models"
)

type stubSource struct {
	records []models.Record
	err     error
	fetches atomic.Int32
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchAll(ctx context.Context) ([]models.Record, error) {
	s.fetches.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubSource) Close() error { return nil }

var testRecords = []models.Record{
	{
		"id":         int64(2),
		"student_id": "S02",
		"created_at": "2024-01-02T00:00:00Z",
		"answer_1":   "4",
		"feedback_1": "O: good",
		"feedback_2": "O: good",
		"feedback_3": "X: no",
	},
	{
		"id":         int64(1),
		"student_id": "S01",
		"created_at": "2024-01-01T00:00:00Z",
		"answer_1":   "5",
		"feedback_1": "O: correct",
		"feedback_2": "X: wrong",
		"feedback_3": nil,
	},
}

const testConfig = `
[backend]
url = ":memory:"

[auth]
password = "secret"

[display]
columns = ["student_id", "created_at_local", "total_score"]

[display.labels]
student_id = "Student"
total_score = "Score"
`

func newTestRouter(t *testing.T, src *stubSource) (http.Handler, *app.Service) {
	cfg, err := app.ParseConfig("test.toml", []byte(testConfig))
	require.NoError(t, err)

	auth, err := app.NewAuth(cfg)
	require.NoError(t, err)

	service, err := app.NewServiceWith(cfg, src, auth)
	require.NoError(t, err)
	t.Cleanup(func() { service.Close() })

	return NewRouter(service), service
}

func login(t *testing.T, router http.Handler) *http.Cookie {
	form := url.Values{"password": {"secret"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	require.Equal(t, http.StatusSeeOther, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func get(router http.Handler, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		r.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestLoginFlow(t *testing.T) {
	router, _ := newTestRouter(t, &stubSource{records: testRecords})

	t.Run("dashboard without session shows login", func(t *testing.T) {
		w := get(router, "/", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="password"`)
		assert.NotContains(t, w.Body.String(), "S01")
	})

	t.Run("wrong password", func(t *testing.T) {
		form := url.Values{"password": {"nope"}}
		r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Wrong password.")
		assert.Empty(t, w.Result().Cookies())
	})

	t.Run("right password grants dashboard", func(t *testing.T) {
		cookie := login(t, router)
		assert.Equal(t, "quizdash_session", cookie.Name)
		assert.True(t, cookie.HttpOnly)

		w := get(router, "/", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "S01")
		assert.Contains(t, body, "S02")
		assert.Contains(t, body, "2024-01-01 09:00:00")
		assert.Contains(t, body, "<th data-col=\"0\">Student</th>")
	})

	t.Run("logout drops the session", func(t *testing.T) {
		cookie := login(t, router)
		r := httptest.NewRequest(http.MethodPost, "/logout", nil)
		r.AddCookie(cookie)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, r)
		assert.Equal(t, http.StatusSeeOther, w.Code)

		w = get(router, "/api/v1/summary", cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestDashboard(t *testing.T) {
	t.Run("empty snapshot", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: []models.Record{}})
		w := get(router, "/", login(t, router))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No submissions yet.")
		assert.NotContains(t, w.Body.String(), `id="submissions"`)
	})

	t.Run("search filters the table", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: testRecords})
		w := get(router, "/?q=S01", login(t, router))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		table := body[strings.Index(body, `id="submissions"`):]
		assert.Contains(t, table, "S01")
		assert.NotContains(t, table[:strings.Index(table, "</table>")], "S02")
	})

	t.Run("student detail", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: testRecords})
		w := get(router, "/?student=S01", login(t, router))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "O: correct")
		assert.Contains(t, w.Body.String(), "X: wrong")
	})

	t.Run("fetch failure", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{err: errors.New("connection refused")})
		w := get(router, "/", login(t, router))

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to load submissions")
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestRefresh(t *testing.T) {
	src := &stubSource{records: testRecords}
	router, _ := newTestRouter(t, src)
	cookie := login(t, router)

	get(router, "/", cookie)
	get(router, "/", cookie)
	assert.Equal(t, int32(1), src.fetches.Load())

	form := url.Values{"q": {"S0"}}
	r := httptest.NewRequest(http.MethodPost, "/refresh", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/?q=S0", w.Header().Get("Location"))

	get(router, "/", cookie)
	assert.Equal(t, int32(2), src.fetches.Load())
}

func TestExport(t *testing.T) {
	t.Run("filtered csv", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: testRecords})
		w := get(router, "/export.csv?q=S01", login(t, router))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename=student_submissions.csv`, w.Header().Get("Content-Disposition"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "\xEF\xBB\xBF"))

		headers, rows, err := export.ReadCSV(w.Body)
		require.NoError(t, err)
		assert.Contains(t, headers, "student_id")
		assert.Contains(t, headers, "total_score")
		require.Len(t, rows, 1)

		idx := map[string]int{}
		for i, h := range headers {
			idx[h] = i
		}
		assert.Equal(t, "S01", rows[0][idx["student_id"]])
		assert.Equal(t, "1", rows[0][idx["total_score"]])
	})

	t.Run("empty snapshot", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: []models.Record{}})
		w := get(router, "/export.csv", login(t, router))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("requires session", func(t *testing.T) {
		router, _ := newTestRouter(t, &stubSource{records: testRecords})
		w := get(router, "/export.csv", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAPI(t *testing.T) {
	router, _ := newTestRouter(t, &stubSource{records: testRecords})
	cookie := login(t, router)

	t.Run("unauthorized", func(t *testing.T) {
		for _, target := range []string{"/api/v1/submissions", "/api/v1/summary"} {
			w := get(router, target, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code, target)
		}
	})

	t.Run("submissions", func(t *testing.T) {
		w := get(router, "/api/v1/submissions?q=S02", cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp struct {
			FetchedAt string                   `json:"fetched_at"`
			Rows      []map[string]interface{} `json:"rows"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.FetchedAt)
		require.Len(t, resp.Rows, 1)
		assert.Equal(t, "S02", resp.Rows[0]["student_id"])
		assert.EqualValues(t, 2, resp.Rows[0]["total_score"])
	})

	t.Run("summary", func(t *testing.T) {
		w := get(router, "/api/v1/summary", cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Summary struct {
				Submissions   int    `json:"submissions"`
				LatestStudent string `json:"latest_student"`
			} `json:"summary"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Summary.Submissions)
		assert.Equal(t, "S02", resp.Summary.LatestStudent)
	})
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, &stubSource{})
	w := get(router, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRoutesMethods(t *testing.T) {
	router, _ := newTestRouter(t, &stubSource{records: testRecords})
	r := httptest.NewRequest(http.MethodGet, "/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

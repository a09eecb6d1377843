package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense/store"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
	kakeiboHttp "github.com/MrJamesThe3rd/kakeibo/internal/http"
	analyticsHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/analytics"
	"github.com/MrJamesThe3rd/kakeibo/internal/http/auth"
	expenseHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/expense"
	settingsHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/settings"
	syncHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/sheetsync"
	transferHandler "github.com/MrJamesThe3rd/kakeibo/internal/http/transfer"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/sheetsync"
)

var fixedNow = time.Date(2024, 6, 20, 12, 0, 0, 0, time.UTC)

type server struct {
	handler http.Handler
	svc     *expense.Service
}

func newServer(t *testing.T, secret string) server {
	t.Helper()

	clock := func() time.Time { return fixedNow }
	svc := expense.NewService(store.NewMemory(), expense.WithClock(clock))
	require.NoError(t, svc.Init(context.Background()))

	syncSvc := sheetsync.NewService(sheetsync.NewClient("", time.Second), svc, "", nil)

	handler := kakeiboHttp.New(
		kakeiboHttp.Options{CORSOrigins: []string{"*"}, AuthSecret: secret},
		expenseHandler.NewHandler(svc),
		analyticsHandler.NewHandler(svc).WithClock(clock),
		settingsHandler.NewHandler(svc),
		transferHandler.NewHandler(export.NewService(svc, export.WithClock(clock)), importer.NewService(), svc),
		syncHandler.NewHandler(syncSvc, svc),
	)

	return server{handler: handler, svc: svc}
}

func (s server) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

type expenseBody struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Category     string `json:"category"`
	CategoryIcon string `json:"category_icon"`
	Amount       int64  `json:"amount"`
	Memo         string `json:"memo"`
}

func TestExpenses_CRUD(t *testing.T) {
	s := newServer(t, "")

	rec := s.do(t, http.MethodPost, "/api/v1/expenses/", `{"date":"2024-06-15","category":"食費","amount":1500,"memo":"<b>ランチ</b>"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[expenseBody](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "🍽️", created.CategoryIcon)
	assert.Equal(t, "&lt;b&gt;ランチ&lt;/b&gt;", created.Memo)

	rec = s.do(t, http.MethodGet, "/api/v1/expenses/"+created.ID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[expenseBody](t, rec))

	rec = s.do(t, http.MethodPatch, "/api/v1/expenses/"+created.ID, `{"amount":1800}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(1800), decode[expenseBody](t, rec).Amount)

	rec = s.do(t, http.MethodDelete, "/api/v1/expenses/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/expenses/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExpenses_Errors(t *testing.T) {
	s := newServer(t, "")

	type testCase struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}

	tests := []testCase{
		{name: "BadJSON", method: http.MethodPost, path: "/api/v1/expenses/", body: `{`, want: http.StatusBadRequest},
		{name: "UnknownCategory", method: http.MethodPost, path: "/api/v1/expenses/", body: `{"date":"2024-06-15","category":"旅行","amount":100}`, want: http.StatusBadRequest},
		{name: "ZeroAmount", method: http.MethodPost, path: "/api/v1/expenses/", body: `{"date":"2024-06-15","category":"食費","amount":0}`, want: http.StatusBadRequest},
		{name: "EmptyPatch", method: http.MethodPatch, path: "/api/v1/expenses/x", body: `{}`, want: http.StatusBadRequest},
		{name: "PatchMissing", method: http.MethodPatch, path: "/api/v1/expenses/x", body: `{"amount":5}`, want: http.StatusNotFound},
		{name: "DeleteMissing", method: http.MethodDelete, path: "/api/v1/expenses/x", want: http.StatusNotFound},
		{name: "WrongContentType", method: http.MethodPost, path: "/api/v1/expenses/", body: `x`, want: http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.name != "WrongContentType" && tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			} else if tt.body != "" {
				req.Header.Set("Content-Type", "text/plain")
			}

			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestExpenses_ListFilters(t *testing.T) {
	s := newServer(t, "")
	ctx := context.Background()

	for _, p := range []expense.CreateParams{
		{Date: "2024-06-01", Category: "食費", Amount: 500, Memo: "Coffee"},
		{Date: "2024-06-10", Category: "交通費", Amount: 300},
		{Date: "2024-06-15", Category: "食費", Amount: 1200, Memo: "ランチ"},
		{Date: "2024-05-30", Category: "食費", Amount: 900},
	} {
		_, err := s.svc.Add(ctx, p)
		require.NoError(t, err)
	}

	type testCase struct {
		name  string
		query string
		want  []string
	}

	tests := []testCase{
		{name: "All", query: "", want: []string{"2024-06-15", "2024-06-10", "2024-06-01", "2024-05-30"}},
		{name: "Range", query: "?start_date=2024-06-01&end_date=2024-06-10", want: []string{"2024-06-10", "2024-06-01"}},
		{name: "Category", query: "?category=" + url.QueryEscape("食費"), want: []string{"2024-06-15", "2024-06-01", "2024-05-30"}},
		{name: "Query", query: "?q=coffee", want: []string{"2024-06-01"}},
		{name: "NoMatch", query: "?category=" + url.QueryEscape("医療費"), want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, "/api/v1/expenses/"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)

			dates := []string{}
			for _, e := range decode[[]expenseBody](t, rec) {
				dates = append(dates, e.Date)
			}

			assert.Equal(t, tt.want, dates)
		})
	}
}

func TestClear(t *testing.T) {
	s := newServer(t, "")

	_, err := s.svc.Add(context.Background(), expense.CreateParams{Date: "2024-06-01", Category: "食費", Amount: 500})
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/api/v1/clear", `{"confirm":true}`)
	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	assert.Len(t, s.svc.LoadExpenses(context.Background()), 1)

	rec = s.do(t, http.MethodPost, "/api/v1/clear", `{"confirm":true,"confirm_again":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.svc.LoadExpenses(context.Background()))
}

func TestCategories(t *testing.T) {
	s := newServer(t, "")

	rec := s.do(t, http.MethodGet, "/api/v1/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)

	cats := decode[[]map[string]string](t, rec)
	require.Len(t, cats, 7)
	assert.Equal(t, "食費", cats[0]["name"])
	assert.Equal(t, "その他", cats[6]["name"])
}

func TestAnalytics(t *testing.T) {
	s := newServer(t, "")
	ctx := context.Background()

	for _, p := range []expense.CreateParams{
		{Date: "2024-06-02", Category: "食費", Amount: 1000},
		{Date: "2024-06-18", Category: "交通費", Amount: 500},
		{Date: "2024-06-19", Category: "食費", Amount: 500},
		{Date: "2024-05-10", Category: "娯楽費", Amount: 1000},
	} {
		_, err := s.svc.Add(ctx, p)
		require.NoError(t, err)
	}

	_, err := s.svc.UpdateSettings(ctx, expense.SettingsPatch{MonthlyBudget: new(int64(2400))})
	require.NoError(t, err)

	t.Run("Dashboard", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/analytics/dashboard", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var summary struct {
			MonthTotal    int64 `json:"monthTotal"`
			LastMonth     int64 `json:"lastMonthTotal"`
			ChangePercent int64 `json:"changePercent"`
			Count         int   `json:"count"`
			Budget        struct {
				Remaining    int64  `json:"remaining"`
				UsagePercent int64  `json:"usagePercent"`
				Level        string `json:"level"`
			} `json:"budget"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))

		assert.Equal(t, int64(2000), summary.MonthTotal)
		assert.Equal(t, int64(1000), summary.LastMonth)
		assert.Equal(t, int64(100), summary.ChangePercent)
		assert.Equal(t, 3, summary.Count)
		assert.Equal(t, int64(400), summary.Budget.Remaining)
		assert.Equal(t, int64(83), summary.Budget.UsagePercent)
		assert.Equal(t, "warning", summary.Budget.Level)
	})

	t.Run("CategoriesThisWeek", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/analytics/categories?period=week", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Total      int64 `json:"total"`
			Categories []struct {
				Category   string `json:"category"`
				Total      int64  `json:"total"`
				Percentage int64  `json:"percentage"`
			} `json:"categories"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

		assert.Equal(t, int64(1000), body.Total)
		require.Len(t, body.Categories, 2)
		assert.Equal(t, int64(50), body.Categories[0].Percentage)
	})

	t.Run("CategoriesLastMonth", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/analytics/categories?period=lastMonth", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"total":1000`)
		assert.Contains(t, rec.Body.String(), "娯楽費")
	})

	t.Run("CategoriesByMonth", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/analytics/categories?month=2024-05&period=week", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"start":"2024-05-01"`)
		assert.Contains(t, rec.Body.String(), `"end":"2024-05-31"`)
		assert.Contains(t, rec.Body.String(), `"total":1000`)

		rec = s.do(t, http.MethodGet, "/api/v1/analytics/categories?month=2024/05", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Monthly", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/v1/analytics/monthly", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[{"month":"2024-05","total":1000},{"month":"2024-06","total":2000}]`, rec.Body.String())
	})
}

func TestSettings(t *testing.T) {
	s := newServer(t, "")

	rec := s.do(t, http.MethodPatch, "/api/v1/settings/", `{"monthlyBudget":50000,"darkMode":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/settings/", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[expense.Settings](t, rec)
	assert.Equal(t, int64(50000), got.MonthlyBudget)
	assert.True(t, got.DarkMode)
	assert.Equal(t, "JPY", got.Currency)

	rec = s.do(t, http.MethodPatch, "/api/v1/settings/", `{"monthlyBudget":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/sync-config", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"lastSyncTime":null`)
}

func TestExportImport(t *testing.T) {
	s := newServer(t, "")
	ctx := context.Background()

	rec := s.do(t, http.MethodGet, "/api/v1/export/", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := s.svc.Add(ctx, expense.CreateParams{Date: "2024-06-01", Category: "食費", Amount: 500, Memo: "a, b"})
	require.NoError(t, err)

	rec = s.do(t, http.MethodGet, "/api/v1/export/?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "expenses_2024-06-20.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\ufeff"))

	exported := rec.Body.Bytes()

	rec = s.do(t, http.MethodGet, "/api/v1/export/?format=xml", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "expenses.csv")
	require.NoError(t, err)
	_, err = fw.Write(exported)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"imported":1}`, rec.Body.String())

	records := s.svc.LoadExpenses(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, records[0].Memo, records[1].Memo)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestSync_NotConfigured(t *testing.T) {
	s := newServer(t, "")

	rec := s.do(t, http.MethodPost, "/api/v1/sync/", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAuth(t *testing.T) {
	secret := "s3cret"
	s := newServer(t, secret)

	rec := s.do(t, http.MethodGet, "/api/v1/categories", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.IssueToken([]byte(secret), "owner", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

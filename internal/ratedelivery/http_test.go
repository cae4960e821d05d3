package ratedelivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/currencies"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/domain"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ledgerdelivery"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/raterefresh"
	"github.com/RazorRZZ/finalproject-shakurov-m25-555/internal/ratetable"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("currency", ledgerdelivery.ValidCurrency(currencies.Default()))
	}

	os.Exit(m.Run())
}

type stubRefresher struct {
	snap   domain.RateSnapshot
	err    error
	filter []string
}

func (s *stubRefresher) Refresh(_ context.Context, filter ...string) (domain.RateSnapshot, error) {
	s.filter = filter
	return s.snap, s.err
}

type stubHistory struct {
	records []domain.HistoryRecord
	pair    string
	limit   int
}

func (s *stubHistory) History(pairKey string, limit int) ([]domain.HistoryRecord, error) {
	s.pair = pairKey
	s.limit = limit

	return s.records, nil
}

func newTestRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	router.GET("/rates/history", handler.GetHistory)
	router.GET("/rates/:from/:to", handler.Get)
	router.POST("/rates/refresh", handler.Refresh)

	return router
}

func freshTable(t *testing.T) *ratetable.Table {
	t.Helper()

	table := ratetable.New(ratetable.DefaultTTL)
	table.Replace(domain.RateSnapshot{
		Pairs: map[string]domain.PairRate{
			"BTC_USD": {Rate: 50000, Source: "coingecko"},
		},
		LastRefresh: time.Now(),
	})

	return table
}

func TestGetRateHandler(t *testing.T) {
	testCases := []struct {
		name          string
		path          string
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "Direct",
			path: "/rates/BTC/USD",
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp struct {
					Data rateResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
				require.Equal(t, float64(50000), resp.Data.Rate)
				require.True(t, resp.Data.Fresh)
				require.Equal(t, "just now", resp.Data.UpdatedAt)
			},
		},
		{
			name: "Inverse",
			path: "/rates/USD/BTC",
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var resp struct {
					Data rateResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
				require.InDelta(t, 1.0/50000, resp.Data.Rate, 1e-12)
			},
		},
		{
			name: "UnknownPair",
			path: "/rates/ETH/USD",
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "SamePair",
			path: "/rates/USD/USD",
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "UnregisteredCurrency",
			path: "/rates/XYZ/USD",
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(NewHandler(freshTable(t), &stubRefresher{}, &stubHistory{}))

			request, err := http.NewRequest(http.MethodGet, tc.path, nil)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)
			tc.checkResponse(t, recorder)
		})
	}
}

func TestRefreshHandler(t *testing.T) {
	snap := domain.RateSnapshot{
		Pairs:       map[string]domain.PairRate{"BTC_USD": {Rate: 50000}},
		LastRefresh: time.Now(),
		Sources:     []string{"coingecko"},
	}

	refresher := &stubRefresher{snap: snap}
	router := newTestRouter(NewHandler(freshTable(t), refresher, &stubHistory{}))

	body, err := json.Marshal(gin.H{"sources": []string{"coingecko"}})
	require.NoError(t, err)

	request, err := http.NewRequest(http.MethodPost, "/rates/refresh", bytes.NewReader(body))
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, []string{"coingecko"}, refresher.filter)
}

func TestRefreshHandlerNoBody(t *testing.T) {
	refresher := &stubRefresher{}
	router := newTestRouter(NewHandler(freshTable(t), refresher, &stubHistory{}))

	request, err := http.NewRequest(http.MethodPost, "/rates/refresh", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Empty(t, refresher.filter)
}

func TestRefreshHandlerAllSourcesDown(t *testing.T) {
	refresher := &stubRefresher{err: raterefresh.ErrNoSourcesAvailable}
	router := newTestRouter(NewHandler(freshTable(t), refresher, &stubHistory{}))

	request, err := http.NewRequest(http.MethodPost, "/rates/refresh", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
}

func TestGetHistoryHandler(t *testing.T) {
	history := &stubHistory{records: []domain.HistoryRecord{
		{ID: "1", From: "BTC", To: "USD", Rate: 50000},
	}}

	router := newTestRouter(NewHandler(freshTable(t), &stubRefresher{}, history))

	request, err := http.NewRequest(http.MethodGet, "/rates/history?pair=BTC_USD&limit=10", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "BTC_USD", history.pair)
	require.Equal(t, 10, history.limit)
}

func TestGetHistoryHandlerDefaultLimit(t *testing.T) {
	history := &stubHistory{}
	router := newTestRouter(NewHandler(freshTable(t), &stubRefresher{}, history))

	request, err := http.NewRequest(http.MethodGet, "/rates/history", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, 100, history.limit)
}

func TestGetHistoryHandlerLimitTooLarge(t *testing.T) {
	router := newTestRouter(NewHandler(freshTable(t), &stubRefresher{}, &stubHistory{}))

	request, err := http.NewRequest(http.MethodGet, "/rates/history?limit=5000", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHumanAge(t *testing.T) {
	require.Equal(t, "no data", humanAge(0, false))
	require.Equal(t, "just now", humanAge(30*time.Second, true))
	require.Equal(t, "5 minutes ago", humanAge(5*time.Minute, true))
	require.Equal(t, "2 hours ago", humanAge(150*time.Minute, true))
}

package balances

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/saturn-labs/treasury/config/ring"
	"github.com/saturn-labs/treasury/pkg/logger"
)

const testAddress = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"

func balancesBody(symbol, total string) string {
	return fmt.Sprintf(`[{%q:{"freeBalance":%q,"reservedBalance":"0","frozenFee":"0","totalBalance":%q}}]`,
		symbol, total, total)
}

// newServer serves the balances of testAddress for every ring in cfg. Requests for networks in
// fail get the given status code.
func newServer(t *testing.T, cfg *ring.Config, fail map[string]int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		path := strings.TrimPrefix(r.URL.Path, "/"+testAddress)
		for _, rg := range cfg.Rings() {
			if rg.BalancesPath != path {
				continue
			}
			if code, ok := fail[rg.Name]; ok {
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"error":"failed"}`))

				return
			}

			w.Header().Set("Content-Type", "application/json")
			_, err := w.Write([]byte(balancesBody(rg.NativeAsset, "1500000000000")))
			assert.NoError(t, err)

			return
		}

		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func newTestClient(t *testing.T, baseURL string, cfg *ring.Config) *Client {
	t.Helper()

	return NewClient(baseURL+"/", cfg, logger.Test(t),
		WithTimeout(2*time.Second),
		WithRetry(3, time.Millisecond),
	)
}

func Test_Client_FetchNetwork(t *testing.T) {
	t.Parallel()

	cfg := ring.Default()
	server, hits := newServer(t, cfg, nil)
	client := newTestClient(t, server.URL, cfg)

	tinkernet, err := cfg.Ring("tinkernet")
	require.NoError(t, err)

	got, err := client.FetchNetwork(t.Context(), testAddress, tinkernet)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int32(1), hits.Load())

	rec, ok := got.Lookup("TNKR")
	require.True(t, ok)
	assert.Equal(t, "1500000000000", rec.TotalBalance)

	total, err := rec.Total(tinkernet.Decimals)
	require.NoError(t, err)
	assert.Equal(t, "1.5", total.String())

	_, ok = got.Lookup("KSM")
	assert.False(t, ok)
}

func Test_Client_FetchNetwork_RetriesServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)

			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(balancesBody("KSM", "42")))
	}))
	defer server.Close()

	cfg := ring.Default()
	lggr, observed := logger.TestObserved(t, zapcore.WarnLevel)
	client := NewClient(server.URL+"/", cfg, lggr, WithRetry(3, time.Millisecond))

	kusama, err := cfg.Ring("kusama")
	require.NoError(t, err)

	got, err := client.FetchNetwork(t.Context(), testAddress, kusama)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, observed.FilterMessage("Balances request failed. Retrying...").Len())

	rec, ok := got.Lookup("KSM")
	require.True(t, ok)
	assert.Equal(t, "42", rec.FreeBalance)
}

func Test_Client_FetchNetwork_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		wantCalls int32
		wantErr   string
	}{
		{
			name:      "client error is not retried",
			status:    http.StatusNotFound,
			wantCalls: 1,
			wantErr:   "unexpected status 404",
		},
		{
			name:      "rate limit is retried",
			status:    http.StatusTooManyRequests,
			wantCalls: 3,
			wantErr:   "unexpected status 429",
		},
		{
			name:      "server error exhausts attempts",
			status:    http.StatusInternalServerError,
			wantCalls: 3,
			wantErr:   "unexpected status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := ring.Default()
			server, hits := newServer(t, cfg, map[string]int{"picasso": tt.status})
			client := newTestClient(t, server.URL, cfg)

			picasso, err := cfg.Ring("picasso")
			require.NoError(t, err)

			_, err = client.FetchNetwork(t.Context(), testAddress, picasso)
			require.ErrorContains(t, err, "failed to fetch picasso balances")
			require.ErrorContains(t, err, tt.wantErr)

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
			assert.Equal(t, tt.wantCalls, hits.Load())
		})
	}
}

func Test_Client_FetchNetwork_ContextCancelled(t *testing.T) {
	t.Parallel()

	cfg := ring.Default()
	server, _ := newServer(t, cfg, nil)
	client := newTestClient(t, server.URL, cfg)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.FetchNetwork(ctx, testAddress, cfg.Native())
	require.ErrorIs(t, err, context.Canceled)
}

func Test_Client_FetchAll(t *testing.T) {
	t.Parallel()

	cfg := ring.Default()
	server, hits := newServer(t, cfg, nil)
	client := newTestClient(t, server.URL, cfg)

	got, err := client.FetchAll(t.Context(), testAddress)
	require.NoError(t, err)
	assert.Len(t, got, len(cfg.Names()))
	assert.Equal(t, int32(len(cfg.Names())), hits.Load())

	for _, r := range cfg.Rings() {
		result, ok := got[r.Name]
		require.True(t, ok, r.Name)

		rec, ok := result.Lookup(r.NativeAsset)
		require.True(t, ok, r.Name)
		assert.Equal(t, "1500000000000", rec.TotalBalance)
	}
}

func Test_Client_FetchAll_Failure(t *testing.T) {
	t.Parallel()

	cfg := ring.Default()
	server, _ := newServer(t, cfg, map[string]int{"moonbeam": http.StatusBadRequest})
	client := newTestClient(t, server.URL, cfg)

	got, err := client.FetchAll(t.Context(), testAddress)
	require.ErrorContains(t, err, "failed to fetch moonbeam balances")
	assert.Nil(t, got)
}

func Test_Record_Total(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		record   Record
		decimals int32
		want     string
		wantErr  string
	}{
		{
			name:     "scaled",
			record:   Record{TotalBalance: "123456789000000"},
			decimals: 12,
			want:     "123.456789",
		},
		{
			name:     "eighteen decimals",
			record:   Record{TotalBalance: "1000000000000000000"},
			decimals: 18,
			want:     "1",
		},
		{
			name:     "empty is zero",
			record:   Record{},
			decimals: 12,
			want:     "0",
		},
		{
			name:     "not an integer",
			record:   Record{TotalBalance: "1.5"},
			decimals: 12,
			wantErr:  `balance "1.5" is not an integer`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.record.Total(tt.decimals)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func Test_Record_Free(t *testing.T) {
	t.Parallel()

	got, err := Record{FreeBalance: "2500000000000"}.Free(12)
	require.NoError(t, err)
	assert.Equal(t, "2.5", got.String())
}

func Test_NewClient_Options(t *testing.T) {
	t.Parallel()

	client := NewClient("https://sub.id/api/v1/", ring.Default(), logger.Nop(),
		WithTimeout(3*time.Second),
		WithRetry(5, 0),
		WithDebug(true),
	)

	assert.True(t, client.client.Debug)
	assert.Equal(t, 3*time.Second, client.client.GetClient().Timeout)
	assert.Equal(t, uint(5), client.attempts)
	assert.Equal(t, defaultRetryDelay, client.delay)

	defaults := NewClient("https://sub.id/api/v1/", ring.Default(), logger.Nop())
	assert.False(t, defaults.client.Debug)
	assert.Equal(t, uint(defaultRetryAttempts), defaults.attempts)
}

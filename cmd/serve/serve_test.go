package serve_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/budget-rollup/cmd/serve"
	"fjacquet/budget-rollup/internal/config"
	"fjacquet/budget-rollup/internal/container"
	"fjacquet/budget-rollup/internal/logging"
	"fjacquet/budget-rollup/internal/report"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, csv string) (*container.Container, string) {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "items.csv")
	require.NoError(t, os.WriteFile(input, []byte(csv), 0600))

	cfg := config.Default()
	cfg.Classification.FunctionalFile = filepath.Join(dir, "absent.yaml")
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	return c, input
}

func TestCommand_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serve.Cmd.Use)
	assert.NotNil(t, serve.Cmd.RunE)
	assert.NotNil(t, serve.Cmd.Flags().Lookup("address"))
	assert.NotNil(t, serve.Cmd.Flags().Lookup("refresh"))
}

func TestNewServer_ReloadRereadsInput(t *testing.T) {
	c, input := setup(t, "account_category,amount,functional_code,functional_name,economic_code,economic_name\nch,10,65.01,Scoli,,\n")
	s := serve.NewServer(c, input)
	require.NoError(t, s.Reload(context.Background()))

	base := func() float64 {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/breakdown/ch", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var b report.Breakdown
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		return b.Base
	}
	assert.InDelta(t, 10, base(), 1e-9)

	require.NoError(t, os.WriteFile(input, []byte("account_category,amount,functional_code,functional_name,economic_code,economic_name\nch,25,65.01,Scoli,,\n"), 0600))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 25, base(), 1e-9)
}

func TestServe_Errors(t *testing.T) {
	c, _ := setup(t, "")

	err := serve.Serve(context.Background(), c, filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, input := setup(t, "account_category,amount\n")
	c.GetConfig().Server.RefreshSchedule = "whenever"
	err = serve.Serve(context.Background(), c, input)
	assert.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	c, input := setup(t, "account_category,amount\nch,1\n")
	c.GetConfig().Server.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve.Serve(ctx, c, input) }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}

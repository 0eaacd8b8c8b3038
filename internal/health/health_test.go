// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker struct {
	name   string
	result CheckResult
}

func (c staticChecker) Name() string                      { return c.name }
func (c staticChecker) Check(context.Context) CheckResult { return c.result }

func TestHealthAlways200(t *testing.T) {
	m := NewManager("test")
	m.RegisterChecker(staticChecker{name: "db", result: CheckResult{Status: StatusUnhealthy}})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest("GET", "/healthz", nil))
	assert.Equal(t, 200, rec.Code, "liveness ignores component state")

	resp := m.Health(context.Background(), true)
	assert.Equal(t, StatusUnhealthy, resp.Status, "verbose mode surfaces components")
}

func TestReadyDegradedStillReady(t *testing.T) {
	m := NewManager("test")
	m.RegisterChecker(staticChecker{name: "telegram", result: CheckResult{Status: StatusDegraded}})

	resp := m.Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
}

func TestReadyUnhealthy503(t *testing.T) {
	m := NewManager("test")
	m.RegisterChecker(staticChecker{name: "db", result: CheckResult{Status: StatusUnhealthy, Error: "gone"}})

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest("GET", "/readyz", nil))
	assert.Equal(t, 503, rec.Code)
}

func TestReadyNoCheckers(t *testing.T) {
	m := NewManager("test")
	resp := m.Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusHealthy, resp.Status)
}

func TestTelegramCheckerDegrades(t *testing.T) {
	c := NewTelegramChecker(func(context.Context) error { return errors.New("timeout") })
	res := c.Check(context.Background())
	assert.Equal(t, StatusDegraded, res.Status)

	ok := NewTelegramChecker(func(context.Context) error { return nil })
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)
}

func TestPerformStartupChecks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, PerformStartupChecks(filepath.Join(dir, "data", "bot.db")))
}

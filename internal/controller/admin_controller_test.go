// FILE: internal/controller/admin_controller_test.go
package controller

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"
	"ai-docchat-be/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

type adminFixture struct {
	app       *fiber.App
	documents *store.DocumentStore
	activity  *store.ActivityTracker
	cleanup   service.ICleanupService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	documents := store.NewDocumentStore()
	activity := store.NewActivityTracker()
	cleanup := service.NewCleanupService(documents, activity, nil, nopLogger{}, t.TempDir(), time.Hour)
	t.Cleanup(cleanup.Stop)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewAdminController(cleanup, documents, activity, "openai").RegisterRoutes(api)

	return &adminFixture{app: app, documents: documents, activity: activity, cleanup: cleanup}
}

func TestScheduleCleanupValidatesInterval(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"zero interval", `{"interval_minutes":0}`, fiber.StatusBadRequest},
		{"above one day", `{"interval_minutes":2000}`, fiber.StatusBadRequest},
		{"valid", `{"interval_minutes":60}`, fiber.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newAdminFixture(t)

			req := httptest.NewRequest("POST", "/api/admin/v1/cleanup/schedule", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := f.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestScheduleCleanupArmsScheduler(t *testing.T) {
	f := newAdminFixture(t)

	req := httptest.NewRequest("POST", "/api/admin/v1/cleanup/schedule", strings.NewReader(`{"interval_minutes":15}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	interval, running := f.cleanup.SchedulerState()
	assert.Equal(t, 15*time.Minute, interval)
	assert.True(t, running)
}

func TestForceCleanupReturnsReport(t *testing.T) {
	f := newAdminFixture(t)

	req := httptest.NewRequest("POST", "/api/admin/v1/cleanup", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope serverutils.BaseResponse[dto.CleanupReport]
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.False(t, envelope.Data.Skipped)
}

func TestStatsCountsStoreAndTracker(t *testing.T) {
	f := newAdminFixture(t)
	f.documents.AddDocument("s1", &store.Document{ID: "d1", Filename: "a.txt", Chunks: []string{"x"}})
	f.documents.AddDocument("s1", &store.Document{ID: "d2", Filename: "b.txt", Chunks: []string{"y"}})
	f.activity.Touch("s1")
	f.activity.Touch("s2")

	req := httptest.NewRequest("GET", "/api/admin/v1/stats", nil)
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var envelope serverutils.BaseResponse[dto.StatsResponse]
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &envelope))

	assert.Equal(t, 2, envelope.Data.SessionsTracked)
	assert.Equal(t, 1, envelope.Data.SessionsWithDocs)
	assert.Equal(t, 2, envelope.Data.DocumentsStored)
	assert.Equal(t, "openai", envelope.Data.Provider)
	assert.False(t, envelope.Data.CleanupSchedulerLive)
}

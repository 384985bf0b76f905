package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lenslog/internal/handler"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouterTest(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	api := handler.NewAPI(gdb, t.TempDir(), "/static/uploads")
	return SetupRouter(api, Options{
		SessionSecret: "test-secret",
		StaticDir:     staticDir,
	})
}

func TestSetupRouterPing(t *testing.T) {
	r := setupRouterTest(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body["message"] != "pong" {
		t.Fatalf("unexpected message %q", body["message"])
	}
}

func TestSetupRouterServesStaticFiles(t *testing.T) {
	staticDir := t.TempDir()
	fileName := "example.txt"
	fileContent := []byte("hello static")
	if err := os.WriteFile(filepath.Join(staticDir, fileName), fileContent, 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r := setupRouterTest(t, staticDir)

	req := httptest.NewRequest(http.MethodGet, "/static/"+fileName, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if rr.Body.String() != string(fileContent) {
		t.Fatalf("unexpected body, got %q", rr.Body.String())
	}
}

func TestSetupRouterGuardsAdminAPI(t *testing.T) {
	r := setupRouterTest(t, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/admin/api/images", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusFound {
		t.Fatalf("expected redirect for anonymous request, got %d", rr.Code)
	}
	if location := rr.Header().Get("Location"); location != "/admin/login" {
		t.Fatalf("expected redirect to login page, got %q", location)
	}
}

package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"meddata/internal/config"
	"meddata/internal/database/dbtest"
	"meddata/internal/models"
	"meddata/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:         "test_jwt_secret",
			Algorithm:      "HS256",
			AccessTokenTTL: 30 * time.Minute,
		},
		Upload: config.UploadConfig{Dir: "uploads", URLPrefix: "/uploads", MaxBytes: 1 << 20},
		CORS:   config.CORSConfig{AllowOrigins: "*"},
	}
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	app, err := server.New(testConfig(), server.Dependencies{DB: dbtest.Open(t), Files: afero.NewMemMapFs(), Log: log})
	require.NoError(t, err)
	return app
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request, out interface{}) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	resp := doJSON(t, app, httptest.NewRequest(http.MethodGet, "/health", nil), &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
}

func TestUnauthenticatedAccess(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/records", "/profile/me", "/vitals", "/reminders", "/courses", "/complaints", "/users/me", "/diagnoses/find-icd?q=a"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"), path)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/allergies", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadedAttachmentIsServed(t *testing.T) {
	app := newTestApp(t)

	register, _ := json.Marshal(map[string]string{"email": "files@example.com", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(register))
	req.Header.Set("Content-Type", "application/json")
	resp := doJSON(t, app, req, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/token", bytes.NewBufferString("username=files@example.com&password=password123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var token models.TokenResponse
	resp = doJSON(t, app, req, &token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("resource_type", "Observation"))
	require.NoError(t, w.WriteField("date", "2024-02-03"))
	part, err := w.CreateFormFile("file", "result.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("hemoglobin 140"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req = httptest.NewRequest(http.MethodPost, "/records", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	var record models.Record
	resp = doJSON(t, app, req, &record)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, record.AttachmentURL)
	assert.Regexp(t, `^/uploads/\d+_\d+\.txt$`, *record.AttachmentURL)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, *record.AttachmentURL, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	served, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hemoglobin 140", string(served))
}

func TestCORSPreflight(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/records", nil)
	req.Header.Set("Origin", "https://clinic.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/NizanHulq/portfolio-web/database"
	"github.com/NizanHulq/portfolio-web/errs"
	"github.com/NizanHulq/portfolio-web/models"
	"github.com/NizanHulq/portfolio-web/services"
)

const (
	testPassword = "correct"
	testSecret   = "test-secret"
)

type fakeRelay struct {
	received []services.Message
	answer   string
	err      error
}

func (f *fakeRelay) Reply(ctx context.Context, history []services.Message) (string, error) {
	f.received = history
	return f.answer, f.err
}

type fakeUploader struct {
	keys         []string
	contentTypes []string
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	return "https://cdn.example.com/" + key, nil
}

func newTestRouter(t *testing.T) (*chi.Mux, *fakeRelay, *fakeUploader) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Project{},
		&models.Experience{},
		&models.Skill{},
		&models.Setting{},
		&models.AIContextFragment{},
	))

	db := database.New(gdb)
	cache := services.NewContextCache(db, services.DefaultContextTTL)
	relay := &fakeRelay{answer: "Hi there!"}
	uploader := &fakeUploader{}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := map[string]string{
		"SESSION_SECRET":      testSecret,
		"ADMIN_PASSWORD_HASH": string(hash),
		"ACCEPTED_ORIGINS":    "*",
	}

	router := newRouter(db, cache, relay, uploader, withConfig(cfg), withStartupTime(time.Now()))
	return router, relay, uploader
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()

	rec, body := doJSON(t, router, http.MethodPost, "/api/admin/auth", "", map[string]string{"password": testPassword})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAuthRejectsWrongPassword(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/admin/auth", "", map[string]string{"password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid password", body["error"])
}

func TestAdminEndToEndCRUD(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := loginToken(t, router)

	rec, body := doJSON(t, router, http.MethodPost, "/api/admin/projects", token,
		map[string]any{"title": "X", "category": "web2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := body["data"].([]any)[0].(map[string]any)
	id := created["id"].(float64)
	assert.NotZero(t, id)
	assert.Equal(t, "X", created["title"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "X", rows[0].(map[string]any)["title"])

	rec, body = doJSON(t, router, http.MethodPut, "/api/admin/projects", token,
		map[string]any{"id": id, "title": "Y"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := body["data"].([]any)
	require.Len(t, updated, 1)
	assert.Equal(t, "Y", updated[0].(map[string]any)["title"])

	rec, body = doJSON(t, router, http.MethodDelete, "/api/admin/projects", token,
		map[string]any{"id": id})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["data"])
}

func TestAdminKeyIdentifiedCollections(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := loginToken(t, router)

	rec, _ := doJSON(t, router, http.MethodPost, "/api/admin/settings", token,
		map[string]any{"key": "cv_link", "value": "old"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// update must match on key
	rec, body := doJSON(t, router, http.MethodPut, "/api/admin/settings", token,
		map[string]any{"key": "cv_link", "value": "new"})
	require.Equal(t, http.StatusOK, rec.Code)
	rows := body["data"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "new", rows[0].(map[string]any)["value"])

	// missing key is rejected before storage
	rec, _ = doJSON(t, router, http.MethodPut, "/api/admin/settings", token,
		map[string]any{"value": "newer"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/admin/settings", token,
		map[string]any{"key": "cv_link"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = doJSON(t, router, http.MethodGet, "/api/admin/settings", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body["data"])
}

func TestAdminRejectsUnknownTable(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := loginToken(t, router)

	rec, _ := doJSON(t, router, http.MethodGet, "/api/admin/users", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRejectsWriteWithoutIdentity(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := loginToken(t, router)

	rec, _ := doJSON(t, router, http.MethodPut, "/api/admin/projects", token,
		map[string]any{"title": "no id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/admin/projects", token,
		map[string]any{"title": "no id"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminUniform401(t *testing.T) {
	router, _, _ := newTestRouter(t)

	// no token
	rec, _ := doJSON(t, router, http.MethodGet, "/api/admin/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// forged unsigned token of the shape the old site accepted
	forged := base64.StdEncoding.EncodeToString([]byte(
		fmt.Sprintf(`{"authenticated":true,"exp":%d}`, time.Now().Add(time.Hour).UnixMilli())))
	rec, _ = doJSON(t, router, http.MethodGet, "/api/admin/projects", forged, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// expired signed token
	expired, err := issueSessionToken([]byte(testSecret), time.Now().Add(-25*time.Hour))
	require.NoError(t, err)
	rec, _ = doJSON(t, router, http.MethodGet, "/api/admin/projects", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token signed with a different secret
	other, err := issueSessionToken([]byte("other-secret"), time.Now())
	require.NoError(t, err)
	rec, _ = doJSON(t, router, http.MethodGet, "/api/admin/projects", other, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChatEndpoint(t *testing.T) {
	router, relay, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodPost, "/api/chat", "",
		map[string]any{"messages": []services.Message{{Role: "user", Content: "hi"}}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Hi there!", body["message"])
	require.Len(t, relay.received, 1)

	rec, body = doJSON(t, router, http.MethodPost, "/api/chat", "",
		map[string]any{"messages": []services.Message{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
}

func TestChatSurfacesRateLimitDistinctly(t *testing.T) {
	router, relay, _ := newTestRouter(t)
	relay.err = errs.NewRateLimitedError("Too many requests. Please wait a moment and try again.")

	rec, body := doJSON(t, router, http.MethodPost, "/api/chat", "",
		map[string]any{"messages": []services.Message{{Role: "user", Content: "hi"}}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Too many requests. Please wait a moment and try again.", body["error"])
}

func uploadRequest(t *testing.T, token, filename, contentType string, payload []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadRejectsSVG(t *testing.T) {
	router, _, uploader := newTestRouter(t)
	token := loginToken(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, token, "logo.svg", "image/svg+xml", []byte("<svg/>")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, uploader.keys, "nothing should be persisted")
}

func TestUploadStoresImage(t *testing.T) {
	router, _, uploader := newTestRouter(t)
	token := loginToken(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, token, "Shot 1.PNG", "image/png", []byte("fake-png-bytes")))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["filename"])
	assert.True(t, strings.HasPrefix(body["imageUrl"].(string), "https://cdn.example.com/projects/"))

	require.Len(t, uploader.keys, 1)
	assert.True(t, strings.HasPrefix(uploader.keys[0], "projects/"))
	assert.True(t, strings.HasSuffix(uploader.keys[0], ".png"))
	assert.Equal(t, "image/png", uploader.contentTypes[0])
}

func TestUploadRequiresAuth(t *testing.T) {
	router, _, uploader := newTestRouter(t)

	req := uploadRequest(t, "not-a-token", "a.png", "image/png", []byte("x"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, uploader.keys)
}

func TestPublicContentEndpoints(t *testing.T) {
	router, _, _ := newTestRouter(t)
	token := loginToken(t, router)

	for _, body := range []map[string]any{
		{"title": "A", "category": "web2", "is_featured": true, "order_index": 2},
		{"title": "B", "category": "web3", "order_index": 1},
	} {
		rec, _ := doJSON(t, router, http.MethodPost, "/api/admin/projects", token, body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, resp := doJSON(t, router, http.MethodGet, "/api/projects", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := resp["data"].([]any)
	require.Len(t, rows, 2)
	// public reads order by order_index, not id
	assert.Equal(t, "B", rows[0].(map[string]any)["title"])

	rec, resp = doJSON(t, router, http.MethodGet, "/api/projects?category=web3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp["data"].([]any), 1)

	rec, resp = doJSON(t, router, http.MethodGet, "/api/projects?featured=true", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp["data"].([]any), 1)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/projects?category=web4", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doJSON(t, router, http.MethodGet, "/api/settings", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminWriteInvalidatesContextCache(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Project{},
		&models.Experience{},
		&models.Skill{},
		&models.Setting{},
		&models.AIContextFragment{},
	))

	db := database.New(gdb)
	cache := services.NewContextCache(db, time.Hour)
	handler := newAdminHandler(db.CollectionStore(), cache)

	router := chi.NewRouter()
	router.Post("/api/admin/{table}", handler.create())

	before := cache.Prompt()
	assert.NotContains(t, before, "Witty and concise")

	rec, _ := doJSON(t, router, http.MethodPost, "/api/admin/ai_context", "",
		map[string]any{"category": "personality", "key": "tone", "value": "Witty and concise"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// the write cleared the cache, so the fragment shows up before the TTL
	after := cache.Prompt()
	assert.Contains(t, after, "Witty and concise")
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec, body := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
}

package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userapp "github.com/oksasatya/user-admin/internal/application"
	"github.com/oksasatya/user-admin/internal/infrastructure/memory"
	"github.com/oksasatya/user-admin/internal/infrastructure/storage"
	"github.com/oksasatya/user-admin/internal/interface/presenter"
	"github.com/oksasatya/user-admin/pkg/validation"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

type fixture struct {
	engine *gin.Engine
	blobs  *storage.MemoryStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	blobs := storage.NewMemoryStore()
	svc := userapp.NewService(memory.NewUserRepository(), blobs, nil)
	svc.MaxImageBytes = 1024
	h := NewUserHandler(svc, presenter.NewUserPresenter(blobs.URL), nil, 1024)

	r := gin.New()
	g := r.Group("/api/users")
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.POST("/:id", h.Update)
	g.POST("/:id/status", h.SetStatus)
	g.DELETE("/:id", h.Delete)
	return &fixture{engine: r, blobs: blobs}
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func (f *fixture) do(t *testing.T, method, path string, body *bytes.Buffer, contentType string) (int, envelope) {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (f *fixture) create(t *testing.T, name, email string, image []byte) presenter.UserView {
	t.Helper()
	body, ct := multipartBody(t, map[string]string{
		"name":                  name,
		"email":                 email,
		"password":              "password1",
		"password_confirmation": "password1",
	}, image)
	code, env := f.do(t, http.MethodPost, "/api/users", body, ct)
	require.Equal(t, http.StatusCreated, code, env.Error)

	var v presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann Lee", "Ann@X.com", pngBytes)
	bea := f.create(t, "bea", "bea@x.com", nil)

	assert.Equal(t, "ann@x.com", ann.Email)
	assert.Equal(t, "AL", ann.Initials)
	assert.Equal(t, presenter.LabelActive, ann.StatusLabel)
	require.NotNil(t, ann.AvatarURL)
	assert.True(t, strings.HasPrefix(*ann.AvatarURL, "/storage/profiles/"))
	assert.Nil(t, bea.AvatarURL)
	assert.Len(t, f.blobs.Keys(), 1)

	code, env := f.do(t, http.MethodGet, "/api/users", nil, "")
	require.Equal(t, http.StatusOK, code)
	var views []presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 2)
	assert.Equal(t, bea.ID, views[0].ID)
	assert.Equal(t, ann.ID, views[1].ID)
}

func TestCreateValidationErrors(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Ann", "ann@x.com", nil)

	body, ct := multipartBody(t, map[string]string{
		"name":                  " ",
		"email":                 "ann@x.com",
		"password":              "short",
		"password_confirmation": "short",
	}, []byte("GIF89a\x01\x00\x01\x00\x80\x00\x00"))
	code, env := f.do(t, http.MethodPost, "/api/users", body, ct)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.False(t, env.Success)
	assert.Equal(t, "is required", env.Error["name"])
	assert.Equal(t, "has already been taken", env.Error["email"])
	assert.Equal(t, "must be at least 8 characters long", env.Error["password"])
	assert.Equal(t, "must be a file of type: png, jpg, jpeg", env.Error["image"])
}

func TestCreateRejectsNonFileImage(t *testing.T) {
	f := newFixture(t)
	body, ct := multipartBody(t, map[string]string{
		"name":                  "Ann",
		"email":                 "ann@x.com",
		"password":              "password1",
		"password_confirmation": "password1",
		"image":                 "not-a-file",
	}, nil)
	code, env := f.do(t, http.MethodPost, "/api/users", body, ct)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "must be a file", env.Error["image"])
}

func TestCreateRejectsOversizedImage(t *testing.T) {
	f := newFixture(t)
	big := append(append([]byte{}, pngBytes...), make([]byte, 2048)...)
	body, ct := multipartBody(t, map[string]string{
		"name":                  "Ann",
		"email":                 "ann@x.com",
		"password":              "password1",
		"password_confirmation": "password1",
	}, big)
	code, env := f.do(t, http.MethodPost, "/api/users", body, ct)

	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "may not be greater than 1 kilobytes", env.Error["image"])
	assert.Empty(t, f.blobs.Keys())
}

func TestUpdateReplacesAvatar(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann", "ann@x.com", pngBytes)
	oldKeys := f.blobs.Keys()
	require.Len(t, oldKeys, 1)

	body, ct := multipartBody(t, map[string]string{"name": "Ann Lee", "email": "ann@x.com"}, pngBytes)
	code, env := f.do(t, http.MethodPost, "/api/users/"+ann.ID, body, ct)
	require.Equal(t, http.StatusOK, code, env.Error)

	var v presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "Ann Lee", v.Name)

	keys := f.blobs.Keys()
	require.Len(t, keys, 1)
	assert.NotEqual(t, oldKeys[0], keys[0])
}

func TestUpdateJSONWithoutImage(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann", "ann@x.com", nil)

	body := bytes.NewBufferString(`{"name":"Ann B","email":"annb@x.com"}`)
	code, env := f.do(t, http.MethodPut, "/api/users/"+ann.ID, body, "application/json")
	require.Equal(t, http.StatusOK, code, env.Error)

	var v presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.Equal(t, "annb@x.com", v.Email)
	assert.Equal(t, "AB", v.Initials)
}

func TestUpdateUnknownUser(t *testing.T) {
	f := newFixture(t)
	body := bytes.NewBufferString(`{"name":"Ann","email":"ann@x.com"}`)

	code, _ := f.do(t, http.MethodPut, "/api/users/"+uuid.NewString(), body, "application/json")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodPut, "/api/users/not-a-uuid", bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann", "ann@x.com", nil)

	code, env := f.do(t, http.MethodPost, "/api/users/"+ann.ID+"/status",
		bytes.NewBufferString(`{"status":"block"}`), "application/json")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User has been block", env.Message)

	var v presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &v))
	assert.False(t, v.IsActive)
	assert.Equal(t, presenter.LabelInactive, v.StatusLabel)

	code, env = f.do(t, http.MethodPost, "/api/users/"+ann.ID+"/status",
		bytes.NewBufferString("status=activate"), "application/x-www-form-urlencoded")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User has been activate", env.Message)
}

func TestSetStatusValidation(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann", "ann@x.com", nil)

	code, env := f.do(t, http.MethodPost, "/api/users/"+ann.ID+"/status",
		bytes.NewBufferString(`{}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "is required", env.Error["status"])

	code, env = f.do(t, http.MethodPost, "/api/users/"+ann.ID+"/status",
		bytes.NewBufferString(`{"status":"blocked"}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "must be one of: activate, block", env.Error["status"])
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ann := f.create(t, "Ann", "ann@x.com", pngBytes)

	code, env := f.do(t, http.MethodDelete, "/api/users/"+ann.ID, nil, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "User has been deleted successfully", env.Message)
	assert.Empty(t, f.blobs.Keys())

	code, _ = f.do(t, http.MethodDelete, "/api/users/"+ann.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSearchFallsBackToList(t *testing.T) {
	f := newFixture(t)
	f.create(t, "Ann Lee", "ann@x.com", nil)
	f.create(t, "Bea", "bea@x.com", nil)

	code, env := f.do(t, http.MethodGet, "/api/users/search?q=lee", nil, "")
	require.Equal(t, http.StatusOK, code)
	var views []presenter.UserView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Ann Lee", views[0].Name)
}

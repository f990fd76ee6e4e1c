package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"serveur/internal/core"
)

func setupMenuTestRouter(t *testing.T, debug bool) (*gin.Engine, *testEnv) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := newTestEnv(t, bistroDocument())
	handler := NewHandler(env.service, HandlerConfig{
		BaseURL:     "http://localhost:8000",
		FrontendURL: "http://localhost:5173/",
		Debug:       debug,
	}, zap.NewNop().Sugar())

	r := gin.New()
	r.POST("/api/menus", handler.Create)
	r.GET("/api/public/menus/:slug", handler.GetPublic)
	r.GET("/menu/:slug", handler.RedirectPublic)
	r.GET("/robots.txt", handler.Robots)
	r.GET("/sitemap.xml", handler.Sitemap)

	return r, env
}

func multipartUpload(t *testing.T, fields map[string]string, pdf []byte, contentType string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if pdf != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="pdf"; filename="menu.pdf"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(pdf)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/menus", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func createViaHTTP(t *testing.T, r *gin.Engine) CreateResult {
	t.Helper()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartUpload(t, map[string]string{"restaurant_name": "Café", "languages": "en"}, minimalPDF, "application/pdf"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res CreateResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	return res
}

func TestCreateHandler(t *testing.T) {
	r, _ := setupMenuTestRouter(t, false)

	res := createViaHTTP(t, r)

	assert.NotZero(t, res.MenuID)
	assert.NotEmpty(t, res.Slug)
	assert.Equal(t, "http://localhost:8000/menu/"+res.Slug, res.PublicURL)
	assert.NotEmpty(t, res.QRURL)
}

func TestCreateHandler_ClientErrors(t *testing.T) {
	r, _ := setupMenuTestRouter(t, false)

	cases := map[string]*http.Request{
		"missing name": multipartUpload(t, map[string]string{}, minimalPDF, "application/pdf"),
		"missing file": multipartUpload(t, map[string]string{"restaurant_name": "X"}, nil, ""),
		"not a pdf":    multipartUpload(t, map[string]string{"restaurant_name": "X"}, bytes.Repeat([]byte("x"), 300), "application/pdf"),
		"too small":    multipartUpload(t, map[string]string{"restaurant_name": "X"}, []byte("%PDF-1.4"), "application/pdf"),
		"wrong type":   multipartUpload(t, map[string]string{"restaurant_name": "X"}, minimalPDF, "image/jpeg"),
	}

	for name, req := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestCreateHandler_ServerErrorDetailOnlyInDebug(t *testing.T) {
	for _, debug := range []bool{false, true} {
		r, env := setupMenuTestRouter(t, debug)
		env.extractor.err = assert.AnError

		w := httptest.NewRecorder()
		r.ServeHTTP(w, multipartUpload(t, map[string]string{"restaurant_name": "X"}, minimalPDF, "application/pdf"))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "menu creation failed", body["error"])
		_, hasDetail := body["detail"]
		assert.Equal(t, debug, hasDetail)
	}
}

func TestGetPublicHandler(t *testing.T) {
	r, _ := setupMenuTestRouter(t, false)
	res := createViaHTTP(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/menus/"+res.Slug+"?lang=en", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var view core.MenuView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "en", view.Lang)
	assert.Equal(t, "Mains", view.Sections[0].Title)
	assert.Equal(t, []string{"en", "fr"}, view.AvailableLanguages)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/public/menus/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRedirectPublic(t *testing.T) {
	r, _ := setupMenuTestRouter(t, false)
	res := createViaHTTP(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu/"+res.Slug, nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://localhost:5173/menu/"+res.Slug, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/menu/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRobotsAndSitemap(t *testing.T) {
	r, env := setupMenuTestRouter(t, false)
	res := createViaHTTP(t, r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sitemap: http://localhost:8000/sitemap.xml")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<loc>http://localhost:8000/menu/"+res.Slug+"</loc>")
	assert.Contains(t, w.Body.String(), "<lastmod>")

	entries, err := env.service.Sitemap(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

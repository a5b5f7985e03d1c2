package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dfryer1193/catalog/catalog/application"
	"github.com/dfryer1193/catalog/catalog/persistence"
	"github.com/dfryer1193/catalog/shared/db/sqlite"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	jpgBytes = append([]byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00"), bytes.Repeat([]byte{0}, 64)...)
	gifBytes = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 64)...)
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	handler  http.Handler
	assetDir string
	cookies  []*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWith(t, nil)
}

// newTestServerWith wires the real stack, or service when it is non-nil
func newTestServerWith(t *testing.T, service ProductService) *testServer {
	t.Helper()

	dir := t.TempDir()
	assetDir := filepath.Join(dir, "public", "image")

	if service == nil {
		database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{Path: filepath.Join(dir, "catalog.db")})
		require.NoError(t, database.Connect())
		t.Cleanup(func() { database.Close() })

		service = application.NewProductService(
			persistence.NewProductRepository(database.DB()),
			persistence.NewFileImageStore(assetDir),
		)
	}

	handler := NewProductHandler(service, application.NewDetailsRenderer("/image"), NewFlashes("test-secret"), "/image")
	router, err := NewRouter(handler, AssetConfig{Dir: assetDir, URLPrefix: "/image"})
	require.NoError(t, err)

	return &testServer{handler: router, assetDir: assetDir}
}

// do sends req and keeps any cookies the server sets, like a browser would
func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range s.cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if set := rec.Result().Cookies(); len(set) > 0 {
		s.cookies = set
	}
	return rec
}

func (s *testServer) get(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (s *testServer) delete(path string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodDelete, path, nil))
}

func (s *testServer) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *testServer) sendJSON(method, path string, body any) *httptest.ResponseRecorder {
	encoded, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req)
}

type upload struct {
	name    string
	content []byte
}

func (s *testServer) sendMultipart(t *testing.T, method, path string, values url.Values, file *upload) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, vals := range values {
		for _, v := range vals {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if file != nil {
		part, err := mw.CreateFormFile("image", file.name)
		require.NoError(t, err)
		_, err = part.Write(file.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func (s *testServer) imageExists(name string) bool {
	_, err := os.Stat(filepath.Join(s.assetDir, name))
	return err == nil
}

func lipstickForm() url.Values {
	return url.Values{
		"product_name": {"Red Lipstick"},
		"details":      {"Matte finish, long-lasting"},
		"size":         {"M"},
		"color":        {"Red"},
		"category":     {"Cosmetics"},
	}
}

type apiProduct struct {
	ID          int64   `json:"id"`
	ProductName string  `json:"product_name"`
	Details     string  `json:"details"`
	Image       *string `json:"image"`
	ImageURL    *string `json:"image_url"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Category    string  `json:"category"`
}

type apiResponse[T any] struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    T                 `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) apiResponse[T] {
	t.Helper()

	var out apiResponse[T]
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

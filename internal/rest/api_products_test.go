package rest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createViaAPI(t *testing.T, s *testServer, values url.Values, file *upload) apiProduct {
	t.Helper()

	rec := s.sendMultipart(t, http.MethodPost, "/api/products", values, file)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[apiProduct](t, rec).Data
}

func TestAPI_CreateProduct_WithoutImage(t *testing.T) {
	s := newTestServer(t)

	rec := s.sendJSON(http.MethodPost, "/api/products", map[string]string{
		"product_name": "Red Lipstick",
		"details":      "Matte finish, long-lasting",
		"size":         "M",
		"color":        "Red",
		"category":     "Cosmetics",
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"image":null`)

	resp := decode[apiProduct](t, rec)
	assert.True(t, resp.Status)
	assert.Equal(t, "Product Created Successfully", resp.Message)
	assert.NotZero(t, resp.Data.ID)
	assert.Nil(t, resp.Data.Image)
	assert.Nil(t, resp.Data.ImageURL)
	assert.Equal(t, "Red Lipstick", resp.Data.ProductName)
}

func TestAPI_CreateProduct_WithImage(t *testing.T) {
	s := newTestServer(t)

	p := createViaAPI(t, s, lipstickForm(), &upload{name: "lipstick.png", content: pngBytes})

	require.NotNil(t, p.Image)
	assert.True(t, strings.HasSuffix(*p.Image, "_lipstick.png"), *p.Image)
	require.NotNil(t, p.ImageURL)
	assert.Equal(t, "/image/"+*p.Image, *p.ImageURL)
	assert.True(t, s.imageExists(*p.Image))

	served := s.get(*p.ImageURL)
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, pngBytes, served.Body.Bytes())
}

func TestAPI_CreateProduct_Validation(t *testing.T) {
	tests := []struct {
		name       string
		modify     func(url.Values)
		file       *upload
		wantFields []string
	}{
		{
			name:       "missing everything",
			modify:     func(v url.Values) { v.Del("product_name"); v.Del("details"); v.Del("size"); v.Del("color"); v.Del("category") },
			wantFields: []string{"product_name", "details", "size", "color", "category"},
		},
		{
			name:       "short name",
			modify:     func(v url.Values) { v.Set("product_name", "ab") },
			wantFields: []string{"product_name"},
		},
		{
			name:       "long name",
			modify:     func(v url.Values) { v.Set("product_name", strings.Repeat("x", 256)) },
			wantFields: []string{"product_name"},
		},
		{
			name:       "short details",
			modify:     func(v url.Values) { v.Set("details", "too short") },
			wantFields: []string{"details"},
		},
		{
			name:       "whitespace only color",
			modify:     func(v url.Values) { v.Set("color", "   ") },
			wantFields: []string{"color"},
		},
		{
			name:       "gif content",
			file:       &upload{name: "lipstick.png", content: gifBytes},
			wantFields: []string{"image"},
		},
		{
			name:       "wrong extension",
			file:       &upload{name: "lipstick.gif", content: pngBytes},
			wantFields: []string{"image"},
		},
		{
			name:       "too large",
			file:       &upload{name: "huge.jpg", content: append(jpgBytes, bytes.Repeat([]byte{0}, 2048*1024)...)},
			wantFields: []string{"image"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			values := lipstickForm()
			if tt.modify != nil {
				tt.modify(values)
			}

			rec := s.sendMultipart(t, http.MethodPost, "/api/products", values, tt.file)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			resp := decode[any](t, rec)
			assert.False(t, resp.Status)
			assert.Equal(t, "The given data was invalid.", resp.Message)
			assert.Len(t, resp.Errors, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, resp.Errors, field)
			}

			list := decode[[]apiProduct](t, s.get("/api/products"))
			assert.Empty(t, list.Data, "invalid input must not create a product")
		})
	}
}

func TestAPI_CreateProduct_AcceptsJPEGAtLimit(t *testing.T) {
	s := newTestServer(t)
	content := append(jpgBytes, bytes.Repeat([]byte{0}, 2048*1024-len(jpgBytes))...)

	p := createViaAPI(t, s, lipstickForm(), &upload{name: "photo.JPEG", content: content})

	require.NotNil(t, p.Image)
	assert.True(t, s.imageExists(*p.Image))
}

func TestAPI_CreateProduct_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.sendJSON(http.MethodPost, "/api/products", map[string]any{"product_name": 42})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, decode[any](t, rec).Status)
}

func TestAPI_GetProduct(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), nil)

	rec := s.get(fmt.Sprintf("/api/products/%d", created.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[apiProduct](t, rec)
	assert.True(t, resp.Status)
	assert.Equal(t, created, resp.Data)

	for _, path := range []string{"/api/products/99999", "/api/products/abc", "/api/products/-1"} {
		rec := s.get(path)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.JSONEq(t, `{"status":false,"message":"Product Not Found"}`, rec.Body.String(), path)
	}
}

func TestAPI_ListProducts_NewestFirst(t *testing.T) {
	s := newTestServer(t)

	empty := s.get("/api/products")
	require.Equal(t, http.StatusOK, empty.Code)
	assert.JSONEq(t, `{"status":true,"data":[]}`, empty.Body.String())

	var ids []int64
	for _, name := range []string{"First product", "Second product", "Third product"} {
		values := lipstickForm()
		values.Set("product_name", name)
		ids = append(ids, createViaAPI(t, s, values, nil).ID)
	}

	resp := decode[[]apiProduct](t, s.get("/api/products"))
	require.Len(t, resp.Data, 3)
	assert.Equal(t, []int64{ids[2], ids[1], ids[0]}, []int64{resp.Data[0].ID, resp.Data[1].ID, resp.Data[2].ID})
}

func TestAPI_UpdateProduct_Partial(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), nil)
	path := fmt.Sprintf("/api/products/%d", created.ID)

	rec := s.postForm(path, url.Values{"color": {"Crimson"}})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[apiProduct](t, rec)
	assert.Equal(t, "Product Updated Successfully", resp.Message)

	want := created
	want.Color = "Crimson"
	assert.Equal(t, want, resp.Data)
}

func TestAPI_UpdateProduct_PutJSON(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), &upload{name: "old.png", content: pngBytes})
	path := fmt.Sprintf("/api/products/%d", created.ID)

	rec := s.sendJSON(http.MethodPut, path, map[string]string{"size": "L", "category": "Beauty"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[apiProduct](t, rec).Data
	assert.Equal(t, "L", updated.Size)
	assert.Equal(t, "Beauty", updated.Category)
	assert.Equal(t, created.ProductName, updated.ProductName)
	assert.Equal(t, created.Image, updated.Image, "image kept without upload")
	assert.True(t, s.imageExists(*created.Image))
}

func TestAPI_UpdateProduct_ReplacesImage(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), &upload{name: "old.png", content: pngBytes})
	path := fmt.Sprintf("/api/products/%d", created.ID)

	rec := s.sendMultipart(t, http.MethodPost, path, nil, &upload{name: "new.jpg", content: jpgBytes})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[apiProduct](t, rec).Data
	require.NotNil(t, updated.Image)
	assert.True(t, strings.HasSuffix(*updated.Image, "_new.jpg"))
	assert.False(t, s.imageExists(*created.Image), "old image removed")
	assert.True(t, s.imageExists(*updated.Image), "new image stored")
}

func TestAPI_UpdateProduct_InvalidPresentField(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), nil)

	rec := s.sendJSON(http.MethodPut, fmt.Sprintf("/api/products/%d", created.ID), map[string]string{"details": "short"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]string{"details": "The details must be at least 10 characters."}, decode[any](t, rec).Errors)
}

func TestAPI_UpdateProduct_NotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.sendJSON(http.MethodPut, "/api/products/99999", map[string]string{"color": "Crimson"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Product Not Found"}`, rec.Body.String())
}

func TestAPI_DeleteProduct(t *testing.T) {
	s := newTestServer(t)
	created := createViaAPI(t, s, lipstickForm(), &upload{name: "lipstick.png", content: pngBytes})
	path := fmt.Sprintf("/api/products/%d", created.ID)

	rec := s.delete(path)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":true,"message":"Product Deleted Successfully"}`, rec.Body.String())
	assert.False(t, s.imageExists(*created.Image))

	assert.Equal(t, http.StatusNotFound, s.get(path).Code)
	assert.Equal(t, http.StatusNotFound, s.delete(path).Code)
}

type failingService struct {
	ProductService
	err error
}

func (f failingService) ListProducts(context.Context) ([]*domain.Product, error) {
	return nil, f.err
}

func (f failingService) CreateProduct(context.Context, domain.ProductFields, *domain.ImageUpload) (*domain.Product, error) {
	return nil, f.err
}

func TestAPI_StorageFailure(t *testing.T) {
	s := newTestServerWith(t, failingService{err: errors.New("failed to write image file: disk full")})

	rec := s.get("/api/products")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Server Error"}`, rec.Body.String())

	rec = s.sendMultipart(t, http.MethodPost, "/api/products", lipstickForm(), &upload{name: "a.png", content: pngBytes})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "disk full")
}

func TestAPI_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	rec := s.get("/api/unknown")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, decode[any](t, rec).Status)
}

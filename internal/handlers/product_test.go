package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoporbit/storefront/internal/models"
)

func productFields(categoryID uint) map[string]string {
	return map[string]string{
		"name":        "Dune",
		"description": "A science fiction novel",
		"price":       "12.50",
		"quantity":    "3",
		"shipping":    "true",
		"category":    strconv.Itoa(int(categoryID)),
	}
}

func (env *testEnv) createCategory(name, slug string) models.Category {
	env.T.Helper()
	cat := models.Category{Name: name, Slug: slug}
	require.NoError(env.T, env.DB.Create(&cat).Error)
	return cat
}

func TestCreateProductWithPhoto(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")

	photo := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	rec, c := env.doMultipartRequest("/api/v1/product/create-product", productFields(cat.ID), photo, "image/png")
	require.NoError(t, env.P.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, 1).Error)
	require.Equal(t, "dune", stored.Slug)
	require.Equal(t, 12.5, stored.Price)
	require.Equal(t, photo, stored.Photo)
	require.Equal(t, "image/png", stored.PhotoType)

	// The create response must not carry the blob.
	require.NotContains(t, rec.Body.String(), "photo")
}

func TestCreateProductPhotoTooLarge(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")

	photo := bytes.Repeat([]byte{0xAB}, MaxPhotoBytes+1)
	rec, c := env.doMultipartRequest("/api/v1/product/create-product", productFields(cat.ID), photo, "image/png")
	require.NoError(t, env.P.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateProductMissingPhoto(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")

	rec, c := env.doMultipartRequest("/api/v1/product/create-product", productFields(cat.ID), nil, "")
	require.NoError(t, env.P.Create(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPhotoRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")

	photo := bytes.Repeat([]byte{0x42}, 1000)
	_, c := env.doMultipartRequest("/api/v1/product/create-product", productFields(cat.ID), photo, "image/jpeg")
	require.NoError(t, env.P.Create(c))

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/product-photo/1", nil, "")
	c.SetParamNames("pid")
	c.SetParamValues("1")
	require.NoError(t, env.P.Photo(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	require.Equal(t, photo, rec.Body.Bytes())
}

func TestUpdateProductKeepsPhotoWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")

	photo := []byte{1, 2, 3, 4}
	_, c := env.doMultipartRequest("/api/v1/product/create-product", productFields(cat.ID), photo, "image/png")
	require.NoError(t, env.P.Create(c))

	fields := productFields(cat.ID)
	fields["name"] = "Dune Messiah"
	rec, c := env.doMultipartRequest("/api/v1/product/update-product/1", fields, nil, "")
	c.SetParamNames("pid")
	c.SetParamValues("1")
	require.NoError(t, env.P.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, 1).Error)
	require.Equal(t, "Dune Messiah", stored.Name)
	require.Equal(t, "dune-messiah", stored.Slug)
	require.Equal(t, photo, stored.Photo)
}

func (env *testEnv) seedProducts(cat models.Category, n int) {
	env.T.Helper()
	base := time.Now().Add(-time.Hour)
	for i := 1; i <= n; i++ {
		p := models.Product{
			Name:        fmt.Sprintf("product-%d", i),
			Slug:        fmt.Sprintf("product-%d", i),
			Description: fmt.Sprintf("description %d", i),
			Price:       float64(i),
			Quantity:    1,
			CategoryID:  cat.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(env.T, env.DB.Create(&p).Error)
	}
}

func TestProductListPagination(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 10)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/product-list/2", nil, "")
	c.SetParamNames("page")
	c.SetParamValues("2")
	require.NoError(t, env.P.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Newest first: page 2 of 10 holds positions 7 through 10.
	require.Len(t, body.Products, 4)
	require.Equal(t, "product-4", body.Products[0].Name)
	require.Equal(t, "product-1", body.Products[3].Name)
}

func TestProductCount(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 10)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/product-count", nil, "")
	require.NoError(t, env.P.Count(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(10), body["total"])
}

func TestFilters(t *testing.T) {
	env := newTestEnv(t)
	catA := env.createCategory("A", "a")
	catB := env.createCategory("B", "b")

	for _, p := range []models.Product{
		{Name: "a-low", Slug: "a-low", Description: "d", Price: 9.99, Quantity: 1, CategoryID: catA.ID},
		{Name: "a-min", Slug: "a-min", Description: "d", Price: 10, Quantity: 1, CategoryID: catA.ID},
		{Name: "a-max", Slug: "a-max", Description: "d", Price: 50, Quantity: 1, CategoryID: catA.ID},
		{Name: "a-high", Slug: "a-high", Description: "d", Price: 50.01, Quantity: 1, CategoryID: catA.ID},
		{Name: "b-mid", Slug: "b-mid", Description: "d", Price: 30, Quantity: 1, CategoryID: catB.ID},
	} {
		require.NoError(t, env.DB.Create(&p).Error)
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/product/product-filters", map[string]interface{}{
		"checked": []uint{catA.ID},
		"radio":   []float64{10, 50},
	}, "")
	require.NoError(t, env.P.Filters(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
	for _, p := range body.Products {
		require.Equal(t, catA.ID, p.CategoryID)
		require.GreaterOrEqual(t, p.Price, float64(10))
		require.LessOrEqual(t, p.Price, float64(50))
	}
}

func TestFiltersEmptySetReturnsAll(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 3)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/product/product-filters", map[string]interface{}{
		"checked": []uint{},
		"radio":   []float64{},
	}, "")
	require.NoError(t, env.P.Filters(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 3)
}

func TestSearchCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Tech", "tech")

	for _, p := range []models.Product{
		{Name: "iPhone Case", Slug: "iphone-case", Description: "silicone cover", Price: 5, Quantity: 1, CategoryID: cat.ID},
		{Name: "Stand", Slug: "stand", Description: "Android PHONE holder", Price: 8, Quantity: 1, CategoryID: cat.ID},
		{Name: "Laptop", Slug: "laptop", Description: "portable computer", Price: 900, Quantity: 1, CategoryID: cat.ID},
	} {
		require.NoError(t, env.DB.Create(&p).Error)
	}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/search/phone", nil, "")
	c.SetParamNames("keyword")
	c.SetParamValues("phone")
	require.NoError(t, env.P.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Results []models.Product `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
}

func TestRelatedProducts(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 5)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/related-product/1/1", nil, "")
	c.SetParamNames("pid", "cid")
	c.SetParamValues("1", strconv.Itoa(int(cat.ID)))
	require.NoError(t, env.P.Related(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 3)
	for _, p := range body.Products {
		require.NotEqual(t, uint(1), p.ID)
		require.Equal(t, cat.ID, p.CategoryID)
	}
}

func TestProductsByCategory(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	other := env.createCategory("Games", "games")
	env.seedProducts(cat, 2)
	require.NoError(t, env.DB.Create(&models.Product{
		Name: "Chess", Slug: "chess", Description: "d", Price: 20, Quantity: 1, CategoryID: other.ID,
	}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/product-category/books", nil, "")
	c.SetParamNames("slug")
	c.SetParamValues("books")
	require.NoError(t, env.P.ByCategory(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Products []models.Product `json:"products"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
}

func TestGetProductBySlug(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 1)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/product/get-product/product-1", nil, "")
	c.SetParamNames("slug")
	c.SetParamValues("product-1")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/product/get-product/nope", nil, "")
	c.SetParamNames("slug")
	c.SetParamValues("nope")
	require.NoError(t, env.P.GetProduct(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	env := newTestEnv(t)
	cat := env.createCategory("Books", "books")
	env.seedProducts(cat, 1)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/product/delete-product/1", nil, "")
	c.SetParamNames("pid")
	c.SetParamValues("1")
	require.NoError(t, env.P.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/models"
	"github.com/shoporbit/storefront/internal/mykafka"
	"github.com/shoporbit/storefront/internal/util"
)

// MaxPhotoBytes caps inline product photos; larger uploads are rejected
// before anything touches the store.
const MaxPhotoBytes = 1_000_000

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *ProductHandler) publish(c echo.Context, event map[string]interface{}) {
	publish(c, h.Producer, mykafka.TopicProductEvents, fmt.Sprint(event["productID"]), event)
}

type productForm struct {
	Name        string
	Description string
	Price       float64
	Quantity    int
	Shipping    bool
	CategoryID  uint
	Photo       []byte
	PhotoType   string
}

// bindProductForm reads the multipart product form. It returns a
// non-empty message on validation failure.
func bindProductForm(c echo.Context, photoRequired bool) (*productForm, string) {
	f := &productForm{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
	}

	switch {
	case f.Name == "":
		return nil, "Name is required"
	case f.Description == "":
		return nil, "Description is required"
	case c.FormValue("price") == "":
		return nil, "Price is required"
	case c.FormValue("category") == "":
		return nil, "Category is required"
	case c.FormValue("quantity") == "":
		return nil, "Quantity is required"
	}

	price, err := strconv.ParseFloat(c.FormValue("price"), 64)
	if err != nil || price < 0 {
		return nil, "Price is invalid"
	}
	f.Price = price

	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil || quantity < 0 {
		return nil, "Quantity is invalid"
	}
	f.Quantity = quantity

	categoryID, err := strconv.Atoi(c.FormValue("category"))
	if err != nil || categoryID <= 0 {
		return nil, "Category is invalid"
	}
	f.CategoryID = uint(categoryID)

	if v := c.FormValue("shipping"); v != "" {
		shipping, err := strconv.ParseBool(v)
		if err != nil {
			return nil, "Shipping is invalid"
		}
		f.Shipping = shipping
	}

	file, err := c.FormFile("photo")
	if err != nil {
		if photoRequired {
			return nil, "Photo is required"
		}
		return f, ""
	}
	if file.Size > MaxPhotoBytes {
		return nil, "Photo size should be less than 1MB"
	}

	src, err := file.Open()
	if err != nil {
		return nil, "Photo is invalid"
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "Photo is invalid"
	}

	f.Photo = data
	f.PhotoType = file.Header.Get("Content-Type")
	return f, ""
}

func (h *ProductHandler) Create(c echo.Context) error {
	form, msg := bindProductForm(c, true)
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	product := models.Product{
		Name:        form.Name,
		Slug:        util.Slugify(form.Name),
		Description: form.Description,
		Price:       form.Price,
		Quantity:    form.Quantity,
		Shipping:    form.Shipping,
		CategoryID:  form.CategoryID,
		Photo:       form.Photo,
		PhotoType:   form.PhotoType,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while creating product", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})

	return ok(c, http.StatusCreated, echo.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while updating product", err)
	}

	form, msg := bindProductForm(c, false)
	if msg != "" {
		return fail(c, http.StatusBadRequest, msg)
	}

	product.Name = form.Name
	product.Slug = util.Slugify(form.Name)
	product.Description = form.Description
	product.Price = form.Price
	product.Quantity = form.Quantity
	product.Shipping = form.Shipping
	product.CategoryID = form.CategoryID
	if form.Photo != nil {
		product.Photo = form.Photo
		product.PhotoType = form.PhotoType
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while updating product", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})

	return ok(c, http.StatusOK, echo.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product id")
	}

	if err := h.DB.Delete(&models.Product{}, id).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while deleting product", err)
	}

	h.publish(c, map[string]interface{}{
		"type":      "product_deleted",
		"productID": uint(id),
	})

	return ok(c, http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}

// GetProducts returns the storefront listing: newest first, capped at
// 12, photo omitted.
func (h *ProductHandler) GetProducts(c echo.Context) error {
	var products []models.Product
	if err := h.DB.Select(models.ProductColumns).
		Preload("Category").
		Order("created_at DESC").
		Limit(12).
		Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while getting products", err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"count_total": len(products),
		"message":     "List of all products",
		"products":    products,
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	var product models.Product
	if err := h.DB.Select(models.ProductColumns).
		Preload("Category").
		Where("slug = ?", c.Param("slug")).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while getting product", err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"message": "Single product fetched",
		"product": product,
	})
}

// Photo streams the stored bytes with the stored content type. This is
// the only read path that touches the blob column.
func (h *ProductHandler) Photo(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var product models.Product
	if err := h.DB.Select("id", "photo", "photo_type").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Product not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while getting photo", err)
	}
	if len(product.Photo) == 0 {
		return fail(c, http.StatusNotFound, "Photo not found")
	}

	return c.Blob(http.StatusOK, product.PhotoType, product.Photo)
}

// List serves one fixed-size page of the catalog, 1-indexed.
func (h *ProductHandler) List(c echo.Context) error {
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		page = 1
	}
	offset, limit := util.Paginate(page)

	var products []models.Product
	if err := h.DB.Select(models.ProductColumns).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while listing products", err)
	}

	return ok(c, http.StatusOK, echo.Map{"products": products})
}

func (h *ProductHandler) Count(c echo.Context) error {
	var total int64
	if err := h.DB.Model(&models.Product{}).Count(&total).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error in product count", err)
	}

	return ok(c, http.StatusOK, echo.Map{"total": total})
}

// Search does a case-insensitive substring match on name or
// description. Pattern matching only, no indexing or ranking.
func (h *ProductHandler) Search(c echo.Context) error {
	keyword := c.Param("keyword")
	pattern := "%" + strings.ToLower(keyword) + "%"

	var products []models.Product
	if err := h.DB.Select(models.ProductColumns).
		Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern).
		Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while searching products", err)
	}

	return ok(c, http.StatusOK, echo.Map{"results": products})
}

// Filters combines category membership and an inclusive price range as
// a conjunctive query. An empty filter set returns the whole catalog.
func (h *ProductHandler) Filters(c echo.Context) error {
	var req struct {
		Checked []uint    `json:"checked"`
		Radio   []float64 `json:"radio"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid request body")
	}

	q := h.DB.Select(models.ProductColumns)
	if len(req.Checked) > 0 {
		q = q.Where("category_id IN ?", req.Checked)
	}
	if len(req.Radio) == 2 {
		q = q.Where("price >= ? AND price <= ?", req.Radio[0], req.Radio[1])
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while filtering products", err)
	}

	return ok(c, http.StatusOK, echo.Map{"products": products})
}

// Related returns up to 3 other products from the same category.
func (h *ProductHandler) Related(c echo.Context) error {
	pid, err := strconv.Atoi(c.Param("pid"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid product id")
	}
	cid, err := strconv.Atoi(c.Param("cid"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid category id")
	}

	var products []models.Product
	if err := h.DB.Select(models.ProductColumns).
		Preload("Category").
		Where("category_id = ? AND id <> ?", cid, pid).
		Limit(3).
		Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while fetching similar products", err)
	}

	return ok(c, http.StatusOK, echo.Map{"products": products})
}

func (h *ProductHandler) ByCategory(c echo.Context) error {
	var category models.Category
	if err := h.DB.Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, http.StatusNotFound, "Category not found")
		}
		return failErr(c, http.StatusInternalServerError, "Error while getting products", err)
	}

	var products []models.Product
	if err := h.DB.Select(models.ProductColumns).
		Preload("Category").
		Where("category_id = ?", category.ID).
		Find(&products).Error; err != nil {
		return failErr(c, http.StatusInternalServerError, "Error while getting products", err)
	}

	return ok(c, http.StatusOK, echo.Map{
		"category": category,
		"products": products,
	})
}

package rest

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const productsPath = "/products"

func (h *ProductHandler) Index(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.pageError(c, err)
		return
	}

	rows := make([]productRow, 0, len(products))
	for _, p := range products {
		row := productRow{Product: p}
		if rendered, err := h.details.Render(p.Details); err == nil {
			row.Snippet = rendered.Snippet
		}
		rows = append(rows, row)
	}

	c.HTML(http.StatusOK, "index.html", indexPage{
		page:     h.page(c, "Products"),
		Products: rows,
	})
}

func (h *ProductHandler) Show(c *gin.Context) {
	p, ok := h.loadProduct(c)
	if !ok {
		return
	}

	rendered, err := h.details.Render(p.Details)
	if err != nil {
		h.pageError(c, err)
		return
	}

	c.HTML(http.StatusOK, "show.html", showPage{
		page:    h.page(c, p.ProductName),
		Product: p,
		// goldmark output with raw HTML disabled
		Details: template.HTML(rendered.HTML),
	})
}

func (h *ProductHandler) New(c *gin.Context) {
	c.HTML(http.StatusOK, "form.html", h.createForm(c, nil, nil))
}

func (h *ProductHandler) Store(c *gin.Context) {
	in, err := readProductInput(c)
	if err != nil {
		h.badForm(c, err)
		return
	}

	if errs := h.validator.Validate(in, false); errs != nil {
		c.HTML(http.StatusUnprocessableEntity, "form.html", h.createForm(c, in.values, errs))
		return
	}

	if _, err := h.products.CreateProduct(c.Request.Context(), in.fields(), in.upload); err != nil {
		h.pageError(c, err)
		return
	}

	h.flashes.Success(c, msgCreated)
	c.Redirect(http.StatusFound, productsPath)
}

func (h *ProductHandler) Edit(c *gin.Context) {
	p, ok := h.loadProduct(c)
	if !ok {
		return
	}

	c.HTML(http.StatusOK, "form.html", h.editForm(c, p, productValues(p), nil))
}

// Update applies the edit form. The form posts every field back, so all are validated.
func (h *ProductHandler) Update(c *gin.Context) {
	p, ok := h.loadProduct(c)
	if !ok {
		return
	}

	in, err := readProductInput(c)
	if err != nil {
		h.badForm(c, err)
		return
	}

	if errs := h.validator.Validate(in, false); errs != nil {
		c.HTML(http.StatusUnprocessableEntity, "form.html", h.editForm(c, p, in.values, errs))
		return
	}

	if _, err := h.products.UpdateProduct(c.Request.Context(), p.ID, in.changes(), in.upload); err != nil {
		h.pageError(c, err)
		return
	}

	h.flashes.Success(c, msgUpdated)
	c.Redirect(http.StatusFound, productsPath)
}

func (h *ProductHandler) Destroy(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		h.pageNotFound(c)
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		h.pageError(c, err)
		return
	}

	h.flashes.Success(c, msgDeleted)
	c.Redirect(http.StatusFound, productsPath)
}

func (h *ProductHandler) loadProduct(c *gin.Context) (*domain.Product, bool) {
	id, ok := productID(c)
	if !ok {
		h.pageNotFound(c)
		return nil, false
	}

	p, err := h.products.FindProduct(c.Request.Context(), id)
	if err != nil {
		h.pageError(c, err)
		return nil, false
	}

	return p, true
}

func (h *ProductHandler) page(c *gin.Context, title string) page {
	return page{
		Title:   title,
		Flashes: h.flashes.PopSuccess(c),
	}
}

func (h *ProductHandler) createForm(c *gin.Context, values, errs map[string]string) formPage {
	return formPage{
		page:   h.page(c, "Add Product"),
		Action: productsPath,
		Submit: "Save",
		Values: values,
		Errors: errs,
	}
}

func (h *ProductHandler) editForm(c *gin.Context, p *domain.Product, values, errs map[string]string) formPage {
	return formPage{
		page:    h.page(c, "Edit Product"),
		Action:  productsPath + "/" + strconv.FormatInt(p.ID, 10),
		Method:  http.MethodPut,
		Submit:  "Update Product",
		Product: p,
		Values:  values,
		Errors:  errs,
	}
}

func productValues(p *domain.Product) map[string]string {
	return map[string]string{
		fieldProductName: p.ProductName,
		fieldDetails:     p.Details,
		fieldSize:        p.Size,
		fieldColor:       p.Color,
		fieldCategory:    p.Category,
	}
}

func (h *ProductHandler) badForm(c *gin.Context, err error) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected unreadable product form")
	c.HTML(http.StatusBadRequest, "error.html", errorPage{
		page:    page{Title: "Bad Request"},
		Status:  http.StatusBadRequest,
		Message: "The submitted form could not be read",
	})
}

func (h *ProductHandler) pageError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		h.pageNotFound(c)
		return
	}

	log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Product page failed")
	c.Error(err)
	c.HTML(http.StatusInternalServerError, "error.html", errorPage{
		page:    page{Title: "Server Error"},
		Status:  http.StatusInternalServerError,
		Message: "Server Error",
	})
}

func (h *ProductHandler) pageNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error.html", errorPage{
		page:    page{Title: "Not Found"},
		Status:  http.StatusNotFound,
		Message: "Not Found",
	})
}

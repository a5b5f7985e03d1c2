package rest

import (
	"errors"
	"net/http"

	"github.com/dfryer1193/catalog/api"
	"github.com/dfryer1193/catalog/catalog/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	msgNotFound       = "Product Not Found"
	msgCreated        = "Product Created Successfully"
	msgUpdated        = "Product Updated Successfully"
	msgDeleted        = "Product Deleted Successfully"
	msgInvalid        = "The given data was invalid."
	msgMalformed      = "The request body could not be read."
	msgInternalServer = "Server Error"
)

func (h *ProductHandler) ListProductsAPI(c *gin.Context) {
	products, err := h.products.ListProducts(c.Request.Context())
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Response{
		Status: true,
		Data:   api.NewProducts(products, h.assetURL),
	})
}

func (h *ProductHandler) GetProductAPI(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		apiNotFound(c)
		return
	}

	p, err := h.products.FindProduct(c.Request.Context(), id)
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Response{
		Status: true,
		Data:   api.NewProduct(p, h.assetURL),
	})
}

func (h *ProductHandler) CreateProductAPI(c *gin.Context) {
	in, ok := h.bindAPIInput(c, false)
	if !ok {
		return
	}

	p, err := h.products.CreateProduct(c.Request.Context(), in.fields(), in.upload)
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.Response{
		Status:  true,
		Message: msgCreated,
		Data:    api.NewProduct(p, h.assetURL),
	})
}

// UpdateProductAPI changes only the fields present in the request
func (h *ProductHandler) UpdateProductAPI(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		apiNotFound(c)
		return
	}

	in, ok := h.bindAPIInput(c, true)
	if !ok {
		return
	}

	p, err := h.products.UpdateProduct(c.Request.Context(), id, in.changes(), in.upload)
	if err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Response{
		Status:  true,
		Message: msgUpdated,
		Data:    api.NewProduct(p, h.assetURL),
	})
}

func (h *ProductHandler) DeleteProductAPI(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		apiNotFound(c)
		return
	}

	if err := h.products.DeleteProduct(c.Request.Context(), id); err != nil {
		h.apiError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.Response{
		Status:  true,
		Message: msgDeleted,
	})
}

// bindAPIInput reads and validates the request body, answering the request itself on failure
func (h *ProductHandler) bindAPIInput(c *gin.Context, partial bool) (*productInput, bool) {
	in, err := readProductInput(c)
	if err != nil {
		log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("Rejected unreadable product body")
		c.JSON(http.StatusBadRequest, api.Response{Status: false, Message: msgMalformed})
		return nil, false
	}

	if errs := h.validator.Validate(in, partial); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, api.Response{
			Status:  false,
			Message: msgInvalid,
			Errors:  errs,
		})
		return nil, false
	}

	return in, true
}

func (h *ProductHandler) apiError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrProductNotFound) {
		apiNotFound(c)
		return
	}

	log.Error().Err(err).Str("method", c.Request.Method).Str("path", c.Request.URL.Path).Msg("Product request failed")
	c.Error(err)
	c.JSON(http.StatusInternalServerError, api.Response{Status: false, Message: msgInternalServer})
}

func apiNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, api.Response{Status: false, Message: msgNotFound})
}

package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dfryer1193/catalog/api"
	"github.com/dfryer1193/catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AssetConfig says where uploaded images live and the URL prefix they are served under
type AssetConfig struct {
	Dir       string
	URLPrefix string
}

// NewRouter builds the complete HTTP handler: HTML pages, the JSON API and
// the uploaded images.
func NewRouter(h *ProductHandler, assets AssetConfig) (http.Handler, error) {
	tmpl, err := parseTemplates(assets.URLPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	router := gin.New()
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.CustomRecovery(middleware.HandlePanics()))
	router.SetHTMLTemplate(tmpl)

	router.Static(assets.URLPrefix, assets.Dir)

	NewWeb(router, h)
	NewApi(router, h)

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, api.Response{Status: false, Message: "Not Found"})
			return
		}
		h.pageNotFound(c)
	})

	return middleware.MethodOverride(router), nil
}

func NewWeb(router *gin.Engine, h *ProductHandler) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, productsPath)
	})

	products := router.Group(productsPath)
	{
		products.GET("", h.Index)
		products.POST("", h.Store)
		products.GET("/new", h.New)
		products.GET("/:id", h.Show)
		products.GET("/:id/edit", h.Edit)
		products.PUT("/:id", h.Update)
		products.DELETE("/:id", h.Destroy)
	}
}

func NewApi(router *gin.Engine, h *ProductHandler) {
	products := router.Group("/api/products")
	{
		products.GET("", h.ListProductsAPI)
		products.POST("", h.CreateProductAPI)
		products.GET("/:id", h.GetProductAPI)
		products.POST("/:id", h.UpdateProductAPI)
		products.PUT("/:id", h.UpdateProductAPI)
		products.DELETE("/:id", h.DeleteProductAPI)
	}
}

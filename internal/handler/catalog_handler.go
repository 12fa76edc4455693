package handler

import (
	"net/http"
	"strconv"

	"kaamsetu/internal/catalog"
	"kaamsetu/internal/middleware"
	"kaamsetu/internal/model"

	"github.com/gin-gonic/gin"
)

const featuredCount = 3

// CatalogHandler serves the read-only catalog views
type CatalogHandler struct {
	catalog catalog.Provider
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(c catalog.Provider) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

func (h *CatalogHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.catalog.Categories(),
		"services":   h.catalog.Featured(featuredCount),
		"user_name":  middleware.CurrentSession(c).Name,
		"active":     "home",
	})
}

func (h *CatalogHandler) Category(c *gin.Context) {
	name := c.Param("name")
	c.JSON(http.StatusOK, gin.H{
		"category": name,
		"services": h.catalog.ByCategory(name),
	})
}

func (h *CatalogHandler) Service(c *gin.Context) {
	service, ok := h.lookup(c, "id")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": service})
}

// lookup resolves a catalog id from the named path parameter, answering 404
// itself when the id is malformed or unknown
func (h *CatalogHandler) lookup(c *gin.Context, param string) (model.Service, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err == nil {
		if service, ok := h.catalog.Service(id); ok {
			return service, true
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
	return model.Service{}, false
}

// RegisterCatalogRoutes registers the catalog views behind userMW
func (h *CatalogHandler) RegisterCatalogRoutes(r gin.IRouter, userMW gin.HandlerFunc) {
	views := r.Group("")
	views.Use(userMW)
	{
		views.GET("/home", h.Home)
		views.GET("/category/:name", h.Category)
		views.GET("/service/:id", h.Service)
	}
}

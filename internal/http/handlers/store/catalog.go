package store

import (
	"strconv"

	"github.com/shopfront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// Products 返回商品目录
func (h *Handler) Products(c *gin.Context) {
	response.Success(c, h.CatalogClient.Products(c.Request.Context()))
}

// ProductDetail 按 id 返回单个商品
func (h *Handler) ProductDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_product_id", err)
		return
	}
	product, found := h.CatalogClient.Product(c.Request.Context(), id)
	if !found {
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
		return
	}
	response.Success(c, product)
}

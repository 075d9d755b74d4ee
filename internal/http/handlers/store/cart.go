package store

import (
	"errors"
	"strconv"

	"github.com/shopfront-next/internal/http/response"
	"github.com/shopfront-next/internal/models"
	"github.com/shopfront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CartAddRequest 加入购物车请求
type CartAddRequest struct {
	ProductID int          `json:"id" binding:"required"`
	Title     string       `json:"title" binding:"required"`
	Price     models.Money `json:"price"`
	Image     string       `json:"image"`
}

// Cart 返回购物车快照
func (h *Handler) Cart(c *gin.Context) {
	response.Success(c, h.CartService.Snapshot())
}

// CartAdd 加入商品。重复加入同一商品不改数量。
func (h *Handler) CartAdd(c *gin.Context) {
	var req CartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	added, err := h.CartService.AddItem(service.AddItemInput{
		ProductID: req.ProductID,
		Title:     req.Title,
		UnitPrice: req.Price,
		ImageRef:  req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidLineItem) {
			respondError(c, response.CodeBadRequest, "error.invalid_line_item", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.cart_add_failed", err)
		return
	}

	response.Success(c, gin.H{"added": added, "cart": h.CartService.Snapshot()})
}

// CartIncrement 数量加一
func (h *Handler) CartIncrement(c *gin.Context) {
	productID, ok := cartProductID(c)
	if !ok {
		return
	}
	h.CartService.IncrementQuantity(productID)
	response.Success(c, h.CartService.Snapshot())
}

// CartDecrement 数量减一，最低到 1
func (h *Handler) CartDecrement(c *gin.Context) {
	productID, ok := cartProductID(c)
	if !ok {
		return
	}
	h.CartService.DecrementQuantity(productID)
	response.Success(c, h.CartService.Snapshot())
}

// CartRemove 移除整行
func (h *Handler) CartRemove(c *gin.Context) {
	productID, ok := cartProductID(c)
	if !ok {
		return
	}
	h.CartService.RemoveItem(productID)
	response.Success(c, h.CartService.Snapshot())
}

// CartClear 清空购物车
func (h *Handler) CartClear(c *gin.Context) {
	if err := h.CartService.Clear(); err != nil {
		respondError(c, response.CodeInternal, "error.cart_clear_failed", err)
		return
	}
	response.Success(c, h.CartService.Snapshot())
}

func cartProductID(c *gin.Context) (int, bool) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil || productID <= 0 {
		respondError(c, response.CodeBadRequest, "error.invalid_product_id", nil)
		return 0, false
	}
	return productID, true
}

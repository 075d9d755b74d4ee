package store

import (
	"errors"

	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/http/response"
	"github.com/shopfront-next/internal/models"
	"github.com/shopfront-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutValidate 校验结算表单，返回字段错误集合
func (h *Handler) CheckoutValidate(c *gin.Context) {
	var form models.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	errs := h.CheckoutService.Validate(form)
	response.Success(c, gin.H{
		"valid":  len(errs) == 0,
		"errors": errs,
	})
}

// CheckoutTotals 返回当前购物车的金额分解
func (h *Handler) CheckoutTotals(c *gin.Context) {
	snapshot := h.CartService.Snapshot()
	response.Success(c, h.CheckoutService.ComputeTotals(snapshot))
}

// CheckoutSubmit 提交订单，等待处理完成后返回回执
func (h *Handler) CheckoutSubmit(c *gin.Context) {
	var form models.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	snapshot := h.CartService.Snapshot()
	submission, err := h.CheckoutService.SubmitOrder(form, snapshot)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty):
			respondError(c, response.CodeBadRequest, "error.cart_empty", nil)
		case errors.Is(err, service.ErrValidationFailed):
			respondErrorWithData(c, response.CodeBadRequest, "error.validation_failed", gin.H{
				"errors": h.CheckoutService.Validate(form),
			})
		case errors.Is(err, service.ErrCheckoutInProgress):
			respondError(c, response.CodeConflict, "error.checkout_in_progress", nil)
		default:
			respondError(c, response.CodeInternal, "error.checkout_failed", err)
		}
		return
	}

	receipt, err := submission.Await()
	if err != nil {
		respondError(c, response.CodeInternal, "error.checkout_failed", err)
		return
	}
	response.Success(c, gin.H{"receipt": receipt, "navigate": constants.NavigateHome})
}

// CheckoutState 返回结算状态机当前状态
func (h *Handler) CheckoutState(c *gin.Context) {
	response.Success(c, gin.H{"state": h.CheckoutService.State()})
}

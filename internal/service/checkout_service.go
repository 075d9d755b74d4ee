package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/shopfront-next/internal/config"
	"github.com/shopfront-next/internal/constants"
	"github.com/shopfront-next/internal/logger"
	"github.com/shopfront-next/internal/models"
	"github.com/shopfront-next/internal/pending"

	"github.com/shopspring/decimal"
)

// FieldErrors 表单字段错误集合（字段名 -> 错误键）
type FieldErrors map[string]string

// Without 返回去掉指定字段后的副本，用于字段变更时的增量清错
func (e FieldErrors) Without(field string) FieldErrors {
	if _, ok := e[field]; !ok {
		return e
	}
	next := make(FieldErrors, len(e))
	for k, v := range e {
		if k != field {
			next[k] = v
		}
	}
	return next
}

// 结算状态机：Failed 为预留的终态分支
var checkoutTransitions = map[string]map[string]bool{
	constants.CheckoutStateIdle: {
		constants.CheckoutStateValidating: true,
		constants.CheckoutStateProcessing: true,
	},
	constants.CheckoutStateValidating: {
		constants.CheckoutStateIdle:       true,
		constants.CheckoutStateProcessing: true,
	},
	constants.CheckoutStateProcessing: {
		constants.CheckoutStateCompleted: true,
		constants.CheckoutStateFailed:    true,
		constants.CheckoutStateIdle:      true, // 提交被销毁时回滚
	},
	constants.CheckoutStateCompleted: {
		constants.CheckoutStateIdle: true,
	},
	constants.CheckoutStateFailed: {
		constants.CheckoutStateIdle: true,
	},
}

// CheckoutService 结算服务：表单校验、金额计算与下单状态机
type CheckoutService struct {
	cfg  *config.Config
	cart *CartService

	mu         sync.Mutex
	state      string
	submission *Submission
}

// NewCheckoutService 创建结算服务
func NewCheckoutService(cfg *config.Config, cart *CartService) *CheckoutService {
	return &CheckoutService{
		cfg:   cfg,
		cart:  cart,
		state: constants.CheckoutStateIdle,
	}
}

// State 返回当前结算状态
func (s *CheckoutService) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Validate 校验结算表单。纯函数，不触碰任何状态。
func (s *CheckoutService) Validate(form models.CheckoutForm) FieldErrors {
	errs := FieldErrors{}
	requireField(errs, "firstName", form.FirstName)
	requireField(errs, "lastName", form.LastName)
	requireField(errs, "address", form.Address)
	requireField(errs, "city", form.City)
	requireField(errs, "zipCode", form.ZipCode)
	requireField(errs, "phone", form.Phone)

	if strings.TrimSpace(form.Email) == "" {
		errs["email"] = "error.field_required"
	} else if _, err := mail.ParseAddress(strings.TrimSpace(form.Email)); err != nil {
		errs["email"] = "error.invalid_email"
	}

	switch form.PaymentMethod {
	case constants.PaymentMethodCreditCard,
		constants.PaymentMethodPaypal,
		constants.PaymentMethodCashOnDelivery:
	default:
		errs["paymentMethod"] = "error.invalid_payment_method"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func requireField(errs FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs[field] = "error.field_required"
	}
}

// ComputeTotals 计算金额分解。免邮阈值、运费与税率来自配置。
func (s *CheckoutService) ComputeTotals(snapshot models.CartSnapshot) models.Totals {
	subtotal := snapshot.Subtotal.Decimal

	threshold := mustPolicyDecimal(s.cfg.Checkout.FreeShippingThreshold, "50")
	flatFee := mustPolicyDecimal(s.cfg.Checkout.ShippingFlatFee, "5.99")
	taxRate := mustPolicyDecimal(s.cfg.Checkout.TaxRate, "0.05")

	shipping := flatFee
	if subtotal.GreaterThan(threshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(taxRate).Round(2)
	grand := subtotal.Add(shipping).Add(tax)

	return models.Totals{
		Subtotal:     models.NewMoneyFromDecimal(subtotal),
		ShippingCost: models.NewMoneyFromDecimal(shipping),
		TaxAmount:    models.NewMoneyFromDecimal(tax),
		GrandTotal:   models.NewMoneyFromDecimal(grand),
	}
}

func mustPolicyDecimal(raw, fallback string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		logger.Warnw("checkout_policy_invalid", "value", raw, "fallback", fallback)
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

// Submission 一次下单提交的句柄
type Submission struct {
	svc  *CheckoutService
	task *pending.Task
}

// Done 提交是否已结束
func (sub *Submission) Done() bool {
	return sub.task.Done()
}

// Await 阻塞等待回执
func (sub *Submission) Await() (*models.OrderReceipt, error) {
	value, err := sub.task.Await()
	if err != nil {
		return nil, err
	}
	return value.(*models.OrderReceipt), nil
}

// Receipt 非阻塞读取回执，未完成时返回 nil
func (sub *Submission) Receipt() *models.OrderReceipt {
	value, err := sub.task.Result()
	if err != nil {
		return nil
	}
	return value.(*models.OrderReceipt)
}

// Dispose 销毁提交。回调未触发时取消下单并把状态回滚到 Idle，
// 购物车保持原样；已完成后调用是安全的 no-op。
func (sub *Submission) Dispose() {
	if !sub.task.Dispose() {
		return
	}
	sub.svc.mu.Lock()
	if sub.svc.submission == sub {
		sub.svc.submission = nil
		sub.svc.setStateLocked(constants.CheckoutStateIdle)
	}
	sub.svc.mu.Unlock()
}

// SubmitOrder 提交订单。前置条件：购物车非空、表单通过校验、
// 没有另一笔提交在途。满足后进入 Processing，延迟回调生成回执。
func (s *CheckoutService) SubmitOrder(form models.CheckoutForm, snapshot models.CartSnapshot) (*Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submission != nil && !s.submission.Done() {
		return nil, ErrCheckoutInProgress
	}

	// 上一单已到终态时自动回到 Idle，新一单从头开始
	switch s.state {
	case constants.CheckoutStateCompleted, constants.CheckoutStateFailed:
		s.submission = nil
		s.setStateLocked(constants.CheckoutStateIdle)
	}

	if len(snapshot.Items) == 0 {
		return nil, ErrCartEmpty
	}

	s.setStateLocked(constants.CheckoutStateValidating)
	if errs := s.Validate(form); len(errs) > 0 {
		s.setStateLocked(constants.CheckoutStateIdle)
		return nil, ErrValidationFailed
	}

	totals := s.ComputeTotals(snapshot)
	s.setStateLocked(constants.CheckoutStateProcessing)

	delay := time.Duration(s.cfg.Checkout.ProcessingDelayMS) * time.Millisecond
	sub := &Submission{svc: s}
	sub.task = pending.After(delay, func() (interface{}, error) {
		receipt := &models.OrderReceipt{
			OrderNumber:   generateOrderNumber(),
			GrandTotal:    totals.GrandTotal,
			PaymentMethod: form.PaymentMethod,
			CreatedAt:     time.Now(),
		}
		if err := s.cart.Clear(); err != nil {
			logger.Warnw("cart_clear_on_submit_failed", "error", err)
		}

		s.mu.Lock()
		s.setStateLocked(constants.CheckoutStateCompleted)
		s.mu.Unlock()

		logger.Infow("order_submitted",
			"order_number", receipt.OrderNumber,
			"grand_total", receipt.GrandTotal.String(),
			"payment_method", receipt.PaymentMethod,
		)
		return receipt, nil
	})
	s.submission = sub
	return sub, nil
}

// Reset 从终态回到 Idle，准备下一次提交
func (s *CheckoutService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submission != nil && !s.submission.Done() {
		return
	}
	s.submission = nil
	s.setStateLocked(constants.CheckoutStateIdle)
}

func (s *CheckoutService) setStateLocked(target string) {
	if s.state == target {
		return
	}
	if !isCheckoutTransitionAllowed(s.state, target) {
		logger.Errorw("checkout_transition_rejected", "from", s.state, "to", target)
		return
	}
	s.state = target
}

func isCheckoutTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := checkoutTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}

func generateOrderNumber() string {
	return fmt.Sprintf("%s-%d-%s", constants.OrderNumberPrefix, time.Now().UnixMilli(), randNumeric(3))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(fmt.Sprintf("%d", n.Int64()))
	}
	return b.String()
}

package service

import "errors"

// 业务错误定义（handler 层通过 errors.Is 映射到响应码）
var (
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrInvalidEmail       = errors.New("error.invalid_email")
	ErrInvalidName        = errors.New("error.invalid_name")
	ErrEmailExists        = errors.New("error.email_exists")
	ErrWeakPassword       = errors.New("error.weak_password")
	ErrNotLoggedIn        = errors.New("error.not_logged_in")

	ErrInvalidLineItem = errors.New("error.invalid_line_item")

	ErrCartEmpty          = errors.New("error.cart_empty")
	ErrValidationFailed   = errors.New("error.validation_failed")
	ErrCheckoutInProgress = errors.New("error.checkout_in_progress")
	ErrInvalidTransition  = errors.New("error.invalid_state_transition")
)

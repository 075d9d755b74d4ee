package constants

// 持久化键常量（其它页面组件直接读取这些键，改名即破坏契约）
const (
	StoreKeySession = "user"  // 当前会话（SessionState JSON）
	StoreKeyUsers   = "users" // 用户注册表（UserRecord JSON 数组）
	StoreKeyCart    = "cart"  // 购物车（CartLineItem JSON 数组）
)

// 支付方式常量
const (
	PaymentMethodCreditCard     = "credit-card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodCashOnDelivery = "cash-on-delivery"
)

// 结算流程状态常量
const (
	CheckoutStateIdle       = "idle"
	CheckoutStateValidating = "validating"
	CheckoutStateProcessing = "processing"
	CheckoutStateCompleted  = "completed"
	CheckoutStateFailed     = "failed"
)

// 导航意图常量（核心只返回意图，不执行跳转）
const (
	NavigateNone   = ""
	NavigateHome   = "home"
	NavigateLogin  = "login"
	NavigateSignup = "signup"
)

// 订单号前缀
const OrderNumberPrefix = "ORD"

package models

// SessionState 当前会话状态（持久化到 user 键）
type SessionState struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsLoggedIn bool   `json:"isLoggedIn"`
	Token      string `json:"token,omitempty"`
}

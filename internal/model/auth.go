package model

// Credentials はログインリクエストのボディです
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup はアカウント作成リクエストのボディです
type Signup struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// TokenResponse はトークンをラップしたレスポンスです
type TokenResponse struct {
	Token *string `json:"token"`
}

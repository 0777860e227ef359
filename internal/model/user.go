// internal/model/user.go
package model

import "time"

// User はローカルで模擬的に管理するアカウントです
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	IsPremium     bool       `json:"isPremium"`
	PremiumExpiry *time.Time `json:"premiumExpiry,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// UserAccount は email をキーに保存される認証情報です
type UserAccount struct {
	PasswordHash string `json:"passwordHash"`
	User         User   `json:"user"`
}

// UserSettings はテーマ設定です
type UserSettings struct {
	DarkMode     bool   `json:"darkMode"`
	PrimaryColor string `json:"primaryColor"`
}

// DefaultSettings は保存された設定がないときの値です
func DefaultSettings() UserSettings {
	return UserSettings{DarkMode: true, PrimaryColor: "#8A2BE2"}
}

// PricingPlan は料金プランです (支払いは模擬)
type PricingPlan struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Price     int      `json:"price"`
	Duration  int      `json:"duration"` // 月
	Features  []string `json:"features"`
	IsPopular bool     `json:"isPopular,omitempty"`
}

// RegisterRequest は新規登録の入力です
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest はログインの入力です
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest はプロフィールの部分更新です
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty" validate:"omitnil,min=1,max=100"`
}

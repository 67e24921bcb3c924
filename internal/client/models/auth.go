// Package models defines the marketplace API types the client exchanges with
// the backend, plus a few client-only helpers.
package models

// User is the identity record returned by /auth/me and the login status call.
type User struct {
	ID          string   `json:"id"`
	TelegramID  string   `json:"telegramId"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Username    string   `json:"username,omitempty"`
	Email       string   `json:"email,omitempty"`
	AvatarURL   string   `json:"avatarUrl,omitempty"`
	Role        string   `json:"role"`
	Roles       []string `json:"roles,omitempty"`
	DisplayRole string   `json:"displayRole,omitempty"`
	Locale      string   `json:"locale"`
	IsActive    bool     `json:"isActive,omitempty"`
	IsBanned    bool     `json:"isBanned,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// DisplayName picks the friendliest non-empty name.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return u.ID
	}
}

// Tokens is the bearer credential pair issued by the backend.
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// LoginChallenge is the result of initiating a Telegram login.
type LoginChallenge struct {
	LoginToken string   `json:"loginToken"`
	DeepLink   string   `json:"deepLink"`
	Code       string   `json:"code"`
	Codes      []string `json:"codes,omitempty"`
	ExpiresAt  string   `json:"expiresAt,omitempty"`
	ExpiresIn  int      `json:"expiresIn,omitempty"`
}

// LoginStatus is one answer of the login status endpoint.
type LoginStatus struct {
	Authorized bool    `json:"authorized"`
	Expired    bool    `json:"expired,omitempty"`
	Tokens     *Tokens `json:"tokens,omitempty"`
	User       *User   `json:"user,omitempty"`
}

// RefreshResult wraps the token pair returned by /auth/refresh.
type RefreshResult struct {
	Tokens Tokens `json:"tokens"`
}

package models

type BotStatus string

const (
	BotPending  BotStatus = "PENDING"
	BotActive   BotStatus = "ACTIVE"
	BotRejected BotStatus = "REJECTED"
	BotBanned   BotStatus = "BANNED"
	BotPaused   BotStatus = "PAUSED"
)

type Bot struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"ownerId"`
	TelegramBotID     string    `json:"telegramBotId"`
	Username          string    `json:"username"`
	FirstName         string    `json:"firstName"`
	ShortDescription  string    `json:"shortDescription,omitempty"`
	Category          string    `json:"category"`
	Language          string    `json:"language"`
	TotalMembers      int       `json:"totalMembers"`
	ActiveMembers     int       `json:"activeMembers"`
	Monetized         bool      `json:"monetized"`
	IsPaused          bool      `json:"isPaused"`
	Status            BotStatus `json:"status"`
	PostFilter        string    `json:"postFilter"`
	AllowedCategories []string  `json:"allowedCategories,omitempty"`
	BlockedCategories []string  `json:"blockedCategories,omitempty"`
	FrequencyMinutes  int       `json:"frequencyMinutes"`
	TotalEarnings     Amount    `json:"totalEarnings"`
	PendingEarnings   Amount    `json:"pendingEarnings"`
	CurrentECPM       Amount    `json:"currentEcpm"`
	APIKey            string    `json:"apiKey,omitempty"`
	APIKeyRevoked     bool      `json:"apiKeyRevoked"`
	VerifiedAt        string    `json:"verifiedAt,omitempty"`
	CreatedAt         string    `json:"createdAt"`
	UpdatedAt         string    `json:"updatedAt"`
}

type RegisterBotRequest struct {
	Token            string `json:"token"`
	ShortDescription string `json:"shortDescription,omitempty"`
	Category         string `json:"category"`
	Language         string `json:"language"`
	Monetized        *bool  `json:"monetized,omitempty"`
}

// RegisteredBot is the registration result; the API key is shown only once.
type RegisteredBot struct {
	Bot    Bot    `json:"bot"`
	APIKey string `json:"apiKey"`
}

type UpdateBotRequest struct {
	ShortDescription  *string  `json:"shortDescription,omitempty"`
	Category          *string  `json:"category,omitempty"`
	Language          *string  `json:"language,omitempty"`
	Monetized         *bool    `json:"monetized,omitempty"`
	IsPaused          *bool    `json:"isPaused,omitempty"`
	PostFilter        *string  `json:"postFilter,omitempty"`
	AllowedCategories []string `json:"allowedCategories,omitempty"`
	BlockedCategories []string `json:"blockedCategories,omitempty"`
	FrequencyMinutes  *int     `json:"frequencyMinutes,omitempty"`
}

type BotStats struct {
	Bot              Bot    `json:"bot"`
	Period           int    `json:"period"`
	TotalImpressions int    `json:"totalImpressions"`
	TotalRevenue     Amount `json:"totalRevenue"`
	DailyStats       []struct {
		Date        string `json:"date"`
		Impressions int    `json:"impressions"`
		UniqueUsers int    `json:"uniqueUsers"`
		Clicks      int    `json:"clicks"`
		Revenue     Amount `json:"revenue"`
		ECPM        Amount `json:"ecpm"`
	} `json:"dailyStats"`
}

// BotFilter narrows GET /bots.
type BotFilter struct {
	Status string
	Limit  int
	Offset int
}

type Category struct {
	ID     string
	NameUZ string
	NameRU string
	NameEN string
}

var BotCategories = []Category{
	{ID: "technology", NameUZ: "Texnologiya", NameRU: "Технология", NameEN: "Technology"},
	{ID: "education", NameUZ: "Ta'lim", NameRU: "Образование", NameEN: "Education"},
	{ID: "news", NameUZ: "Yangiliklar", NameRU: "Новости", NameEN: "News"},
	{ID: "entertainment", NameUZ: "Ko'ngilochar", NameRU: "Развлечения", NameEN: "Entertainment"},
	{ID: "music", NameUZ: "Musiqa", NameRU: "Музыка", NameEN: "Music"},
	{ID: "download", NameUZ: "Yuklab olish", NameRU: "Скачивалки", NameEN: "Downloads"},
	{ID: "shopping", NameUZ: "Xarid", NameRU: "Покупки", NameEN: "Shopping"},
	{ID: "finance", NameUZ: "Moliya", NameRU: "Финансы", NameEN: "Finance"},
}

// Languages supported for bots, ads and the profile locale.
var Languages = []string{"uz", "ru", "en"}

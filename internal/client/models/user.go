package models

type Wallet struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Available      Amount `json:"available"`
	Reserved       Amount `json:"reserved"`
	Pending        Amount `json:"pending"`
	TotalDeposited Amount `json:"totalDeposited"`
	TotalWithdrawn Amount `json:"totalWithdrawn"`
	TotalEarned    Amount `json:"totalEarned"`
	TotalSpent     Amount `json:"totalSpent"`
	CreatedAt      string `json:"createdAt"`
	UpdatedAt      string `json:"updatedAt"`
}

type UserStats struct {
	TotalImpressions int     `json:"totalImpressions"`
	TotalClicks      int     `json:"totalClicks"`
	AverageCTR       float64 `json:"averageCtr"`
	TotalConversions int     `json:"totalConversions"`
	TotalSpent       Amount  `json:"totalSpent"`
	TotalEarned      Amount  `json:"totalEarned"`
}

type Profile struct {
	User   User      `json:"user"`
	Wallet Wallet    `json:"wallet"`
	Stats  UserStats `json:"stats"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Locale    string `json:"locale,omitempty"`
}

type RevenuePoint struct {
	Date     string `json:"date"`
	Earnings Amount `json:"earnings"`
}

type CTRPoint struct {
	Date string  `json:"date"`
	CTR  float64 `json:"ctr"`
}

type Analytics struct {
	Revenue []RevenuePoint `json:"revenue"`
	CTR     []CTRPoint     `json:"ctr"`
}

// AnalyticsKind selects the advertiser or bot-owner overview.
type AnalyticsKind string

const (
	AnalyticsAdvertiser AnalyticsKind = "advertiser"
	AnalyticsOwner      AnalyticsKind = "owner"
)

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

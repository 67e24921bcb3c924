package models

type AdContentType string

const (
	ContentText     AdContentType = "TEXT"
	ContentHTML     AdContentType = "HTML"
	ContentMarkdown AdContentType = "MARKDOWN"
	ContentMedia    AdContentType = "MEDIA"
	ContentPoll     AdContentType = "POLL"
)

type AdStatus string

const (
	AdDraft     AdStatus = "DRAFT"
	AdSubmitted AdStatus = "SUBMITTED"
	AdApproved  AdStatus = "APPROVED"
	AdRejected  AdStatus = "REJECTED"
	AdRunning   AdStatus = "RUNNING"
	AdPaused    AdStatus = "PAUSED"
	AdCompleted AdStatus = "COMPLETED"
	AdArchived  AdStatus = "ARCHIVED"
)

type Ad struct {
	ID                   string        `json:"id"`
	AdvertiserID         string        `json:"advertiserId"`
	ContentType          AdContentType `json:"contentType"`
	Title                string        `json:"title"`
	Text                 string        `json:"text"`
	HTMLContent          string        `json:"htmlContent,omitempty"`
	MarkdownContent      string        `json:"markdownContent,omitempty"`
	MediaURL             string        `json:"mediaUrl,omitempty"`
	MediaType            string        `json:"mediaType,omitempty"`
	Buttons              []AdButton    `json:"buttons,omitempty"`
	Poll                 *AdPoll       `json:"poll,omitempty"`
	TargetImpressions    int           `json:"targetImpressions"`
	DeliveredImpressions int           `json:"deliveredImpressions"`
	Clicks               int           `json:"clicks"`
	CTR                  float64       `json:"ctr"`
	BaseCPM              Amount        `json:"baseCpm"`
	CPMBid               Amount        `json:"cpmBid"`
	FinalCPM             Amount        `json:"finalCpm"`
	TotalCost            Amount        `json:"totalCost"`
	PlatformFee          Amount        `json:"platformFee"`
	BotOwnerRevenue      Amount        `json:"botOwnerRevenue"`
	RemainingBudget      Amount        `json:"remainingBudget"`
	Status               AdStatus      `json:"status"`
	Targeting            *AdTargeting  `json:"targeting,omitempty"`
	SpecificBotIDs       []string      `json:"specificBotIds,omitempty"`
	PromoCodeUsed        string        `json:"promoCodeUsed,omitempty"`
	Discount             Amount        `json:"discount"`
	IsSaved              bool          `json:"isSaved,omitempty"`
	CreatedAt            string        `json:"createdAt"`
	UpdatedAt            string        `json:"updatedAt"`
	CompletedAt          string        `json:"completedAt,omitempty"`
}

type AdButton struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

type AdPoll struct {
	Question              string   `json:"question"`
	Options               []string `json:"options"`
	AllowsMultipleAnswers bool     `json:"allowsMultipleAnswers,omitempty"`
	IsAnonymous           bool     `json:"isAnonymous,omitempty"`
}

type AdTargeting struct {
	Categories []string `json:"categories,omitempty"`
	AISegments []string `json:"aiSegments,omitempty"`
	Languages  []string `json:"languages,omitempty"`
	Frequency  string   `json:"frequency,omitempty"`
}

// Clone returns a deep copy; nil stays nil.
func (t *AdTargeting) Clone() *AdTargeting {
	if t == nil {
		return nil
	}
	return &AdTargeting{
		Categories: append([]string(nil), t.Categories...),
		AISegments: append([]string(nil), t.AISegments...),
		Languages:  append([]string(nil), t.Languages...),
		Frequency:  t.Frequency,
	}
}

// CreateAdRequest is the body of POST /ads and (partially) PUT /ads/:id.
type CreateAdRequest struct {
	ContentType       AdContentType `json:"contentType,omitempty"`
	Title             string        `json:"title,omitempty"`
	Text              string        `json:"text,omitempty"`
	HTMLContent       string        `json:"htmlContent,omitempty"`
	MarkdownContent   string        `json:"markdownContent,omitempty"`
	MediaURL          string        `json:"mediaUrl,omitempty"`
	MediaType         string        `json:"mediaType,omitempty"`
	Buttons           []AdButton    `json:"buttons,omitempty"`
	Poll              *AdPoll       `json:"poll,omitempty"`
	TargetImpressions int           `json:"targetImpressions,omitempty"`
	CPMBid            *float64      `json:"cpmBid,omitempty"`
	Targeting         *AdTargeting  `json:"targeting,omitempty"`
	SpecificBotIDs    []string      `json:"specificBotIds,omitempty"`
	PromoCode         string        `json:"promoCode,omitempty"`
	TrackingEnabled   bool          `json:"trackingEnabled,omitempty"`
}

type PricingTier struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Impressions int    `json:"impressions"`
	CPMBase     Amount `json:"cpmBase"`
	Discount    Amount `json:"discount"`
	IsActive    bool   `json:"isActive"`
	SortOrder   int    `json:"sortOrder"`
}

type EstimateRequest struct {
	Impressions int          `json:"impressions"`
	Category    string       `json:"category,omitempty"`
	Targeting   *AdTargeting `json:"targeting,omitempty"`
	CPMBid      *float64     `json:"cpmBid,omitempty"`
	PromoCode   string       `json:"promoCode,omitempty"`
}

type PricingEstimate struct {
	Tier    PricingTier `json:"tier"`
	Pricing struct {
		BaseCPM             Amount  `json:"baseCPM"`
		CategoryMultiplier  float64 `json:"categoryMultiplier"`
		TargetingMultiplier float64 `json:"targetingMultiplier"`
		FinalCPM            Amount  `json:"finalCPM"`
		PlatformFee         Amount  `json:"platformFee"`
		TotalCost           Amount  `json:"totalCost"`
		Discount            Amount  `json:"discount"`
		BotOwnerRevenue     Amount  `json:"botOwnerRevenue"`
	} `json:"pricing"`
	Breakdown struct {
		BaseCost            Amount `json:"baseCost"`
		CategoryAdjustment  Amount `json:"categoryAdjustment"`
		TargetingAdjustment Amount `json:"targetingAdjustment"`
		Subtotal            Amount `json:"subtotal"`
		Discount            Amount `json:"discount"`
		Total               Amount `json:"total"`
	} `json:"breakdown"`
}

type LocalizedName struct {
	UZ string `json:"uz"`
	RU string `json:"ru"`
	EN string `json:"en"`
}

type AISegment struct {
	ID          string  `json:"id"`
	NameUZ      string  `json:"nameUz"`
	NameRU      string  `json:"nameRu"`
	NameEN      string  `json:"nameEn"`
	Description string  `json:"description"`
	Multiplier  float64 `json:"multiplier"`
}

type TargetingOptions struct {
	Categories []struct {
		ID         string        `json:"id"`
		Name       LocalizedName `json:"name"`
		Multiplier float64       `json:"multiplier"`
	} `json:"categories"`
	AISegments  []AISegment `json:"aiSegments"`
	Languages   []string    `json:"languages"`
	Frequencies []string    `json:"frequencies"`
}

// Schedule is the body of POST /ads/:id/schedule.
type Schedule struct {
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	Timezone    string      `json:"timezone,omitempty"`
	ActiveDays  []int       `json:"activeDays,omitempty"`
	ActiveHours []HourRange `json:"activeHours,omitempty"`
}

type HourRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// StatPoint is one row of the daily, hourly or overview statistics series.
type StatPoint struct {
	Date        string  `json:"date,omitempty"`
	Hour        *int    `json:"hour,omitempty"`
	Impressions int     `json:"impressions"`
	Clicks      int     `json:"clicks"`
	CTR         float64 `json:"ctr"`
	Spent       Amount  `json:"spent"`
}

type AdPerformance struct {
	Ad struct {
		ID                   string   `json:"id"`
		Title                string   `json:"title"`
		Status               AdStatus `json:"status"`
		TargetImpressions    int      `json:"targetImpressions"`
		DeliveredImpressions int      `json:"deliveredImpressions"`
		Clicks               int      `json:"clicks"`
		CTR                  float64  `json:"ctr"`
		TotalCost            Amount   `json:"totalCost"`
		RemainingBudget      Amount   `json:"remainingBudget"`
	} `json:"ad"`
	BotBreakdown []struct {
		Bot struct {
			ID           string `json:"id"`
			Username     string `json:"username"`
			FirstName    string `json:"firstName"`
			TotalMembers int    `json:"totalMembers"`
		} `json:"bot"`
		Impressions int    `json:"impressions"`
		Revenue     Amount `json:"revenue"`
	} `json:"botBreakdown"`
	TotalClicks int `json:"totalClicks"`
}

type AdClick struct {
	ID             string `json:"id"`
	BotID          string `json:"botId,omitempty"`
	TelegramUserID string `json:"telegramUserId,omitempty"`
	URL            string `json:"url,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

// AdFilter narrows GET /ads.
type AdFilter struct {
	Status   string
	Saved    *bool
	Archived *bool
	Limit    int
	Offset   int
}

// Package validation holds the client-side form checks run before any
// request is sent. Each check returns nil or an Errors value listing every
// offending field.
package validation

import (
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/akhmads/adscli/internal/client/models"
)

const (
	MinPromoCodeLength   = 4
	MinAdTextLength      = 10
	MinTargetImpressions = 100
	MaxBotDescription    = 200
	MinFrequencyMinutes  = 1
)

var botTokenRe = regexp.MustCompile(`^\d+:[A-Za-z0-9_-]{35}$`)

type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (e Errors) Field(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

func (e *Errors) add(field, msg string) {
	*e = append(*e, FieldError{Field: field, Message: msg})
}

func (e Errors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// PromoCode trims and upper-cases code and checks its length.
func PromoCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var errs Errors
	switch {
	case code == "":
		errs.add("promoCode", "Enter a promo code")
	case len([]rune(code)) < MinPromoCodeLength:
		errs.add("promoCode", "Promo code must be at least 4 characters")
	}
	return code, errs.err()
}

// AdStep validates the wizard step the user is leaving. Steps beyond the
// targeting step have nothing to check.
func AdStep(step int, form models.AdForm) error {
	var errs Errors
	switch step {
	case 0:
		if len([]rune(strings.TrimSpace(form.Text))) < MinAdTextLength {
			errs.add("text", "Ad text must be at least 10 characters")
		}
		for i, b := range form.Buttons {
			if strings.TrimSpace(b.Text) == "" {
				errs.add(buttonField(i, "text"), "Button text is required")
			}
			if !isHTTPURL(b.URL) {
				errs.add(buttonField(i, "url"), "Button URL must start with http:// or https://")
			}
		}
	case 1:
		if form.TargetImpressions < MinTargetImpressions {
			errs.add("targetImpressions", "Minimum is 100 impressions")
		}
		for _, l := range form.Targeting.Languages {
			if !slices.Contains(models.Languages, l) {
				errs.add("targeting.languages", "Unsupported language "+l)
			}
		}
	}
	return errs.err()
}

func buttonField(i int, name string) string {
	return "buttons[" + strconv.Itoa(i) + "]." + name
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

const dateLayout = "2006-01-02"

func Schedule(s models.Schedule) error {
	var errs Errors

	start, serr := time.Parse(dateLayout, s.StartDate)
	if serr != nil {
		errs.add("startDate", "Use YYYY-MM-DD")
	}
	end, eerr := time.Parse(dateLayout, s.EndDate)
	if eerr != nil {
		errs.add("endDate", "Use YYYY-MM-DD")
	}
	if serr == nil && eerr == nil && !start.Before(end) {
		errs.add("endDate", "End date must be after start date")
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			errs.add("timezone", "Unknown timezone")
		}
	}
	for _, d := range s.ActiveDays {
		if d < 0 || d > 6 {
			errs.add("activeDays", "Days are 0 (Sunday) to 6")
			break
		}
	}
	for _, h := range s.ActiveHours {
		if h.Start < 0 || h.Start > 23 || h.End < 0 || h.End > 23 || h.Start > h.End {
			errs.add("activeHours", "Hours are 0 to 23, start not after end")
			break
		}
	}
	return errs.err()
}

func BotRegistration(req models.RegisterBotRequest) error {
	var errs Errors
	if !botTokenRe.MatchString(strings.TrimSpace(req.Token)) {
		errs.add("token", "Token must look like 123456789:ABC... as issued by @BotFather")
	}
	if !isCategory(req.Category) {
		errs.add("category", "Choose a category")
	}
	if !slices.Contains(models.Languages, req.Language) {
		errs.add("language", "Choose uz, ru or en")
	}
	if len([]rune(req.ShortDescription)) > MaxBotDescription {
		errs.add("shortDescription", "At most 200 characters")
	}
	return errs.err()
}

func BotSettings(req models.UpdateBotRequest) error {
	var errs Errors
	if req.FrequencyMinutes != nil && *req.FrequencyMinutes < MinFrequencyMinutes {
		errs.add("frequencyMinutes", "Frequency must be at least 1 minute")
	}
	if req.ShortDescription != nil && len([]rune(*req.ShortDescription)) > MaxBotDescription {
		errs.add("shortDescription", "At most 200 characters")
	}
	if req.Category != nil && !isCategory(*req.Category) {
		errs.add("category", "Choose a category")
	}
	if req.Language != nil && !slices.Contains(models.Languages, *req.Language) {
		errs.add("language", "Choose uz, ru or en")
	}
	if req.PostFilter != nil && !slices.Contains(PostFilters, *req.PostFilter) {
		errs.add("postFilter", "Choose all, allowed or blocked")
	}
	return errs.err()
}

// PostFilters are the accepted bot post filter modes.
var PostFilters = []string{"all", "allowed", "blocked"}

func Profile(req models.UpdateProfileRequest) error {
	var errs Errors
	if req.Email != "" {
		if a, err := mail.ParseAddress(req.Email); err != nil || a.Address != req.Email {
			errs.add("email", "Enter a valid email")
		}
	}
	if req.Locale != "" && !slices.Contains(models.Languages, req.Locale) {
		errs.add("locale", "Choose uz, ru or en")
	}
	return errs.err()
}

func isCategory(id string) bool {
	return slices.ContainsFunc(models.BotCategories, func(c models.Category) bool { return c.ID == id })
}

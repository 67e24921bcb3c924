package models

import (
	"errors"
	"strings"
	"time"
)

// AdForm is the state of the campaign wizard. It doubles as the payload of
// a locally saved draft.
type AdForm struct {
	ContentType       AdContentType `json:"contentType"`
	Title             string        `json:"title"`
	Text              string        `json:"text"`
	Buttons           []AdButton    `json:"buttons"`
	MediaURL          string        `json:"mediaUrl,omitempty"`
	MediaType         string        `json:"mediaType,omitempty"`
	Poll              *AdPoll       `json:"poll,omitempty"`
	TargetImpressions int           `json:"targetImpressions"`
	Targeting         AdTargeting   `json:"targeting"`
	CPMBid            *float64      `json:"cpmBid,omitempty"`
	PromoCode         string        `json:"promoCode,omitempty"`
}

// DefaultAdForm is the wizard's starting point.
func DefaultAdForm() AdForm {
	return AdForm{
		ContentType:       ContentText,
		Buttons:           []AdButton{},
		TargetImpressions: 1000,
		Targeting: AdTargeting{
			Languages: []string{"uz", "ru", "en"},
			Frequency: "unique",
		},
	}
}

// Draft is a wizard form saved in the local database.
type Draft struct {
	ID        string
	Name      string
	Form      AdForm
	UpdatedAt time.Time
}

var ErrIncorrectAssignment = errors.New("assignment must be name=value")

// Assignment is one "name=value" line typed by the user.
type Assignment struct {
	Name  string
	Value string
}

// ParseAssignments splits each line at the first '='. Names and values are
// trimmed; an empty name is rejected.
func ParseAssignments(lines []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(lines))
	for _, line := range lines {
		name, value, ok := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, ErrIncorrectAssignment
		}
		out = append(out, Assignment{Name: name, Value: strings.TrimSpace(value)})
	}
	return out, nil
}

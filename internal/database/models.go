package database

import (
	"time"

	"github.com/samber/lo"
)

type Status string

const (
	StatusYes   Status = "YES"
	StatusNo    Status = "NO"
	StatusMaybe Status = "MAYBE"
)

// Guest is one RSVP. Rows are never updated by the site; only the phone
// normalisation script rewrites them.
type Guest struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Phone         *string   `json:"phone"`
	Status        Status    `json:"status"`
	AdditionalQty int       `json:"additionalQty"`
	CompanionName *string   `json:"companionName"`
	Message       *string   `json:"message"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Headcount is the guest plus everyone they bring.
func (g *Guest) Headcount() int {
	return 1 + g.AdditionalQty
}

// NewGuest holds validated fields for CreateGuest.
type NewGuest struct {
	Name          string
	Phone         *string
	Status        Status
	AdditionalQty int
	CompanionName *string
	Message       *string
}

// Summary aggregates a roster for the admin pages.
type Summary struct {
	Total       int `json:"total"`
	Yes         int `json:"yes"`
	Maybe       int `json:"maybe"`
	No          int `json:"no"`
	TotalPeople int `json:"totalPeople"`
}

// Summarize counts guests by status. Any status other than YES or MAYBE
// counts as NO.
func Summarize(guests []*Guest) Summary {
	yes := lo.CountBy(guests, func(g *Guest) bool { return g.Status == StatusYes })
	maybe := lo.CountBy(guests, func(g *Guest) bool { return g.Status == StatusMaybe })

	return Summary{
		Total:       len(guests),
		Yes:         yes,
		Maybe:       maybe,
		No:          len(guests) - yes - maybe,
		TotalPeople: lo.SumBy(guests, func(g *Guest) int { return g.Headcount() }),
	}
}

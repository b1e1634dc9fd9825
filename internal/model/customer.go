// internal/model/customer.go
package model

import "time"

// Tier buckets a customer by lifetime spend.
type Tier string

const (
	TierBronze  Tier = "BRONZE"
	TierSilver  Tier = "SILVER"
	TierGold    Tier = "GOLD"
	TierPremium Tier = "PREMIUM"
)

type Customer struct {
	ID         int        `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Phone      string     `db:"phone" json:"phone"`
	TotalSpent float64    `db:"total_spent" json:"total_spent"`
	VisitCount int        `db:"visit_count" json:"visit_count"`
	LastVisit  *time.Time `db:"last_visit" json:"last_visit,omitempty"`
	City       string     `db:"city" json:"city"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Tier is derived from TotalSpent and never stored.
// BRONZE [0,5000], SILVER (5000,20000], GOLD (20000,50000], PREMIUM (50000,inf).
func (c *Customer) Tier() Tier {
	return TierFor(c.TotalSpent)
}

func TierFor(totalSpent float64) Tier {
	switch {
	case totalSpent > 50000:
		return TierPremium
	case totalSpent > 20000:
		return TierGold
	case totalSpent > 5000:
		return TierSilver
	default:
		return TierBronze
	}
}

// DaysSinceLastVisit is derived from LastVisit relative to now.
// Returns -1 when the customer has never visited.
func (c *Customer) DaysSinceLastVisit(now time.Time) int {
	if c.LastVisit == nil {
		return -1
	}
	return int(now.Sub(*c.LastVisit).Hours() / 24)
}

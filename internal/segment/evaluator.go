// internal/segment/evaluator.go
package segment

import (
	"time"

	"github.com/unclebandit/minicrm-backend/internal/model"
	"github.com/unclebandit/minicrm-backend/internal/rules"
)

// CustomerSource lists the customer population the evaluator scans.
// Implementations must return customers in a stable order (the SQL
// repositories order by id) so materialization is reproducible for
// identical inputs.
type CustomerSource interface {
	ListAll() ([]model.Customer, error)
}

// AudienceMember is the fixed projection returned by Materialize.
type AudienceMember struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	TotalSpent float64    `json:"total_spent"`
	VisitCount int        `json:"visit_count"`
	LastVisit  *time.Time `json:"last_visit,omitempty"`
}

// Evaluator applies compiled predicates to the customer population.
type Evaluator struct {
	Customers CustomerSource
}

func NewEvaluator(customers CustomerSource) *Evaluator {
	return &Evaluator{Customers: customers}
}

// Preview returns the audience size for a predicate without
// materializing any records.
func (e *Evaluator) Preview(pred rules.Predicate) (int, error) {
	customers, err := e.Customers.ListAll()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, c := range customers {
		if pred(c) {
			count++
		}
	}
	return count, nil
}

// Materialize returns up to limit matching customers as the fixed
// audience projection. A limit <= 0 means no bound.
func (e *Evaluator) Materialize(pred rules.Predicate, limit int) ([]AudienceMember, error) {
	customers, err := e.MaterializeAll(pred)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(customers) > limit {
		customers = customers[:limit]
	}
	members := make([]AudienceMember, len(customers))
	for i, c := range customers {
		members[i] = AudienceMember{
			ID:         c.ID,
			Name:       c.Name,
			Email:      c.Email,
			TotalSpent: c.TotalSpent,
			VisitCount: c.VisitCount,
			LastVisit:  c.LastVisit,
		}
	}
	return members, nil
}

// MaterializeAll returns every matching customer record. Dispatch uses
// this unbounded variant to build the full send list.
func (e *Evaluator) MaterializeAll(pred rules.Predicate) ([]model.Customer, error) {
	customers, err := e.Customers.ListAll()
	if err != nil {
		return nil, err
	}
	matched := []model.Customer{}
	for _, c := range customers {
		if pred(c) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

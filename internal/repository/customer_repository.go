// internal/repository/customer_repository.go
package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/unclebandit/minicrm-backend/internal/model"
)

// CustomerRepositoryInterface defines methods used by services
type CustomerRepositoryInterface interface {
	GetByID(id int) (*model.Customer, error)
	ListAll() ([]model.Customer, error)
	List(offset, limit int) ([]model.Customer, int, error)
	Create(c *model.Customer) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sqlx.DB
}

const customerColumns = `id, name, email, phone, total_spent, visit_count, last_visit, city, created_at`

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id int) (*model.Customer, error) {
	query := r.DB.Rebind(`SELECT ` + customerColumns + ` FROM customers WHERE id = ?`)

	var c model.Customer
	if err := r.DB.Get(&c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // not found
		}
		return nil, err
	}
	return &c, nil
}

// ListAll fetches the whole customer population in id order. Audience
// evaluation depends on this ordering for reproducible materialization.
func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	customers := []model.Customer{}
	err := r.DB.Select(&customers, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// List fetches a page of customers plus the total count.
func (r *CustomerRepository) List(offset, limit int) ([]model.Customer, int, error) {
	customers := []model.Customer{}
	query := r.DB.Rebind(`SELECT ` + customerColumns + ` FROM customers ORDER BY id LIMIT ? OFFSET ?`)
	if err := r.DB.Select(&customers, query, limit, offset); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.DB.Get(&total, `SELECT COUNT(*) FROM customers`); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// Create inserts a customer and fills in its generated id.
func (r *CustomerRepository) Create(c *model.Customer) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	query := r.DB.Rebind(`
        INSERT INTO customers (name, email, phone, total_spent, visit_count, last_visit, city, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        RETURNING id
    `)
	return r.DB.QueryRow(query, c.Name, c.Email, c.Phone, c.TotalSpent, c.VisitCount, c.LastVisit, c.City, c.CreatedAt).Scan(&c.ID)
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)

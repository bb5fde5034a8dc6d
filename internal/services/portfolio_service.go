package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/girik/portfolio-share-be/internal/models"
)

// PortfolioServiceProvider defines the interface for portfolio services.
type PortfolioServiceProvider interface {
	CreatePortfolio(userID string, portfolio models.Portfolio) (models.Portfolio, error)
	GetAllPortfolios() ([]models.Portfolio, error)
	GetPortfoliosByOwner(userID string) ([]models.Portfolio, error)
	GetPortfolioByID(id string) (models.Portfolio, error)
	UpdatePortfolio(id, userID string, update models.PortfolioUpdate) (models.Portfolio, error)
	DeletePortfolio(id, userID string) error
}

// PortfolioService provides business logic for portfolio management.
type PortfolioService struct {
	db *sql.DB
}

// NewPortfolioService creates a new PortfolioService.
func NewPortfolioService(db *sql.DB) *PortfolioService {
	return &PortfolioService{db: db}
}

// scanPortfolio is a helper to scan a portfolio from a row or rows object.
// Owner name/email columns are nullable so the same helper serves queries
// with and without the users join.
func scanPortfolio(scanner interface{ Scan(...interface{}) error }) (models.Portfolio, error) {
	var p models.Portfolio
	var link, tech, ownerName, ownerEmail sql.NullString

	err := scanner.Scan(
		&p.ID, &p.Title, &p.Description, &link, &tech,
		&p.Owner.ID, &ownerName, &ownerEmail, &p.CreatedAt,
	)
	if err != nil {
		return p, err
	}

	p.Link = link.String
	p.TechnologiesJSON = tech.String
	p.Owner.Name = ownerName.String
	p.Owner.Email = ownerEmail.String

	p.PrepareForAPI()
	return p, nil
}

// CreatePortfolio inserts a new portfolio owned by the given user. The owner
// is always the authenticated caller; any owner field on the payload is
// ignored.
func (s *PortfolioService) CreatePortfolio(userID string, portfolio models.Portfolio) (models.Portfolio, error) {
	if portfolio.Title == "" || portfolio.Description == "" {
		return models.Portfolio{}, fmt.Errorf("%w: title and description are required", ErrValidation)
	}

	portfolio.ID = uuid.New().String()
	portfolio.Owner = models.Owner{ID: userID}
	portfolio.CreatedAt = time.Now().UTC()
	portfolio.PrepareForSave()

	stmt, err := s.db.Prepare(`
		INSERT INTO portfolios(id, title, description, link, technologies_json, user_id, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.Portfolio{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(
		portfolio.ID, portfolio.Title, portfolio.Description, portfolio.Link,
		portfolio.TechnologiesJSON, portfolio.Owner.ID, portfolio.CreatedAt,
	)
	if err != nil {
		return models.Portfolio{}, err
	}

	return portfolio, nil
}

// GetAllPortfolios retrieves every portfolio, newest first, with the owner
// resolved to their public fields.
func (s *PortfolioService) GetAllPortfolios() ([]models.Portfolio, error) {
	const query = `
		SELECT p.id, p.title, p.description, p.link, p.technologies_json,
		       p.user_id, u.name, u.email, p.created_at
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.created_at DESC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetPortfoliosByOwner retrieves the given user's portfolios, newest first.
// The owner is not resolved here; the caller already knows who they are.
func (s *PortfolioService) GetPortfoliosByOwner(userID string) ([]models.Portfolio, error) {
	const query = `
		SELECT id, title, description, link, technologies_json,
		       user_id, NULL, NULL, created_at
		FROM portfolios
		WHERE user_id = ?
		ORDER BY created_at DESC`
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	portfolios := []models.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, rows.Err()
}

// GetPortfolioByID retrieves a single portfolio with the owner resolved.
func (s *PortfolioService) GetPortfolioByID(id string) (models.Portfolio, error) {
	const query = `
		SELECT p.id, p.title, p.description, p.link, p.technologies_json,
		       p.user_id, u.name, u.email, p.created_at
		FROM portfolios p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = ?`
	row := s.db.QueryRow(query, id)

	p, err := scanPortfolio(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Portfolio{}, ErrNotFound
		}
		return models.Portfolio{}, err
	}
	return p, nil
}

// UpdatePortfolio applies the fields present in the update to a portfolio
// owned by the given user. Nil fields are left untouched; a present empty
// value clears the field. The owner reference is never updatable.
func (s *PortfolioService) UpdatePortfolio(id, userID string, update models.PortfolioUpdate) (models.Portfolio, error) {
	portfolio, err := s.GetPortfolioByID(id)
	if err != nil {
		return models.Portfolio{}, err
	}
	if !portfolio.IsOwner(userID) {
		return models.Portfolio{}, ErrForbidden
	}

	if update.Title != nil {
		portfolio.Title = *update.Title
	}
	if update.Description != nil {
		portfolio.Description = *update.Description
	}
	if update.Link != nil {
		portfolio.Link = *update.Link
	}
	if update.Technologies != nil {
		portfolio.Technologies = *update.Technologies
	}

	if portfolio.Title == "" || portfolio.Description == "" {
		return models.Portfolio{}, fmt.Errorf("%w: title and description cannot be empty", ErrValidation)
	}

	portfolio.PrepareForSave()
	portfolio.PrepareForAPI()

	stmt, err := s.db.Prepare(`
		UPDATE portfolios SET title = ?, description = ?, link = ?, technologies_json = ?
		WHERE id = ?`)
	if err != nil {
		return models.Portfolio{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(portfolio.Title, portfolio.Description, portfolio.Link, portfolio.TechnologiesJSON, id)
	if err != nil {
		return models.Portfolio{}, err
	}

	return portfolio, nil
}

// DeletePortfolio removes a portfolio owned by the given user.
func (s *PortfolioService) DeletePortfolio(id, userID string) error {
	portfolio, err := s.GetPortfolioByID(id)
	if err != nil {
		return err
	}
	if !portfolio.IsOwner(userID) {
		return ErrForbidden
	}

	_, err = s.db.Exec("DELETE FROM portfolios WHERE id = ?", id)
	return err
}

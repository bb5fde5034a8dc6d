package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/girik/portfolio-share-be/internal/auth"
	"github.com/girik/portfolio-share-be/internal/models"
	"github.com/girik/portfolio-share-be/internal/services"
)

// PortfolioHandler handles HTTP requests for portfolios.
type PortfolioHandler struct {
	service services.PortfolioServiceProvider
}

// NewPortfolioHandler creates a new PortfolioHandler.
func NewPortfolioHandler(service services.PortfolioServiceProvider) *PortfolioHandler {
	return &PortfolioHandler{service: service}
}

// CreatePayload defines the structure for portfolio creation requests. There
// is deliberately no owner field; the owner always comes from the token.
type CreatePayload struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Link         string   `json:"link"`
	Technologies []string `json:"technologies"`
}

// Create handles the request to create a new portfolio for the
// authenticated user.
func (h *PortfolioHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	var payload CreatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	portfolio, err := h.service.CreatePortfolio(claims.UserID, models.Portfolio{
		Title:        payload.Title,
		Description:  payload.Description,
		Link:         payload.Link,
		Technologies: payload.Technologies,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			respondError(w, http.StatusBadRequest, "title and description are required")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to create portfolio")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Portfolio created successfully",
		"portfolio": portfolio,
	})
}

// GetAll handles the public request to list every portfolio, newest first.
func (h *PortfolioHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.service.GetAllPortfolios()
	if err != nil {
		log.Error().Err(err).Msg("Failed to retrieve portfolios")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, portfolios)
}

// GetMine handles the request to list the authenticated user's portfolios.
func (h *PortfolioHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	portfolios, err := h.service.GetPortfoliosByOwner(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to retrieve user portfolios")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, portfolios)
}

// Get handles the public request to fetch a single portfolio by its ID.
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	portfolio, err := h.service.GetPortfolioByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Portfolio not found")
			return
		}
		log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to retrieve portfolio")
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, portfolio)
}

// Update handles the request to partially update a portfolio the
// authenticated user owns.
func (h *PortfolioHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	id := chi.URLParam(r, "id")
	var update models.PortfolioUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	portfolio, err := h.service.UpdatePortfolio(id, claims.UserID, update)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "Portfolio not found")
		case errors.Is(err, services.ErrForbidden):
			respondError(w, http.StatusForbidden, "Not authorized to update this portfolio")
		case errors.Is(err, services.ErrValidation):
			respondError(w, http.StatusBadRequest, "title and description cannot be empty")
		default:
			log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to update portfolio")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Portfolio updated successfully",
		"portfolio": portfolio,
	})
}

// Delete handles the request to delete a portfolio the authenticated
// user owns.
func (h *PortfolioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing authentication")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.DeletePortfolio(id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			respondError(w, http.StatusNotFound, "Portfolio not found")
		case errors.Is(err, services.ErrForbidden):
			respondError(w, http.StatusForbidden, "Not authorized to delete this portfolio")
		default:
			log.Error().Err(err).Str("portfolio_id", id).Msg("Failed to delete portfolio")
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Portfolio deleted successfully"})
}

package models

import (
	"encoding/json"
	"time"
)

// Owner is the public slice of a portfolio's owning user. It is serialized
// under the "userId" key so listings carry the resolved owner in place of
// the raw reference. Name and email are only filled where the owner is
// resolved; personal listings carry just the id.
type Owner struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Portfolio represents a published project portfolio.
type Portfolio struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`

	// JSON string field for DB storage
	TechnologiesJSON string `json:"-"`

	// Slice field for API interaction
	Technologies []string `json:"technologies"`

	Owner     Owner     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PortfolioUpdate carries a partial update. Pointer fields distinguish a
// field absent from the payload (nil, left untouched) from one explicitly
// set, so clearing a value is expressible.
type PortfolioUpdate struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	Link         *string   `json:"link"`
	Technologies *[]string `json:"technologies"`
}

// IsOwner reports whether the given user owns this portfolio.
func (p *Portfolio) IsOwner(userID string) bool {
	return p.Owner.ID == userID
}

// PrepareForSave marshals the technologies slice into its JSON string for DB storage.
func (p *Portfolio) PrepareForSave() {
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
	techBytes, _ := json.Marshal(p.Technologies)
	p.TechnologiesJSON = string(techBytes)
}

// PrepareForAPI unmarshals the stored JSON string back into the slice field.
func (p *Portfolio) PrepareForAPI() {
	p.Technologies = []string{}
	if p.TechnologiesJSON != "" {
		_ = json.Unmarshal([]byte(p.TechnologiesJSON), &p.Technologies)
	}
	if p.Technologies == nil {
		p.Technologies = []string{}
	}
}

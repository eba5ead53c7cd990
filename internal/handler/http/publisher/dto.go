// Package publisher provides read-only HTTP handlers for seeded publishers.
package publisher

import (
	"time"

	"citygram-orlando/internal/domain/entity"
)

// DTO is the JSON form of a publisher.
type DTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Endpoint    string    `json:"endpoint"`
	Active      bool      `json:"active"`
	Visible     bool      `json:"visible"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
}

func toDTO(p *entity.Publisher) DTO {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return DTO{
		ID:          p.ID,
		Title:       p.Title,
		Endpoint:    p.Endpoint,
		Active:      p.Active,
		Visible:     p.Visible,
		City:        p.City,
		State:       p.State,
		Icon:        p.Icon,
		Description: p.Description,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
	}
}

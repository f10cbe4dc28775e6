package mapper

import (
	"time"

	"github.com/Apurer/parcel-intake-api/internal/domains/departments/domain"
	"github.com/Apurer/parcel-intake-api/internal/domains/departments/ports"
)

// Department is the HTTP representation of a dashboard department.
type Department struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       string    `json:"color"`
	Icon        string    `json:"icon"`
	IsCustom    bool      `json:"isCustom"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateDepartment is the inbound payload for custom departments.
type CreateDepartment struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

func ToCreateInput(in CreateDepartment) ports.CreateDepartmentInput {
	return ports.CreateDepartmentInput{
		Name:        in.Name,
		Description: in.Description,
		Color:       in.Color,
		Icon:        in.Icon,
	}
}

func FromDomain(d *domain.Department) Department {
	if d == nil {
		return Department{}
	}
	out := Department{
		ID:        d.ID,
		Name:      d.Name,
		Color:     d.Color,
		Icon:      d.Icon,
		IsCustom:  d.IsCustom,
		CreatedAt: d.CreatedAt,
	}
	if d.Description != "" {
		desc := d.Description
		out.Description = &desc
	}
	return out
}

func FromDomainList(list []*domain.Department) []Department {
	out := make([]Department, 0, len(list))
	for _, d := range list {
		out = append(out, FromDomain(d))
	}
	return out
}

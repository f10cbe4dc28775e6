package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName         = errors.New("department name is required")
	ErrBuiltInDepartment = errors.New("built-in departments cannot be deleted")
)

const (
	defaultColor = "gray"
	defaultIcon  = "box"
)

// Department is a dashboard lane parcels are displayed under.
type Department struct {
	ID          string
	Name        string
	Description string
	Color       string
	Icon        string
	IsCustom    bool
	CreatedAt   time.Time
}

// NewCustomDepartment validates and builds a user-defined department.
func NewCustomDepartment(id, name, description, color, icon string) (*Department, error) {
	d := &Department{
		ID:          id,
		Name:        strings.ToLower(strings.TrimSpace(name)),
		Description: strings.TrimSpace(description),
		Color:       strings.TrimSpace(color),
		Icon:        strings.TrimSpace(icon),
		IsCustom:    true,
	}
	if d.Name == "" {
		return nil, ErrEmptyName
	}
	if d.Color == "" {
		d.Color = defaultColor
	}
	if d.Icon == "" {
		d.Icon = defaultIcon
	}
	return d, nil
}

// CanDelete reports whether the department may be removed.
func (d *Department) CanDelete() error {
	if !d.IsCustom {
		return ErrBuiltInDepartment
	}
	return nil
}

// Defaults returns the built-in departments matching the routing lanes.
func Defaults() []Department {
	return []Department{
		{Name: "mail", Description: "Packages weighing up to 1kg", Color: "cyan", Icon: "envelope"},
		{Name: "regular", Description: "Packages weighing 1-10kg", Color: "blue", Icon: "box"},
		{Name: "heavy", Description: "Packages weighing over 10kg", Color: "orange", Icon: "weight-hanging"},
		{Name: "insurance", Description: "High-value packages requiring approval", Color: "purple", Icon: "shield-alt"},
	}
}

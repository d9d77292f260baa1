package assessment

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusgrid/assessment-service/internal/core"
)

type Input struct {
	ClassID      string     `json:"class_id" validate:"required"`
	Title        string     `json:"title" validate:"required,min=3"`
	Description  string     `json:"description"`
	Type         Type       `json:"type" validate:"required,oneof=exam assignment project quiz presentation participation"`
	TotalPoints  float64    `json:"total_points" validate:"required,gt=0"`
	Weight       float64    `json:"weight" validate:"required,gt=0"`
	AvailableFrom *time.Time `json:"available_from"`
	AvailableTo   *time.Time `json:"available_to"`
	DueDate       *time.Time `json:"due_date"`
	IsActive      *bool      `json:"is_active"`
	Instructions  string     `json:"instructions"`
}

// New validates an authoring payload and stamps the author. createdBy comes
// from the authorization layer; a payload-supplied value never reaches here.
func New(in Input, createdBy string) (Assessment, error) {
	if err := core.Validator.Struct(in); err != nil {
		return Assessment{}, core.FromValidator(err)
	}
	if createdBy == "" {
		return Assessment{}, core.FieldError("created_by", "author identity required")
	}
	if in.AvailableFrom != nil && in.AvailableTo != nil && in.AvailableFrom.After(*in.AvailableTo) {
		return Assessment{}, core.New(core.KindInvalidDateRange, "available_from must not be after available_to")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	return Assessment{
		ID:            uuid.NewString(),
		ClassID:       in.ClassID,
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		Type:          in.Type,
		TotalPoints:   in.TotalPoints,
		Weight:        in.Weight,
		AvailableFrom: in.AvailableFrom,
		AvailableTo:   in.AvailableTo,
		DueDate:       in.DueDate,
		IsActive:      active,
		Instructions:  in.Instructions,
		CreatedBy:     createdBy,
	}, nil
}

// ComputeStatus derives the availability phase at now. The precedence chain
// is deliberate: inactive wins, then not-yet-open, then past-due, then
// in-window, then scheduled as the fallback.
func ComputeStatus(a Assessment, now time.Time) Status {
	if !a.IsActive {
		return StatusInactive
	}
	if a.AvailableFrom != nil && now.Before(*a.AvailableFrom) {
		return StatusScheduled
	}
	if a.DueDate != nil && now.After(*a.DueDate) {
		return StatusCompleted
	}
	if a.AvailableTo != nil && now.After(*a.AvailableTo) {
		return StatusScheduled
	}
	return StatusInProgress
}

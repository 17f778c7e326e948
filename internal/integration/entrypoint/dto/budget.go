// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/budgetflow/backend/internal/application/usecase/budget"
	"github.com/budgetflow/backend/internal/application/usecase/suggestion"
	"github.com/budgetflow/backend/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// CreateTemplateRequest represents the request body for budget template creation.
type CreateTemplateRequest struct {
	CategoryID string  `json:"category_id" binding:"required,uuid"`
	Name       string  `json:"name" binding:"required,min=1,max=100"`
	Amount     string  `json:"amount" binding:"required"`
	Currency   string  `json:"currency,omitempty" binding:"omitempty,len=3"`
	Frequency  string  `json:"frequency" binding:"required,oneof=daily weekly monthly yearly"`
	Interval   int     `json:"interval,omitempty" binding:"omitempty,gte=1"`
	AnchorDate string  `json:"anchor_date" binding:"required"`
	EndDate    *string `json:"end_date,omitempty"`
}

// UpdateTemplateRequest represents the request body for budget template update.
// Nil fields are left unchanged; clear_end_date removes the end date.
type UpdateTemplateRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Amount       *string `json:"amount,omitempty"`
	IsActive     *bool   `json:"is_active,omitempty"`
	EndDate      *string `json:"end_date,omitempty"`
	ClearEndDate bool    `json:"clear_end_date,omitempty"`
}

// UpdateInstanceRequest represents the request body for budget instance update.
type UpdateInstanceRequest struct {
	Amount *string `json:"amount,omitempty"`
	Status *string `json:"status,omitempty" binding:"omitempty,oneof=active inactive"`
}

// TemplateResponse represents a budget template in API responses.
type TemplateResponse struct {
	ID                     string     `json:"id"`
	UserID                 string     `json:"user_id"`
	CategoryID             string     `json:"category_id"`
	Name                   string     `json:"name"`
	Amount                 string     `json:"amount"`
	Currency               string     `json:"currency"`
	Frequency              string     `json:"frequency"`
	Interval               int        `json:"interval"`
	AnchorDate             string     `json:"anchor_date"`
	EndDate                *string    `json:"end_date,omitempty"`
	IsActive               bool       `json:"is_active"`
	LastGeneratedPeriodEnd *string    `json:"last_generated_period_end,omitempty"`
	NextDueAt              *time.Time `json:"next_due_at,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

// TemplateListResponse represents the response for listing budget templates.
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// InstanceResponse represents a budget instance in API responses.
type InstanceResponse struct {
	ID          string    `json:"id"`
	TemplateID  string    `json:"template_id"`
	CategoryID  string    `json:"category_id"`
	Name        string    `json:"name"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	PeriodStart string    `json:"period_start"`
	PeriodEnd   string    `json:"period_end"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InstanceListResponse represents the response for listing budget instances.
type InstanceListResponse struct {
	Instances []InstanceResponse `json:"instances"`
}

// SuggestionResponse represents a budget amount suggestion in API responses.
type SuggestionResponse struct {
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	Rationale  string `json:"rationale"`
	SampleSize int    `json:"sample_size"`
}

// ToTemplateResponse converts a domain BudgetTemplate entity to a TemplateResponse DTO.
func ToTemplateResponse(t *entity.BudgetTemplate) TemplateResponse {
	response := TemplateResponse{
		ID:         t.ID.String(),
		UserID:     t.UserID.String(),
		CategoryID: t.CategoryID.String(),
		Name:       t.Name,
		Amount:     t.Amount.StringFixed(2),
		Currency:   t.Currency,
		Frequency:  string(t.Rule.Frequency),
		Interval:   t.Rule.Interval,
		AnchorDate: t.Rule.AnchorDate.Format(dateLayout),
		IsActive:   t.IsActive,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}

	if t.Rule.EndDate != nil {
		dateStr := t.Rule.EndDate.Format(dateLayout)
		response.EndDate = &dateStr
	}
	if t.LastGeneratedPeriodEnd != nil {
		dateStr := t.LastGeneratedPeriodEnd.Format(dateLayout)
		response.LastGeneratedPeriodEnd = &dateStr
	}

	return response
}

// ToTemplateListResponse converts templates with schedules to a TemplateListResponse.
func ToTemplateListResponse(templates []budget.TemplateWithSchedule) TemplateListResponse {
	responses := make([]TemplateResponse, len(templates))
	for i, t := range templates {
		responses[i] = ToTemplateResponse(t.Template)
		responses[i].NextDueAt = t.NextDueAt
	}
	return TemplateListResponse{
		Templates: responses,
	}
}

// ToInstanceResponse converts a domain BudgetInstance entity to an InstanceResponse DTO.
func ToInstanceResponse(instance *entity.BudgetInstance) InstanceResponse {
	return InstanceResponse{
		ID:          instance.ID.String(),
		TemplateID:  instance.TemplateID.String(),
		CategoryID:  instance.CategoryID.String(),
		Name:        instance.Name,
		Amount:      instance.Amount.StringFixed(2),
		Currency:    instance.Currency,
		PeriodStart: instance.PeriodStart.Format(dateLayout),
		PeriodEnd:   instance.PeriodEnd.Format(dateLayout),
		Status:      string(instance.Status),
		CreatedAt:   instance.CreatedAt,
		UpdatedAt:   instance.UpdatedAt,
	}
}

// ToInstanceListResponse converts domain instances to an InstanceListResponse.
func ToInstanceListResponse(instances []*entity.BudgetInstance) InstanceListResponse {
	responses := make([]InstanceResponse, len(instances))
	for i, instance := range instances {
		responses[i] = ToInstanceResponse(instance)
	}
	return InstanceListResponse{
		Instances: responses,
	}
}

// ToSuggestionResponse converts a suggestion output to a SuggestionResponse DTO.
func ToSuggestionResponse(output *suggestion.SuggestAmountOutput) SuggestionResponse {
	return SuggestionResponse{
		Amount:     output.Amount.StringFixed(2),
		Currency:   output.Currency,
		Rationale:  output.Rationale,
		SampleSize: output.SampleSize,
	}
}

// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetflow/backend/internal/application/usecase/budget"
	"github.com/budgetflow/backend/internal/application/usecase/generation"
	"github.com/budgetflow/backend/internal/application/usecase/suggestion"
	"github.com/budgetflow/backend/internal/domain/entity"
	domainerror "github.com/budgetflow/backend/internal/domain/error"
	"github.com/budgetflow/backend/internal/domain/valueobject"
	"github.com/budgetflow/backend/internal/integration/entrypoint/dto"
	"github.com/budgetflow/backend/internal/integration/entrypoint/middleware"
)

const dateLayout = "2006-01-02"

// BudgetController handles budget template and instance endpoints. Reads of
// the instance collection double as the generation trigger: before serving
// the list, the controller pokes the engine, which decides on its own
// whether a run is due. The request never waits for generation to finish.
type BudgetController struct {
	createTemplateUseCase *budget.CreateTemplateUseCase
	listTemplatesUseCase  *budget.ListTemplatesUseCase
	updateTemplateUseCase *budget.UpdateTemplateUseCase
	deleteTemplateUseCase *budget.DeleteTemplateUseCase
	listInstancesUseCase  *budget.ListInstancesUseCase
	updateInstanceUseCase *budget.UpdateInstanceUseCase
	deleteInstanceUseCase *budget.DeleteInstanceUseCase
	suggestAmountUseCase  *suggestion.SuggestAmountUseCase
	maybeGenerate         *generation.MaybeGenerateUseCase
}

// NewBudgetController creates a new budget controller instance.
func NewBudgetController(
	createTemplateUseCase *budget.CreateTemplateUseCase,
	listTemplatesUseCase *budget.ListTemplatesUseCase,
	updateTemplateUseCase *budget.UpdateTemplateUseCase,
	deleteTemplateUseCase *budget.DeleteTemplateUseCase,
	listInstancesUseCase *budget.ListInstancesUseCase,
	updateInstanceUseCase *budget.UpdateInstanceUseCase,
	deleteInstanceUseCase *budget.DeleteInstanceUseCase,
	suggestAmountUseCase *suggestion.SuggestAmountUseCase,
	maybeGenerate *generation.MaybeGenerateUseCase,
) *BudgetController {
	return &BudgetController{
		createTemplateUseCase: createTemplateUseCase,
		listTemplatesUseCase:  listTemplatesUseCase,
		updateTemplateUseCase: updateTemplateUseCase,
		deleteTemplateUseCase: deleteTemplateUseCase,
		listInstancesUseCase:  listInstancesUseCase,
		updateInstanceUseCase: updateInstanceUseCase,
		deleteInstanceUseCase: deleteInstanceUseCase,
		suggestAmountUseCase:  suggestAmountUseCase,
		maybeGenerate:         maybeGenerate,
	}
}

// CreateTemplate handles POST /budget-templates requests.
func (c *BudgetController) CreateTemplate(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	var req dto.CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid category ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid amount format",
			Code:  string(domainerror.ErrCodeInvalidAmount),
		})
		return
	}

	anchorDate, err := time.Parse(dateLayout, req.AnchorDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid anchor date, expected YYYY-MM-DD",
			Code:  string(domainerror.ErrCodeMissingAnchorDate),
		})
		return
	}

	rule := valueobject.RecurrenceRule{
		Frequency:  valueobject.Frequency(req.Frequency),
		Interval:   req.Interval,
		AnchorDate: anchorDate,
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}
	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidEndDate),
			})
			return
		}
		rule.EndDate = &endDate
	}

	input := budget.CreateTemplateInput{
		UserID:     userID,
		CategoryID: categoryID,
		Name:       req.Name,
		Amount:     amount,
		Currency:   req.Currency,
		Rule:       rule,
	}

	output, err := c.createTemplateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.ToTemplateResponse(output.Template))
}

// ListTemplates handles GET /budget-templates requests.
func (c *BudgetController) ListTemplates(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	output, err := c.listTemplatesUseCase.Execute(ctx.Request.Context(), budget.ListTemplatesInput{UserID: userID})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve budget templates",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTemplateListResponse(output.Templates))
}

// UpdateTemplate handles PUT /budget-templates/:id requests.
func (c *BudgetController) UpdateTemplate(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	templateID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid template ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	var req dto.UpdateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	input := budget.UpdateTemplateInput{
		UserID:     userID,
		TemplateID: templateID,
		Name:       req.Name,
		IsActive:   req.IsActive,
		ClearEnd:   req.ClearEndDate,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid amount format",
				Code:  string(domainerror.ErrCodeInvalidAmount),
			})
			return
		}
		input.Amount = &amount
	}

	if req.EndDate != nil {
		endDate, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid end date, expected YYYY-MM-DD",
				Code:  string(domainerror.ErrCodeInvalidEndDate),
			})
			return
		}
		input.EndDate = &endDate
	}

	output, err := c.updateTemplateUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToTemplateResponse(output.Template))
}

// DeleteTemplate handles DELETE /budget-templates/:id requests. Instances
// already generated from the template survive the deletion.
func (c *BudgetController) DeleteTemplate(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	templateID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid template ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	if err := c.deleteTemplateUseCase.Execute(ctx.Request.Context(), budget.DeleteTemplateInput{
		UserID:     userID,
		TemplateID: templateID,
	}); err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// SuggestAmount handles GET /budget-templates/:id/suggestion requests.
func (c *BudgetController) SuggestAmount(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	templateID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid template ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	output, err := c.suggestAmountUseCase.Execute(ctx.Request.Context(), suggestion.SuggestAmountInput{
		TemplateID: templateID,
		UserID:     userID,
	})
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSuggestionResponse(output))
}

// ListInstances handles GET /budgets requests. This read is the engine's
// invocation point: it fires an opportunistic generation check before
// querying, without waiting for the result.
func (c *BudgetController) ListInstances(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	if c.maybeGenerate != nil {
		c.maybeGenerate.Execute(time.Now().UTC())
	}

	input := budget.ListInstancesInput{UserID: userID}

	if fromStr := ctx.Query("from"); fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid from date, expected YYYY-MM-DD",
			})
			return
		}
		input.From = &from
	}
	if toStr := ctx.Query("to"); toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid to date, expected YYYY-MM-DD",
			})
			return
		}
		input.To = &to
	}
	if templateStr := ctx.Query("template_id"); templateStr != "" {
		templateID, err := uuid.Parse(templateStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid template ID format",
			})
			return
		}
		input.TemplateID = &templateID
	}

	output, err := c.listInstancesUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error: "Failed to retrieve budgets",
		})
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstanceListResponse(output.Instances))
}

// UpdateInstance handles PUT /budgets/:id requests.
func (c *BudgetController) UpdateInstance(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	instanceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid budget ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	var req dto.UpdateInstanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid request body: " + err.Error(),
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	input := budget.UpdateInstanceInput{
		UserID:     userID,
		InstanceID: instanceID,
	}

	if req.Amount != nil {
		amount, err := decimal.NewFromString(*req.Amount)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error: "Invalid amount format",
				Code:  string(domainerror.ErrCodeInvalidAmount),
			})
			return
		}
		input.Amount = &amount
	}
	if req.Status != nil {
		status := entity.InstanceStatus(*req.Status)
		input.Status = &status
	}

	output, err := c.updateInstanceUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInstanceResponse(output.Instance))
}

// DeleteInstance handles DELETE /budgets/:id requests. A deleted budget is
// never regenerated for the same period.
func (c *BudgetController) DeleteInstance(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.unauthorized(ctx)
		return
	}

	instanceID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: "Invalid budget ID format",
			Code:  string(domainerror.ErrCodeMissingBudgetFields),
		})
		return
	}

	if err := c.deleteInstanceUseCase.Execute(ctx.Request.Context(), budget.DeleteInstanceInput{
		UserID:     userID,
		InstanceID: instanceID,
	}); err != nil {
		c.handleBudgetError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// unauthorized writes the standard not-authenticated response.
func (c *BudgetController) unauthorized(ctx *gin.Context) {
	ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: "User not authenticated",
		Code:  string(domainerror.ErrCodeMissingToken),
	})
}

// handleBudgetError handles budget and recurrence rule errors and returns
// appropriate HTTP responses.
func (c *BudgetController) handleBudgetError(ctx *gin.Context, err error) {
	var budgetErr *domainerror.BudgetError
	if errors.As(err, &budgetErr) {
		statusCode := c.getStatusCodeForBudgetError(budgetErr.Code)
		ctx.JSON(statusCode, dto.ErrorResponse{
			Error: budgetErr.Message,
			Code:  string(budgetErr.Code),
		})
		return
	}

	var genErr *domainerror.GenerationError
	if errors.As(err, &genErr) && domainerror.IsRuleError(err) {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error: genErr.Message,
			Code:  string(genErr.Code),
		})
		return
	}

	ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error: "An internal error occurred",
	})
}

// getStatusCodeForBudgetError maps budget error codes to HTTP status codes.
func (c *BudgetController) getStatusCodeForBudgetError(code domainerror.BudgetErrorCode) int {
	switch code {
	case domainerror.ErrCodeInvalidAmount,
		domainerror.ErrCodeInvalidInstanceStatus,
		domainerror.ErrCodeMissingBudgetFields:
		return http.StatusBadRequest
	case domainerror.ErrCodeTemplateNotFound,
		domainerror.ErrCodeInstanceNotFound,
		domainerror.ErrCodeTemplateCategoryNotFound:
		return http.StatusNotFound
	case domainerror.ErrCodeUnauthorizedBudgetAccess,
		domainerror.ErrCodeCategoryDoesNotBelongUser:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// BudgetHandler handles budget-related requests
type BudgetHandler struct {
	data userdata.DataContext
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(data userdata.DataContext) *BudgetHandler {
	return &BudgetHandler{data: data}
}

// BudgetNameRequest is the payload for creating or renaming a budget
type BudgetNameRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// SwitchBudgetRequest selects the active budget
type SwitchBudgetRequest struct {
	BudgetID string `json:"budget_id" binding:"required"`
}

// JoinBudgetRequest carries a share code
type JoinBudgetRequest struct {
	Code string `json:"code" binding:"required,share_code"`
}

// ListBudgets returns every budget of the user
// @Summary     List budgets
// @Tags        budgets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Budget
// @Failure     401 {object} ErrorResponse "Not signed in"
// @Router      /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	profile := h.data.Snapshot()
	if profile == nil {
		respondWithError(c, apperrors.ErrNotAuthenticated)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"budgets":          profile.Budgets,
		"active_budget_id": profile.ActiveBudgetID,
	})
}

// CreateBudget creates a budget and makes it active
// @Summary     Create a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body BudgetNameRequest true "Budget name"
// @Success     201 {object} models.Budget
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	var req BudgetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.data.CreateBudget(c.Request.Context(), req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"budget": budget})
}

// SwitchBudget selects the active budget
// @Summary     Switch active budget
// @Tags        budgets
// @Accept      json
// @Security    BearerAuth
// @Param       request body SwitchBudgetRequest true "Budget to activate"
// @Success     204 "Switched"
// @Router      /budgets/active [put]
func (h *BudgetHandler) SwitchBudget(c *gin.Context) {
	var req SwitchBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	if err := h.data.SwitchBudget(c.Request.Context(), req.BudgetID); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RenameBudget renames a budget
// @Summary     Rename a budget
// @Tags        budgets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Param       request body BudgetNameRequest true "New name"
// @Success     200 {object} models.Budget
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Router      /budgets/{id} [put]
func (h *BudgetHandler) RenameBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req BudgetNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	budget, err := h.data.RenameBudget(c.Request.Context(), id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// DeleteBudget deletes a budget
// @Summary     Delete a budget
// @Description The last budget and the active budget cannot be deleted
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Success     204 "Deleted"
// @Failure     409 {object} ErrorResponse "Last or active budget"
// @Router      /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.data.DeleteBudgetChecked(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// JoinBudget joins a shared budget by code
// @Summary     Join a budget
// @Tags        budgets
// @Accept      json
// @Security    BearerAuth
// @Param       request body JoinBudgetRequest true "Share code"
// @Failure     501 {object} ErrorResponse "Not implemented"
// @Router      /budgets/join [post]
func (h *BudgetHandler) JoinBudget(c *gin.Context) {
	var req JoinBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}
	budget, err := h.data.JoinBudgetByCode(c.Request.Context(), req.Code)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// FindBudgetByCode looks up a budget by share code
// @Summary     Find a budget by code
// @Tags        budgets
// @Security    BearerAuth
// @Param       code path string true "Share code"
// @Failure     501 {object} ErrorResponse "Not implemented"
// @Router      /budgets/code/{code} [get]
func (h *BudgetHandler) FindBudgetByCode(c *gin.Context) {
	budget, err := h.data.FindBudgetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// LeaveBudget removes the user from a shared budget
// @Summary     Leave a shared budget
// @Tags        budgets
// @Security    BearerAuth
// @Param       id path string true "Budget ID"
// @Failure     501 {object} ErrorResponse "Not implemented"
// @Router      /budgets/{id}/membership [delete]
func (h *BudgetHandler) LeaveBudget(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.data.LeaveBudgetAsCollaborator(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

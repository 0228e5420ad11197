package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/models"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/pagination"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// EntryHandler handles entries of the active budget
type EntryHandler struct {
	data userdata.DataContext
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(data userdata.DataContext) *EntryHandler {
	return &EntryHandler{data: data}
}

// EntryRequest is the payload for creating or updating an entry
type EntryRequest struct {
	Date        string  `json:"date" binding:"omitempty,entry_date"`
	Description string  `json:"description" binding:"max=255"`
	Category    string  `json:"category" binding:"required,max=100"`
	Amount      float64 `json:"amount" binding:"required"`
	Type        string  `json:"type" binding:"required,entry_type"`
}

func (r EntryRequest) input() userdata.EntryInput {
	return userdata.EntryInput{
		Date:        r.Date,
		Description: r.Description,
		Category:    r.Category,
		Amount:      r.Amount,
		Type:        models.EntryType(r.Type),
	}
}

// ListEntries returns a page of the active budget's entries, newest first
// @Summary     List entries
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Success     200 {object} pagination.PageResponse[models.BudgetEntry]
// @Failure     404 {object} ErrorResponse "No active budget"
// @Router      /entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	resp, err := h.data.ListEntries(page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateEntry adds an entry to the active budget
// @Summary     Create an entry
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body EntryRequest true "Entry"
// @Success     201 {object} models.BudgetEntry
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /entries [post]
func (h *EntryHandler) CreateEntry(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entry, err := h.data.AddEntry(c.Request.Context(), req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// UpdateEntry replaces the editable fields of an entry
// @Summary     Update an entry
// @Tags        entries
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Param       request body EntryRequest true "Entry"
// @Success     200 {object} models.BudgetEntry
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [put]
func (h *EntryHandler) UpdateEntry(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	entry, err := h.data.UpdateEntry(c.Request.Context(), id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// DeleteEntry removes an entry
// @Summary     Delete an entry
// @Tags        entries
// @Security    BearerAuth
// @Param       id path string true "Entry ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Entry not found"
// @Router      /entries/{id} [delete]
func (h *EntryHandler) DeleteEntry(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := h.data.DeleteEntry(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSummary aggregates the active budget
// @Summary     Active budget summary
// @Tags        entries
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} userdata.Summary
// @Router      /summary [get]
func (h *EntryHandler) GetSummary(c *gin.Context) {
	summary, err := h.data.Summary()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

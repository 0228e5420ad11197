package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/errors"
	"github.com/LorenzoMarty/PlannerFinan-as-sub000/internal/userdata"
)

// maxImportSize bounds the import body.
const maxImportSize = 10 << 20

// TransferHandler handles export and import of the profile document
type TransferHandler struct {
	data userdata.DataContext
	now  func() time.Time
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(data userdata.DataContext) *TransferHandler {
	return &TransferHandler{data: data, now: time.Now}
}

// Export downloads the profile as JSON
// @Summary     Export user data
// @Tags        transfer
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.UserProfile
// @Failure     401 {object} ErrorResponse "Not signed in"
// @Router      /export [get]
func (h *TransferHandler) Export(c *gin.Context) {
	body, err := h.data.ExportUserData(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	filename := fmt.Sprintf("plannerfinancas-%s.json", h.now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// Import replaces the profile with an uploaded document
// @Summary     Import user data
// @Tags        transfer
// @Accept      json
// @Security    BearerAuth
// @Param       request body models.UserProfile true "Profile document"
// @Success     204 "Imported"
// @Failure     400 {object} ErrorResponse "Invalid document"
// @Router      /import [post]
func (h *TransferHandler) Import(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidImport, err))
		return
	}
	if err := h.data.ImportUserData(c.Request.Context(), body); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bell24h/supplierrisk/internal/application/dto"
	"github.com/bell24h/supplierrisk/internal/application/service"
	"github.com/bell24h/supplierrisk/pkg/constants"
	"github.com/bell24h/supplierrisk/pkg/errors"
	"github.com/bell24h/supplierrisk/pkg/utils"
)

// SupplierHandler manages supplier records and their assessment history.
type SupplierHandler struct {
	svc service.SupplierRiskAppService
}

// NewSupplierHandler creates a new SupplierHandler.
func NewSupplierHandler(svc service.SupplierRiskAppService) *SupplierHandler {
	return &SupplierHandler{svc: svc}
}

// UpsertSupplier handles PUT /api/v1/suppliers/:supplier_id. The path id wins when the
// body carries none; a conflicting body id is rejected.
func (h *SupplierHandler) UpsertSupplier(c *gin.Context) {
	supplierID := c.Param("supplier_id")
	profile, ok := bindSupplier(c)
	if !ok {
		return
	}
	if profile.ID == "" {
		profile.ID = supplierID
	}
	if profile.ID != supplierID {
		dto.SendError(c, errors.ErrInvalidRequest("supplier id in body does not match path"))
		return
	}

	stored, err := h.svc.UpsertSupplier(c.Request.Context(), profile)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, stored)
}

// ListAssessments handles GET /api/v1/suppliers/:supplier_id/assessments?limit=N.
func (h *SupplierHandler) ListAssessments(c *gin.Context) {
	limit := constants.DefaultAssessmentPageSize
	if raw, ok := c.GetQuery("limit"); ok {
		limit = utils.StringToInt(raw, -1)
		if limit <= 0 {
			dto.SendError(c, errors.ErrInvalidParameterFormat("limit", "positive integer"))
			return
		}
	}

	resp, err := h.svc.ListAssessments(c.Request.Context(), c.Param("supplier_id"), limit)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, resp)
}

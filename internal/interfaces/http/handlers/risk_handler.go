// Package handlers contains the HTTP handlers of the supplier risk API.
package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/bell24h/supplierrisk/internal/application/dto"
	"github.com/bell24h/supplierrisk/internal/application/service"
	"github.com/bell24h/supplierrisk/internal/domain/models"
	"github.com/bell24h/supplierrisk/pkg/errors"
)

// RiskHandler serves the risk scoring endpoints.
// RiskHandler 提供风险评分接口。
type RiskHandler struct {
	svc service.SupplierRiskAppService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(svc service.SupplierRiskAppService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// GetRiskScore godoc
// @Summary      Assess a stored supplier
// @Tags         risk
// @Produce      json
// @Param        supplier_id  path  string  true  "Supplier ID"
// @Success      200  {object}  models.RiskScore
// @Failure      404  {object}  errors.ErrorResponse
// @Failure      500  {object}  errors.ErrorResponse
// @Router       /api/v1/risk-score/{supplier_id} [get]
func (h *RiskHandler) GetRiskScore(c *gin.Context) {
	score, err := h.svc.AssessSupplier(c.Request.Context(), c.Param("supplier_id"))
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, score)
}

// ScoreSupplierRecord godoc
// @Summary      Assess a supplier record sent in the body
// @Tags         risk
// @Accept       json
// @Produce      json
// @Success      200  {object}  models.RiskScore
// @Failure      400  {object}  errors.ErrorResponse
// @Router       /api/v1/supplier/risk-score [post]
func (h *RiskHandler) ScoreSupplierRecord(c *gin.Context) {
	profile, ok := bindSupplier(c)
	if !ok {
		return
	}

	score, err := h.svc.AssessProfile(c.Request.Context(), profile)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, score)
}

// ScoringModel returns the weighting and tier table.
func (h *RiskHandler) ScoringModel(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, h.svc.ScoringModel())
}

// bindSupplier decodes a supplier record from the request body, answering 400 when the
// body is empty or not a JSON object. A literal null counts as a missing record.
func bindSupplier(c *gin.Context) (*models.SupplierProfile, bool) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		dto.SendError(c, errors.ErrInvalidRequest("request body is required"))
		return nil, false
	}

	body, err := c.GetRawData()
	if err != nil {
		dto.SendError(c, errors.ErrInvalidRequest("unable to read request body").WithCause(err))
		return nil, false
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		dto.SendError(c, errors.ErrInvalidRequest("request body is required"))
		return nil, false
	}
	if body[0] != '{' {
		dto.SendError(c, errors.ErrInvalidRequest("malformed supplier record: expected a JSON object"))
		return nil, false
	}

	var profile models.SupplierProfile
	if err := binding.JSON.BindBody(body, &profile); err != nil {
		dto.SendError(c, errors.ErrInvalidRequest("malformed supplier record: "+err.Error()).WithCause(err))
		return nil, false
	}
	return &profile, true
}

//Personal.AI order the ending

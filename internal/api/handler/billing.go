package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/api/middleware"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/response"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/wave"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/service"
)

type BillingHandler struct {
	billingService *service.BillingService
	premiumService *service.PremiumService
}

func NewBillingHandler(billingService *service.BillingService, premiumService *service.PremiumService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		premiumService: premiumService,
	}
}

// CreateCheckout opens a Wave payment session for a plan.
// POST /api/v1/billing/checkout
func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	var req dto.CreateCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	resp, err := h.billingService.CreateCheckout(c.Request.Context(), userID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUnknownPlan),
			errors.Is(err, service.ErrPlanNotConfigured):
			response.ParamError(c, err.Error())
		default:
			var provErr *wave.ProviderError
			if errors.As(err, &provErr) {
				response.ServerError(c, "le prestataire de paiement est indisponible")
				return
			}
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, resp)
}

// CheckStatus is the manual poll for a checkout whose webhook never arrived.
// GET /api/v1/billing/checkout/:txRef/status
func (h *BillingHandler) CheckStatus(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)
	txRef := c.Param("txRef")

	status, err := h.billingService.CheckSessionStatus(c.Request.Context(), userID, txRef)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionMissing):
			response.NotFoundError(c, err.Error())
		default:
			var provErr *wave.ProviderError
			if errors.As(err, &provErr) {
				response.ServerError(c, "le prestataire de paiement est indisponible")
				return
			}
			response.ServerError(c, "")
		}
		return
	}

	response.Success(c, status)
}

// GetPremiumStatus
// GET /api/v1/billing/premium
func (h *BillingHandler) GetPremiumStatus(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	status, err := h.premiumService.Status(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, status)
}

// ListSubscriptions
// GET /api/v1/billing/subscriptions
func (h *BillingHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.GetUserID(c)

	subs, err := h.billingService.ListSubscriptions(userID)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, subs)
}

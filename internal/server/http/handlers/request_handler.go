package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/domain/model"
	"github.com/polkiloo/storefront/internal/server/http/dto"
	"github.com/polkiloo/storefront/internal/usecase"
)

// RequestHandler manages custom request endpoints for customers and admins.
type RequestHandler struct {
	facade RequestFacade
}

// NewRequestHandler constructs RequestHandler.
func NewRequestHandler(facade RequestFacade) *RequestHandler {
	return &RequestHandler{facade: facade}
}

// Estimate handles POST /api/fx/estimate.
func (h *RequestHandler) Estimate(c *gin.Context) {
	var req dto.EstimateRequest
	if !bindJSON(c, &req) {
		return
	}
	region := model.Region(strings.ToUpper(strings.TrimSpace(req.Region)))
	total, err := h.facade.EstimateRequest(region, req.ForeignUnitPrice, req.Quantity)
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, dto.EstimateResponse{Region: string(region), EstimatedTotal: total})
}

// Submit handles POST /api/requests.
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.CustomRequestCreate
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.facade.SubmitRequest(c.Request.Context(), CurrentActor(c), usecase.RequestInput{
		ProductName:      req.ProductName,
		SourceURL:        req.SourceURL,
		Details:          req.Details,
		Region:           model.Region(req.Region),
		ForeignUnitPrice: req.ForeignUnitPrice,
		Quantity:         req.Quantity,
	})
	h.respond(c, http.StatusCreated, created, err)
}

// List handles GET /api/requests.
func (h *RequestHandler) List(c *gin.Context) {
	requests, err := h.facade.Requests(c.Request.Context(), CurrentUserID(c))
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toRequestResponses(requests))
}

// Get handles GET /api/requests/:id.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.facade.Request(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, req, err)
}

// SubmitPayment handles POST /api/requests/:id/payment.
func (h *RequestHandler) SubmitPayment(c *gin.Context) {
	var req dto.RequestPayment
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.facade.SubmitRequestPayment(c.Request.Context(), CurrentActor(c), c.Param("id"), usecase.PaymentSubmission{
		SlipRef: req.SlipRef,
		Date:    req.Date,
		Time:    req.Time,
		Address: req.Address,
	})
	h.respond(c, http.StatusOK, updated, err)
}

// Queue handles GET /api/admin/requests?status=pending.
func (h *RequestHandler) Queue(c *gin.Context) {
	status := model.RequestStatus(c.Query("status"))
	requests, err := h.facade.RequestsByStatus(c.Request.Context(), CurrentActor(c), status)
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusOK, toRequestResponses(requests))
}

// Approve handles POST /api/admin/requests/:id/approve.
func (h *RequestHandler) Approve(c *gin.Context) {
	var req dto.ApproveRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.facade.ApproveRequest(c.Request.Context(), CurrentActor(c), c.Param("id"), req.ShippingCost)
	h.respond(c, http.StatusOK, updated, err)
}

// Reject handles POST /api/admin/requests/:id/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	updated, err := h.facade.RejectRequest(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, updated, err)
}

// VerifyPayment handles POST /api/admin/requests/:id/verify.
func (h *RequestHandler) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.facade.VerifyRequestPayment(c.Request.Context(), CurrentActor(c), c.Param("id"), req.Accept, req.Note)
	h.respond(c, http.StatusOK, updated, err)
}

// MarkArrived handles POST /api/admin/requests/:id/arrived.
func (h *RequestHandler) MarkArrived(c *gin.Context) {
	updated, err := h.facade.MarkRequestArrived(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, updated, err)
}

// MarkShipping handles POST /api/admin/requests/:id/shipping.
func (h *RequestHandler) MarkShipping(c *gin.Context) {
	var req dto.TrackingNumberRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.facade.MarkRequestShipping(c.Request.Context(), CurrentActor(c), c.Param("id"), req.TrackingNumber)
	h.respond(c, http.StatusOK, updated, err)
}

// Complete handles POST /api/admin/requests/:id/complete.
func (h *RequestHandler) Complete(c *gin.Context) {
	updated, err := h.facade.CompleteRequest(c.Request.Context(), CurrentActor(c), c.Param("id"))
	h.respond(c, http.StatusOK, updated, err)
}

// Annotate handles PUT /api/admin/requests/:id/notes.
func (h *RequestHandler) Annotate(c *gin.Context) {
	var req dto.NoteRequest
	if !bindJSON(c, &req) {
		return
	}
	updated, err := h.facade.AnnotateRequest(c.Request.Context(), CurrentActor(c), c.Param("id"), req.Note)
	h.respond(c, http.StatusOK, updated, err)
}

// SpawnOrder handles POST /api/admin/requests/:id/order.
func (h *RequestHandler) SpawnOrder(c *gin.Context) {
	order, err := h.facade.SpawnRequestOrder(c.Request.Context(), CurrentActor(c), c.Param("id"))
	if abortOnError(c, err) {
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(*order))
}

func (h *RequestHandler) respond(c *gin.Context, status int, req *model.CustomRequest, err error) {
	if abortOnError(c, err) {
		return
	}
	c.JSON(status, toRequestResponse(*req))
}

func toRequestResponses(requests []model.CustomRequest) []dto.CustomRequestResponse {
	response := make([]dto.CustomRequestResponse, 0, len(requests))
	for _, r := range requests {
		response = append(response, toRequestResponse(r))
	}
	return response
}

func toRequestResponse(r model.CustomRequest) dto.CustomRequestResponse {
	return dto.CustomRequestResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		ProductName:      r.ProductName,
		SourceURL:        r.SourceURL,
		Details:          r.Details,
		Region:           string(r.Region),
		ForeignUnitPrice: r.ForeignUnitPrice,
		Quantity:         r.Quantity,
		ShippingCost:     r.ShippingCost,
		EstimatedTotal:   r.EstimatedTotal,
		Status:           string(r.Status),
		AdminNotes:       r.AdminNotes,
		PaymentSlipRef:   r.PaymentSlipRef,
		PaymentDate:      r.PaymentDate,
		PaymentTime:      r.PaymentTime,
		ShippingAddress:  r.ShippingAddress,
		TrackingNumber:   r.TrackingNumber,
		OrderID:          r.OrderID,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

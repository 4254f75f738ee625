package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mintly/mintly-api/internal/api/handler/v1/request"
	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/domain"
)

type VendorService interface {
	CreateVendor(ctx context.Context, eventID, organizerID uuid.UUID, name string) (domain.Vendor, error)
	UpdateVendor(ctx context.Context, vendorID, organizerID uuid.UUID, name string) (domain.Vendor, error)
	DeleteVendor(ctx context.Context, vendorID, organizerID uuid.UUID) error
	ListVendors(ctx context.Context, eventID uuid.UUID) ([]domain.Vendor, error)
	GetByCode(ctx context.Context, code string) (domain.Vendor, error)
}

type VendorHandler struct {
	svc VendorService
}

func NewVendorHandler(svc VendorService) *VendorHandler {
	return &VendorHandler{
		svc: svc,
	}
}

// HandleCreateVendor godoc
// @Summary      Register a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                 true  "Event ID"
// @Param        input    body      request.VendorRequest  true  "Vendor"
// @Success      201      {object}  domain.Vendor
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/vendors [post]
// @Security     BearerAuth
func (h *VendorHandler) HandleCreateVendor(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	var req request.VendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vendor, err := h.svc.CreateVendor(ctx.Request.Context(), eventID, organizerID, req.Name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateVendor -> h.svc.CreateVendor", err)
		return
	}

	ctx.JSON(http.StatusCreated, vendor)
}

// HandleListVendors godoc
// @Summary      List vendors of an event
// @Description  Ordered by total earnings, highest first
// @Tags         vendors
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200      {array}   domain.Vendor
// @Router       /events/{eventID}/vendors [get]
func (h *VendorHandler) HandleListVendors(ctx *gin.Context) {
	eventID, ok := parseUUIDParam(ctx, "eventID")
	if !ok {
		return
	}

	vendors, err := h.svc.ListVendors(ctx.Request.Context(), eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListVendors -> h.svc.ListVendors", err)
		return
	}

	ctx.JSON(http.StatusOK, vendors)
}

// HandleUpdateVendor godoc
// @Summary      Rename a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        vendorID  path      string                 true  "Vendor ID"
// @Param        input     body      request.VendorRequest  true  "Vendor"
// @Success      200       {object}  domain.Vendor
// @Failure      400       {object}  response.Err
// @Failure      403       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /vendors/{vendorID} [patch]
// @Security     BearerAuth
func (h *VendorHandler) HandleUpdateVendor(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	vendorID, ok := parseUUIDParam(ctx, "vendorID")
	if !ok {
		return
	}

	var req request.VendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vendor, err := h.svc.UpdateVendor(ctx.Request.Context(), vendorID, organizerID, req.Name)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateVendor -> h.svc.UpdateVendor", err)
		return
	}

	ctx.JSON(http.StatusOK, vendor)
}

// HandleDeleteVendor godoc
// @Summary      Remove a vendor
// @Description  Past payments to the vendor stay in the ledger
// @Tags         vendors
// @Param        vendorID  path  string  true  "Vendor ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /vendors/{vendorID} [delete]
// @Security     BearerAuth
func (h *VendorHandler) HandleDeleteVendor(ctx *gin.Context) {
	organizerID, ok := organizerFromContext(ctx)
	if !ok {
		return
	}
	vendorID, ok := parseUUIDParam(ctx, "vendorID")
	if !ok {
		return
	}

	if err := h.svc.DeleteVendor(ctx.Request.Context(), vendorID, organizerID); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteVendor -> h.svc.DeleteVendor", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetByVendorCode godoc
// @Summary      Find a vendor by its code
// @Tags         vendors
// @Produce      json
// @Param        code  path      string  true  "Vendor code"
// @Success      200   {object}  domain.Vendor
// @Failure      404   {object}  response.Err
// @Router       /vendors/code/{code} [get]
func (h *VendorHandler) HandleGetByVendorCode(ctx *gin.Context) {
	vendor, err := h.svc.GetByCode(ctx.Request.Context(), ctx.Param("code"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetByVendorCode -> h.svc.GetByCode", err)
		return
	}

	ctx.JSON(http.StatusOK, vendor)
}

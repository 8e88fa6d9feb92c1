package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contractapp "kostadmin/internal/app/handlers/contracts"
	"kostadmin/internal/domain/catalog"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
)

type ContractHandler struct {
	Quoter    *contractapp.QuoteTermHandler
	Creator   *contractapp.CreateContractHandler
	Contracts domaincontract.Repository
}

type quoteTermRequest struct {
	StartDate     string `json:"start_date" binding:"required"`
	BillingPeriod string `json:"billing_period" binding:"required"`
	DurationCount int    `json:"duration_count" binding:"required"`
}

func (h ContractHandler) Quote(c *gin.Context) {
	var req quoteTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, want YYYY-MM-DD"})
		return
	}
	result, err := h.Quoter.Handle(c.Request.Context(), contractapp.QuoteTermCommand{
		StartDate:     start,
		Period:        domaincontract.BillingPeriod(req.BillingPeriod),
		DurationCount: req.DurationCount,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"end_date":    result.EndDate.Format("2006-01-02"),
		"billing_day": result.BillingDay,
	})
}

type createContractRequest struct {
	RoomID        string `json:"room_id" binding:"required"`
	TenantID      string `json:"tenant_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	BillingPeriod string `json:"billing_period" binding:"required"`
	DurationCount int    `json:"duration_count" binding:"required"`
	Channel       string `json:"channel"`
	CouponCode    string `json:"coupon_code"`
	InvoiceID     string `json:"invoice_id"`
	AutoRenew     *bool  `json:"auto_renew"`
}

func (h ContractHandler) Create(c *gin.Context) {
	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, want YYYY-MM-DD"})
		return
	}
	result, err := h.Creator.Handle(c.Request.Context(), contractapp.CreateContractCommand{
		CommandID:     uuid.NewString(),
		RoomID:        catalog.RoomID(req.RoomID),
		TenantID:      req.TenantID,
		StartDate:     start,
		Period:        domaincontract.BillingPeriod(req.BillingPeriod),
		DurationCount: req.DurationCount,
		Channel:       req.Channel,
		CouponCode:    req.CouponCode,
		InvoiceID:     req.InvoiceID,
		AutoRenew:     req.AutoRenew,
	})
	if err != nil {
		c.JSON(statusForCreateError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ContractHandler) Get(c *gin.Context) {
	id := domaincontract.ContractID(c.Param("id"))
	contractAgg, err := h.Contracts.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domaincontract.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, contractAgg)
}

func statusForCreateError(err error) int {
	switch {
	case errors.Is(err, domainpromo.ErrCouponUnavailable):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrRoomNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

var _ ContractHTTP = ContractHandler{}

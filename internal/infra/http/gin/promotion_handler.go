package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	promoapp "kostadmin/internal/app/handlers/promotions"
	"kostadmin/internal/domain/catalog"
	domaincontract "kostadmin/internal/domain/contract"
	domainpromo "kostadmin/internal/domain/promotion"
	"kostadmin/internal/domain/shared/money"
)

type PromotionHandler struct {
	Resolver *promoapp.ResolveHandler
	Manager  *promoapp.ManageHandler
}

type resolveRequest struct {
	RoomID        string `json:"room_id" binding:"required"`
	BillingPeriod string `json:"billing_period" binding:"required"`
	Channel       string `json:"channel"`
	Date          string `json:"date"`
	UserID        string `json:"user_id"`
	InvoiceID     string `json:"invoice_id"`
	CouponCode    string `json:"coupon_code"`
	SpendIDR      int64  `json:"spend_idr" binding:"required"`
	ChargeRent    bool   `json:"charge_rent"`
	ChargeDeposit bool   `json:"charge_deposit"`
	PeriodIndex   int    `json:"period_index"`
}

func (h PromotionHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var at time.Time
	if req.Date != "" {
		parsed, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want RFC3339"})
			return
		}
		at = parsed
	}
	result, err := h.Resolver.Handle(c.Request.Context(), promoapp.ResolveCommand{
		RoomID:        catalog.RoomID(req.RoomID),
		Period:        domaincontract.BillingPeriod(req.BillingPeriod),
		Channel:       req.Channel,
		At:            at,
		UserID:        req.UserID,
		InvoiceID:     req.InvoiceID,
		CouponCode:    req.CouponCode,
		SpendIDR:      money.IDR(req.SpendIDR),
		ChargeRent:    req.ChargeRent,
		ChargeDeposit: req.ChargeDeposit,
		PeriodIndex:   req.PeriodIndex,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h PromotionHandler) List(c *gin.Context) {
	list, err := h.Manager.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"promotions": list})
}

func (h PromotionHandler) Create(c *gin.Context) {
	var p domainpromo.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.ID == "" {
		p.ID = domainpromo.PromotionID(uuid.NewString())
	}
	if err := h.Manager.Create(c.Request.Context(), &p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h PromotionHandler) Get(c *gin.Context) {
	p, err := h.Manager.Get(c.Request.Context(), domainpromo.PromotionID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domainpromo.ErrPromotionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h PromotionHandler) Update(c *gin.Context) {
	var p domainpromo.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.ID = domainpromo.PromotionID(c.Param("id"))
	if err := h.Manager.Update(c.Request.Context(), &p); err != nil {
		if errors.Is(err, domainpromo.ErrPromotionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h PromotionHandler) Delete(c *gin.Context) {
	if err := h.Manager.Delete(c.Request.Context(), domainpromo.PromotionID(c.Param("id"))); err != nil {
		if errors.Is(err, domainpromo.ErrPromotionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

var _ PromotionHTTP = PromotionHandler{}

package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kostadmin/internal/domain/catalog"
	"kostadmin/internal/domain/shared/money"
)

type CatalogHandler struct {
	Buildings catalog.BuildingRepository
	Rooms     catalog.RoomRepository
	RoomTypes catalog.RoomTypeRepository
}

func (h CatalogHandler) ListBuildings(c *gin.Context) {
	list, err := h.Buildings.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"buildings": list})
}

type createBuildingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (h CatalogHandler) CreateBuilding(c *gin.Context) {
	var req createBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := time.Now().UTC()
	b := &catalog.Building{
		ID:        catalog.BuildingID(uuid.NewString()),
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.Buildings.Save(c.Request.Context(), b); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h CatalogHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Rooms.ListByBuilding(c.Request.Context(), catalog.BuildingID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

type createRoomRequest struct {
	BuildingID string   `json:"building_id" binding:"required"`
	FloorID    string   `json:"floor_id" binding:"required"`
	RoomTypeID string   `json:"room_type_id" binding:"required"`
	Number     string   `json:"number" binding:"required"`
	MonthlyIDR int64    `json:"monthly_idr"`
	WeeklyIDR  int64    `json:"weekly_idr"`
	DailyIDR   int64    `json:"daily_idr"`
	DepositIDR int64    `json:"deposit_idr"`
	Amenities  []string `json:"amenities"`
}

func (h CatalogHandler) CreateRoom(c *gin.Context) {
	var req createRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	now := time.Now().UTC()
	room := &catalog.Room{
		ID:         catalog.RoomID(uuid.NewString()),
		BuildingID: catalog.BuildingID(req.BuildingID),
		FloorID:    catalog.FloorID(req.FloorID),
		RoomTypeID: catalog.RoomTypeID(req.RoomTypeID),
		Number:     req.Number,
		Status:     catalog.RoomVacant,
		MonthlyIDR: money.IDR(req.MonthlyIDR),
		WeeklyIDR:  money.IDR(req.WeeklyIDR),
		DailyIDR:   money.IDR(req.DailyIDR),
		DepositIDR: money.IDR(req.DepositIDR),
		Amenities:  req.Amenities,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := h.Rooms.Save(c.Request.Context(), room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (h CatalogHandler) ListRoomTypes(c *gin.Context) {
	types, err := h.RoomTypes.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_types": types})
}

type createRoomTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
}

func (h CatalogHandler) CreateRoomType(c *gin.Context) {
	var req createRoomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt := &catalog.RoomType{
		ID:          catalog.RoomTypeID(uuid.NewString()),
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	if err := h.RoomTypes.Save(c.Request.Context(), rt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (h CatalogHandler) GetRoom(c *gin.Context) {
	room, err := h.Rooms.ByID(c.Request.Context(), catalog.RoomID(c.Param("id")))
	if err != nil {
		if errors.Is(err, catalog.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, room)
}

var _ CatalogHTTP = CatalogHandler{}

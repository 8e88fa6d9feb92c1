package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"kostadmin/internal/infra/config"
	"kostadmin/internal/infra/obs"
)

type ContractHTTP interface {
	Quote(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
}

type PromotionHTTP interface {
	Resolve(c *gin.Context)
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type CatalogHTTP interface {
	ListBuildings(c *gin.Context)
	CreateBuilding(c *gin.Context)
	ListRooms(c *gin.Context)
	CreateRoom(c *gin.Context)
	GetRoom(c *gin.Context)
	ListRoomTypes(c *gin.Context)
	CreateRoomType(c *gin.Context)
}

type UserHTTP interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
}

type Handlers struct {
	Contract  ContractHTTP
	Promotion PromotionHTTP
	Catalog   CatalogHTTP
	User      UserHTTP
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Contract != nil {
		api.POST("/contracts/quote", h.Contract.Quote)
		api.POST("/contracts", h.Contract.Create)
		api.GET("/contracts/:id", h.Contract.Get)
	}
	if h.Promotion != nil {
		api.POST("/promotions/resolve", h.Promotion.Resolve)
		promoGroup := api.Group("/promotions")
		promoGroup.GET("", h.Promotion.List)
		promoGroup.POST("", h.Promotion.Create)
		promoGroup.GET("/:id", h.Promotion.Get)
		promoGroup.PUT("/:id", h.Promotion.Update)
		promoGroup.DELETE("/:id", h.Promotion.Delete)
	}
	if h.User != nil {
		api.POST("/users", h.User.Create)
		api.GET("/users/:id", h.User.Get)
	}
	if h.Catalog != nil {
		api.GET("/buildings", h.Catalog.ListBuildings)
		api.POST("/buildings", h.Catalog.CreateBuilding)
		api.GET("/buildings/:id/rooms", h.Catalog.ListRooms)
		api.POST("/rooms", h.Catalog.CreateRoom)
		api.GET("/rooms/:id", h.Catalog.GetRoom)
		api.GET("/room-types", h.Catalog.ListRoomTypes)
		api.POST("/room-types", h.Catalog.CreateRoomType)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

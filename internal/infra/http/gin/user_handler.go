package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	usersapp "kostadmin/internal/app/handlers/users"
	domainuser "kostadmin/internal/domain/user"
)

type UserHandler struct {
	Register *usersapp.RegisterHandler
	Users    domainuser.Repository
}

type registerUserRequest struct {
	ID       string   `json:"id"`
	Email    string   `json:"email" binding:"required"`
	Name     string   `json:"name"`
	Password string   `json:"password" binding:"required"`
	Roles    []string `json:"roles"`
}

func (h UserHandler) Create(c *gin.Context) {
	var req registerUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	res, err := h.Register.Handle(c.Request.Context(), usersapp.RegisterCommand{
		ID:       req.ID,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		if errors.Is(err, domainuser.ErrEmailAlreadyUsed) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h UserHandler) Get(c *gin.Context) {
	u, err := h.Users.ByID(c.Request.Context(), domainuser.ID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"roles": u.RoleNames(),
	})
}

var _ UserHTTP = UserHandler{}

package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ridebook/internal/domain"
	"ridebook/internal/repository"
)

// UserHandler handles HTTP requests for users. Registration here is
// collaborator glue: credential handling and profile management live in
// the upstream auth service.
type UserHandler struct {
	userRepo repository.UserRepository
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userRepo repository.UserRepository) *UserHandler {
	return &UserHandler{userRepo: userRepo}
}

// RegisterRequest is the HTTP request body for user registration.
type RegisterRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

// UserResponse is the HTTP response for user data.
type UserResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsOnline bool   `json:"is_online,omitempty"`
}

// Register handles POST /v1/users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.Name == "" || req.Phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "name and phone are required"})
		return
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleRider
	}
	if role != domain.RoleRider && role != domain.RoleDriver {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "role must be RIDER or DRIVER"})
		return
	}

	existing, err := h.userRepo.GetByPhone(c.Request.Context(), req.Phone)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		respondError(c, err)
		return
	}

	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{
			"message": "User already registered",
			"user":    UserResponse{ID: existing.ID, Name: existing.Name, Phone: existing.Phone, Role: string(existing.Role)},
		})
		return
	}

	user := &domain.User{
		ID:            uuid.New().String(),
		Name:          req.Name,
		Phone:         req.Phone,
		Role:          role,
		AccountStatus: domain.AccountActive,
		CreatedAt:     time.Now(),
	}
	if role == domain.RoleDriver {
		user.ApprovalStatus = domain.ApprovalPending
	}

	if err := h.userRepo.Create(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  string(user.Role),
	})
}

// GetAll handles GET /v1/users
func (h *UserHandler) GetAll(c *gin.Context) {
	users, err := h.userRepo.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	var response []UserResponse
	for _, u := range users {
		response = append(response, UserResponse{
			ID:       u.ID,
			Name:     u.Name,
			Phone:    u.Phone,
			Role:     string(u.Role),
			IsOnline: u.IsOnline,
		})
	}

	c.JSON(http.StatusOK, response)
}

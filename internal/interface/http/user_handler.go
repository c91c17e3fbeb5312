package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-management/internal/application"
	"github.com/oksasatya/user-management/pkg/helpers"
	"github.com/oksasatya/user-management/pkg/response"
	"github.com/oksasatya/user-management/pkg/validation"
)

const (
	msgInternal      = "internal server error"
	msgInvalidInput  = "invalid payload"
	msgUserActivated = "User activated successfully."
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username    string  `json:"username" binding:"max=100"`
	Email       string  `json:"email" binding:"max=254"`
	PhoneNumber string  `json:"phoneNumber" binding:"max=32"`
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	DateOfBirth string  `json:"dateOfBirth" binding:"omitempty,dob"`
	DisplayName *string `json:"displayName"`
	Password    string  `json:"password"`
}

type updateRequest struct {
	FirstName   string  `json:"firstName"`
	LastName    string  `json:"lastName"`
	PhoneNumber string  `json:"phoneNumber" binding:"max=32"`
	DateOfBirth string  `json:"dateOfBirth" binding:"omitempty,dob"`
	DisplayName *string `json:"displayName"`
}

func (h *UserHandler) GetByID(c *gin.Context) {
	u, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if u == nil {
		h.fail(c, userapp.ErrUserNotFound)
		return
	}
	response.Success(c, http.StatusOK, u, "user", nil)
}

func (h *UserHandler) ListActive(c *gin.Context) {
	users, err := h.Svc.ListActive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "active users", map[string]any{"count": len(users)})
}

func (h *UserHandler) ListInactive(c *gin.Context) {
	users, err := h.Svc.ListInactive(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "inactive users", map[string]any{"count": len(users)})
}

// Search queries the search index. size is optional and clamped by the service.
func (h *UserHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, msgInvalidInput, map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.Query("size"))
	users, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "search results", map[string]any{"count": len(users)})
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, msgInvalidInput, validation.ToDetails(err))
		return
	}
	dob, _ := validation.ParseDate(req.DateOfBirth)

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		DisplayName: req.DisplayName,
		Password:    req.Password,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user registered", nil)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, msgInvalidInput, validation.ToDetails(err))
		return
	}
	dob, _ := validation.ParseDate(req.DateOfBirth)

	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userapp.UpdateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		DateOfBirth: dob,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, u, "user updated", nil)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}

func (h *UserHandler) Activate(c *gin.Context) {
	if err := h.Svc.Activate(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, msgUserActivated, nil)
}

// fail maps service errors onto HTTP statuses. Unknown errors are logged and
// hidden behind a generic 500.
func (h *UserHandler) fail(c *gin.Context, err error) {
	var ve *userapp.ValidationError
	switch {
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, userapp.ErrUserNotFound.Error(), nil)
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, ve.Reason, nil)
	default:
		helpers.LogError(h.log(), "request failed", err, logrus.Fields{
			"request_id": c.GetString(response.RequestIDKey),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, msgInternal, nil)
	}
}

func (h *UserHandler) log() *logrus.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return logrus.StandardLogger()
}

package directory

import (
	"errors"
	"strconv"

	"BobaLink/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Svc *Service
}

// pointers so that 0 (equator / prime meridian) still binds
type UpdateLocationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// Nearby handles GET /api/nearby?radius=<meters>.
func (h *Handler) Nearby(c *gin.Context) {
	id, exists := c.Get("userID")
	if !exists {
		response.ReplyUnauthorized(c, "Unauthorized")
		return
	}
	radius, err := strconv.ParseFloat(c.DefaultQuery("radius", "5000"), 64)
	if err != nil || radius <= 0 {
		response.ReplyBadRequest(c, "radius must be a positive number of meters")
		return
	}
	users, err := h.Svc.FindNear(c.Request.Context(), id.(int64), radius)
	if err != nil {
		switch {
		case errors.Is(err, ErrLocationUnavailable):
			response.ReplyBadRequest(c, "Share your location first")
		case errors.Is(err, ErrNotFound):
			response.ReplyNotFound(c, "User not found")
		default:
			response.ReplyError500(c, err.Error())
		}
		return
	}
	response.ReplySuccessWithData(c, "Nearby users", users)
}

// Profile handles GET /api/users/:id.
func (h *Handler) Profile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ReplyBadRequest(c, "Invalid user id")
		return
	}
	u, err := h.Svc.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.ReplyNotFound(c, "User not found")
			return
		}
		response.ReplyError500(c, err.Error())
		return
	}
	response.ReplySuccessWithData(c, "User profile", u)
}

// UpdateLocation handles POST /api/location.
func (h *Handler) UpdateLocation(c *gin.Context) {
	id, exists := c.Get("userID")
	if !exists {
		response.ReplyUnauthorized(c, "Unauthorized")
		return
	}
	var req UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ReplyBadRequest(c, "Invalid request")
		return
	}
	if err := h.Svc.UpdateLocation(c.Request.Context(), id.(int64), *req.Lat, *req.Lng); err != nil {
		switch {
		case errors.Is(err, ErrInvalidCoordinates):
			response.ReplyBadRequest(c, "Coordinates out of range")
		case errors.Is(err, ErrNotFound):
			response.ReplyNotFound(c, "User not found")
		default:
			response.ReplyError500(c, err.Error())
		}
		return
	}
	response.ReplySuccess(c, "Location updated")
}

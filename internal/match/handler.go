package match

import (
	"errors"

	"BobaLink/internal/directory"
	"BobaLink/internal/ledger"
	"BobaLink/internal/user"
	"BobaLink/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Match  *Service
	Ledger *ledger.Service
	Dir    *directory.Service
}

type ConnectRequest struct {
	ToUserID int64 `json:"to_user_id" binding:"required"`
}

// Connect handles POST /api/connect.
func (h *Handler) Connect(c *gin.Context) {
	id, exists := c.Get("userID")
	if !exists {
		response.ReplyUnauthorized(c, "Unauthorized")
		return
	}
	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ReplyBadRequest(c, "Invalid request")
		return
	}
	from := id.(int64)

	// make sure the target actually exists before writing an edge
	if _, err := h.Dir.FindByID(c.Request.Context(), req.ToUserID); err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			response.ReplyNotFound(c, "User not found")
			return
		}
		response.ReplyError500(c, err.Error())
		return
	}

	connected, err := h.Match.SubmitConnectionRequest(c.Request.Context(), from, req.ToUserID)
	if err != nil {
		if errors.Is(err, ledger.ErrSelfConnection) {
			response.ReplyBadRequest(c, "Cannot connect to yourself")
			return
		}
		response.ReplyError500(c, err.Error())
		return
	}
	msg := "Connection request sent"
	if connected {
		msg = "It's a match!"
	}
	response.ReplySuccessWithData(c, msg, gin.H{"connected": connected})
}

// Matches handles GET /api/matches: the polling fallback for missed live
// notifications.
func (h *Handler) Matches(c *gin.Context) {
	id, exists := c.Get("userID")
	if !exists {
		response.ReplyUnauthorized(c, "Unauthorized")
		return
	}
	ids, err := h.Ledger.MutualsOf(c.Request.Context(), id.(int64))
	if err != nil {
		response.ReplyError500(c, err.Error())
		return
	}
	users, err := h.Dir.Users.GetByIDs(c.Request.Context(), ids)
	if err != nil {
		response.ReplyError500(c, err.Error())
		return
	}
	if users == nil {
		users = []user.User{}
	}
	response.ReplySuccessWithData(c, "Your matches", users)
}

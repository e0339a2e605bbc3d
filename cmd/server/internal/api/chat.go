package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskchat/taskchat/cmd/server/internal/agent"
	"github.com/taskchat/taskchat/cmd/server/internal/middleware"
)

// chatRequest is the body of POST /api/v1/chat. ConversationID is optional;
// omitting it starts a new conversation.
type chatRequest struct {
	ConversationID *uint  `json:"conversation_id"`
	Message        string `json:"message" binding:"required,max=1000"`
}

// HandleChat POST /api/v1/chat
// Runs one chat turn through the session orchestrator.
func HandleChat(session *agent.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequestResponse(c, "invalid request body: message is required and must be at most 1000 characters")
			return
		}

		reply, err := session.HandleMessage(c.Request.Context(), middleware.Owner(c), req.ConversationID, req.Message)
		if err != nil {
			if errors.Is(err, agent.ErrConversationNotFound) {
				notFoundResponse(c, "conversation")
				return
			}
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

// HandleConversationMessages GET /api/v1/conversations/:id/messages
// Returns the transcript of one of the caller's conversations.
func HandleConversationMessages(session *agent.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil || id == 0 {
			badRequestResponse(c, "invalid conversation id")
			return
		}

		msgs, err := session.Transcript(c.Request.Context(), middleware.Owner(c), uint(id))
		if err != nil {
			if errors.Is(err, agent.ErrConversationNotFound) {
				notFoundResponse(c, "conversation")
				return
			}
			internalErrorResponse(c, err)
			return
		}
		c.JSON(http.StatusOK, msgs)
	}
}

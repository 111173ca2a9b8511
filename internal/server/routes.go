package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/switchboard/internal/ingest"
	"github.com/zulandar/switchboard/internal/outbound"
	"github.com/zulandar/switchboard/internal/provider"
	"github.com/zulandar/switchboard/internal/query"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, transport provider.Transport) {
	router.POST("/messages/:type", handleSendMessage(db, transport))
	router.POST("/webhooks/:type", handleWebhook(db))
	router.GET("/conversations", handleListConversations(db))
	router.GET("/conversations/:id/messages", handleConversationMessages(db))
}

// messageRequest holds the fields common to the send and webhook bodies.
type messageRequest struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	Type        string          `json:"type"`
	Body        string          `json:"body"`
	Attachments json.RawMessage `json:"attachments"`
	Timestamp   string          `json:"timestamp"`
}

// parseMessageRequest decodes the request body into the common fields and
// a raw field map for channel-specific extraction.
func parseMessageRequest(c *gin.Context) (*messageRequest, map[string]json.RawMessage, error) {
	data, err := c.GetRawData()
	if err != nil {
		return nil, nil, err
	}
	var req messageRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, nil, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	return &req, raw, nil
}

// requestIngestOpts builds ingestion options from a parsed request. The
// path's message type is the default; a type in the body wins.
func requestIngestOpts(req *messageRequest, pathType ingest.MsgType) (ingest.Opts, error) {
	msgType := pathType
	if req.Type != "" {
		msgType = ingest.MsgType(req.Type)
	}
	ts, err := parseTimestamp(req.Timestamp)
	if err != nil {
		return ingest.Opts{}, err
	}
	attachments, err := attachmentsColumn(req.Attachments)
	if err != nil {
		return ingest.Opts{}, err
	}
	return ingest.Opts{
		From:        req.From,
		To:          req.To,
		Type:        msgType,
		Body:        req.Body,
		Attachments: attachments,
		Timestamp:   ts,
	}, nil
}

// webhookProviderID extracts the provider message id from the field this
// channel's provider uses.
func webhookProviderID(raw map[string]json.RawMessage, msgType ingest.MsgType) *string {
	field := msgType.ProviderIDField()
	v, ok := raw[field]
	if !ok {
		return nil
	}
	var id string
	if err := json.Unmarshal(v, &id); err != nil {
		return nil
	}
	return &id
}

func handleSendMessage(db *gorm.DB, transport provider.Transport) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathType := ingest.MsgType(c.Param("type"))
		if !pathType.Valid() {
			notFound(c)
			return
		}

		req, _, err := parseMessageRequest(c)
		if err != nil {
			invalidMessage(c)
			return
		}
		opts, err := requestIngestOpts(req, pathType)
		if err != nil {
			invalidMessage(c)
			return
		}

		msg, err := outbound.Send(c.Request.Context(), db, transport, outbound.Opts{
			From:        opts.From,
			To:          opts.To,
			Type:        opts.Type,
			Body:        opts.Body,
			Attachments: opts.Attachments,
			Timestamp:   opts.Timestamp,
		})
		if err != nil {
			sendError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message_id": msg.ID})
	}
}

func handleWebhook(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		pathType := ingest.MsgType(c.Param("type"))
		if !pathType.Valid() {
			notFound(c)
			return
		}

		req, raw, err := parseMessageRequest(c)
		if err != nil {
			invalidMessage(c)
			return
		}
		opts, err := requestIngestOpts(req, pathType)
		if err != nil {
			invalidMessage(c)
			return
		}
		opts.ProviderMessageID = webhookProviderID(raw, opts.Type)

		msg, err := ingest.Ingest(db, opts)
		if err != nil {
			if errors.Is(err, ingest.ErrInvalidMessage) {
				invalidMessage(c)
			} else {
				internalError(c)
			}
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message_id": msg.ID})
	}
}

func handleListConversations(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		convs, err := query.ListConversations(db)
		if err != nil {
			internalError(c)
			return
		}
		views := make([]ConversationView, len(convs))
		for i, conv := range convs {
			views[i] = conversationView(conv)
		}
		c.JSON(http.StatusOK, views)
	}
}

func handleConversationMessages(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			notFound(c)
			return
		}
		msgs, err := query.ConversationMessages(db, uint(id))
		if err != nil {
			if errors.Is(err, query.ErrNotFound) {
				notFound(c)
				return
			}
			internalError(c)
			return
		}
		c.JSON(http.StatusOK, messageViews(msgs))
	}
}

// sendError maps an outbound send failure to its HTTP response. The
// unreachable body carries only the transport cause, not the internal
// wrapping around it.
func sendError(c *gin.Context, err error) {
	var (
		unreachable *outbound.UnreachableError
		unknown     *outbound.UnknownStatusError
	)
	switch {
	case errors.Is(err, ingest.ErrInvalidMessage):
		invalidMessage(c)
	case errors.Is(err, outbound.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limited by provider. Please retry later."})
	case errors.Is(err, outbound.ErrUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Provider service unavailable."})
	case errors.As(err, &unreachable):
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to reach provider: %v", unreachable.Cause)})
	case errors.As(err, &unknown):
		c.JSON(unknown.Code, gin.H{"error": "Unknown error occurred."})
	default:
		internalError(c)
	}
}

func invalidMessage(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message"})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

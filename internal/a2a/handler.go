package a2a

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/BerylCAtieno/sales-opener-agent/internal/agent"
	"github.com/BerylCAtieno/sales-opener-agent/internal/models"
	"github.com/BerylCAtieno/sales-opener-agent/internal/persona"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const missingContactMessage = "Please describe the contact, e.g. {\"name\": \"Tiago\", \"role\": \"marmorista\", \"market\": \"BR\"} or \"name: Tiago, role: marmorista, market: BR\"."

type A2AHandler struct {
	generator *persona.Generator
	endpoint  string
	logger    *zap.Logger
}

// NewA2AHandler serves the opener over A2A. endpoint is the public URL
// advertised in the agent card.
func NewA2AHandler(generator *persona.Generator, endpoint string, logger *zap.Logger) *A2AHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &A2AHandler{
		generator: generator,
		endpoint:  endpoint,
		logger:    logger,
	}
}

// HandleOpener processes A2A messages
func (h *A2AHandler) HandleOpener(c *gin.Context) {
	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Error("failed to read request body", zap.Error(err))
		h.sendErrorResponse(c, nil, "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(bodyBytes, &rpcReq); err != nil {
		h.logger.Warn("failed to decode request", zap.Error(err))
		h.sendErrorResponse(c, nil, "Invalid JSON", CodeParseError)
		return
	}

	// Some clients post the message params without the JSON-RPC envelope.
	if rpcReq.JSONRPC == "" && rpcReq.Method == "" {
		h.handleDirectMessage(c, bodyBytes)
		return
	}

	if rpcReq.JSONRPC != "2.0" {
		h.logger.Warn("invalid JSON-RPC version", zap.String("jsonrpc", rpcReq.JSONRPC))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "agent/task", "message/send":
		h.handleTask(c, rpcReq)
	default:
		h.logger.Warn("unknown method", zap.String("method", rpcReq.Method))
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *A2AHandler) handleDirectMessage(c *gin.Context, bodyBytes []byte) {
	var msgParams MessageParams
	if err := json.Unmarshal(bodyBytes, &msgParams); err != nil || len(msgParams.Message.Parts) == 0 {
		h.sendErrorResponse(c, nil, "Invalid request format", CodeInvalidRequest)
		return
	}
	taskID := "direct-message"
	h.sendSuccessResponse(c, taskID, h.compose(taskID, msgParams.Message))
}

func (h *A2AHandler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var msgParams MessageParams
	if len(rpcReq.Params) == 0 {
		h.sendErrorResponse(c, rpcReq.ID, "Missing parameters", CodeInvalidParams)
		return
	}
	if err := json.Unmarshal(rpcReq.Params, &msgParams); err != nil {
		h.logger.Warn("failed to decode params", zap.Error(err))
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}

	taskID := msgParams.Message.TaskID
	if taskID == "" && rpcReq.ID != nil {
		taskID = fmt.Sprint(rpcReq.ID)
	}
	if taskID == "" {
		taskID = uuid.New().String()
	}
	h.sendSuccessResponse(c, rpcReq.ID, h.compose(taskID, msgParams.Message))
}

func (h *A2AHandler) compose(taskID string, msg A2AMessage) TaskResult {
	req, ok := extractOpenerRequest(msg)
	if !ok {
		h.logger.Info("no contact in message", zap.String("task_id", taskID))
		return h.createStatusTaskResult(taskID, StateInputRequired, missingContactMessage)
	}

	out, err := h.generator.Generate(req.Contact(), req.Options())
	if err != nil {
		h.logger.Error("failed to generate opener", zap.String("task_id", taskID), zap.Error(err))
		return h.createStatusTaskResult(taskID, StateFailed, fmt.Sprintf("Failed to generate opening message: %v", err))
	}

	h.logger.Info("opener generated",
		zap.String("task_id", taskID),
		zap.String("market", out.Meta.Market),
		zap.String("role", string(out.Meta.Role)))

	result, err := h.createSuccessTaskResult(taskID, out)
	if err != nil {
		h.logger.Error("failed to build task result", zap.Error(err))
		return h.createStatusTaskResult(taskID, StateFailed, "Failed to encode opening message")
	}
	return result
}

// ServeAgentCard serves the agent card using Gin
func (h *A2AHandler) ServeAgentCard(c *gin.Context) {
	data, err := agent.LoadAgentCard(h.endpoint)
	if err != nil {
		h.logger.Error("error loading agent card", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Agent card not available"})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

func (h *A2AHandler) createSuccessTaskResult(taskID string, out models.GeneratedMessage) (TaskResult, error) {
	metaPart, err := DataPart(out)
	if err != nil {
		return TaskResult{}, err
	}

	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(out.Message),
				},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.New().String(),
				Name:       "Opening Message",
				Parts: []MessagePart{
					TextPart(out.Message),
					metaPart,
				},
			},
		},
	}, nil
}

func (h *A2AHandler) createStatusTaskResult(taskID, state, text string) TaskResult {
	return TaskResult{
		ID:   taskID,
		Kind: "task",
		Status: TaskStatus{
			State:     state,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.New().String(),
				TaskID:    taskID,
				Parts: []MessagePart{
					TextPart(text),
				},
			},
		},
	}
}

func (h *A2AHandler) sendSuccessResponse(c *gin.Context, id any, result TaskResult) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (h *A2AHandler) sendErrorResponse(c *gin.Context, id any, message string, code int) {
	h.logger.Debug("sending rpc error", zap.Int("code", code), zap.String("message", message))
	// JSON-RPC errors are sent with 200 OK
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	})
}

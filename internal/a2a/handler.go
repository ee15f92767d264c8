package a2a

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/BerylCAtieno/idea-validator/internal/analysis"
	"github.com/BerylCAtieno/idea-validator/internal/logger"
	"github.com/BerylCAtieno/idea-validator/internal/models"
	"github.com/BerylCAtieno/idea-validator/internal/render"
)

// EndpointPath is where HandleValidator is mounted.
const EndpointPath = "/a2a/validator"

const (
	msgNoIdea   = "请提供需要评估的产品点子。"
	msgBusy     = "已有评估正在进行，请稍后再试。"
	msgShutdown = "服务正在关闭，请稍后再试。"
	msgAborted  = "请求已取消。"
)

// Handler exposes the shared analysis session over A2A. Requests block until
// their own run settles and obey the same one-in-flight rule as the page.
type Handler struct {
	session *analysis.Session
	logger  logger.Logger
}

func NewHandler(session *analysis.Session, log logger.Logger) *Handler {
	return &Handler{
		session: session,
		logger:  log.With(map[string]interface{}{"component": "a2a"}),
	}
}

// HandleValidator processes A2A messages
func (h *Handler) HandleValidator(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.sendErrorResponse(c, nil, "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(body, &rpcReq); err != nil {
		h.logger.Warn("request is not valid JSON", map[string]interface{}{"error": err.Error()})
		h.sendErrorResponse(c, nil, "Parse error", CodeParseError)
		return
	}

	// Some callers post the bare message params without the JSON-RPC envelope.
	if rpcReq.JSONRPC == "" && rpcReq.Method == "" {
		h.handleDirectMessage(c, body)
		return
	}

	if rpcReq.JSONRPC != jsonRPCVersion {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "message/send", "agent/task":
		h.handleTask(c, rpcReq)
	default:
		h.sendErrorResponse(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

func (h *Handler) handleDirectMessage(c *gin.Context, body []byte) {
	var params MessageParams
	if err := json.Unmarshal(body, &params); err != nil || len(params.Message.Parts) == 0 {
		h.sendErrorResponse(c, nil, "Invalid request format", CodeInvalidRequest)
		return
	}
	h.sendSuccessResponse(c, nil, h.evaluate(c, params.Message))
}

func (h *Handler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var params MessageParams
	if len(rpcReq.Params) == 0 {
		h.sendErrorResponse(c, rpcReq.ID, "Missing parameters", CodeInvalidParams)
		return
	}
	if err := json.Unmarshal(rpcReq.Params, &params); err != nil {
		h.sendErrorResponse(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	h.sendSuccessResponse(c, rpcReq.ID, h.evaluate(c, params.Message))
}

// evaluate submits the idea carried by msg and waits for the run to settle.
func (h *Handler) evaluate(c *gin.Context, msg A2AMessage) TaskResult {
	contextID := msg.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	idea := extractIdea(msg)
	run, err := h.session.Submit(idea)
	if err != nil {
		h.logger.Warn("a2a submission rejected", map[string]interface{}{
			"taskId": taskID,
			"reason": err.Error(),
		})
		return createErrorTaskResult(taskID, contextID, rejectionMessage(err))
	}

	snap, err := run.Wait(c.Request.Context())
	if err != nil {
		h.logger.Warn("a2a caller went away before the run settled", map[string]interface{}{
			"taskId": taskID,
			"runId":  run.ID,
		})
		return createErrorTaskResult(run.ID, contextID, msgAborted)
	}

	if snap.Status != analysis.StatusComplete || snap.Result == nil {
		return createErrorTaskResult(run.ID, contextID, snap.Error)
	}

	h.logger.Info("a2a evaluation completed", map[string]interface{}{
		"runId":      run.ID,
		"totalScore": snap.Result.TotalScore,
		"grade":      snap.Result.Grade,
	})
	return createSuccessTaskResult(run.ID, contextID, snap.Idea, snap.Result)
}

func rejectionMessage(err error) string {
	switch {
	case errors.Is(err, analysis.ErrEmptyInput):
		return msgNoIdea
	case errors.Is(err, analysis.ErrBusy):
		return msgBusy
	case errors.Is(err, analysis.ErrClosed):
		return msgShutdown
	default:
		return analysis.FailureMessage
	}
}

// historyPolicy removes the markup chat clients wrap history items in, such
// as <p>...</p>.
var historyPolicy = bluemonday.StrictPolicy()

// extractIdea joins the text parts of msg as typed. Data parts carrying
// conversation history contribute their most recent non-empty text item,
// stripped of client markup.
func extractIdea(msg A2AMessage) string {
	var texts []string

	for _, part := range msg.Parts {
		switch part.Kind {
		case PartText:
			if t := analysis.NormalizeIdea(part.Text); t != "" {
				texts = append(texts, t)
			}
		case PartData:
			if t := latestHistoryText(part.Data); t != "" {
				texts = append(texts, t)
			}
		}
	}
	return strings.Join(texts, " ")
}

func latestHistoryText(data interface{}) string {
	raw, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	var items []MessagePart
	if err := json.Unmarshal(raw, &items); err != nil {
		return ""
	}
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Kind != PartText {
			continue
		}
		if t := stripHistoryMarkup(items[i].Text); t != "" {
			return t
		}
	}
	return ""
}

func stripHistoryMarkup(text string) string {
	return analysis.NormalizeIdea(html.UnescapeString(historyPolicy.Sanitize(text)))
}

func createSuccessTaskResult(taskID, contextID, idea string, result *models.EvaluationResult) TaskResult {
	report := formatEvaluation(idea, result)

	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				ContextID: contextID,
				Parts:     []MessagePart{TextPart(report)},
			},
		},
		Artifacts: []Artifact{
			{
				ArtifactID: uuid.NewString(),
				Name:       "Evaluation Report",
				Parts:      []MessagePart{TextPart(report)},
			},
			{
				ArtifactID: uuid.NewString(),
				Name:       "Evaluation Result",
				Parts:      []MessagePart{DataPart(result)},
			},
		},
	}
}

func createErrorTaskResult(taskID, contextID, errorMsg string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				ContextID: contextID,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

// formatEvaluation renders the result as markdown for chat clients.
func formatEvaluation(idea string, r *models.EvaluationResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 点子评估：%s\n\n", idea)
	fmt.Fprintf(&b, "**综合得分：** %d / 100（%s）\n\n", r.TotalScore, render.GradeLabel(r.Grade))
	if r.Summary != "" {
		fmt.Fprintf(&b, "%s\n", strings.TrimSpace(r.Summary))
	}

	b.WriteString("\n## 核心要素拆解\n")
	fmt.Fprintf(&b, "- 目标用户：%s\n", r.StructuredIdea.TargetUser)
	fmt.Fprintf(&b, "- 核心痛点：%s\n", r.StructuredIdea.PainPoints)
	fmt.Fprintf(&b, "- 解决方案：%s\n", r.StructuredIdea.Solution)
	fmt.Fprintf(&b, "- 商业模式：%s\n", r.StructuredIdea.BusinessModel)

	b.WriteString("\n## 市场调研\n")
	fmt.Fprintf(&b, "- 市场规模：%s\n", r.Research.MarketSize)
	if len(r.Research.Competitors) > 0 {
		fmt.Fprintf(&b, "- 主要竞品：%s\n", strings.Join(r.Research.Competitors, "、"))
	}
	fmt.Fprintf(&b, "- 行业趋势：%s\n", r.Research.Trends)
	fmt.Fprintf(&b, "- 潜在风险：%s\n", r.Research.Risks)

	if len(r.Dimensions) > 0 {
		b.WriteString("\n## 维度评分\n")
		for _, d := range r.Dimensions {
			fmt.Fprintf(&b, "- %s：%d（%s）\n", d.Name, d.Score, strings.TrimSpace(d.Reason))
		}
	}

	if len(r.OptimizationAdvice) > 0 {
		b.WriteString("\n## 优化建议\n")
		for i, advice := range r.OptimizationAdvice {
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(advice))
		}
	}

	return b.String()
}

func (h *Handler) sendSuccessResponse(c *gin.Context, id interface{}, result interface{}) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Result:  result,
	})
}

// JSON-RPC errors are sent with 200 OK.
func (h *Handler) sendErrorResponse(c *gin.Context, id interface{}, message string, code int) {
	h.logger.Warn("json-rpc error", map[string]interface{}{
		"code":    code,
		"message": message,
	})
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: jsonRPCVersion,
		ID:      id,
		Error:   &JSONRPCError{Code: code, Message: message},
	})
}

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/httputil"
	"cinedesk/internal/service/llm/agent"
	"cinedesk/internal/service/llm/tools"
)

// maxHistoryMessages bounds the history a client may resend
const maxHistoryMessages = 50

// ChatHandler runs user messages through the supervisor
type ChatHandler struct {
	supervisor *agent.Agent
	logger     *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(supervisor *agent.Agent, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		supervisor: supervisor,
		logger:     logger,
	}
}

// HistoryMessage is one earlier turn of the conversation
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate implements validation.Validatable
func (m HistoryMessage) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Role, validation.Required, validation.In("user", "assistant")),
		validation.Field(&m.Content, validation.Required),
	)
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string           `json:"message"`
	History []HistoryMessage `json:"history,omitempty"`
}

// Validate implements validation.Validatable
func (req ChatRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Message, validation.By(func(interface{}) error {
			return validation.Validate(strings.TrimSpace(req.Message), validation.Required)
		})),
		validation.Field(&req.History, validation.Length(0, maxHistoryMessages)),
	)
}

// Delegation is one supervisor hand-off to a member agent
type Delegation struct {
	Agent   string `json:"agent"`
	Request string `json:"request"`
	Reply   string `json:"reply,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Reply       string       `json:"reply"`
	Delegations []Delegation `json:"delegations"`
}

// Chat runs one supervisor turn for the authenticated user
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)

	var req ChatRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondRequestError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		httputil.RespondRequestError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	messages := make([]llm.Message, 0, len(req.History)+1)
	for _, m := range req.History {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: strings.TrimSpace(req.Message)})

	ctx := tools.WithUserID(r.Context(), userID)
	result, err := h.supervisor.Run(ctx, messages)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	h.logger.Info("chat completed",
		"user_id", userID,
		"delegations", len(result.Steps),
		"iterations", result.Iterations,
		"request_id", httputil.GetRequestID(r))

	httputil.RespondJSON(w, http.StatusOK, ChatResponse{
		Reply:       result.Reply,
		Delegations: delegations(result.Steps),
	})
}

// delegations reports supervisor steps as member hand-offs
func delegations(steps []agent.Step) []Delegation {
	out := make([]Delegation, 0, len(steps))
	for _, step := range steps {
		d := Delegation{Agent: step.Call.Name}
		d.Request, _ = step.Call.Input["request"].(string)

		payload, _ := step.Result.Result.(map[string]interface{})
		switch {
		case step.Result.IsError:
			d.Error = "delegation failed"
			if step.Result.Error != nil {
				d.Error = step.Result.Error.Error()
			}
		case tools.IsErrorResult(payload):
			d.Error, _ = payload["error"].(string)
		default:
			d.Reply, _ = payload["reply"].(string)
		}
		out = append(out, d)
	}
	return out
}

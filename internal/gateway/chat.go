package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/soyeahso/tasknest/internal/llm"
	"github.com/soyeahso/tasknest/internal/store"
)

type chatRequest struct {
	ConversationID *int64 `json:"conversationId"`
	Message        string `json:"message"`
}

type chatResponse struct {
	ConversationID int64                   `json:"conversationId"`
	Response       string                  `json:"response"`
	ToolCalls      []domain.ToolInvocation `json:"toolCalls"`
}

// handleUserScoped dispatches the /api/{userID}/... routes that ServeMux
// patterns cannot hold alongside /api/tasks/{id}:
//
//	POST /api/{userID}/chat
//	GET  /api/{userID}/conversations
//	GET  /api/{userID}/conversations/{conversationID}/messages
func (s *Server) handleUserScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/"), "/"), "/")

	switch {
	case len(parts) == 2 && parts[1] == "chat" && r.Method == http.MethodPost:
		s.handleChat(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "conversations" && r.Method == http.MethodGet:
		s.handleListConversations(w, r, parts[0])
	case len(parts) == 4 && parts[1] == "conversations" && parts[3] == "messages" && r.Method == http.MethodGet:
		s.handleConversationMessages(w, r, parts[0], parts[2])
	default:
		handleNotFound(w, r)
	}
}

// handleChat runs one conversational turn: persist the user message, run the
// assistant over the recent window, persist the reply.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request, pathUser string) {
	user := currentUser(r)
	if user.ID != pathUser {
		writeError(w, http.StatusForbidden, "cannot access another user's conversation")
		return
	}
	if s.runner == nil {
		writeError(w, http.StatusServiceUnavailable, "no model provider configured")
		return
	}

	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if utf8.RuneCountInString(req.Message) > s.cfg.Chat.MaxMessageLen {
		writeError(w, http.StatusBadRequest, "message is too long")
		return
	}

	conv, err := s.conversations.GetOrCreate(user.ID, req.ConversationID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("failed to resolve conversation")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if _, err := s.conversations.AppendMessage(conv.ID, user.ID, domain.RoleUser, req.Message); err != nil {
		s.log.Error().Err(err).Int64("conversation", conv.ID).Msg("failed to store user message")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	window, err := s.conversations.Window(conv.ID, s.cfg.Chat.HistoryWindow)
	if err != nil {
		s.log.Error().Err(err).Int64("conversation", conv.ID).Msg("failed to load history")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	history := make([]llm.Message, 0, len(window))
	for _, msg := range window {
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}

	ctx, cancel := context.WithTimeout(r.Context(),
		time.Duration(s.cfg.Chat.TimeoutSeconds)*time.Second)
	defer cancel()

	result := s.runner.RunTurn(ctx, user.ID, history)

	// The fallback reply from a failed turn is stored too, so the
	// conversation never ends on an unanswered user message.
	if _, err := s.conversations.AppendMessage(conv.ID, user.ID, domain.RoleAssistant, result.Reply); err != nil {
		s.log.Error().Err(err).Int64("conversation", conv.ID).Msg("failed to store assistant message")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	toolCalls := result.ToolCalls
	if toolCalls == nil {
		toolCalls = []domain.ToolInvocation{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: conv.ID,
		Response:       result.Reply,
		ToolCalls:      toolCalls,
	})
}

// handleListConversations returns the user's conversations, most recently
// active first.
func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request, pathUser string) {
	user := currentUser(r)
	if user.ID != pathUser {
		writeError(w, http.StatusForbidden, "cannot access another user's conversations")
		return
	}

	convs, err := s.conversations.ListByOwner(user.ID)
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("failed to list conversations")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if convs == nil {
		convs = []domain.Conversation{}
	}
	writeJSON(w, http.StatusOK, convs)
}

// handleConversationMessages returns all messages of one conversation.
func (s *Server) handleConversationMessages(w http.ResponseWriter, r *http.Request, pathUser, rawConvID string) {
	user := currentUser(r)
	if user.ID != pathUser {
		writeError(w, http.StatusForbidden, "cannot access another user's conversations")
		return
	}

	convID, err := strconv.ParseInt(rawConvID, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	if _, err := s.conversations.Get(user.ID, convID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "conversation not found")
			return
		}
		s.log.Error().Err(err).Int64("conversation", convID).Msg("failed to fetch conversation")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	messages, err := s.conversations.Messages(convID)
	if err != nil {
		s.log.Error().Err(err).Int64("conversation", convID).Msg("failed to load messages")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, messages)
}

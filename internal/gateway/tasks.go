package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/soyeahso/tasknest/internal/store"
)

type taskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type taskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// handleListTasks returns all of the user's tasks, newest first.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	list, err := s.tasks.Store().ListByOwner(user.ID, nil)
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("failed to list tasks")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if list == nil {
		list = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCreateTask creates a task for the user.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var req taskCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if utf8.RuneCountInString(req.Title) > domain.MaxTitleLen {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("title must be %d characters or less", domain.MaxTitleLen))
		return
	}
	if utf8.RuneCountInString(req.Description) > domain.MaxDescriptionLen {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("description must be %d characters or less", domain.MaxDescriptionLen))
		return
	}

	task, err := s.tasks.Store().Create(user.ID, req.Title, req.Description)
	if err != nil {
		s.log.Error().Err(err).Str("user", user.ID).Msg("failed to create task")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// handleGetTask returns a single task.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleUpdateTask updates a task's title, description, or completed flag.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}

	var req taskUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			writeError(w, http.StatusBadRequest, "title cannot be empty")
			return
		}
		if utf8.RuneCountInString(title) > domain.MaxTitleLen {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("title must be %d characters or less", domain.MaxTitleLen))
			return
		}
		task.Title = title
	}
	if req.Description != nil {
		if utf8.RuneCountInString(*req.Description) > domain.MaxDescriptionLen {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("description must be %d characters or less", domain.MaxDescriptionLen))
			return
		}
		task.Description = *req.Description
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.tasks.Store().Save(task); err != nil {
		s.log.Error().Err(err).Int64("task", task.ID).Msg("failed to update task")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// handleDeleteTask removes a task.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	if err := s.tasks.Store().Delete(task.ID); err != nil {
		s.log.Error().Err(err).Int64("task", task.ID).Msg("failed to delete task")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleComplete flips a task's completion flag.
func (s *Server) handleToggleComplete(w http.ResponseWriter, r *http.Request) {
	task, ok := s.ownedTask(w, r)
	if !ok {
		return
	}
	task.Completed = !task.Completed
	if err := s.tasks.Store().Save(task); err != nil {
		s.log.Error().Err(err).Int64("task", task.ID).Msg("failed to toggle task")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ownedTask loads the {id} path task and verifies it belongs to the current
// user. Someone else's task reads as 404: task ids are not probeable.
func (s *Server) ownedTask(w http.ResponseWriter, r *http.Request) (*domain.Task, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task id")
		return nil, false
	}

	user := currentUser(r)
	task, err := s.tasks.Store().Get(id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && task.OwnerID != user.ID) {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, false
	}
	if err != nil {
		s.log.Error().Err(err).Int64("task", id).Msg("failed to fetch task")
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}
	return task, true
}

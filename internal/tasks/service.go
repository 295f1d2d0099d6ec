// Package tasks implements the owner-scoped task operations behind both the
// REST endpoints and the assistant's tool calls. Every operation takes the
// acting owner id explicitly and returns a tagged result map instead of
// raising: callers (and the language model) always see a status field.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/soyeahso/tasknest/internal/logging"
	"github.com/soyeahso/tasknest/internal/store"
)

// Result statuses. Success statuses vary per operation; error statuses are
// shared across all five.
const (
	StatusCreated         = "created"
	StatusSuccess         = "success"
	StatusCompleted       = "completed"
	StatusPending         = "pending"
	StatusDeleted         = "deleted"
	StatusUpdated         = "updated"
	StatusValidationError = "validation_error"
	StatusNotFound        = "not_found"
	StatusUnauthorized    = "unauthorized"
	StatusError           = "error"
)

// List filters.
const (
	FilterAll       = "all"
	FilterPending   = "pending"
	FilterCompleted = "completed"
)

// Result is a tagged operation outcome. It always carries a "status" key;
// failed operations additionally carry an "error" message.
type Result map[string]any

// Status returns the result's status tag.
func (r Result) Status() string {
	s, _ := r["status"].(string)
	return s
}

// IsError reports whether the result carries an error status.
func (r Result) IsError() bool {
	switch r.Status() {
	case StatusValidationError, StatusNotFound, StatusUnauthorized, StatusError:
		return true
	}
	return false
}

func errResult(status, message string) Result {
	return Result{"status": status, "error": message}
}

// Service exposes the five task operations over a TaskStore.
type Service struct {
	store *store.TaskStore
	log   *logging.Logger
}

// NewService creates a task service.
func NewService(ts *store.TaskStore, log *logging.Logger) *Service {
	return &Service{store: ts, log: log.Sub("tasks")}
}

// Store exposes the underlying task store for callers that want typed tasks
// rather than tool-shaped result maps.
func (s *Service) Store() *store.TaskStore {
	return s.store
}

// Add creates a new task for the owner.
func (s *Service) Add(ownerID, title, description string) Result {
	title = strings.TrimSpace(title)
	if title == "" {
		return errResult(StatusValidationError, "Title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLen {
		return errResult(StatusValidationError,
			fmt.Sprintf("Title must be %d characters or less", domain.MaxTitleLen))
	}
	// Description length is judged on the raw input, before trimming.
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLen {
		return errResult(StatusValidationError,
			fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLen))
	}
	description = strings.TrimSpace(description)

	task, err := s.store.Create(ownerID, title, description)
	if err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Msg("failed to create task")
		return errResult(StatusError, "Failed to create task: "+err.Error())
	}

	return Result{
		"task_id":     task.ID,
		"status":      StatusCreated,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"created_at":  task.CreatedAt.Format(time.RFC3339),
	}
}

// List returns the owner's tasks matching the filter, newest-created-first.
func (s *Service) List(ownerID, filter string) Result {
	var completed *bool
	switch filter {
	case FilterAll:
	case FilterPending:
		v := false
		completed = &v
	case FilterCompleted:
		v := true
		completed = &v
	default:
		return errResult(StatusValidationError, "Status must be 'all', 'pending', or 'completed'")
	}

	tasks, err := s.store.ListByOwner(ownerID, completed)
	if err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Msg("failed to list tasks")
		return errResult(StatusError, "Failed to list tasks: "+err.Error())
	}

	items := make([]map[string]any, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, map[string]any{
			"id":          task.ID,
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"created_at":  task.CreatedAt.Format(time.RFC3339),
			"updated_at":  task.UpdatedAt.Format(time.RFC3339),
		})
	}

	return Result{
		"status": StatusSuccess,
		"count":  len(tasks),
		"tasks":  items,
	}
}

// Complete toggles a task's completion flag.
func (s *Service) Complete(ownerID string, taskID int64) Result {
	task, fail := s.getOwned(ownerID, taskID)
	if fail != nil {
		return fail
	}

	task.Completed = !task.Completed
	if err := s.store.Save(task); err != nil {
		s.log.Error().Err(err).Int64("task", taskID).Msg("failed to toggle task")
		return errResult(StatusError, "Failed to complete task: "+err.Error())
	}

	status := StatusPending
	if task.Completed {
		status = StatusCompleted
	}
	return Result{
		"task_id":    task.ID,
		"status":     status,
		"title":      task.Title,
		"completed":  task.Completed,
		"updated_at": task.UpdatedAt.Format(time.RFC3339),
	}
}

// Delete removes a task.
func (s *Service) Delete(ownerID string, taskID int64) Result {
	task, fail := s.getOwned(ownerID, taskID)
	if fail != nil {
		return fail
	}

	if err := s.store.Delete(task.ID); err != nil {
		s.log.Error().Err(err).Int64("task", taskID).Msg("failed to delete task")
		return errResult(StatusError, "Failed to delete task: "+err.Error())
	}

	return Result{
		"task_id": task.ID,
		"title":   task.Title,
		"status":  StatusDeleted,
	}
}

// Update modifies a task's title and/or description. At least one of the two
// must be non-nil.
func (s *Service) Update(ownerID string, taskID int64, title, description *string) Result {
	if title == nil && description == nil {
		return errResult(StatusValidationError,
			"At least one field (title or description) must be provided")
	}
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return errResult(StatusValidationError, "Title is required and cannot be empty")
		}
		if utf8.RuneCountInString(trimmed) > domain.MaxTitleLen {
			return errResult(StatusValidationError,
				fmt.Sprintf("Title must be %d characters or less", domain.MaxTitleLen))
		}
		title = &trimmed
	}
	if description != nil {
		if utf8.RuneCountInString(*description) > domain.MaxDescriptionLen {
			return errResult(StatusValidationError,
				fmt.Sprintf("Description must be %d characters or less", domain.MaxDescriptionLen))
		}
		trimmed := strings.TrimSpace(*description)
		description = &trimmed
	}

	task, fail := s.getOwned(ownerID, taskID)
	if fail != nil {
		return fail
	}

	if title != nil {
		task.Title = *title
	}
	if description != nil {
		task.Description = *description
	}
	if err := s.store.Save(task); err != nil {
		s.log.Error().Err(err).Int64("task", taskID).Msg("failed to update task")
		return errResult(StatusError, "Failed to update task: "+err.Error())
	}

	return Result{
		"task_id":     task.ID,
		"status":      StatusUpdated,
		"title":       task.Title,
		"description": task.Description,
		"updated_at":  task.UpdatedAt.Format(time.RFC3339),
	}
}

// getOwned fetches a task by id and verifies ownership. The fetch ignores the
// owner so that a missing task and someone else's task report differently:
// not_found vs unauthorized. The unauthorized result never includes the
// task's title or description.
func (s *Service) getOwned(ownerID string, taskID int64) (*domain.Task, Result) {
	task, err := s.store.Get(taskID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, errResult(StatusNotFound, fmt.Sprintf("Task %d not found", taskID))
	}
	if err != nil {
		s.log.Error().Err(err).Int64("task", taskID).Msg("failed to fetch task")
		return nil, errResult(StatusError, "Failed to fetch task: "+err.Error())
	}
	if task.OwnerID != ownerID {
		return nil, errResult(StatusUnauthorized, "Unauthorized: task belongs to another user")
	}
	return task, nil
}

// Package agent runs the conversational assistant: it hands a fixed catalog
// of task tools to the language model and executes the calls the model issues.
package agent

import (
	"encoding/json"
	"fmt"

	"github.com/soyeahso/tasknest/internal/llm"
	"github.com/soyeahso/tasknest/internal/tasks"
)

// Tool names. The catalog is closed: these five are the only tools the model
// is ever offered, and dispatch rejects anything else without touching the
// task store.
const (
	ToolAddTask      = "add_task"
	ToolListTasks    = "list_tasks"
	ToolCompleteTask = "complete_task"
	ToolDeleteTask   = "delete_task"
	ToolUpdateTask   = "update_task"
)

// Catalog dispatches the model's tool calls against the task service. The
// acting owner is supplied by the caller on every dispatch; the model has no
// way to address another user's tasks.
type Catalog struct {
	tasks *tasks.Service
}

// NewCatalog creates a tool catalog over the task service.
func NewCatalog(ts *tasks.Service) *Catalog {
	return &Catalog{tasks: ts}
}

// Definitions returns the model-facing definitions of all five tools.
func (c *Catalog) Definitions() []llm.ToolDefinition {
	return []llm.ToolDefinition{
		{
			Name:        ToolAddTask,
			Description: "Create a new todo task for the user",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"title": {"type": "string", "description": "Task title (1-200 characters)"},
					"description": {"type": "string", "description": "Task description (optional, max 1000 characters)"}
				},
				"required": ["title"]
			}`),
		},
		{
			Name:        ToolListTasks,
			Description: "Retrieve user's tasks with optional status filter",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"status": {"type": "string", "enum": ["all", "pending", "completed"], "description": "Filter by status: 'all', 'pending', or 'completed'"}
				}
			}`),
		},
		{
			Name:        ToolCompleteTask,
			Description: "Toggle task completion status",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Task ID to complete"}
				},
				"required": ["task_id"]
			}`),
		},
		{
			Name:        ToolDeleteTask,
			Description: "Remove a task from the list",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Task ID to delete"}
				},
				"required": ["task_id"]
			}`),
		},
		{
			Name:        ToolUpdateTask,
			Description: "Modify task title or description",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"task_id": {"type": "integer", "description": "Task ID to update"},
					"title": {"type": "string", "description": "New task title (optional)"},
					"description": {"type": "string", "description": "New task description (optional)"}
				},
				"required": ["task_id"]
			}`),
		},
	}
}

// Dispatch executes a single tool call for the owner and returns the result
// plus the parameters the call ran with (model arguments with the owner id
// injected). A model-supplied user_id is discarded. Unknown tools and
// malformed arguments produce an error result, never a store call.
func (c *Catalog) Dispatch(ownerID, name, arguments string) (result, params map[string]any) {
	params = map[string]any{}
	if arguments != "" {
		if err := json.Unmarshal([]byte(arguments), &params); err != nil {
			return map[string]any{"error": "Invalid tool arguments: " + err.Error()},
				map[string]any{"user_id": ownerID}
		}
	}
	delete(params, "user_id")

	switch name {
	case ToolAddTask:
		var args struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			result = map[string]any{"error": "Invalid tool arguments: " + err.Error()}
		} else {
			result = c.tasks.Add(ownerID, args.Title, args.Description)
		}

	case ToolListTasks:
		var args struct {
			Status string `json:"status"`
		}
		if arguments != "" {
			if err := json.Unmarshal([]byte(arguments), &args); err != nil {
				result = map[string]any{"error": "Invalid tool arguments: " + err.Error()}
				break
			}
		}
		if args.Status == "" {
			args.Status = tasks.FilterAll
		}
		result = c.tasks.List(ownerID, args.Status)

	case ToolCompleteTask:
		if id, err := taskIDArg(arguments); err != nil {
			result = map[string]any{"error": err.Error()}
		} else {
			result = c.tasks.Complete(ownerID, id)
		}

	case ToolDeleteTask:
		if id, err := taskIDArg(arguments); err != nil {
			result = map[string]any{"error": err.Error()}
		} else {
			result = c.tasks.Delete(ownerID, id)
		}

	case ToolUpdateTask:
		var args struct {
			TaskID      *int64  `json:"task_id"`
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := json.Unmarshal([]byte(arguments), &args); err != nil || args.TaskID == nil {
			result = map[string]any{"error": "Invalid tool arguments: task_id is required"}
		} else {
			result = c.tasks.Update(ownerID, *args.TaskID, args.Title, args.Description)
		}

	default:
		result = map[string]any{"error": fmt.Sprintf("Unknown tool: %s", name)}
	}

	params["user_id"] = ownerID
	return result, params
}

func taskIDArg(arguments string) (int64, error) {
	var args struct {
		TaskID *int64 `json:"task_id"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil || args.TaskID == nil {
		return 0, fmt.Errorf("Invalid tool arguments: task_id is required")
	}
	return *args.TaskID, nil
}

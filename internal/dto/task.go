package dto

import (
	"github.com/orbitcrm/record_console_app/internal/core/domain"
)

// TaskForm is the editable form state for a task record.
type TaskForm struct {
	UID int64  `json:"uid,omitempty"`
	Ref string `json:"ref,omitempty"`

	Title    string              `json:"title"`
	Details  string              `json:"details"`
	Type     domain.TaskType     `json:"type"`
	Status   domain.TaskStatus   `json:"status"`
	Priority domain.TaskPriority `json:"priority"`

	DueDate   *domain.CalendarDate `json:"dueDate,omitempty"`
	StartDate *domain.CalendarDate `json:"startDate,omitempty"`

	Tags string `json:"tags"`

	CheckinLat string `json:"checkinLat"`
	CheckinLng string `json:"checkinLng"`

	Assignee     *domain.Reference `json:"assignee,omitempty"`
	Client       *domain.Reference `json:"client,omitempty"`
	Organisation *domain.Reference `json:"organisation,omitempty"`
	Branch       *domain.Reference `json:"branch,omitempty"`
}

// TaskPayload is the API-ready write shape for a task.
type TaskPayload struct {
	Ref *string `json:"ref,omitempty"` // create only, stripped on update

	Title    string              `json:"title"`
	Details  string              `json:"details,omitempty"`
	Type     domain.TaskType     `json:"type"`
	Status   domain.TaskStatus   `json:"status"`
	Priority domain.TaskPriority `json:"priority"`

	DueDate   *domain.CalendarDate `json:"dueDate,omitempty"`
	StartDate *domain.CalendarDate `json:"startDate,omitempty"`

	Tags []string `json:"tags,omitempty"`

	CheckinLat *float64 `json:"checkinLat,omitempty"`
	CheckinLng *float64 `json:"checkinLng,omitempty"`

	Assignee     *domain.Reference `json:"assignee,omitempty"`
	Client       *domain.Reference `json:"client,omitempty"`
	Organisation *domain.Reference `json:"organisation,omitempty"`
	Branch       *domain.Reference `json:"branch,omitempty"`
}

// TaskStatusChangeRequest is the one-field quick-action body.
type TaskStatusChangeRequest struct {
	Status domain.TaskStatus `json:"status" binding:"required"`
}

// TaskResponse pairs the record with its presentation lookups.
type TaskResponse struct {
	Task            domain.Task        `json:"task"`
	StatusDisplay   domain.DisplayInfo `json:"statusDisplay"`
	PriorityDisplay domain.DisplayInfo `json:"priorityDisplay"`
}

// ToTaskResponse builds a TaskResponse from a domain task.
func ToTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		Task:            t,
		StatusDisplay:   domain.TaskStatusDisplay[t.Status],
		PriorityDisplay: domain.TaskPriorityDisplay[t.Priority],
	}
}

// ListTasksParams defines query parameters for listing tasks.
type ListTasksParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListTasksResponse wraps the list of tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ToListTasksResponse converts a slice of domain.Task to the list DTO.
func ToListTasksResponse(tasks []domain.Task) ListTasksResponse {
	res := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		res[i] = ToTaskResponse(t)
	}
	return ListTasksResponse{Tasks: res}
}

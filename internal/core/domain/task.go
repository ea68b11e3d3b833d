package domain

import "time"

// TaskType is the closed set of task kinds.
type TaskType string

const (
	TaskCall     TaskType = "call"
	TaskMeeting  TaskType = "meeting"
	TaskDelivery TaskType = "delivery"
	TaskSupport  TaskType = "support"
)

// TaskTypes lists the members in declaration order.
var TaskTypes = []TaskType{TaskCall, TaskMeeting, TaskDelivery, TaskSupport}

// TaskStatus is the closed set of task lifecycle states.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// TaskStatuses lists the members in declaration order.
var TaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskCancelled}

// TaskPriority is the closed set of task priorities.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskPriorities lists the members in declaration order.
var TaskPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// Task is a work item attached to a client, as persisted upstream.
type Task struct {
	UID       int64        `json:"uid,omitempty"`
	Ref       string       `json:"ref,omitempty"`
	Title     string       `json:"title"`
	Details   string       `json:"details,omitempty"`
	Type      TaskType     `json:"type"`
	Status    TaskStatus   `json:"status"`
	Priority  TaskPriority `json:"priority"`
	DueDate   CalendarDate `json:"dueDate,omitempty"`
	StartDate CalendarDate `json:"startDate,omitempty"`
	Tags      []string     `json:"tags,omitempty"`

	Assignee     *RefDisplay `json:"assignee,omitempty"`
	Client       *RefDisplay `json:"client,omitempty"`
	Organisation *RefDisplay `json:"organisation,omitempty"`
	Branch       *RefDisplay `json:"branch,omitempty"`

	CheckinLat *float64 `json:"checkinLat,omitempty"`
	CheckinLng *float64 `json:"checkinLng,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// ValidTaskType reports whether t is a declared task type member.
func ValidTaskType(t TaskType) bool {
	for _, m := range TaskTypes {
		if t == m {
			return true
		}
	}
	return false
}

// ValidTaskStatus reports whether s is a declared status member.
func ValidTaskStatus(s TaskStatus) bool {
	for _, m := range TaskStatuses {
		if s == m {
			return true
		}
	}
	return false
}

// ValidTaskPriority reports whether p is a declared priority member.
func ValidTaskPriority(p TaskPriority) bool {
	for _, m := range TaskPriorities {
		if p == m {
			return true
		}
	}
	return false
}

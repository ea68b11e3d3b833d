package schema

import (
	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

// taskFields declares the task schema in presentation order.
var taskFields = []Field[dto.TaskForm]{
	{Path: "title", Label: "Title", Kind: KindString, Required: true,
		Value: func(f *dto.TaskForm) string { return f.Title }},
	{Path: "details", Label: "Details", Kind: KindString,
		Value: func(f *dto.TaskForm) string { return f.Details }},
	{Path: "type", Label: "Type", Kind: KindString, Required: true,
		Enum: enumStrings(domain.TaskTypes),
		Value: func(f *dto.TaskForm) string { return string(f.Type) }},
	{Path: "status", Label: "Status", Kind: KindString, Required: true,
		Enum: enumStrings(domain.TaskStatuses),
		Value: func(f *dto.TaskForm) string { return string(f.Status) }},
	{Path: "priority", Label: "Priority", Kind: KindString, Required: true,
		Enum: enumStrings(domain.TaskPriorities),
		Value: func(f *dto.TaskForm) string { return string(f.Priority) }},
	{Path: "checkinLat", Label: "Check-in latitude", Kind: KindNumber,
		HasRange: true, Min: -90, Max: 90,
		Value: func(f *dto.TaskForm) string { return f.CheckinLat }},
	{Path: "checkinLng", Label: "Check-in longitude", Kind: KindNumber,
		HasRange: true, Min: -180, Max: 180,
		Value: func(f *dto.TaskForm) string { return f.CheckinLng }},
}

// ValidateTask runs the task schema. Returns nil when the form is valid.
func ValidateTask(form *dto.TaskForm) *Errors {
	errs := NewErrors()
	runFields(form, taskFields, errs)
	if errs.Empty() {
		return nil
	}
	return errs
}

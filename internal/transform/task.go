package transform

import (
	"strings"

	"github.com/orbitcrm/record_console_app/internal/core/domain"
	"github.com/orbitcrm/record_console_app/internal/dto"
)

// TaskToForm maps a persisted task into editable form state.
func TaskToForm(t domain.Task) dto.TaskForm {
	return dto.TaskForm{
		UID:      t.UID,
		Ref:      t.Ref,
		Title:    t.Title,
		Details:  t.Details,
		Type:     t.Type,
		Status:   t.Status,
		Priority: t.Priority,

		DueDate:   datePtr(t.DueDate),
		StartDate: datePtr(t.StartDate),

		Tags: joinCSV(t.Tags),

		CheckinLat: formatFloat(t.CheckinLat),
		CheckinLng: formatFloat(t.CheckinLng),

		Assignee:     refOnly(t.Assignee),
		Client:       refOnly(t.Client),
		Organisation: refOnly(t.Organisation),
		Branch:       refOnly(t.Branch),
	}
}

// TaskPayload maps validated task form state into the API-ready write shape.
// Create/update ref semantics match the client transformer.
func TaskPayload(form dto.TaskForm, mode PayloadMode, sess *domain.Session) dto.TaskPayload {
	p := dto.TaskPayload{
		Title:    strings.TrimSpace(form.Title),
		Details:  strings.TrimSpace(form.Details),
		Type:     form.Type,
		Status:   form.Status,
		Priority: form.Priority,

		DueDate:   form.DueDate,
		StartDate: form.StartDate,

		Tags: splitCSV(form.Tags),

		CheckinLat: parseFloatField(form.CheckinLat),
		CheckinLng: parseFloatField(form.CheckinLng),

		Assignee:     form.Assignee,
		Client:       form.Client,
		Organisation: form.Organisation,
		Branch:       form.Branch,
	}
	if mode == PayloadModeCreate {
		ref := strings.TrimSpace(form.Ref)
		if ref == "" {
			ref = NewTaskRef()
		}
		p.Ref = &ref
		if p.Organisation == nil {
			p.Organisation = sess.OrganisationRef()
		}
		if p.Branch == nil {
			p.Branch = sess.BranchRef()
		}
	}
	return p
}

// TaskFromPayload reconstructs the persisted-record shape a payload implies.
func TaskFromPayload(uid int64, p dto.TaskPayload) domain.Task {
	t := domain.Task{
		UID:      uid,
		Title:    p.Title,
		Details:  p.Details,
		Type:     p.Type,
		Status:   p.Status,
		Priority: p.Priority,

		DueDate:   dateValue(p.DueDate),
		StartDate: dateValue(p.StartDate),

		Tags: p.Tags,

		CheckinLat: p.CheckinLat,
		CheckinLng: p.CheckinLng,

		Assignee:     displayOnly(p.Assignee),
		Client:       displayOnly(p.Client),
		Organisation: displayOnly(p.Organisation),
		Branch:       displayOnly(p.Branch),
	}
	if p.Ref != nil {
		t.Ref = *p.Ref
	}
	return t
}

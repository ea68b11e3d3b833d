package domain

// DisplayInfo pairs a human label with the color class every presentation
// surface should use for an enum member. Kept here so views cannot drift
// apart on categorization.
type DisplayInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// ClientStatusDisplay maps each client status to its presentation.
var ClientStatusDisplay = map[ClientStatus]DisplayInfo{
	ClientProspect: {Label: "Prospect", Color: "blue"},
	ClientActive:   {Label: "Active", Color: "green"},
	ClientInactive: {Label: "Inactive", Color: "gray"},
	ClientArchived: {Label: "Archived", Color: "red"},
}

// ClientCategoryDisplay maps each client category to its presentation.
var ClientCategoryDisplay = map[ClientCategory]DisplayInfo{
	CategoryRetail:     {Label: "Retail", Color: "teal"},
	CategoryWholesale:  {Label: "Wholesale", Color: "indigo"},
	CategoryCorporate:  {Label: "Corporate", Color: "purple"},
	CategoryGovernment: {Label: "Government", Color: "amber"},
}

// GeofenceTypeDisplay maps each geofence type to its presentation.
var GeofenceTypeDisplay = map[GeofenceType]DisplayInfo{
	GeofenceNone:       {Label: "None", Color: "gray"},
	GeofenceNotify:     {Label: "Notify", Color: "blue"},
	GeofenceAlert:      {Label: "Alert", Color: "orange"},
	GeofenceRestricted: {Label: "Restricted", Color: "red"},
}

// TaskStatusDisplay maps each task status to its presentation.
var TaskStatusDisplay = map[TaskStatus]DisplayInfo{
	TaskPending:    {Label: "Pending", Color: "gray"},
	TaskInProgress: {Label: "In Progress", Color: "blue"},
	TaskCompleted:  {Label: "Completed", Color: "green"},
	TaskCancelled:  {Label: "Cancelled", Color: "red"},
}

// TaskPriorityDisplay maps each task priority to its presentation.
var TaskPriorityDisplay = map[TaskPriority]DisplayInfo{
	PriorityLow:    {Label: "Low", Color: "gray"},
	PriorityMedium: {Label: "Medium", Color: "blue"},
	PriorityHigh:   {Label: "High", Color: "orange"},
	PriorityUrgent: {Label: "Urgent", Color: "red"},
}

package report

import "time"

const Kind = "report"

const (
	TypeProduct = "product"
	TypeSeller  = "seller"
	TypeUser    = "user"
	TypeOrder   = "order"
)

var Types = []string{TypeProduct, TypeSeller, TypeUser, TypeOrder}

const (
	StatusPending   = "pending"
	StatusReviewing = "reviewing"
	StatusResolved  = "resolved"
	StatusDismissed = "dismissed"
)

var Statuses = []string{StatusPending, StatusReviewing, StatusResolved, StatusDismissed}

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

func priorityRank(p string) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

type Report struct {
	ID           string     `json:"id"`
	Type         string     `json:"type" validate:"oneof=product seller user order"`
	TargetID     string     `json:"targetId" validate:"required"`
	TargetName   string     `json:"targetName"`
	ReporterName string     `json:"reporterName" validate:"required"`
	Reason       string     `json:"reason" validate:"required,max=200"`
	Description  string     `json:"description,omitempty"`
	Status       string     `json:"status" validate:"oneof=pending reviewing resolved dismissed"`
	Priority     string     `json:"priority" validate:"oneof=low medium high"`
	Resolution   string     `json:"resolution,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ClosedAt     *time.Time `json:"closedAt,omitempty"`
}

// Closed reports whether the report was resolved or dismissed.
func (r Report) Closed() bool {
	return r.Status == StatusResolved || r.Status == StatusDismissed
}

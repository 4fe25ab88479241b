package report

import (
	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
)

var Identity = crud.Identity[Report]{
	ID:     func(r Report) string { return r.ID },
	WithID: func(r Report, id string) Report { r.ID = id; return r },
}

var Schema = &listview.Schema[Report]{
	Search: []func(Report) string{
		func(r Report) string { return r.Reason },
		func(r Report) string { return r.TargetName },
		func(r Report) string { return r.ReporterName },
	},
	Dimensions: []listview.Dimension[Report]{
		{Name: "type", Value: func(r Report) string { return r.Type }, Values: Types},
		{Name: "status", Value: func(r Report) string { return r.Status }, Values: Statuses},
		{Name: "priority", Value: func(r Report) string { return r.Priority }, Values: Priorities},
	},
	Sorts: []listview.SortKey[Report]{
		{Name: "createdAt", Less: func(a, b Report) bool { return a.CreatedAt.Before(b.CreatedAt) }},
		{Name: "priority", Less: func(a, b Report) bool { return priorityRank(a.Priority) < priorityRank(b.Priority) }},
	},
}

var Columns = []export.Column[Report]{
	{Header: "ID", Value: func(r Report) string { return r.ID }},
	{Header: "Type", Value: func(r Report) string { return r.Type }},
	{Header: "Target", Value: func(r Report) string { return r.TargetName }},
	{Header: "Reporter", Value: func(r Report) string { return r.ReporterName }},
	{Header: "Reason", Value: func(r Report) string { return r.Reason }},
	{Header: "Priority", Value: func(r Report) string { return r.Priority }},
	{Header: "Status", Value: func(r Report) string { return r.Status }},
	{Header: "Created At", Value: func(r Report) string { return export.Date(r.CreatedAt) }},
}

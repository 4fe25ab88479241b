package user

import (
	"strings"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
)

var Identity = crud.Identity[User]{
	ID:     func(u User) string { return u.ID },
	WithID: func(u User, id string) User { u.ID = id; return u },
}

var Schema = &listview.Schema[User]{
	Search: []func(User) string{
		func(u User) string { return u.Name },
		func(u User) string { return u.Email },
	},
	Dimensions: []listview.Dimension[User]{
		{Name: "role", Value: func(u User) string { return u.Role }, Values: Roles},
		{Name: "status", Value: func(u User) string { return u.Status }, Values: Statuses},
	},
	Sorts: []listview.SortKey[User]{
		{Name: "name", Less: func(a, b User) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }},
		{Name: "createdAt", Less: func(a, b User) bool { return a.CreatedAt.Before(b.CreatedAt) }},
	},
}

var Columns = []export.Column[User]{
	{Header: "ID", Value: func(u User) string { return u.ID }},
	{Header: "Name", Value: func(u User) string { return u.Name }},
	{Header: "Email", Value: func(u User) string { return u.Email }},
	{Header: "Phone", Value: func(u User) string { return u.Phone }},
	{Header: "Role", Value: func(u User) string { return u.Role }},
	{Header: "Status", Value: func(u User) string { return u.Status }},
	{Header: "Created At", Value: func(u User) string { return export.Date(u.CreatedAt) }},
}

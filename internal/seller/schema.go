package seller

import (
	"strings"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
)

var Identity = crud.Identity[Seller]{
	ID:     func(s Seller) string { return s.ID },
	WithID: func(s Seller, id string) Seller { s.ID = id; return s },
}

var Schema = &listview.Schema[Seller]{
	Search: []func(Seller) string{
		func(s Seller) string { return s.ShopName },
		func(s Seller) string { return s.OwnerName },
		func(s Seller) string { return s.Email },
	},
	Dimensions: []listview.Dimension[Seller]{
		{Name: "status", Value: func(s Seller) string { return s.Status }, Values: Statuses},
		{Name: "type", Value: func(s Seller) string { return s.Type }, Values: Types},
	},
	Ranges: []listview.RangeField[Seller]{
		{
			Name:  "rating",
			Value: func(s Seller) float64 { return s.Rating },
			Buckets: []listview.Bucket{
				listview.Below("under-3", "Dưới 3 sao", 3),
				listview.Between("3-4", "3 - 4 sao", 3, 4),
				listview.AtLeast("4-plus", "Từ 4 sao", 4),
			},
		},
		{
			Name:  "revenue",
			Value: func(s Seller) float64 { return s.Revenue },
			Buckets: []listview.Bucket{
				listview.Below("under-10m", "Dưới 10 triệu", 10_000_000),
				listview.Between("10m-100m", "10 - 100 triệu", 10_000_000, 100_000_000),
				listview.AtLeast("over-100m", "Trên 100 triệu", 100_000_000),
			},
		},
	},
	Sorts: []listview.SortKey[Seller]{
		{Name: "shopName", Less: func(a, b Seller) bool { return strings.ToLower(a.ShopName) < strings.ToLower(b.ShopName) }},
		{Name: "rating", Less: func(a, b Seller) bool { return a.Rating < b.Rating }},
		{Name: "revenue", Less: func(a, b Seller) bool { return a.Revenue < b.Revenue }},
		{Name: "joinedAt", Less: func(a, b Seller) bool { return a.JoinedAt.Before(b.JoinedAt) }},
	},
	Measures: []listview.Measure[Seller]{
		{Name: "revenue", Value: func(s Seller) float64 { return s.Revenue }},
		{Name: "products", Value: func(s Seller) float64 { return float64(s.ProductCount) }},
	},
}

var Columns = []export.Column[Seller]{
	{Header: "ID", Value: func(s Seller) string { return s.ID }},
	{Header: "Shop", Value: func(s Seller) string { return s.ShopName }},
	{Header: "Owner", Value: func(s Seller) string { return s.OwnerName }},
	{Header: "Email", Value: func(s Seller) string { return s.Email }},
	{Header: "Phone", Value: func(s Seller) string { return s.Phone }},
	{Header: "Type", Value: func(s Seller) string { return s.Type }},
	{Header: "Status", Value: func(s Seller) string { return s.Status }},
	{Header: "Rating", Value: func(s Seller) string { return export.Number(s.Rating) }},
	{Header: "Revenue", Value: func(s Seller) string { return export.Number(s.Revenue) }},
	{Header: "Products", Value: func(s Seller) string { return export.Int(s.ProductCount) }},
	{Header: "Joined At", Value: func(s Seller) string { return export.Date(s.JoinedAt) }},
}

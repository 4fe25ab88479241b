package product

import (
	"strings"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
)

var Identity = crud.Identity[Product]{
	ID:     func(p Product) string { return p.ID },
	WithID: func(p Product, id string) Product { p.ID = id; return p },
}

// Schema drives the catalog and the product management screens.
var Schema = &listview.Schema[Product]{
	Search: []func(Product) string{
		func(p Product) string { return p.Name },
		func(p Product) string { return p.SellerName },
		func(p Product) string { return p.Description },
	},
	Dimensions: []listview.Dimension[Product]{
		{Name: "category", Value: func(p Product) string { return p.Category }, Values: Categories},
		{Name: "status", Value: func(p Product) string { return p.Status }, Values: Statuses},
		{Name: "seller", Value: func(p Product) string { return p.SellerID }},
	},
	Ranges: []listview.RangeField[Product]{
		{
			Name:  "price",
			Value: func(p Product) float64 { return p.Price },
			Buckets: []listview.Bucket{
				listview.Below("under-100k", "Dưới 100.000đ", 100_000),
				listview.Between("100k-500k", "100.000đ - 500.000đ", 100_000, 500_000),
				listview.Between("500k-1m", "500.000đ - 1.000.000đ", 500_000, 1_000_000),
				listview.AtLeast("over-1m", "Trên 1.000.000đ", 1_000_000),
			},
		},
		{
			Name:  "stock",
			Value: func(p Product) float64 { return float64(p.Stock) },
			Buckets: []listview.Bucket{
				listview.Below("out", "Hết hàng", 1),
				listview.Between("low", "Sắp hết", 1, 10),
				listview.AtLeast("in", "Còn hàng", 10),
			},
		},
	},
	Sorts: []listview.SortKey[Product]{
		{Name: "name", Less: func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }},
		{Name: "price", Less: func(a, b Product) bool { return a.Price < b.Price }},
		{Name: "stock", Less: func(a, b Product) bool { return a.Stock < b.Stock }},
		{Name: "sold", Less: func(a, b Product) bool { return a.Sold < b.Sold }},
		{Name: "createdAt", Less: func(a, b Product) bool { return a.CreatedAt.Before(b.CreatedAt) }},
	},
	Measures: []listview.Measure[Product]{
		{Name: "inventoryValue", Value: func(p Product) float64 { return p.Price * float64(p.Stock) }},
	},
}

var Columns = []export.Column[Product]{
	{Header: "ID", Value: func(p Product) string { return p.ID }},
	{Header: "Name", Value: func(p Product) string { return p.Name }},
	{Header: "Category", Value: func(p Product) string { return p.Category }},
	{Header: "Seller", Value: func(p Product) string { return p.SellerName }},
	{Header: "Price", Value: func(p Product) string { return export.Number(p.Price) }},
	{Header: "Stock", Value: func(p Product) string { return export.Int(p.Stock) }},
	{Header: "Sold", Value: func(p Product) string { return export.Int(p.Sold) }},
	{Header: "Status", Value: func(p Product) string { return p.Status }},
	{Header: "Created At", Value: func(p Product) string { return export.Date(p.CreatedAt) }},
}

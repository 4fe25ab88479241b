package order

import (
	"strings"

	"marketplace-be/internal/crud"
	"marketplace-be/internal/export"
	"marketplace-be/internal/listview"
)

var Identity = crud.Identity[Order]{
	ID:     func(o Order) string { return o.ID },
	WithID: func(o Order, id string) Order { o.ID = id; return o },
}

var Schema = &listview.Schema[Order]{
	Search: []func(Order) string{
		func(o Order) string { return o.ID },
		func(o Order) string { return o.CustomerName },
		func(o Order) string { return o.CustomerEmail },
	},
	Dimensions: []listview.Dimension[Order]{
		{Name: "status", Value: func(o Order) string { return string(o.Status) }, Values: Statuses},
		{Name: "paymentMethod", Value: func(o Order) string { return string(o.PaymentMethod) }, Values: PaymentMethods},
		{Name: "paymentStatus", Value: func(o Order) string { return string(o.PaymentStatus) }, Values: PaymentStatuses},
		{Name: "seller", Value: func(o Order) string { return o.SellerID }},
	},
	Ranges: []listview.RangeField[Order]{
		{
			Name:  "total",
			Value: func(o Order) float64 { return o.Total },
			Buckets: []listview.Bucket{
				listview.Below("under-500k", "Dưới 500.000đ", 500_000),
				listview.Between("500k-2m", "500.000đ - 2.000.000đ", 500_000, 2_000_000),
				listview.AtLeast("over-2m", "Trên 2.000.000đ", 2_000_000),
			},
		},
	},
	Sorts: []listview.SortKey[Order]{
		{Name: "createdAt", Less: func(a, b Order) bool { return a.CreatedAt.Before(b.CreatedAt) }},
		{Name: "total", Less: func(a, b Order) bool { return a.Total < b.Total }},
		{Name: "customerName", Less: func(a, b Order) bool {
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		}},
	},
	Measures: []listview.Measure[Order]{
		{Name: "revenue", Value: func(o Order) float64 {
			if o.Status == StatusCancelled {
				return 0
			}
			return o.Total
		}},
	},
}

var Columns = []export.Column[Order]{
	{Header: "Order ID", Value: func(o Order) string { return o.ID }},
	{Header: "Invoice", Value: func(o Order) string { return o.InvoiceNo }},
	{Header: "Customer", Value: func(o Order) string { return o.CustomerName }},
	{Header: "Email", Value: func(o Order) string { return o.CustomerEmail }},
	{Header: "Address", Value: func(o Order) string { return o.ShippingAddress }},
	{Header: "Items", Value: func(o Order) string { return export.Int(o.Quantity()) }},
	{Header: "Total", Value: func(o Order) string { return export.Number(o.Total) }},
	{Header: "Payment", Value: func(o Order) string { return string(o.PaymentMethod) }},
	{Header: "Payment Status", Value: func(o Order) string { return string(o.PaymentStatus) }},
	{Header: "Status", Value: func(o Order) string { return string(o.Status) }},
	{Header: "Created At", Value: func(o Order) string { return export.Date(o.CreatedAt) }},
}

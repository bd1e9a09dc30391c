package domain

import "github.com/shopspring/decimal"

func BrandURL(id string) string           { return "/brand/" + id }
func CategoryURL(id string) string        { return "/category/" + id }
func ProductURL(id string) string         { return "/product/" + id }
func ProductInstanceURL(id string) string { return "/productinstance/" + id }

// FormatPrice renders a price the way the catalog displays it, e.g. "$12.50".
func FormatPrice(p decimal.Decimal) string { return "$" + p.StringFixed(2) }

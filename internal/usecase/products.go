package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/opsdesk/internal/entity"
)

const lowStockThreshold = 10

type ProductQuery struct {
	Query    string
	Vendor   string
	Type     string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Order    string
}

type ProductListOutput struct {
	Products []entity.Product `json:"products"`
	Total    int              `json:"total"`
}

type VendorCount struct {
	Vendor string `json:"vendor"`
	Count  int    `json:"count"`
}

type PriceRange struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type ProductStats struct {
	TotalProducts   int            `json:"totalProducts"`
	TotalVariants   int            `json:"totalVariants"`
	TotalInventory  int            `json:"totalInventory"`
	AveragePrice    float64        `json:"averagePrice"`
	LowStockCount   int            `json:"lowStockCount"`
	TopVendors      []VendorCount  `json:"topVendors"`
	ProductTypes    map[string]int `json:"productTypes"`
	PriceRanges     []PriceRange   `json:"priceRanges"`
	ActiveProducts  int            `json:"activeProducts"`
	ProductsNoImage int            `json:"productsWithoutImage"`
}

type ProductUseCase struct {
	Shopify CommerceClient
	Logger  *zap.Logger
}

func NewProductUseCase(client CommerceClient, logger *zap.Logger) *ProductUseCase {
	return &ProductUseCase{Shopify: client, Logger: logger.Named("products")}
}

func (uc *ProductUseCase) List(ctx context.Context, q ProductQuery) (*ProductListOutput, error) {
	products, err := uc.fetch(ctx)
	if err != nil {
		return nil, err
	}
	out := FilterProducts(products, q)
	return &ProductListOutput{Products: out, Total: len(out)}, nil
}

func (uc *ProductUseCase) Stats(ctx context.Context) (*ProductStats, error) {
	products, err := uc.fetch(ctx)
	if err != nil {
		return nil, err
	}
	stats := ComputeProductStats(products)
	return &stats, nil
}

func (uc *ProductUseCase) fetch(ctx context.Context) ([]entity.Product, error) {
	if !uc.Shopify.Configured() {
		return nil, &TechnicalError{Code: CodeShopifyNotConfigured, Message: "Shopify credentials are not set"}
	}
	products, err := uc.Shopify.ListProducts(ctx)
	if err != nil {
		uc.Logger.Error("❌ failed to fetch products", zap.Error(err))
		return nil, commerceError(err)
	}
	return products, nil
}

// FilterProducts applies search, vendor, type and price filters, then sorts.
// The input slice is not modified.
func FilterProducts(products []entity.Product, q ProductQuery) []entity.Product {
	needle := strings.ToLower(strings.TrimSpace(q.Query))
	out := make([]entity.Product, 0, len(products))
	for _, p := range products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.BodyHTML), needle) &&
			!strings.Contains(strings.ToLower(p.Tags), needle) {
			continue
		}
		if q.Vendor != "" && !strings.EqualFold(p.Vendor, q.Vendor) {
			continue
		}
		if q.Type != "" && !strings.EqualFold(p.ProductType, q.Type) {
			continue
		}
		price := p.MinPrice()
		if q.MinPrice != nil && price < *q.MinPrice {
			continue
		}
		if q.MaxPrice != nil && price > *q.MaxPrice {
			continue
		}
		out = append(out, p)
	}

	var less func(a, b *entity.Product) bool
	switch q.Sort {
	case "title":
		less = func(a, b *entity.Product) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case "price":
		less = func(a, b *entity.Product) bool { return a.MinPrice() < b.MinPrice() }
	case "created_at":
		less = func(a, b *entity.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "inventory":
		less = func(a, b *entity.Product) bool { return a.Inventory() < b.Inventory() }
	default:
		return out
	}
	desc := strings.EqualFold(q.Order, "desc")
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(&out[j], &out[i])
		}
		return less(&out[i], &out[j])
	})
	return out
}

var priceBuckets = []struct {
	label string
	max   float64
}{
	{"0-25", 25},
	{"26-50", 50},
	{"51-100", 100},
	{"101-250", 250},
}

func ComputeProductStats(products []entity.Product) ProductStats {
	stats := ProductStats{
		TotalProducts: len(products),
		TopVendors:    []VendorCount{},
		ProductTypes:  map[string]int{},
	}
	ranges := make([]int, len(priceBuckets)+1)
	vendors := map[string]int{}
	var priceSum float64
	var priced int

	for i := range products {
		p := &products[i]
		stats.TotalVariants += len(p.Variants)
		stats.TotalInventory += p.Inventory()
		if p.LowStock(lowStockThreshold) {
			stats.LowStockCount++
		}
		if p.Status == "active" {
			stats.ActiveProducts++
		}
		if p.Image == nil && len(p.Images) == 0 {
			stats.ProductsNoImage++
		}
		if p.Vendor != "" {
			vendors[p.Vendor]++
		}
		productType := p.ProductType
		if productType == "" {
			productType = "Uncategorized"
		}
		stats.ProductTypes[productType]++

		for _, v := range p.Variants {
			priceSum += v.PriceValue()
			priced++
		}
		ranges[bucketFor(p.MinPrice())]++
	}

	if priced > 0 {
		stats.AveragePrice = round2(priceSum / float64(priced))
	}

	for vendor, n := range vendors {
		stats.TopVendors = append(stats.TopVendors, VendorCount{Vendor: vendor, Count: n})
	}
	sort.Slice(stats.TopVendors, func(i, j int) bool {
		a, b := stats.TopVendors[i], stats.TopVendors[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Vendor < b.Vendor
	})
	stats.TopVendors = stats.TopVendors[:min(5, len(stats.TopVendors))]

	for i, b := range priceBuckets {
		stats.PriceRanges = append(stats.PriceRanges, PriceRange{Range: b.label, Count: ranges[i]})
	}
	stats.PriceRanges = append(stats.PriceRanges, PriceRange{Range: "250+", Count: ranges[len(priceBuckets)]})
	return stats
}

func bucketFor(price float64) int {
	for i, b := range priceBuckets {
		if price <= b.max {
			return i
		}
	}
	return len(priceBuckets)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

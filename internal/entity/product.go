package entity

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Product mirrors the commerce platform catalog entry. It is never stored
// locally.
type Product struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Handle         string         `json:"handle"`
	BodyHTML       string         `json:"body_html"`
	Vendor         string         `json:"vendor"`
	ProductType    string         `json:"product_type"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	PublishedAt    *time.Time     `json:"published_at"`
	TemplateSuffix *string        `json:"template_suffix"`
	Status         string         `json:"status"`
	PublishedScope string         `json:"published_scope"`
	Tags           string         `json:"tags"`
	Variants       []Variant      `json:"variants"`
	Options        []Option       `json:"options"`
	Images         []ProductImage `json:"images"`
	Image          *ProductImage  `json:"image"`
}

type Variant struct {
	ID                int64   `json:"id"`
	ProductID         int64   `json:"product_id"`
	Title             string  `json:"title"`
	Price             string  `json:"price"`
	SKU               string  `json:"sku"`
	Position          int     `json:"position"`
	CompareAtPrice    *string `json:"compare_at_price"`
	Option1           *string `json:"option1"`
	Option2           *string `json:"option2"`
	Option3           *string `json:"option3"`
	Taxable           bool    `json:"taxable"`
	Barcode           *string `json:"barcode"`
	Grams             int     `json:"grams"`
	Weight            float64 `json:"weight"`
	WeightUnit        string  `json:"weight_unit"`
	InventoryItemID   int64   `json:"inventory_item_id"`
	InventoryQuantity int     `json:"inventory_quantity"`
	RequiresShipping  bool    `json:"requires_shipping"`
}

type Option struct {
	ID        int64    `json:"id"`
	ProductID int64    `json:"product_id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Values    []string `json:"values"`
}

type ProductImage struct {
	ID         int64   `json:"id"`
	ProductID  int64   `json:"product_id"`
	Position   int     `json:"position"`
	Alt        *string `json:"alt"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Src        string  `json:"src"`
	VariantIDs []int64 `json:"variant_ids"`
}

func (v Variant) PriceValue() float64 {
	p, err := strconv.ParseFloat(v.Price, 64)
	if err != nil {
		return 0
	}
	return p
}

// MinPrice is the cheapest variant price, 0 for products without variants.
func (p *Product) MinPrice() float64 {
	if len(p.Variants) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, v := range p.Variants {
		min = math.Min(min, v.PriceValue())
	}
	return min
}

func (p *Product) Inventory() int {
	total := 0
	for _, v := range p.Variants {
		total += v.InventoryQuantity
	}
	return total
}

func (p *Product) LowStock(threshold int) bool {
	for _, v := range p.Variants {
		if v.InventoryQuantity < threshold {
			return true
		}
	}
	return false
}

// MarshalJSON adds the description alias the dashboard reads.
func (p Product) MarshalJSON() ([]byte, error) {
	type alias Product
	return json.Marshal(struct {
		alias
		Description string `json:"description"`
	}{alias(p), p.BodyHTML})
}

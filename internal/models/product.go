package models

import "time"

// Product represents a skincare product in the catalog.
type Product struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name          string    `json:"name" validate:"required,min=3,max=100"`
	Brand         string    `json:"brand" validate:"required,max=100"`
	Description   string    `json:"description" validate:"omitempty,max=2000"`
	Picture       string    `json:"picture" validate:"omitempty,url"`
	Price         float64   `json:"price" validate:"required,gt=0"`
	OriginalPrice *float64  `json:"original_price,omitempty" validate:"omitempty,gt=0"`
	Sizes         []string  `json:"sizes" gorm:"serializer:json" validate:"required,min=1,dive,required"`
	Categories    []string  `json:"categories" gorm:"serializer:json"`
	SkinConcerns  []string  `json:"skin_concerns" gorm:"serializer:json"`
	SkinTypes     []string  `json:"skin_types" gorm:"serializer:json"`
	Ingredients   []string  `json:"ingredients" gorm:"serializer:json"`
	InStock       bool      `json:"in_stock"`
	Rating        float64   `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount   int       `json:"review_count" validate:"gte=0"`
	IsPopular     bool      `json:"is_popular"`
	IsNew         bool      `json:"is_new"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// HasSize reports whether the product is sold in the given package size.
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

package models

// Painting is a catalog item. Stock is nil when the piece is not tracked
// (a unique original is usually tracked with stock 1).
type Painting struct {
	Base              `bson:",inline"`
	Title             string     `gorm:"size:255;not null" bson:"title" json:"title"`
	Description       string     `gorm:"type:text" bson:"description" json:"description"`
	ImageURL          string     `gorm:"size:1024" bson:"imageUrl" json:"imageUrl"`
	Images            []string   `gorm:"serializer:json" bson:"images" json:"images"`
	Price             int64      `gorm:"not null" bson:"price" json:"price"`
	Dimensions        Dimensions `gorm:"serializer:json" bson:"dimensions" json:"dimensions"`
	Category          string     `gorm:"size:100;index" bson:"category" json:"category"`
	Technique         string     `gorm:"size:100" bson:"technique" json:"technique"`
	Year              int        `bson:"year" json:"year"`
	Available         bool       `gorm:"index" bson:"available" json:"available"`
	Stock             *int       `bson:"stock,omitempty" json:"stock"`
	LowStockThreshold *int       `bson:"lowStockThreshold,omitempty" json:"lowStockThreshold"`
	Featured          bool       `gorm:"index" bson:"featured" json:"featured"`
}

func (p *Painting) TracksStock() bool { return p.Stock != nil }

// IsLowStock reports whether tracked stock is at or below the threshold.
// Paintings without a threshold alert only when sold out.
func (p *Painting) IsLowStock() bool {
	if p.Stock == nil {
		return false
	}
	threshold := 0
	if p.LowStockThreshold != nil {
		threshold = *p.LowStockThreshold
	}
	return *p.Stock <= threshold
}

// PaintingFilter narrows catalog listings. Nil pointers mean "any".
type PaintingFilter struct {
	Category  string
	Available *bool
	Featured  *bool
	Search    string
	Page      Page
}

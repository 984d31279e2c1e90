package models

import (
	"strings"
	"time"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Zero MinPurchase, MaxDiscount and UsageLimit mean
// "not set"; nil ValidFrom/ValidUntil leave that side of the window open.
type Coupon struct {
	Base          `bson:",inline"`
	Code          string       `gorm:"size:64;uniqueIndex;not null" bson:"code" json:"code"`
	Description   string       `gorm:"size:500" bson:"description" json:"description"`
	DiscountType  DiscountType `gorm:"size:16;not null" bson:"discountType" json:"discountType"`
	DiscountValue int64        `gorm:"not null" bson:"discountValue" json:"discountValue"`
	MinPurchase   int64        `bson:"minPurchase" json:"minPurchase"`
	MaxDiscount   int64        `bson:"maxDiscount" json:"maxDiscount"`
	ValidFrom     *time.Time   `bson:"validFrom,omitempty" json:"validFrom"`
	ValidUntil    *time.Time   `gorm:"index" bson:"validUntil,omitempty" json:"validUntil"`
	UsageLimit    int64        `bson:"usageLimit" json:"usageLimit"`
	UsageCount    int64        `bson:"usageCount" json:"usageCount"`
	IsActive      bool         `gorm:"index" bson:"isActive" json:"isActive"`
}

// NormalizeCode is the canonical form codes are stored and looked up in.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Exhausted reports whether a usage limit is set and reached.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit
}

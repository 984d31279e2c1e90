package models

import "time"

type CustomOrderStatus string

const (
	CustomPending    CustomOrderStatus = "pending"
	CustomQuoted     CustomOrderStatus = "quoted"
	CustomAccepted   CustomOrderStatus = "accepted"
	CustomInProgress CustomOrderStatus = "in_progress"
	CustomCompleted  CustomOrderStatus = "completed"
	CustomCancelled  CustomOrderStatus = "cancelled"
)

func ValidCustomOrderStatus(s CustomOrderStatus) bool {
	switch s {
	case CustomPending, CustomQuoted, CustomAccepted, CustomInProgress, CustomCompleted, CustomCancelled:
		return true
	}
	return false
}

type Customer struct {
	Name  string `bson:"name" json:"name" validate:"required,max=120"`
	Email string `bson:"email" json:"email" validate:"required,email"`
	Phone string `bson:"phone" json:"phone" validate:"nullable,phone"`
}

// CustomOrder is a commission request. It never touches coupons.
type CustomOrder struct {
	Base            `bson:",inline"`
	RequestNumber   string            `gorm:"size:32;uniqueIndex;not null" bson:"requestNumber" json:"requestNumber"`
	Customer        Customer          `gorm:"serializer:json" bson:"customer" json:"customer"`
	Description     string            `gorm:"type:text" bson:"description" json:"description"`
	Size            Dimensions        `gorm:"serializer:json" bson:"size" json:"size"`
	Style           string            `gorm:"size:100" bson:"style" json:"style"`
	Budget          int64             `bson:"budget" json:"budget"`
	ReferenceImages []string          `gorm:"serializer:json" bson:"referenceImages" json:"referenceImages"`
	Deadline        *time.Time        `bson:"deadline,omitempty" json:"deadline"`
	Status          CustomOrderStatus `gorm:"size:20;index" bson:"status" json:"status"`
	QuotedPrice     int64             `bson:"quotedPrice" json:"quotedPrice"`
	AdminNotes      string            `gorm:"type:text" bson:"adminNotes" json:"adminNotes"`
}

package models

// User is a storefront customer or an admin.
type User struct {
	Base         `bson:",inline"`
	Name         string `gorm:"size:255;not null" bson:"name" json:"name"`
	Email        string `gorm:"uniqueIndex;size:255;not null" bson:"email" json:"email"`
	PasswordHash string `gorm:"size:255;not null" bson:"passwordHash" json:"-"`
	Role         string `gorm:"size:20;default:customer" bson:"role" json:"role"`
}

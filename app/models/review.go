package models

type Review struct {
	Base        `bson:",inline"`
	PaintingID  string `gorm:"size:36;index" bson:"paintingId,omitempty" json:"paintingId,omitempty"`
	AuthorName  string `gorm:"size:120;not null" bson:"authorName" json:"authorName"`
	AuthorEmail string `gorm:"size:255" bson:"authorEmail" json:"-"`
	Rating      int    `gorm:"not null" bson:"rating" json:"rating"`
	Comment     string `gorm:"type:text" bson:"comment" json:"comment"`
	Approved    bool   `gorm:"index" bson:"approved" json:"approved"`
}

type ReviewFilter struct {
	PaintingID string
	Approved   *bool
	Page       Page
}

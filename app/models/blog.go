package models

import "time"

type BlogPost struct {
	Base          `bson:",inline"`
	Title         string     `gorm:"size:255;not null" bson:"title" json:"title"`
	Slug          string     `gorm:"size:255;uniqueIndex;not null" bson:"slug" json:"slug"`
	Excerpt       string     `gorm:"size:500" bson:"excerpt" json:"excerpt"`
	Content       string     `gorm:"type:text" bson:"content" json:"content"`
	CoverImageURL string     `gorm:"size:1024" bson:"coverImageUrl" json:"coverImageUrl"`
	Tags          []string   `gorm:"serializer:json" bson:"tags" json:"tags"`
	Published     bool       `gorm:"index" bson:"published" json:"published"`
	PublishedAt   *time.Time `bson:"publishedAt,omitempty" json:"publishedAt"`
}

type BlogFilter struct {
	PublishedOnly bool
	Tag           string
	Page          Page
}

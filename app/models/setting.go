package models

import "time"

// Settings keys. Each key holds one singleton document.
const (
	SettingsHome    = "home"
	SettingsMusic   = "music"
	SettingsGeneral = "general"
)

var SettingsKeys = []string{SettingsHome, SettingsMusic, SettingsGeneral}

// Setting is the stored form: the typed document serialized as JSON.
type Setting struct {
	Key       string    `gorm:"column:setting_key;primaryKey;size:32" bson:"_id" json:"key"`
	Data      string    `gorm:"type:text" bson:"data" json:"-"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

type HomeSettings struct {
	HeroTitle           string   `json:"heroTitle" validate:"required,max=160"`
	HeroSubtitle        string   `json:"heroSubtitle" validate:"nullable,max=300"`
	HeroImageURL        string   `json:"heroImageUrl" validate:"nullable,url"`
	HeroVideoURL        string   `json:"heroVideoUrl" validate:"nullable,url"`
	AboutText           string   `json:"aboutText"`
	FeaturedPaintingIDs []string `json:"featuredPaintingIds" validate:"max=12"`
}

type MusicSettings struct {
	Enabled  bool   `json:"enabled"`
	Title    string `json:"title" validate:"nullable,max=160"`
	TrackURL string `json:"trackUrl" validate:"nullable,url"`
	Volume   int    `json:"volume" validate:"between=0,100"`
	Autoplay bool   `json:"autoplay"`
}

type GeneralSettings struct {
	SiteName     string `json:"siteName" validate:"required,max=120"`
	ContactEmail string `json:"contactEmail" validate:"nullable,email"`
	ContactPhone string `json:"contactPhone" validate:"nullable,phone"`
	InstagramURL string `json:"instagramUrl" validate:"nullable,url"`
	FacebookURL  string `json:"facebookUrl" validate:"nullable,url"`
	WhatsApp     string `json:"whatsapp" validate:"nullable,phone"`
	ShippingNote string `json:"shippingNote" validate:"nullable,max=300"`
}

package models

import (
	"time"
)

// Coordinates is a WGS84 position
type Coordinates struct {
	Longitude float64 `json:"lon"`
	Latitude  float64 `json:"lat"`
}

// Review is an establishment review written by an authenticated user.
// Author fields are copied from the token that authorized the write.
type Review struct {
	ID                string      `gorm:"primaryKey" json:"id"`
	EstablishmentName string      `gorm:"not null" json:"nombre_establecimiento"`
	PostalAddress     string      `gorm:"not null" json:"direccion_postal"`
	Coordinates       Coordinates `gorm:"embedded;embeddedPrefix:coord_" json:"coordenadas"`
	Rating            int         `gorm:"not null" json:"valoracion"`
	AuthorID          string      `gorm:"index" json:"-"`
	AuthorEmail       string      `json:"email_autor"`
	AuthorName        string      `json:"nombre_autor"`
	TokenIssuedAt     time.Time   `json:"fecha_emision"`
	TokenExpiresAt    time.Time   `json:"fecha_caducidad"`
	Images            StringArray `gorm:"type:json" json:"imagenes"`
	CreatedAt         time.Time   `gorm:"index" json:"created_at"`
}

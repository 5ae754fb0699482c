package models

import (
	"time"

	"github.com/julianstephens/selfrpg/internal/constants"
)

// Attribute is a tracked life domain with an accumulated XP total.
type Attribute struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Icon      string    `json:"icon" yaml:"icon"`
	XP        float64   `json:"xp" yaml:"xp"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// IconOrDefault returns the attribute icon, falling back to the default glyph.
func (a Attribute) IconOrDefault() string {
	if a.Icon == "" {
		return constants.DefaultIcon
	}
	return a.Icon
}

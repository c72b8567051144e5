package types

import "time"

// Field styles
type FieldStyle string

const (
	FieldStyleShort     FieldStyle = "short"
	FieldStyleParagraph FieldStyle = "paragraph"
)

// Forms
type Form struct {
	ID              uint64 `gorm:"primaryKey;autoIncrement"`
	UUID            string `gorm:"size:36;uniqueIndex;not null"`
	GuildID         string `gorm:"size:64;uniqueIndex:idx_form_guild_name;not null"`
	Name            string `gorm:"size:45;uniqueIndex:idx_form_guild_name;not null"`
	Description     string `gorm:"size:4096"`
	ChannelID       string `gorm:"size:64;not null"`
	ThreadName      string `gorm:"size:100"`
	MentionID       string `gorm:"size:64"`
	MentionIsRole   bool
	CooldownSeconds uint64
	Fields          []FormField `gorm:"foreignKey:FormID;references:ID"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Form fields, ordered by position within their form
type FormField struct {
	ID          uint64     `gorm:"primaryKey;autoIncrement"`
	FormID      uint64     `gorm:"uniqueIndex:idx_field_form_position;not null"`
	Position    int        `gorm:"uniqueIndex:idx_field_form_position;not null"`
	Label       string     `gorm:"size:45;not null"`
	Style       FieldStyle `gorm:"size:16;not null"`
	Required    bool       `gorm:"default:true"`
	MinLength   int
	MaxLength   int
	Placeholder string `gorm:"size:100"`
	Inline      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Settings
type Setting struct {
	ID     uint8  `gorm:"primaryKey"`
	Name   string `gorm:"size:32;not null"`
	Value  string `gorm:"size:256;not null"`
	Active uint8  `gorm:"not null"`
}

// Cooldown converts the persisted seconds value; zero means no cooldown.
func (f *Form) Cooldown() time.Duration {
	return time.Duration(f.CooldownSeconds) * time.Second
}

// Mention renders the configured role/user mention, empty when unset.
func (f *Form) Mention() string {
	if f.MentionID == "" {
		return ""
	}
	if f.MentionIsRole {
		return "<@&" + f.MentionID + ">"
	}
	return "<@" + f.MentionID + ">"
}

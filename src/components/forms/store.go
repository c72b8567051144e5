package forms

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/guildforms/forms-bot/src/types"
	"gorm.io/gorm"
)

// Store persists forms and their fields. Last write wins on concurrent
// admin edits; in-flight submissions against a stale shape are caught by
// the field-count check in ParseAnswers.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new form, assigning its UUID.
func (s *Store) Create(ctx context.Context, form *types.Form) error {
	form.UUID = uuid.NewString()
	Reindex(form)

	var count int64
	if err := s.db.WithContext(ctx).Model(&types.Form{}).
		Where("guild_id = ? AND name = ?", form.GuildID, form.Name).
		Count(&count).Error; err != nil {
		return fmt.Errorf("store count: %w", err)
	}
	if count > 0 {
		return ErrFormExists
	}

	if err := s.db.WithContext(ctx).Create(form).Error; err != nil {
		return fmt.Errorf("store create: %w", err)
	}
	return nil
}

// Save rewrites the form row and replaces its field rows in one
// transaction so readers never observe a half-edited field list.
func (s *Store) Save(ctx context.Context, form *types.Form) error {
	Reindex(form)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":             form.Name,
			"description":      form.Description,
			"channel_id":       form.ChannelID,
			"thread_name":      form.ThreadName,
			"mention_id":       form.MentionID,
			"mention_is_role":  form.MentionIsRole,
			"cooldown_seconds": form.CooldownSeconds,
		}
		if err := tx.Model(&types.Form{}).Where("id = ?", form.ID).Updates(updates).Error; err != nil {
			return err
		}

		if err := tx.Where("form_id = ?", form.ID).Delete(&types.FormField{}).Error; err != nil {
			return err
		}

		if len(form.Fields) == 0 {
			return nil
		}
		for i := range form.Fields {
			form.Fields[i].ID = 0
			form.Fields[i].FormID = form.ID
		}
		return tx.Create(&form.Fields).Error
	})
}

// Delete removes the form and its fields, reporting whether it existed.
// Cooldown keys are left to expire on their own.
func (s *Store) Delete(ctx context.Context, guildID, formUUID string) (bool, error) {
	form, err := s.GetByUUID(ctx, guildID, formUUID)
	if errors.Is(err, ErrFormNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("form_id = ?", form.ID).Delete(&types.FormField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&types.Form{}, form.ID).Error
	})
	if err != nil {
		return false, fmt.Errorf("store delete: %w", err)
	}
	return true, nil
}

// Get loads a form by guild and name, fields ordered by position.
func (s *Store) Get(ctx context.Context, guildID, name string) (*types.Form, error) {
	var form types.Form
	err := s.preloaded(ctx).
		Where("guild_id = ? AND name = ?", guildID, name).
		First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store get: %w", err)
	}
	return &form, nil
}

// GetByUUID loads a form by its public id, scoped to the guild so a form
// reference can never cross guilds.
func (s *Store) GetByUUID(ctx context.Context, guildID, formUUID string) (*types.Form, error) {
	var form types.Form
	err := s.preloaded(ctx).
		Where("guild_id = ? AND uuid = ?", guildID, formUUID).
		First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrFormNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store get: %w", err)
	}
	return &form, nil
}

// List returns a guild's forms with fields, ordered by name.
func (s *Store) List(ctx context.Context, guildID string) ([]types.Form, error) {
	var out []types.Form
	err := s.preloaded(ctx).
		Where("guild_id = ?", guildID).
		Order("name").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("store list: %w", err)
	}
	return out, nil
}

func (s *Store) preloaded(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

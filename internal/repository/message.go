package repository

import (
	"context"

	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository interface {
	ReplaceForGroup(ctx context.Context, groupID string, messages []entity.Message) error
	GetListByGroupID(ctx context.Context, groupID string) ([]entity.Message, error)
	Append(ctx context.Context, message *entity.Message) error
	GetLastByGroupID(ctx context.Context, groupID string) (*entity.Message, error)
	DeleteByGroupID(ctx context.Context, groupID string) error
}

type messageRepository struct{}

func NewMessageRepository() *messageRepository {
	return &messageRepository{}
}

// ReplaceForGroup swaps the cached transcript of a group for the
// server's full history. Shrinking histories (another actor cleared
// messages) are handled by construction.
func (r *messageRepository) ReplaceForGroup(ctx context.Context, groupID string, messages []entity.Message) error {
	return xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id=?", groupID).Delete(&entity.Message{}).Error; err != nil {
			return err
		}

		if len(messages) == 0 {
			return nil
		}

		return tx.Create(&messages).Error
	})
}

func (r *messageRepository) GetListByGroupID(ctx context.Context, groupID string) ([]entity.Message, error) {
	var result []entity.Message
	err := xcontext.DB(ctx).
		Where("group_id=?", groupID).
		Order("created_at ASC, id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Append stores one server-echoed message. The id may already exist
// when a poll replacement raced the echo, which is fine.
func (r *messageRepository) Append(ctx context.Context, message *entity.Message) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(message).Error
}

func (r *messageRepository) GetLastByGroupID(ctx context.Context, groupID string) (*entity.Message, error) {
	var result entity.Message
	err := xcontext.DB(ctx).
		Where("group_id=?", groupID).
		Order("created_at DESC, id DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *messageRepository) DeleteByGroupID(ctx context.Context, groupID string) error {
	return xcontext.DB(ctx).Where("group_id=?", groupID).Delete(&entity.Message{}).Error
}

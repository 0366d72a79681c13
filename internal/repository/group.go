package repository

import (
	"context"

	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/pkg/xcontext"
	"gorm.io/gorm"
)

type GroupRepository interface {
	ReplaceAll(ctx context.Context, workspaceID string, groups []entity.Group) error
	Upsert(ctx context.Context, group *entity.Group) error
	GetByID(ctx context.Context, id string) (*entity.Group, error)
	GetList(ctx context.Context, workspaceID string) ([]entity.Group, error)
	Delete(ctx context.Context, id string) error
}

type groupRepository struct{}

func NewGroupRepository() *groupRepository {
	return &groupRepository{}
}

// ReplaceAll swaps the cached group set of a workspace for the
// authoritative one. The cache follows a full-replacement model, so no
// reconciliation is attempted.
func (r *groupRepository) ReplaceAll(ctx context.Context, workspaceID string, groups []entity.Group) error {
	return xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&entity.Group{}).Where("workspace_id=?", workspaceID).Pluck("id", &ids).Error
		if err != nil {
			return err
		}

		if len(ids) > 0 {
			if err := tx.Where("group_id IN ?", ids).Delete(&entity.Member{}).Error; err != nil {
				return err
			}

			if err := tx.Where("id IN ?", ids).Delete(&entity.Group{}).Error; err != nil {
				return err
			}
		}

		if len(groups) == 0 {
			return nil
		}

		return tx.Create(&groups).Error
	})
}

func (r *groupRepository) Upsert(ctx context.Context, group *entity.Group) error {
	return xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id=?", group.ID).Delete(&entity.Member{}).Error; err != nil {
			return err
		}

		if err := tx.Where("id=?", group.ID).Delete(&entity.Group{}).Error; err != nil {
			return err
		}

		return tx.Create(group).Error
	})
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*entity.Group, error) {
	var result entity.Group
	err := xcontext.DB(ctx).Preload("Members").Take(&result, "id=?", id).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *groupRepository) GetList(ctx context.Context, workspaceID string) ([]entity.Group, error) {
	var result []entity.Group
	err := xcontext.DB(ctx).Preload("Members").
		Where("workspace_id=?", workspaceID).
		Order("created_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	return xcontext.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id=?", id).Delete(&entity.Member{}).Error; err != nil {
			return err
		}

		return tx.Where("id=?", id).Delete(&entity.Group{}).Error
	})
}

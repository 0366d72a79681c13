package domain

import (
	"github.com/taskhive/groupsync/internal/entity"
	"github.com/taskhive/groupsync/internal/model"
)

func convertMember(member entity.Member) model.Member {
	return model.Member{
		UserID:  member.UserID,
		GroupID: member.GroupID,
		Name:    member.UserName,
		Email:   member.UserEmail,
	}
}

// convertGroup builds the outward group view. Stale member rows are
// filtered here so no caller ever renders an emptied snapshot.
func convertGroup(group *entity.Group) model.Group {
	members := []model.Member{}
	for _, member := range group.Members {
		if member.Stale() {
			continue
		}
		members = append(members, convertMember(member))
	}

	return model.Group{
		ID:          group.ID,
		WorkspaceID: group.WorkspaceID,
		Name:        group.Name,
		CreatedAt:   group.CreatedAt,
		Members:     members,
	}
}

func convertMessage(message *entity.Message) model.ChatMessage {
	return model.ChatMessage{
		ID:         message.ID,
		GroupID:    message.GroupID,
		AuthorID:   message.AuthorID,
		AuthorName: message.AuthorName,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
	}
}

// toGroupEntity keeps every member row, stale ones included, because
// the cache mirrors the remote state rather than the rendered one.
func toGroupEntity(group model.Group) entity.Group {
	members := make([]entity.Member, 0, len(group.Members))
	for _, member := range group.Members {
		members = append(members, entity.Member{
			UserID:    member.UserID,
			GroupID:   group.ID,
			UserName:  member.Name,
			UserEmail: member.Email,
		})
	}

	return entity.Group{
		Base:        entity.Base{ID: group.ID, CreatedAt: group.CreatedAt},
		WorkspaceID: group.WorkspaceID,
		Name:        group.Name,
		Members:     members,
	}
}

func toMessageEntity(message model.ChatMessage) entity.Message {
	return entity.Message{
		ID:         message.ID,
		GroupID:    message.GroupID,
		AuthorID:   message.AuthorID,
		AuthorName: message.AuthorName,
		Content:    message.Content,
		CreatedAt:  message.CreatedAt,
	}
}

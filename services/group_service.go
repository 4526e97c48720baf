package services

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type IGroupService interface {
	CreateGroup(cmd chat.CreateGroupCommand) (chat.Group, error)
	GetGroup(groupID, requesterID string) (chat.Group, error)
	ListGroups(userID string) ([]chat.Group, error)
	AddMember(groupID, requesterID, memberID string) (chat.Group, error)
	RemoveMember(groupID, requesterID, memberID string) (chat.Group, error)
	DeleteGroup(ctx context.Context, groupID, requesterID string) error
}

// GroupService owns the group registry: membership changes and cascading deletion.
type GroupService struct {
	log           *slog.Logger
	groups        contract.IGroupRepository
	groupMessages contract.IGroupMessageRepository
	search        contract.ISearchIndex
	now           func() time.Time
}

func NewGroupService(log *slog.Logger, groups contract.IGroupRepository,
	groupMessages contract.IGroupMessageRepository, search contract.ISearchIndex) *GroupService {
	return &GroupService{log: log, groups: groups, groupMessages: groupMessages, search: search, now: time.Now}
}

func (s *GroupService) CreateGroup(cmd chat.CreateGroupCommand) (chat.Group, error) {
	if err := chat.Validate(&cmd); err != nil {
		return chat.Group{}, err
	}
	group := chat.NewGroup(uuid.NewString(), cmd.Name, cmd.CreatorID, cmd.Members, s.now().UTC())
	if err := s.groups.Create(group); err != nil {
		return chat.Group{}, errors.Persistence("create group", err)
	}
	s.log.Info("Group created", "group", group.ID, "creator", group.CreatorID, "members", len(group.Members))
	return group, nil
}

// GetGroup only shows a group to its members.
func (s *GroupService) GetGroup(groupID, requesterID string) (chat.Group, error) {
	group, err := s.load(groupID)
	if err != nil {
		return chat.Group{}, err
	}
	if !group.HasMember(requesterID) {
		return chat.Group{}, errors.ErrNotMember
	}
	return group, nil
}

func (s *GroupService) ListGroups(userID string) ([]chat.Group, error) {
	groups, err := s.groups.ListForUser(userID)
	if err != nil {
		return nil, errors.Persistence("list groups", err)
	}
	return groups, nil
}

// AddMember lets any current member invite someone else.
func (s *GroupService) AddMember(groupID, requesterID, memberID string) (chat.Group, error) {
	return s.mutate(groupID, "add member", func(group *chat.Group) error {
		if !group.HasMember(requesterID) {
			return errors.ErrNotMember
		}
		return group.AddMember(memberID, s.now().UTC())
	})
}

// RemoveMember is allowed to the creator, or to a member leaving on their own.
// The creator can never be removed.
func (s *GroupService) RemoveMember(groupID, requesterID, memberID string) (chat.Group, error) {
	return s.mutate(groupID, "remove member", func(group *chat.Group) error {
		if !group.HasMember(requesterID) {
			return errors.ErrNotMember
		}
		if requesterID != group.CreatorID && requesterID != memberID {
			return errors.ErrNotCreator
		}
		return group.RemoveMember(memberID, s.now().UTC())
	})
}

// mutate runs a membership rule against the stored group inside the repository
// transaction. Rule violations and a missing group come back as they are, anything
// else failed in the store.
func (s *GroupService) mutate(groupID, op string, rule func(*chat.Group) error) (chat.Group, error) {
	var ruleErr error
	group, err := s.groups.Mutate(groupID, func(group *chat.Group) error {
		ruleErr = rule(group)
		return ruleErr
	})
	switch {
	case err == nil:
		s.log.Debug("Group membership changed", "group_id", groupID, "op", op, "members", len(group.Members))
		return group, nil
	case ruleErr != nil, errors.Is(err, errors.ErrNotFound):
		return chat.Group{}, err
	default:
		return chat.Group{}, errors.Persistence(op, err)
	}
}

// DeleteGroup removes the group, its history, its unread markers and its search documents.
func (s *GroupService) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	group, err := s.load(groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != requesterID {
		return errors.ErrNotCreator
	}

	if err := s.groupMessages.DeleteByGroup(groupID); err != nil {
		return errors.Persistence("delete group messages", err)
	}
	if err := s.search.DeleteScope(ctx, chat.GroupScope(groupID)); err != nil {
		s.log.Warn("Unable to purge group from search index", "group", groupID, "error", err)
	}
	if err := s.groups.Delete(groupID); err != nil {
		return errors.Persistence("delete group", err)
	}
	s.log.Info("Group deleted", "group", groupID)
	return nil
}

func (s *GroupService) load(groupID string) (chat.Group, error) {
	group, err := s.groups.Get(groupID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return chat.Group{}, err
		}
		return chat.Group{}, errors.Persistence("load group", err)
	}
	return group, nil
}

package chat

import (
	"chat-relay/errors"
	"strings"
	"time"

	"github.com/samber/lo"
)

// Group is a named set of members. The creator is always a member and cannot be removed.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorId"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewGroup builds a group whose membership is the de-duplicated union of members and the creator.
func NewGroup(id, name, creatorID string, members []string, now time.Time) Group {
	all := lo.Uniq(append([]string{creatorID}, lo.Compact(members)...))
	return Group{
		ID:        id,
		Name:      strings.TrimSpace(name),
		CreatorID: creatorID,
		Members:   all,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (g Group) HasMember(userID string) bool {
	return lo.Contains(g.Members, userID)
}

// OtherMembers returns every member except userID.
func (g Group) OtherMembers(userID string) []string {
	return lo.Without(g.Members, userID)
}

func (g *Group) AddMember(userID string, now time.Time) error {
	if g.HasMember(userID) {
		return errors.ErrAlreadyMember
	}
	g.Members = append(g.Members, userID)
	g.UpdatedAt = now
	return nil
}

// RemoveMember leaves the membership untouched when it fails.
func (g *Group) RemoveMember(userID string, now time.Time) error {
	if userID == g.CreatorID {
		return errors.ErrCreatorRemoval
	}
	if !g.HasMember(userID) {
		return errors.ErrNotMember
	}
	g.Members = lo.Without(g.Members, userID)
	g.UpdatedAt = now
	return nil
}

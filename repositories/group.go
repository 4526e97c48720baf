package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"chat-relay/errors"
	pb "chat-relay/proto/storage"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
)

const (
	groupNamespace  = "group"
	memberNamespace = "gm"

	maxMutateAttempts = 10
)

var _ contract.IGroupRepository = GroupRepository{}

// GroupRepository stores groups under "group:{id}" and keeps a membership index
// "gm:{user}:{group}" so the groups of a user are one prefix scan away.
type GroupRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewGroupRepository(db *badger.DB, log *slog.Logger) GroupRepository {
	return GroupRepository{db: db, log: log}
}

func (r GroupRepository) Create(group chat.Group) error {
	bytes, err := proto.Marshal(fromGroup(group))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(groupKey(group.ID), bytes); err != nil {
			return err
		}
		for _, member := range group.Members {
			if err := txn.Set(memberKey(member, group.ID), nil); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r GroupRepository) Get(groupID string) (chat.Group, error) {
	var group chat.Group
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = getGroup(txn, groupID)
		return err
	})
	return group, err
}

// Mutate loads the group, applies fn and writes the result back in one transaction,
// reconciling the membership index with the new member set.
//
// Badger aborts a commit whose reads were overwritten in the meantime (ErrConflict).
// The whole read-modify-write is then replayed on the fresh group, so two concurrent
// membership changes both land. An error returned by fn aborts without writing.
func (r GroupRepository) Mutate(groupID string, fn func(*chat.Group) error) (chat.Group, error) {
	for attempt := 1; ; attempt++ {
		var group chat.Group
		err := r.db.Update(func(txn *badger.Txn) error {
			previous, err := getGroup(txn, groupID)
			if err != nil {
				return err
			}
			group = previous
			group.Members = slices.Clone(previous.Members)
			if err = fn(&group); err != nil {
				return err
			}
			return putGroup(txn, previous.Members, group)
		})
		if errors.Is(err, badger.ErrConflict) {
			if attempt < maxMutateAttempts {
				r.log.Debug("Group changed concurrently, retrying", "group_id", groupID, "attempt", attempt)
				continue
			}
			return chat.Group{}, fmt.Errorf("group %s still contended after %d attempts: %w", groupID, attempt, err)
		}
		if err != nil {
			return chat.Group{}, err
		}
		return group, nil
	}
}

func putGroup(txn *badger.Txn, previousMembers []string, group chat.Group) error {
	bytes, err := proto.Marshal(fromGroup(group))
	if err != nil {
		return err
	}
	removed, added := lo.Difference(previousMembers, group.Members)
	for _, member := range removed {
		if err = txn.Delete(memberKey(member, group.ID)); err != nil {
			return err
		}
	}
	for _, member := range added {
		if err = txn.Set(memberKey(member, group.ID), nil); err != nil {
			return err
		}
	}
	return txn.Set(groupKey(group.ID), bytes)
}

func (r GroupRepository) Delete(groupID string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		group, err := getGroup(txn, groupID)
		if err != nil {
			return err
		}
		for _, member := range group.Members {
			if err = txn.Delete(memberKey(member, groupID)); err != nil {
				return err
			}
		}
		return txn.Delete(groupKey(groupID))
	})
}

// ListForUser returns the groups userID belongs to, oldest first.
func (r GroupRepository) ListForUser(userID string) ([]chat.Group, error) {
	p := prefix(memberNamespace, escape(userID))
	var groups []chat.Group
	err := r.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		options.Prefix = p
		it := txn.NewIterator(options)
		defer it.Close()
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			groupID := unescape(strings.TrimPrefix(string(it.Item().Key()), string(p)))
			group, err := getGroup(txn, groupID)
			if errors.Is(err, errors.ErrGroupNotFound) {
				r.log.Warn("Membership index points to a missing group", "group_id", groupID, "user_id", userID)
				continue
			}
			if err != nil {
				return err
			}
			groups = append(groups, group)
		}
		return nil
	})
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreatedAt.Before(groups[j].CreatedAt)
	})
	return groups, err
}

func getGroup(txn *badger.Txn, groupID string) (chat.Group, error) {
	item, err := txn.Get(groupKey(groupID))
	if err == badger.ErrKeyNotFound {
		return chat.Group{}, errors.ErrGroupNotFound
	}
	if err != nil {
		return chat.Group{}, err
	}
	var groupPb pb.Group
	err = item.Value(func(value []byte) error {
		return proto.Unmarshal(value, &groupPb)
	})
	if err != nil {
		return chat.Group{}, err
	}
	return toGroup(&groupPb), nil
}

func fromGroup(group chat.Group) *pb.Group {
	return &pb.Group{
		Id:        group.ID,
		Name:      group.Name,
		CreatorId: group.CreatorID,
		Members:   group.Members,
		CreatedAt: group.CreatedAt.UnixNano(),
		UpdatedAt: group.UpdatedAt.UnixNano(),
	}
}

func toGroup(groupPb *pb.Group) chat.Group {
	return chat.Group{
		ID:        groupPb.Id,
		Name:      groupPb.Name,
		CreatorID: groupPb.CreatorId,
		Members:   groupPb.Members,
		CreatedAt: time.Unix(0, groupPb.CreatedAt).UTC(),
		UpdatedAt: time.Unix(0, groupPb.UpdatedAt).UTC(),
	}
}

func groupKey(groupID string) []byte {
	return key(groupNamespace, escape(groupID))
}

func memberKey(userID, groupID string) []byte {
	return key(memberNamespace, escape(userID), escape(groupID))
}

package repositories

import (
	"chat-relay/domain/chat"
	"chat-relay/errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGroupRepository_Create_Get_ListForUser(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openBadger(t), testLogger())
	now := time.Now().UTC()

	study := chat.NewGroup("g1", "study", "u1", []string{"u2", "u3"}, now)
	book := chat.NewGroup("g2", "book club", "u2", nil, now.Add(time.Minute))
	req.NoError(repository.Create(study))
	req.NoError(repository.Create(book))

	fetched, err := repository.Get("g1")
	req.NoError(err)
	req.Equal(study.Members, fetched.Members)
	req.Equal("u1", fetched.CreatorID)
	req.True(study.CreatedAt.Equal(fetched.CreatedAt))

	groups, err := repository.ListForUser("u2")
	req.NoError(err)
	req.Len(groups, 2)
	req.Equal("g1", groups[0].ID)
	req.Equal("g2", groups[1].ID)

	groups, err = repository.ListForUser("u4")
	req.NoError(err)
	req.Empty(groups)
}

func TestGroupRepository_Mutate_Reconciles_Membership_Index(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openBadger(t), testLogger())
	now := time.Now().UTC()
	req.NoError(repository.Create(chat.NewGroup("g1", "study", "u1", []string{"u2"}, now)))

	// When u2 leaves and u3 joins
	updated, err := repository.Mutate("g1", func(g *chat.Group) error {
		if err := g.RemoveMember("u2", now); err != nil {
			return err
		}
		return g.AddMember("u3", now)
	})
	req.NoError(err)
	req.Equal([]string{"u1", "u3"}, updated.Members)

	// Then the membership index follows
	groups, err := repository.ListForUser("u2")
	req.NoError(err)
	req.Empty(groups)
	groups, err = repository.ListForUser("u3")
	req.NoError(err)
	req.Len(groups, 1)
	req.Equal([]string{"u1", "u3"}, groups[0].Members)
}

func TestGroupRepository_Mutate_Rejected_Change_Writes_Nothing(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openBadger(t), testLogger())
	now := time.Now().UTC()
	req.NoError(repository.Create(chat.NewGroup("g1", "study", "u1", []string{"u2"}, now)))

	// When the creator removal is attempted
	_, err := repository.Mutate("g1", func(g *chat.Group) error {
		return g.RemoveMember("u1", now)
	})

	// Then the stored group is untouched
	req.ErrorIs(err, errors.ErrCreatorRemoval)
	stored, err := repository.Get("g1")
	req.NoError(err)
	req.Equal([]string{"u1", "u2"}, stored.Members)

	_, err = repository.Mutate("missing", func(*chat.Group) error { return nil })
	req.ErrorIs(err, errors.ErrGroupNotFound)
}

func TestGroupRepository_Mutate_Concurrent_Changes_Both_Land(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openBadger(t), testLogger())
	now := time.Now().UTC()
	req.NoError(repository.Create(chat.NewGroup("g1", "study", "u1", nil, now)))

	// Given two writers that both read the group before either commits
	var loaded sync.WaitGroup
	loaded.Add(2)
	add := func(member string) func(*chat.Group) error {
		var first sync.Once
		return func(g *chat.Group) error {
			first.Do(func() {
				loaded.Done()
				loaded.Wait()
			})
			return g.AddMember(member, now)
		}
	}

	// When both add a different member
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, member := range []string{"u2", "u3"} {
		wg.Add(1)
		go func(member string) {
			defer wg.Done()
			_, err := repository.Mutate("g1", add(member))
			errs <- err
		}(member)
	}
	wg.Wait()
	close(errs)

	// Then neither change is lost
	for err := range errs {
		req.NoError(err)
	}
	stored, err := repository.Get("g1")
	req.NoError(err)
	req.ElementsMatch([]string{"u1", "u2", "u3"}, stored.Members)
	for _, member := range []string{"u2", "u3"} {
		groups, err := repository.ListForUser(member)
		req.NoError(err)
		req.Len(groups, 1)
	}
}

func TestGroupRepository_Delete(t *testing.T) {
	req := require.New(t)
	repository := NewGroupRepository(openBadger(t), testLogger())
	req.NoError(repository.Create(chat.NewGroup("g1", "study", "u1", []string{"u2"}, time.Now().UTC())))

	req.NoError(repository.Delete("g1"))

	_, err := repository.Get("g1")
	req.ErrorIs(err, errors.ErrGroupNotFound)
	req.ErrorIs(err, errors.ErrNotFound)
	groups, err := repository.ListForUser("u1")
	req.NoError(err)
	req.Empty(groups)
	req.ErrorIs(repository.Delete("g1"), errors.ErrGroupNotFound)
}

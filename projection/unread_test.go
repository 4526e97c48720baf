package projection

import (
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/errors"
	"chat-relay/mocks"
	"chat-relay/repositories"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type trackerFixture struct {
	tracker       *UnreadTracker
	conversations repositories.ConversationRepository
	groups        repositories.GroupRepository
	groupMessages repositories.GroupMessageRepository
	notifier      *mocks.MockINotifier
}

func newTrackerFixture(t *testing.T) trackerFixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	f := trackerFixture{
		conversations: repositories.NewConversationRepository(db, log),
		groups:        repositories.NewGroupRepository(db, log),
		groupMessages: repositories.NewGroupMessageRepository(db, log, 50),
		notifier:      mocks.NewMockINotifier(gomock.NewController(t)),
	}
	f.tracker = NewUnreadTracker(log, f.conversations, f.groups, f.groupMessages, f.notifier)
	return f
}

func (f trackerFixture) storeDirect(t *testing.T, sender, recipient, content string) {
	require.NoError(t, f.conversations.Store(chat.DirectMessage{
		ID: uuid.New(), SenderID: sender, RecipientID: recipient, Content: content, CreatedAt: time.Now().UTC(),
	}))
}

func TestUnreadTracker_Direct_Unread_Flips_On_Open(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newTrackerFixture(t)

	// Given S sent R a message while R was not viewing
	f.storeDirect(t, "S", "R", "hi")
	unread, err := f.tracker.HasUnreadFrom("R", "S")
	req.NoError(err)
	req.True(unread)

	// When R opens the conversation with S
	f.notifier.EXPECT().Notify(gomock.Any(), "R", event.UnreadChanged{Conversation: chat.Direct("S"), Unread: false}).Return(true)
	req.NoError(f.tracker.Open(ctx, chat.Session{UserID: "R", ConnectionID: "c1"}, chat.Direct("S")))

	// Then the conversation is read and R is viewing it
	unread, err = f.tracker.HasUnreadFrom("R", "S")
	req.NoError(err)
	req.False(unread)
	req.True(f.tracker.IsViewing("R", chat.Direct("S")))
	req.False(f.tracker.IsViewing("R", chat.Direct("X")))
	req.False(f.tracker.IsViewing("S", chat.Direct("R")))

	// And marking read again changes nothing and pushes nothing
	updated, err := f.tracker.MarkRead(ctx, "R", "S")
	req.NoError(err)
	req.Zero(updated)
}

func TestUnreadTracker_Close_Only_For_Owning_Session(t *testing.T) {
	req := require.New(t)
	f := newTrackerFixture(t)

	req.NoError(f.tracker.Open(context.Background(), chat.Session{UserID: "R", ConnectionID: "new"}, chat.Direct("S")))

	// A stale session closing does not clear the newer view
	f.tracker.Close(chat.Session{UserID: "R", ConnectionID: "old"})
	req.True(f.tracker.IsViewing("R", chat.Direct("S")))

	f.tracker.Close(chat.Session{UserID: "R", ConnectionID: "new"})
	req.False(f.tracker.IsViewing("R", chat.Direct("S")))
}

func TestUnreadTracker_Group_Open_Requires_Membership(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newTrackerFixture(t)
	req.NoError(f.groups.Create(chat.NewGroup("g", "study", "u1", []string{"u2"}, time.Now())))

	err := f.tracker.Open(ctx, chat.Session{UserID: "intruder", ConnectionID: "c"}, chat.InGroup("g"))
	req.ErrorIs(err, errors.ErrNotMember)
	req.False(f.tracker.IsViewing("intruder", chat.InGroup("g")))

	err = f.tracker.Open(ctx, chat.Session{UserID: "u1", ConnectionID: "c"}, chat.InGroup("missing"))
	req.ErrorIs(err, errors.ErrGroupNotFound)

	_, err = f.tracker.HasUnreadInGroup("intruder", "g")
	req.ErrorIs(err, errors.ErrForbidden)
}

func TestUnreadTracker_Open_Unknown_Kind_Leaves_No_View(t *testing.T) {
	req := require.New(t)
	f := newTrackerFixture(t)
	session := chat.Session{UserID: "R", ConnectionID: "c1"}
	req.NoError(f.tracker.Open(context.Background(), session, chat.Direct("S")))

	// When the session opens a conversation of an unknown kind
	err := f.tracker.Open(context.Background(), session, chat.Conversation{Kind: "channel", ID: "x"})

	// Then it is rejected and the previous view is kept
	req.ErrorIs(err, errors.ErrInvalidPayload)
	req.False(f.tracker.IsViewing("R", chat.Conversation{Kind: "channel", ID: "x"}))
	req.True(f.tracker.IsViewing("R", chat.Direct("S")))
}

func TestUnreadTracker_Group_Round_Trip(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newTrackerFixture(t)

	// Given u1 created g with u2 and u3, and posted welcome
	req.NoError(f.groups.Create(chat.NewGroup("g", "study", "u1", []string{"u2", "u3"}, time.Now())))
	req.NoError(f.groupMessages.Store(chat.GroupMessage{
		ID: uuid.New(), GroupID: "g", SenderID: "u1", Content: "welcome", CreatedAt: time.Now(),
	}, []string{"u2", "u3"}))

	// Then u2 and u3 see g unread, u1 does not
	for user, expected := range map[string]bool{"u1": false, "u2": true, "u3": true} {
		unread, err := f.tracker.HasUnreadInGroup(user, "g")
		req.NoError(err)
		req.Equal(expected, unread, user)
	}

	// When u2 marks the group read
	f.notifier.EXPECT().Notify(gomock.Any(), "u2", event.UnreadChanged{Conversation: chat.InGroup("g"), Unread: false}).Return(false)
	cleared, err := f.tracker.MarkGroupRead(ctx, "g", "u2")
	req.NoError(err)
	req.Equal(1, cleared)

	// Then the summary of each member follows
	summary, err := f.tracker.Summary("u2")
	req.NoError(err)
	req.Equal(map[string]bool{"g": false}, summary.Groups)
	summary, err = f.tracker.Summary("u3")
	req.NoError(err)
	req.Equal(map[string]bool{"g": true}, summary.Groups)
}

func TestUnreadTracker_Summary_Direct_Counts(t *testing.T) {
	req := require.New(t)
	f := newTrackerFixture(t)
	f.storeDirect(t, "alice", "bob", "one")
	f.storeDirect(t, "alice", "bob", "two")
	f.storeDirect(t, "carol", "bob", "three")

	summary, err := f.tracker.Summary("bob")
	req.NoError(err)
	req.Equal(map[string]int{"alice": 2, "carol": 1}, summary.Direct)
	req.Empty(summary.Groups)
}

package repositories

import (
	"chat-relay/domain/chat"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestInspectMapper_Describes_Entries(t *testing.T) {
	req := require.New(t)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	id := uuid.New()

	val, err := proto.Marshal(fromDirectMessage(chat.DirectMessage{ID: id, SenderID: "alice", RecipientID: "bob", Content: "hi", CreatedAt: at}))
	req.NoError(err)
	row := InspectMapper(string(key(directNamespace, "alice", "bob", timestamp(at), id.String())), val)
	req.Equal("DIRECT", row.Type)
	req.Equal("alice -> bob (read=false): hi", row.Detail)

	row = InspectMapper(string(key(groupUnreadNamespace, escape("study group"), "bob", timestamp(at), id.String())), nil)
	req.Equal("UNREAD", row.Type)
	req.Equal("study group bob 2024-05-01T10:00:00Z "+id.String(), row.Detail)

	row = InspectMapper(string(key(directNamespace, "a", "b", timestamp(at), id.String())), []byte{0x0a, 0x05})
	req.Equal("Error: unmarshal failed", row.Detail)

	group, err := proto.Marshal(fromGroup(chat.NewGroup("g1", "study", "alice", []string{"bob"}, at)))
	req.NoError(err)
	row = InspectMapper(string(groupKey("g1")), group)
	req.Equal("GROUP", row.Type)
	req.Equal("study by alice, 2 members", row.Detail)
}

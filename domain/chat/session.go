package chat

// Session is one live transport connection owned by a user.
type Session struct {
	UserID       string
	ConnectionID string
}

// ConversationKind tells a direct conversation apart from a group one.
type ConversationKind string

const (
	KindDirect ConversationKind = "direct"
	KindGroup  ConversationKind = "group"
)

// Conversation identifies what a user is looking at: another user or a group.
type Conversation struct {
	Kind ConversationKind `json:"kind"`
	ID   string           `json:"id"`
}

func Direct(counterpartID string) Conversation {
	return Conversation{Kind: KindDirect, ID: counterpartID}
}

func InGroup(groupID string) Conversation {
	return Conversation{Kind: KindGroup, ID: groupID}
}

// DirectScope is the order-independent key of the conversation between a and b.
func DirectScope(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return "dm:" + a + "|" + b
}

func GroupScope(groupID string) string {
	return "group:" + groupID
}

package repositories

import (
	pb "chat-relay/proto/storage"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mama165/sdk-go/database"
	"google.golang.org/protobuf/proto"
)

// InspectMapper renders one badger entry for the debug inspector and the inspect tool.
func InspectMapper(k string, val []byte) database.InspectRow {
	row := database.DefaultMapper(k, val)
	parts := strings.Split(k, ":")

	switch parts[0] {
	case directNamespace:
		var m pb.DirectMessage
		if err := proto.Unmarshal(val, &m); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "DIRECT"
		row.Detail = fmt.Sprintf("%s -> %s (read=%t): %s", m.SenderId, m.RecipientId, m.Read, m.Content)
	case groupMessageNamespace:
		var m pb.GroupMessage
		if err := proto.Unmarshal(val, &m); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "GROUP_MESSAGE"
		row.Detail = fmt.Sprintf("%s in %s: %s", m.SenderName, m.GroupId, m.Content)
	case groupNamespace:
		var g pb.Group
		if err := proto.Unmarshal(val, &g); err != nil {
			row.Detail = "Error: unmarshal failed"
			return row
		}
		row.Type = "GROUP"
		row.Detail = fmt.Sprintf("%s by %s, %d members", g.Name, g.CreatorId, len(g.Members))
	case unreadNamespace, groupUnreadNamespace:
		row.Type = "UNREAD"
		row.Detail = describeKey(parts)
	case memberNamespace:
		row.Type = "MEMBER"
		row.Detail = describeKey(parts)
	}
	return row
}

// describeKey unescapes the id parts of a key and renders its timestamp, if any.
func describeKey(parts []string) string {
	var out []string
	for _, part := range parts[1:] {
		if len(part) == len(maxTimestamp) {
			if ns, err := strconv.ParseInt(part, 10, 64); err == nil {
				out = append(out, time.Unix(0, ns).UTC().Format(time.RFC3339))
				continue
			}
		}
		out = append(out, unescape(part))
	}
	return strings.Join(out, " ")
}

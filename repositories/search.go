package repositories

import (
	"chat-relay/contract"
	"chat-relay/domain/chat"
	"context"
	"log/slog"
	"time"

	"github.com/blugelabs/bluge"
)

const (
	fieldID        = "_id"
	fieldScope     = "scope"
	fieldSender    = "sender"
	fieldContent   = "content"
	fieldCreatedAt = "created_at"
)

var _ contract.ISearchIndex = (*SearchIndex)(nil)

// SearchIndex is a Bluge full-text index over message content.
// Every document carries the scope of its conversation (chat.DirectScope or
// chat.GroupScope) as a keyword so a search never leaks outside one conversation.
type SearchIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewSearchIndex(writer *bluge.Writer, log *slog.Logger) *SearchIndex {
	return &SearchIndex{writer: writer, log: log}
}

func (s *SearchIndex) IndexDirect(message chat.DirectMessage) error {
	scope := chat.DirectScope(message.SenderID, message.RecipientID)
	return s.index(message.ID.String(), scope, message.SenderID, message.Content, message.CreatedAt)
}

func (s *SearchIndex) IndexGroup(message chat.GroupMessage) error {
	return s.index(message.ID.String(), chat.GroupScope(message.GroupID), message.SenderID, message.Content, message.CreatedAt)
}

func (s *SearchIndex) index(id, scope, sender, content string, at time.Time) error {
	doc := bluge.NewDocument(id).
		AddField(bluge.NewKeywordField(fieldScope, scope).StoreValue()).
		AddField(bluge.NewKeywordField(fieldSender, sender).StoreValue()).
		AddField(bluge.NewTextField(fieldContent, content).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldCreatedAt, at).StoreValue())
	return s.writer.Update(doc.ID(), doc)
}

// Search returns the best matches for text inside one conversation scope.
func (s *SearchIndex) Search(ctx context.Context, scope, text string, limit int) ([]chat.SearchHit, error) {
	reader, err := s.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewBooleanQuery().
		AddMust(bluge.NewTermQuery(scope).SetField(fieldScope)).
		AddMust(bluge.NewMatchQuery(text).SetField(fieldContent))
	matches, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var hits []chat.SearchHit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := chat.SearchHit{Score: match.Score}
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case fieldID:
				hit.ID = string(value)
			case fieldScope:
				hit.Scope = string(value)
			case fieldSender:
				hit.SenderID = string(value)
			case fieldContent:
				hit.Content = string(value)
			case fieldCreatedAt:
				if at, decodeErr := bluge.DecodeDateTime(value); decodeErr == nil {
					hit.CreatedAt = at.UTC()
				}
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
		match, err = matches.Next()
	}
	return hits, err
}

// DeleteScope removes every document of one conversation.
func (s *SearchIndex) DeleteScope(ctx context.Context, scope string) error {
	reader, err := s.writer.Reader()
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	query := bluge.NewTermQuery(scope).SetField(fieldScope)
	matches, err := reader.Search(ctx, bluge.NewAllMatches(query))
	if err != nil {
		return err
	}
	var ids []string
	match, err := matches.Next()
	for err == nil && match != nil {
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == fieldID {
				ids = append(ids, string(value))
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		match, err = matches.Next()
	}
	if err != nil {
		return err
	}

	batch := bluge.NewBatch()
	for _, id := range ids {
		batch.Delete(bluge.Identifier(id))
	}
	s.log.Debug("Search scope deleted", "scope", scope, "documents", len(ids))
	return s.writer.Batch(batch)
}

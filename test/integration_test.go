package test

import (
	"bytes"
	"chat-relay/auth"
	"chat-relay/client"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/infrastructure/rest"
	"chat-relay/infrastructure/websocket"
	"chat-relay/projection"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message"`
}

type RelaySuite struct {
	suite.Suite
	ctx    context.Context
	cancel context.CancelFunc
	db     *badger.DB
	writer *bluge.Writer
	server *httptest.Server
	tokens *auth.Tokens
	done   chan struct{}
}

func TestRelaySuite(t *testing.T) {
	suite.Run(t, new(RelaySuite))
}

func (s *RelaySuite) SetupTest() {
	req := s.Require()
	gin.SetMode(gin.TestMode)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	var err error
	s.db, err = badger.Open(badger.DefaultOptions(s.T().TempDir()).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)
	s.writer, err = bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	req.NoError(err)

	stores := runtime.Stores{
		Conversations: repositories.NewConversationRepository(s.db, log),
		Groups:        repositories.NewGroupRepository(s.db, log),
		GroupMessages: repositories.NewGroupMessageRepository(s.db, log, 50),
		Search:        repositories.NewSearchIndex(s.writer, log),
	}
	orchestrator, err := runtime.NewOrchestrator(log, workers.NewSupervisor(log, 50*time.Millisecond),
		runtime.NewRegistry(), stores, runtime.OrchestratorConfig{
			DeliveryTimeout:  time.Second,
			FanoutBufferSize: 64,
			MaxContentLength: 500,
			CharReplacement:  '*',
		})
	req.NoError(err)
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		orchestrator.Start(s.ctx)
	}()

	s.tokens = auth.NewTokens("integration-secret", time.Hour)
	chatService := services.NewChatService(orchestrator, stores)
	s.server = httptest.NewServer(rest.NewRouter(log, rest.Dependencies{
		Tokens: s.tokens,
		Chat:   chatService,
		Groups: services.NewGroupService(log, stores.Groups, stores.GroupMessages, stores.Search),
		Socket: websocket.NewHandler(s.ctx, log, chatService, websocket.DefaultOptions(32)),
	}))
}

func (s *RelaySuite) TearDownTest() {
	s.cancel()
	s.server.Close()
	<-s.done
	_ = s.writer.Close()
	_ = s.db.Close()
}

func (s *RelaySuite) token(userID string) string {
	token, err := s.tokens.Generate(auth.Identity{UserID: userID, Name: strings.ToUpper(userID)})
	s.Require().NoError(err)
	return token
}

func (s *RelaySuite) call(method, path, userID string, body any, out any) int {
	req := s.Require()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		req.NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	r, err := http.NewRequest(method, s.server.URL+path, reader)
	req.NoError(err)
	r.Header.Set("Authorization", "Bearer "+s.token(userID))
	r.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(r)
	req.NoError(err)
	defer resp.Body.Close()
	if out != nil {
		req.NoError(json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *RelaySuite) connect(userID string) *client.Client {
	c, err := client.Dial(s.ctx, logs.GetLoggerFromLevel(slog.LevelDebug), client.Config{
		ServerURL:  "ws" + strings.TrimPrefix(s.server.URL, "http") + "/ws",
		Token:      s.token(userID),
		UserID:     userID,
		AckTimeout: 2 * time.Second,
	})
	s.Require().NoError(err)
	go func() { _ = c.Run(s.ctx) }()
	s.T().Cleanup(func() { _ = c.Close() })

	s.Require().Eventually(func() bool {
		var resp envelope[map[string]bool]
		s.call(http.MethodGet, "/api/presence/"+userID, userID, nil, &resp)
		return resp.Data["online"]
	}, 2*time.Second, 10*time.Millisecond)
	return c
}

func (s *RelaySuite) createGroup(creator string, members ...string) chat.Group {
	var resp envelope[chat.Group]
	status := s.call(http.MethodPost, "/api/groups", creator, map[string]any{"name": "study", "members": members}, &resp)
	s.Require().Equal(http.StatusCreated, status)
	return resp.Data
}

func (s *RelaySuite) TestOffline_Recipient_Keeps_Unread_Message() {
	req := s.Require()
	u1 := s.connect("u1")

	// Given u2 is offline, when u1 sends hello
	_, err := u1.SendDirect("u2", "hello")
	req.NoError(err)
	req.Eventually(func() bool {
		messages := u1.Timeline().Messages(chat.Direct("u2"))
		return len(messages) == 1 && messages[0].State == projection.Sent
	}, 2*time.Second, 10*time.Millisecond)

	// Then the history holds one unread message
	var history envelope[[]chat.DirectMessage]
	req.Equal(http.StatusOK, s.call(http.MethodGet, "/api/conversations/u1", "u2", nil, &history))
	req.Len(history.Data, 1)
	req.Equal("u1", history.Data[0].SenderID)
	req.Equal("u2", history.Data[0].RecipientID)
	req.Equal("hello", history.Data[0].Content)
	req.False(history.Data[0].Read)

	// And opening the conversation marks it read
	u2 := s.connect("u2")
	req.NoError(u2.Open(chat.Direct("u1")))
	req.Eventually(func() bool {
		var unread envelope[map[string]bool]
		s.call(http.MethodGet, "/api/unread/u1", "u2", nil, &unread)
		return !unread.Data["unread"]
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *RelaySuite) TestGroup_Message_Reaches_Members_Only() {
	req := s.Require()
	group := s.createGroup("u1", "u2", "u3")
	u1 := s.connect("u1")
	u2 := s.connect("u2")
	outsider := s.connect("u4")

	// When u1 sends welcome to the group
	_, err := u1.SendGroup(group.ID, "U1", "welcome")
	req.NoError(err)

	// Then the history holds it
	var page envelope[[]chat.GroupMessage]
	req.Eventually(func() bool {
		s.call(http.MethodGet, "/api/groups/"+group.ID+"/messages", "u1", nil, &page)
		return len(page.Data) == 1
	}, 2*time.Second, 10*time.Millisecond)
	req.Equal("u1", page.Data[0].SenderID)
	req.Equal("welcome", page.Data[0].Content)

	// And the live member is pushed the message and the unread flag
	req.Eventually(func() bool {
		return len(u2.Timeline().Messages(chat.InGroup(group.ID))) == 1 && u2.Timeline().Unread(chat.InGroup(group.ID))
	}, 2*time.Second, 10*time.Millisecond)

	// And the offline member sees it unread
	var summary envelope[projection.UnreadSummary]
	req.Equal(http.StatusOK, s.call(http.MethodGet, "/api/unread", "u3", nil, &summary))
	req.True(summary.Data.Groups[group.ID])

	// And a non-member is rejected and never pushed
	rejected, err := outsider.SendGroup(group.ID, "U4", "let me in")
	req.NoError(err)
	req.Eventually(func() bool {
		entry, ok := outsider.Timeline().Entry(rejected.ID)
		return ok && entry.State == projection.Failed
	}, 2*time.Second, 10*time.Millisecond)
	// Its own failed echo is the only entry it holds for the group
	req.Len(outsider.Timeline().Messages(chat.InGroup(group.ID)), 1)
}

func (s *RelaySuite) TestCreator_Cannot_Be_Removed() {
	req := s.Require()
	group := s.createGroup("u1", "u2", "u3")

	var resp envelope[chat.Group]
	status := s.call(http.MethodDelete, "/api/groups/"+group.ID+"/members/u1", "u2", nil, &resp)
	req.Equal(http.StatusForbidden, status)
	req.False(resp.Success)

	status = s.call(http.MethodGet, "/api/groups/"+group.ID, "u1", nil, &resp)
	req.Equal(http.StatusOK, status)
	req.ElementsMatch([]string{"u1", "u2", "u3"}, resp.Data.Members)
}

func (s *RelaySuite) TestUnread_Is_Pushed_To_Live_Recipient() {
	req := s.Require()
	u1 := s.connect("u1")
	u2 := s.connect("u2")

	_, err := u1.SendDirect("u2", "ping")
	req.NoError(err)

	var pushed []event.DomainEvent
	timeout := time.After(2 * time.Second)
	for len(pushed) < 2 {
		select {
		case e := <-u2.Events():
			pushed = append(pushed, e)
		case <-timeout:
			req.FailNow("events not pushed", "%v", pushed)
		}
	}
	req.IsType(event.DirectMessageReceived{}, pushed[0])
	req.Equal(event.UnreadChanged{Conversation: chat.Direct("u1"), Unread: true}, pushed[1])
}

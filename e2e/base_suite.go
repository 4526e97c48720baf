package e2e

import (
	"chat-relay/auth"
	"chat-relay/client"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

type BaseSuite struct {
	suite.Suite
	Config Config
	tokens *auth.Tokens
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.HTTPAddr == "" {
		s.T().Skip("RELAY_HTTP_ADDR is not set")
	}
	s.tokens = auth.NewTokens(s.Config.JwtSecret, time.Hour)
}

func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// GrpcConn initializes a gRPC connection that logs every call
func (s *BaseSuite) GrpcConn(t *testing.T, addr string) *grpc.ClientConn {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(func(ctx context.Context, method string, req, reply any, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
			start := time.Now()
			err := invoker(ctx, method, req, reply, cc, opts...)
			t.Logf("GRPC %s [%s] in %v", method, status.Code(err), time.Since(start))
			return err
		}),
	)
	s.Require().NoError(err, "Failed to connect to gRPC server at "+addr)
	return conn
}

// Connect opens a realtime session for userID against the relay.
func (s *BaseSuite) Connect(ctx context.Context, userID string) *client.Client {
	token, err := s.tokens.Generate(auth.Identity{UserID: userID, Name: userID})
	s.Require().NoError(err)

	c, err := client.Dial(ctx, logs.GetLoggerFromLevel(slog.LevelDebug), client.Config{
		ServerURL:  "ws://" + strings.TrimPrefix(s.Config.HTTPAddr, "http://") + "/ws",
		Token:      token,
		UserID:     userID,
		AckTimeout: 5 * time.Second,
	})
	s.Require().NoError(err)
	go func() { _ = c.Run(ctx) }()
	return c
}

package main

import (
	"bufio"
	"chat-relay/client"
	"chat-relay/domain/chat"
	"chat-relay/domain/event"
	"chat-relay/projection"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

const usage = `commands:
  /dm <user> <text>       send a direct message
  /group <group> <text>   send a group message
  /open <user>            open a direct conversation (marks it read)
  /opengroup <group>      open a group conversation
  /close                  close the open conversation
  /history <user|#group>  print the local timeline
  /quit`

var (
	mine    = color.New(color.FgCyan)
	theirs  = color.New(color.FgGreen)
	notice  = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	config, err := client.LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, log, config)
	if err != nil {
		return exitRuntime, err
	}
	defer func() { _ = c.Close() }()

	errChan := make(chan error, 1)
	go func() { errChan <- c.Run(ctx) }()
	go render(config.UserID, c.Events())

	fmt.Println(notice.Render(fmt.Sprintf(">>> Connected to %s as %s (Ctrl+C to quit)", config.ServerURL, config.UserID)))
	fmt.Println(usage)

	lines := make(chan string)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	for {
		select {
		case <-ctx.Done():
			return exitOK, nil
		case err := <-errChan:
			if err != nil {
				return exitRuntime, err
			}
			return exitOK, nil
		case line, ok := <-lines:
			if !ok {
				return exitOK, nil
			}
			if quit := handle(c, config.UserID, strings.TrimSpace(line)); quit {
				return exitOK, nil
			}
		}
	}
}

func handle(c *client.Client, userID, line string) bool {
	fields := strings.SplitN(line, " ", 3)
	var err error
	switch fields[0] {
	case "":
		return false
	case "/quit":
		return true
	case "/dm", "/group":
		if len(fields) < 3 {
			fmt.Println(usage)
			return false
		}
		if fields[0] == "/dm" {
			_, err = c.SendDirect(fields[1], fields[2])
		} else {
			_, err = c.SendGroup(fields[1], userID, fields[2])
		}
	case "/open", "/opengroup":
		if len(fields) < 2 {
			fmt.Println(usage)
			return false
		}
		conversation := chat.Direct(fields[1])
		if fields[0] == "/opengroup" {
			conversation = chat.InGroup(fields[1])
		}
		err = c.Open(conversation)
	case "/close":
		err = c.CloseConversation()
	case "/history":
		if len(fields) < 2 {
			fmt.Println(usage)
			return false
		}
		conversation := chat.Direct(fields[1])
		if id, ok := strings.CutPrefix(fields[1], "#"); ok {
			conversation = chat.InGroup(id)
		}
		for _, entry := range c.Timeline().Messages(conversation) {
			fmt.Println(formatEntry(userID, entry))
		}
	default:
		fmt.Println(usage)
	}
	if err != nil {
		fmt.Println(failure.Render(err.Error()))
	}
	return false
}

func render(userID string, events <-chan event.DomainEvent) {
	for e := range events {
		switch evt := e.(type) {
		case event.DirectMessageReceived:
			fmt.Println(theirs.Render(fmt.Sprintf("[%s] %s: %s",
				evt.Message.CreatedAt.Local().Format(time.TimeOnly), evt.Message.SenderID, evt.Message.Content)))
		case event.GroupMessageReceived:
			fmt.Println(theirs.Render(fmt.Sprintf("[%s] #%s %s: %s",
				evt.Message.CreatedAt.Local().Format(time.TimeOnly), evt.Message.GroupID, evt.Message.SenderName, evt.Message.Content)))
		case event.MessageSent, event.GroupMessageSent:
			fmt.Println(mine.Render("✓ delivered"))
		case event.UnreadChanged:
			if evt.Unread {
				fmt.Println(notice.Render(fmt.Sprintf("• unread in %s %s", evt.Conversation.Kind, evt.Conversation.ID)))
			}
		case event.Failure:
			fmt.Println(failure.Render(fmt.Sprintf("✗ %s: %s", evt.Code, evt.Message)))
		}
	}
}

func formatEntry(userID string, entry projection.Entry) string {
	text := fmt.Sprintf("[%s] %s: %s (%s)", entry.CreatedAt.Local().Format(time.TimeOnly), entry.SenderID, entry.Content, entry.State)
	switch {
	case entry.State == projection.Failed:
		return failure.Render(text + " " + entry.Reason)
	case entry.SenderID == userID:
		return mine.Render(text)
	default:
		return theirs.Render(text)
	}
}

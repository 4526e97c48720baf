// Command tools seeds a demo relay database and exports transcripts.
//
//	tools seed -db ./data/badger -index ./data/bluge -secret $JWT_SECRET
//	tools export -db ./data/badger -a alice -b bob -out alice_bob.pdf
package main

import (
	"chat-relay/auth"
	"chat-relay/domain/chat"
	"chat-relay/repositories"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tools seed|export [flags]")
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "seed":
		err = seed(os.Args[2:])
	case "export":
		err = export(os.Args[2:])
	default:
		err = fmt.Errorf("unknown command %q", os.Args[1])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "tools: %v\n", err)
		os.Exit(1)
	}
}

func seed(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dbPath := fs.String("db", "./data/badger", "Path to badger DB")
	indexPath := fs.String("index", "./data/bluge", "Path to bluge index")
	secret := fs.String("secret", os.Getenv("JWT_SECRET"), "JWT secret shared with the relay")
	_ = fs.Parse(args)

	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return err
	}
	defer db.Close()
	writer, err := bluge.OpenWriter(bluge.DefaultConfig(*indexPath))
	if err != nil {
		return err
	}
	defer writer.Close()

	conversations := repositories.NewConversationRepository(db, log)
	groups := repositories.NewGroupRepository(db, log)
	groupMessages := repositories.NewGroupMessageRepository(db, log, 50)
	index := repositories.NewSearchIndex(writer, log)

	start := time.Now().UTC().Add(-time.Hour)
	direct := []chat.DirectMessage{
		{SenderID: "alice", RecipientID: "bob", Content: "Are you coming to the study session?"},
		{SenderID: "bob", RecipientID: "alice", Content: "Yes, see you at the library", Read: true},
		{SenderID: "carol", RecipientID: "bob", Content: "Can you share the exam notes?"},
	}
	for i, m := range direct {
		m.ID = uuid.New()
		m.CreatedAt = start.Add(time.Duration(i) * time.Minute)
		if err := conversations.Store(m); err != nil {
			return err
		}
		if err := index.IndexDirect(m); err != nil {
			return err
		}
	}

	group := chat.NewGroup(uuid.NewString(), "Study group", "alice", []string{"bob", "carol"}, start)
	if err := groups.Create(group); err != nil {
		return err
	}
	m := chat.GroupMessage{
		ID: uuid.New(), GroupID: group.ID, SenderID: "alice", SenderName: "Alice",
		Content: "Welcome everyone", CreatedAt: start.Add(5 * time.Minute),
	}
	if err := groupMessages.Store(m, group.OtherMembers("alice")); err != nil {
		return err
	}
	if err := index.IndexGroup(m); err != nil {
		return err
	}
	fmt.Printf("Seeded %d direct messages and group %s (%s)\n", len(direct), group.Name, group.ID)

	if *secret == "" {
		return nil
	}
	tokens := auth.NewTokens(*secret, 24*time.Hour)
	for _, user := range []string{"alice", "bob", "carol"} {
		token, err := tokens.Generate(auth.Identity{UserID: user, Name: user})
		if err != nil {
			return err
		}
		fmt.Printf("%s\t%s\n", user, token)
	}
	return nil
}

// export renders the conversation between two users as a PDF transcript.
func export(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	dbPath := fs.String("db", "./data/badger", "Path to badger DB")
	a := fs.String("a", "", "First participant")
	b := fs.String("b", "", "Second participant")
	out := fs.String("out", "transcript.pdf", "Output file")
	_ = fs.Parse(args)
	if *a == "" || *b == "" {
		return fmt.Errorf("both -a and -b are required")
	}

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithReadOnly(true).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return err
	}
	defer db.Close()

	messages, err := repositories.NewConversationRepository(db, logs.GetLoggerFromLevel(slog.LevelInfo)).List(*a, *b)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 12, translate(fmt.Sprintf("Conversation %s / %s", *a, *b)))
	pdf.Ln(14)
	pdf.SetFont("Arial", "", 11)
	for _, m := range messages {
		line := fmt.Sprintf("[%s] %s: %s", m.CreatedAt.Format(time.DateTime), m.SenderID, m.Content)
		pdf.MultiCell(0, 7, translate(line), "", "", false)
	}
	if err := pdf.OutputFileAndClose(*out); err != nil {
		return err
	}
	fmt.Printf("%d messages exported to %s\n", len(messages), *out)
	return nil
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
)

var (
	consoleUser int64
	consoleName string
	consoleChat string
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Play over stdin",
	Long: `Drive the chat handler line by line from stdin.

Every line is a message from the current sender. Button labels are typed as
plain text and slash commands work as in a chat. Two console directives
change who is talking:

  /as <user id> [name]     switch the sender
  /chat direct|group       switch the chat kind`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().Int64Var(&consoleUser, "user", 0, "sender user id (defaults to the admin id)")
	consoleCmd.Flags().StringVar(&consoleName, "name", "player", "sender display name")
	consoleCmd.Flags().StringVar(&consoleChat, "chat", string(entities.ChatDirect), "chat kind: direct or group")
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("received shutdown signal, stopping console")
		cancel()
	}()

	r, err := openRepos(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	if cfg.Seed {
		if _, err := runSeed(ctx, r); err != nil {
			return err
		}
	}

	store, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closeSessions() }()

	handler, err := newHandler(cfg, r, store, logger)
	if err != nil {
		return err
	}

	kind := entities.ChatKind(consoleChat)
	if !kind.IsValid() {
		return fmt.Errorf("unknown chat kind %q", consoleChat)
	}
	sender := consoleUser
	if sender == 0 {
		sender = cfg.AdminID
	}

	slog.InfoContext(ctx, "console started",
		"user_id", sender,
		"chat", kind,
		"sessions", cfg.SessionBackend,
		"db", cfg.DBPath)

	c := &console{
		handler: handler,
		out:     cmd.OutOrStdout(),
		sender:  sender,
		name:    consoleName,
		kind:    kind,
	}
	return c.run(ctx, cmd.InOrStdin())
}

type messageHandler interface {
	Handle(ctx context.Context, msg entities.Message) []entities.Reply
}

// console is a line transport: one line in, the replies out
type console struct {
	handler messageHandler
	out     io.Writer
	sender  int64
	name    string
	kind    entities.ChatKind
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	c.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errc:
			return err
		case line := <-lines:
			c.line(ctx, line)
			c.prompt()
		}
	}
}

func (c *console) prompt() {
	fmt.Fprintf(c.out, "%s(%d)@%s> ", c.name, c.sender, c.kind)
}

// line handles one input line, either a console directive or a message
func (c *console) line(ctx context.Context, line string) {
	text := strings.TrimSpace(line)
	if text == "" {
		return
	}

	fields := strings.Fields(text)
	switch fields[0] {
	case "/as":
		if len(fields) < 2 {
			fmt.Fprintln(c.out, "usage: /as <user id> [name]")
			return
		}
		id, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || id <= 0 {
			fmt.Fprintf(c.out, "invalid user id %q\n", fields[1])
			return
		}
		c.sender = id
		if len(fields) > 2 {
			c.name = strings.Join(fields[2:], " ")
		}
		return
	case "/chat":
		if len(fields) != 2 || !entities.ChatKind(fields[1]).IsValid() {
			fmt.Fprintln(c.out, "usage: /chat direct|group")
			return
		}
		c.kind = entities.ChatKind(fields[1])
		return
	}

	msg := entities.Message{
		SenderID:    c.sender,
		ChatKind:    c.kind,
		DisplayName: c.name,
		Text:        text,
		Command:     parseCommand(text),
	}
	writeReplies(c.out, c.handler.Handle(ctx, msg))
}

// parseCommand returns the command token of "/name@bot args", or "" for plain text
func parseCommand(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	token := strings.Fields(text)[0][1:]
	if at := strings.IndexByte(token, '@'); at >= 0 {
		token = token[:at]
	}
	return strings.ToLower(token)
}

func writeReplies(w io.Writer, replies []entities.Reply) {
	for _, reply := range replies {
		for _, line := range strings.Split(reply.Text, "\n") {
			fmt.Fprintf(w, "< %s\n", line)
		}
		if reply.Keyboard == nil {
			continue
		}
		for _, row := range reply.Keyboard.Rows {
			buttons := make([]string, len(row))
			for i, label := range row {
				buttons[i] = "[" + label + "]"
			}
			fmt.Fprintf(w, "  %s\n", strings.Join(buttons, " "))
		}
	}
}

package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shrimpsizemoose/trekker/logger"
)

const (
	lecturerHelp = `Available commands:
/token <lecturer-id> - Get an API token for the attendance service
/help - Show this message`

	adminHelp = `Available commands:
/token <lecturer-id> - Get an API token for the attendance service
/sessions <lecturer-id> - List sessions with attendance counts
/session open <session-id> - Re-open a session for marking
/session close <session-id> - Close a session
/stats <session-id> - Show on-time/late counts for a session
/help - Show this message

Examples:
/sessions jane.doe
/session close 7b0c9f2a-...
/stats 7b0c9f2a-...`
)

type commandHandler func(*tgbotapi.Message) error

func (b *Bot) routeLecturerCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"start": b.handleStart,
		"token": b.handleToken,
		"help":  b.handleHelp,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) routeAdminCommands(cmd string) (commandHandler, bool) {
	commands := map[string]commandHandler{
		"sessions": b.handleSessions,
		"session":  b.handleSession,
		"stats":    b.handleStats,
	}
	handler, found := commands[cmd]
	return handler, found
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if !msg.IsCommand() {
		b.sendHelp(msg.Chat.ID)
		return
	}

	cmd := msg.Command()

	if handler, ok := b.routeLecturerCommands(cmd); ok {
		if err := handler(msg); err != nil {
			logger.Error.Printf("Command error: %v", err)
			b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
		}
		return
	}

	if b.admins[msg.From.ID] {
		if handler, ok := b.routeAdminCommands(cmd); ok {
			if err := handler(msg); err != nil {
				logger.Error.Printf("Command error: %v", err)
				b.sendMessage(msg.Chat.ID, fmt.Sprintf("Error: %v", err))
			}
		}
		return
	}

	b.sendHelp(msg.Chat.ID)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	var text string
	if b.admins[msg.From.ID] {
		text = adminHelp
	} else {
		text = lecturerHelp
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) sendHelp(chatID int64) error {
	return b.sendMessage(chatID, "Send /help for the list of commands.")
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	text := "Hi! I help run QR attendance sessions.\n\n"
	if b.admins[msg.From.ID] {
		text += "You are a course admin. Use /help for the list of commands."
	} else {
		text += "Use /token <lecturer-id> to get an API token."
	}

	return b.sendMessage(msg.Chat.ID, text)
}

func (b *Bot) handleToken(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Usage: /token <lecturer-id>")
	}
	if b.tokens == nil {
		return fmt.Errorf("token issuing is disabled (auth not configured)")
	}

	info, isNew, err := b.tokens.FetchOrCreateLecturerToken(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to fetch token: %w", err)
	}

	state := "existing"
	if isNew {
		state = "new"
	}
	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"Token (%s) for %s:\n%s\n\nRequests so far: %d",
		state, args[0], info.Token, info.RequestCount,
	))
}

func (b *Bot) handleSessions(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Usage: /sessions <lecturer-id>")
	}

	sessions, err := b.store.ListSessions(args[0])
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}

	if len(sessions) == 0 {
		return b.sendMessage(msg.Chat.ID, "No sessions found")
	}

	var out strings.Builder
	out.WriteString(fmt.Sprintf("Sessions for %s:\n\n", args[0]))
	for _, s := range sessions {
		flag := "closed"
		if s.IsActive {
			flag = "active"
		}
		out.WriteString(fmt.Sprintf(
			"%s %s (%s)\n%s %s-%s [%s]\nmarked: %d\nid: %s\n\n",
			s.CourseCode, s.Title, flag,
			s.SessionDate, s.StartTime, s.EndTime,
			s.JoinCode,
			s.AttendanceCount,
			s.ID,
		))
	}

	return b.sendMessage(msg.Chat.ID, out.String())
}

func (b *Bot) handleSession(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 2 {
		return b.sendMessage(msg.Chat.ID, "Usage:\n"+
			"/session open <session-id> - Re-open a session\n"+
			"/session close <session-id> - Close a session")
	}

	var active bool
	switch args[0] {
	case "open":
		active = true
	case "close":
		active = false
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}

	session, err := b.store.GetSession(args[1])
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return b.sendMessage(msg.Chat.ID, "Session not found")
	}

	updated, err := b.store.SetSessionActive(session.ID, session.LecturerID, active)
	if err != nil {
		return fmt.Errorf("failed to toggle session: %w", err)
	}
	if !updated {
		return b.sendMessage(msg.Chat.ID, "Session not found")
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"Session %s (%s) is now %s",
		session.Title, session.CourseCode, args[0],
	))
}

func (b *Bot) handleStats(msg *tgbotapi.Message) error {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 1 {
		return b.sendMessage(msg.Chat.ID, "Usage: /stats <session-id>")
	}

	session, err := b.store.GetSession(args[0])
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return b.sendMessage(msg.Chat.ID, "Session not found")
	}

	stats, err := b.store.GetSessionStats(session.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch stats: %w", err)
	}

	return b.sendMessage(msg.Chat.ID, fmt.Sprintf(
		"%s (%s) on %s:\n"+
			"Total: %d\n"+
			"On time: %d\n"+
			"Late: %d\n"+
			"Attendance rate: %d%%",
		session.Title, session.CourseCode, session.SessionDate,
		stats.Total, stats.OnTime, stats.Late, stats.AttendanceRate(),
	))
}

func (b *Bot) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	_, err := b.api.Send(msg)
	return err
}

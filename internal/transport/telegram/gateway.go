package telegram

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-inspire-bot/internal/domain"
	tele "gopkg.in/telebot.v4"
)

// Gateway adapts the Telegram bot API to the conversation surface the flows
// use. Channel refs and user ids are opaque strings holding Telegram chat ids.
type Gateway struct {
	bot       *tele.Bot
	collector *Collector
}

func NewGateway(bot *tele.Bot, collector *Collector) *Gateway {
	return &Gateway{bot: bot, collector: collector}
}

func (g *Gateway) PostToChannel(_ context.Context, channelID, text string) error {
	chatID, err := strconv.ParseInt(channelID, 10, 64)
	if err != nil {
		return fmt.Errorf("bad channel ref %q: %w", channelID, err)
	}
	if _, err := g.bot.Send(tele.ChatID(chatID), text); err != nil {
		return fmt.Errorf("send to chat %s: %w", channelID, err)
	}
	return nil
}

// OpenDirectChannel resolves the private channel for a user. Telegram private
// chats share the user's id, so this only validates the ref.
func (g *Gateway) OpenDirectChannel(_ context.Context, userID string) (string, error) {
	if _, err := strconv.ParseInt(userID, 10, 64); err != nil {
		return "", fmt.Errorf("bad user id %q: %w", userID, err)
	}
	return userID, nil
}

// AwaitSingleReply blocks until the user sends one message in their private
// chat, the timeout elapses, or ctx is cancelled. The timeout failure wraps
// domain.ErrTimeout. No polling: the update handler feeds the collector.
func (g *Gateway) AwaitSingleReply(ctx context.Context, _ string, userID string, timeout time.Duration) (string, error) {
	uid, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return "", fmt.Errorf("bad user id %q: %w", userID, err)
	}

	replies, cancel := g.collector.Expect(uid)
	defer cancel()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		return reply, nil
	case <-timer.C:
		return "", fmt.Errorf("no reply from user %s within %s: %w", userID, timeout, domain.ErrTimeout)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

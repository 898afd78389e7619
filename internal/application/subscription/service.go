package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-inspire-bot/internal/domain"
)

// replyTimeout bounds the wait for the phone-number reply in the subscribe
// flow. Fixed at compile time.
const replyTimeout = 60 * time.Second

// User-visible messages. All responses are plain text, either in the
// originating channel or as a direct message.
const (
	msgPhonePrompt   = "What phone number should I text quotes to? Reply here with the number in international format (e.g. +15551234567)."
	msgPendingAck    = "Got it! You'll receive a confirmation SMS shortly. Reply to it to finish subscribing."
	msgSMSAck        = "I've also sent that quote to your phone."
	msgNotSubscribed = "You're not subscribed to SMS quotes."
	msgUnsubscribed  = "You've been unsubscribed. No more SMS quotes."
)

// Service drives the subscription lifecycle: a user's phone record moves
// Unset -> Pending via Subscribe, Pending -> Confirmed via Confirm (out-of-band
// trigger only, never automatic), and back to Unset via Unsubscribe.
//
// Every entry point reads fresh state from the store; nothing is cached
// between invocations. There is no per-user locking: concurrent flows for the
// same user interleave and the last store write wins.
type Service interface {
	Inspire(ctx context.Context, userID, channelID string) error
	Subscribe(ctx context.Context, userID string) error
	Unsubscribe(ctx context.Context, userID string) error
	Confirm(ctx context.Context, userID string) (*domain.Subscription, error)
}

type subscriptionStore interface {
	Get(ctx context.Context, userID string) (*domain.Subscription, error)
	Put(ctx context.Context, sub *domain.Subscription) error
	Delete(ctx context.Context, userID string) error
}

type notifier interface {
	Send(ctx context.Context, to, message string) (string, error)
	Subscribe(ctx context.Context, phone, topicARN string) (string, error)
}

type quoteSource interface {
	Fetch(ctx context.Context) (string, error)
}

// gateway is the chat-side surface the flows talk to. AwaitSingleReply blocks
// until the named user sends one message in the channel, or fails with a
// domain.ErrTimeout-wrapped error after the window elapses.
type gateway interface {
	PostToChannel(ctx context.Context, channelID, text string) error
	OpenDirectChannel(ctx context.Context, userID string) (string, error)
	AwaitSingleReply(ctx context.Context, channelID, userID string, timeout time.Duration) (string, error)
}

type service struct {
	store    subscriptionStore
	notifier notifier
	quotes   quoteSource
	gateway  gateway
	topicARN string
	log      *slog.Logger
}

type ServiceDeps struct {
	Store    subscriptionStore
	Notifier notifier
	Quotes   quoteSource
	Gateway  gateway
	TopicARN string
	Logger   *slog.Logger
}

func NewService(deps ServiceDeps) Service {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	return &service{
		store:    deps.Store,
		notifier: deps.Notifier,
		quotes:   deps.Quotes,
		gateway:  deps.Gateway,
		topicARN: deps.TopicARN,
		log:      log,
	}
}

// Inspire posts a quote to the originating channel and, when the user has a
// confirmed number, also publishes it by SMS and acknowledges that in a DM.
// The channel post is not rolled back if a later step fails; partial success
// is a defined outcome.
func (s *service) Inspire(ctx context.Context, userID, channelID string) error {
	quote, err := s.quotes.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch quote: %w", err)
	}
	if err := s.gateway.PostToChannel(ctx, channelID, quote); err != nil {
		return fmt.Errorf("post quote: %w", err)
	}

	sub, err := s.store.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}
	if sub.Status != domain.PhoneStatusConfirmed {
		// Pending numbers get nothing until confirmation completes.
		return nil
	}

	messageID, err := s.notifier.Send(ctx, sub.Number, quote)
	if err != nil {
		return fmt.Errorf("publish quote sms: %w", err)
	}
	s.log.Info("quote published by sms",
		"user_id", userID, "message_id", messageID)

	return s.directMessage(ctx, userID, msgSMSAck)
}

// Subscribe runs the short conversation protocol: prompt in a DM, wait for
// exactly one reply, register the number with the notification topic, then
// persist the record as pending. The store write is strictly ordered after a
// successful provider call; timeout or rejection leaves the store untouched.
// Any prior record for the user is overwritten, including a confirmed one.
func (s *service) Subscribe(ctx context.Context, userID string) error {
	dm, err := s.gateway.OpenDirectChannel(ctx, userID)
	if err != nil {
		return fmt.Errorf("open direct channel: %w", err)
	}
	if err := s.gateway.PostToChannel(ctx, dm, msgPhonePrompt); err != nil {
		return fmt.Errorf("prompt for number: %w", err)
	}

	reply, err := s.gateway.AwaitSingleReply(ctx, dm, userID, replyTimeout)
	if err != nil {
		return fmt.Errorf("await number: %w", err)
	}
	number := strings.TrimSpace(reply)

	subscriptionID, err := s.notifier.Subscribe(ctx, number, s.topicARN)
	if err != nil {
		return fmt.Errorf("register number: %w", err)
	}
	s.log.Info("number registered with topic",
		"user_id", userID, "subscription_id", subscriptionID)

	if err := s.gateway.PostToChannel(ctx, dm, msgPendingAck); err != nil {
		return fmt.Errorf("send pending ack: %w", err)
	}
	if err := s.store.Put(ctx, domain.PendingSubscription(userID, number)); err != nil {
		return fmt.Errorf("persist subscription: %w", err)
	}
	return nil
}

// Unsubscribe deletes the user's record. An absent record is not an error:
// the user is told they aren't subscribed, and repeating the command yields
// the same outcome.
func (s *service) Unsubscribe(ctx context.Context, userID string) error {
	sub, err := s.store.Get(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return s.directMessage(ctx, userID, msgNotSubscribed)
	}
	if err != nil {
		return fmt.Errorf("load subscription: %w", err)
	}

	if err := s.store.Delete(ctx, userID); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.log.Info("subscription removed", "user_id", userID, "phone", sub.Number)

	return s.directMessage(ctx, userID, msgUnsubscribed)
}

// Confirm promotes a pending record to confirmed. It exists for the
// out-of-band carrier confirmation to be wired in (admin endpoint); nothing
// in the bot calls it automatically.
func (s *service) Confirm(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription: %w", err)
	}
	if sub.Status != domain.PhoneStatusPending {
		return nil, fmt.Errorf("subscription for user %s is %s, not pending: %w",
			userID, sub.Status, domain.ErrConflict)
	}
	sub.Status = domain.PhoneStatusConfirmed
	if err := s.store.Put(ctx, sub); err != nil {
		return nil, fmt.Errorf("persist subscription: %w", err)
	}
	s.log.Info("subscription confirmed", "user_id", userID)
	return sub, nil
}

func (s *service) directMessage(ctx context.Context, userID, text string) error {
	dm, err := s.gateway.OpenDirectChannel(ctx, userID)
	if err != nil {
		return fmt.Errorf("open direct channel: %w", err)
	}
	if err := s.gateway.PostToChannel(ctx, dm, text); err != nil {
		return fmt.Errorf("send direct message: %w", err)
	}
	return nil
}

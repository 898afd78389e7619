package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/go-inspire-bot/internal/config"
	"github.com/go-inspire-bot/internal/domain"
)

// Notifier publishes one-off SMS messages and registers phone numbers with a
// notification topic via AWS SNS.
type Notifier interface {
	Send(ctx context.Context, to, message string) (string, error)
	Subscribe(ctx context.Context, phone, topicARN string) (string, error)
}

type notifier struct {
	client *sns.Client
}

func NewNotifier(cfg *config.Config) (Notifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &notifier{client: sns.NewFromConfig(awsCfg)}, nil
}

// Send publishes a single SMS directly to a phone number and returns the
// provider message id.
func (n *notifier) Send(ctx context.Context, to, message string) (string, error) {
	out, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: &to,
		Message:     &message,
	})
	if err != nil {
		return "", fmt.Errorf("publish sms: %v: %w", err, domain.ErrDeliveryRejected)
	}
	return aws.ToString(out.MessageId), nil
}

// Subscribe registers a phone number with the notification topic. SNS sends
// the carrier confirmation itself; the returned ARN stays "pending confirmation"
// until the user acknowledges it out of band.
func (n *notifier) Subscribe(ctx context.Context, phone, topicARN string) (string, error) {
	out, err := n.client.Subscribe(ctx, &sns.SubscribeInput{
		Protocol: aws.String("sms"),
		TopicArn: aws.String(topicARN),
		Endpoint: aws.String(phone),
	})
	if err != nil {
		return "", fmt.Errorf("subscribe %s: %v: %w", phone, err, domain.ErrDeliveryRejected)
	}
	return aws.ToString(out.SubscriptionArn), nil
}

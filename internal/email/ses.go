package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// sesAPI is the slice of the SES client the provider consumes.
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESProvider sends email through AWS SES, a single API call per
// message.
type SESProvider struct {
	client sesAPI
	logger *slog.Logger
}

// NewSESProvider creates an SES-backed provider using the default AWS
// credential chain.
func NewSESProvider(region string, logger *slog.Logger) (*SESProvider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SESProvider{
		client: ses.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

// Kind implements Provider.
func (p *SESProvider) Kind() ProviderKind { return ProviderSES }

// Send implements Provider. Transport failures are mapped into the
// result, never raised.
func (p *SESProvider) Send(ctx context.Context, msg *Message) SendResult {
	body := &types.Body{
		Html: &types.Content{Data: aws.String(msg.HTML)},
	}
	if msg.Text != "" {
		body.Text = &types.Content{Data: aws.String(msg.Text)}
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(msg.From),
		Destination: &types.Destination{ToAddresses: msg.To},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body:    body,
		},
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}

	result, err := p.client.SendEmail(ctx, input)
	if err != nil {
		p.logger.Error("failed to send email via SES",
			slog.String("subject", msg.Subject),
			slog.Any("error", err))
		return SendResult{Success: false, Err: fmt.Errorf("ses send failed: %w", err)}
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}

	p.logger.Info("email sent via SES",
		slog.String("subject", msg.Subject),
		slog.String("message_id", messageID))

	return SendResult{Success: true, MessageID: messageID}
}

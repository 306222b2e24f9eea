package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// WelcomeMailer sends the onboarding email after a successful first
// registration. Sends are best effort: failures are logged, never surfaced.
type WelcomeMailer interface {
	SendWelcomeEmail(ctx context.Context, email, businessName string) error
}

// AWSSESEmailService sends emails using AWS SES
type AWSSESEmailService struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

// NewAWSSESEmailService creates a new AWS SES email service
func NewAWSSESEmailService(region, fromAddress string, logger *slog.Logger) (*AWSSESEmailService, error) {
	cfg, err := config.LoadDefaultConfig(context.Background(), config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &AWSSESEmailService{
		sesClient:   ses.NewFromConfig(cfg),
		fromAddress: fromAddress,
		logger:      logger,
	}, nil
}

// SendWelcomeEmail sends the onboarding email to a newly registered account
func (s *AWSSESEmailService) SendWelcomeEmail(ctx context.Context, email, businessName string) error {
	textBody := fmt.Sprintf(`Welcome to A.R.U.S.!

Your workspace for %s is ready. Your account comes preloaded with starter
automation recipes and an empty revenue sheet for the current year.

Next steps:
- Toggle the automations you want from the Automations page
- Connect your sales channels and integrations
- Fill in monthly revenue to unlock dashboard insights

This is an automated message. Please do not reply to this email.
`, businessName)

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String("Welcome to A.R.U.S."),
			},
			Body: &types.Body{
				Text: &types.Content{
					Data: aws.String(textBody),
				},
			},
		},
	}

	result, err := s.sesClient.SendEmail(ctx, input)
	if err != nil {
		s.logger.Error("failed to send welcome email via SES",
			slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("welcome email sent",
		slog.String("message_id", *result.MessageId))

	return nil
}

// NoopMailer is used when email delivery is not configured
type NoopMailer struct{}

func (NoopMailer) SendWelcomeEmail(ctx context.Context, email, businessName string) error {
	return nil
}

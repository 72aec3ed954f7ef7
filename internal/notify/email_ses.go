package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends emails via AWS SES.
type SESSender struct {
	client sesAPI
}

type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewSESClient builds an SES client from static credentials.
func NewSESClient(cfg SESConfig) *sesv2.Client {
	opts := sesv2.Options{Region: cfg.Region}
	if cfg.AccessKeyID != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}
	return sesv2.New(opts)
}

func NewSESSender(client sesAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(msg.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(msg.HTML),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return "", fmt.Errorf("notify: SES send failed: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

var _ EmailSender = (*SESSender)(nil)

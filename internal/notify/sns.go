package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"go.uber.org/zap"
)

type snsPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender sends transactional SMS through Amazon SNS.
type SNSSender struct {
	client snsPublisher
	logger *zap.Logger
}

func NewSNSSender(ctx context.Context, region string, logger *zap.Logger) (*SNSSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SNSSender{client: sns.NewFromConfig(cfg), logger: logger}, nil
}

func (s *SNSSender) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("sns: recipient is required")
	}
	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(msg.To),
		Message:     aws.String(msg.Body),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			// alerts must not be throttled as promotional traffic
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish sns sms: %w", err)
	}
	s.logger.Info("sns sms sent", zap.String("message_id", aws.ToString(out.MessageId)), zap.String("to", maskPhone(msg.To)))
	return nil
}

package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"collateral-pipeline/internal/common/errors"
)

// Publisher is the subset of the SNS client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	publisher Publisher
	topicARN  string
}

// NewSNSNotifier loads the default AWS credential chain for region.
func NewSNSNotifier(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSNotifierWithPublisher(sns.NewFromConfig(cfg), topicARN), nil
}

func NewSNSNotifierWithPublisher(p Publisher, topicARN string) *SNSNotifier {
	return &SNSNotifier{publisher: p, topicARN: topicARN}
}

func (n *SNSNotifier) Notify(ctx context.Context, s Summary) error {
	body, err := json.Marshal(s)
	if err != nil {
		return errors.NewNotificationSendFailedError("sns", err)
	}

	attrs := map[string]types.MessageAttributeValue{
		"status": {DataType: aws.String("String"), StringValue: aws.String(s.Status)},
	}
	if s.ErrorCode != "" {
		attrs["error_code"] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(s.ErrorCode)}
	}

	_, err = n.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn:          aws.String(n.topicARN),
		Subject:           aws.String("Collateral run " + s.Status),
		Message:           aws.String(string(body)),
		MessageAttributes: attrs,
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("sns", err)
	}
	return nil
}

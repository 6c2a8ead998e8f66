// internal/common/aws/sns.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the slice of the SNS client used here; tests substitute it.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client  SNSAPI
	smsType string
}

func NewSNSClient(ctx context.Context, region, smsType string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return NewSNSClientWithAPI(sns.NewFromConfig(cfg), smsType), nil
}

func NewSNSClientWithAPI(api SNSAPI, smsType string) *SNSClient {
	return &SNSClient{client: api, smsType: smsType}
}

// SendSMS publishes body directly to a phone number. from is used as the
// origination number when set.
func (s *SNSClient) SendSMS(ctx context.Context, body, from, to string) (string, error) {
	attrs := map[string]types.MessageAttributeValue{}
	if s.smsType != "" {
		attrs["AWS.SNS.SMS.SMSType"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.smsType),
		}
	}
	if from != "" {
		attrs["AWS.MM.SMS.OriginationNumber"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(from),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(to),
		Message:           aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

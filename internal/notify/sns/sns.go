// Package sns delivers notifications by publishing them to an AWS SNS topic.
package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/GustavoCaso/spendwatch/internal/config"
)

// SNS subjects are limited to 100 characters.
const maxSubjectLength = 100

type publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Channel struct {
	client   publisher
	topicARN string
}

func New(ctx context.Context, conf config.SNSConfig) (*Channel, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := sns.NewFromConfig(awsCfg, func(o *sns.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})
	return &Channel{client: client, topicARN: conf.TopicARN}, nil
}

func (c *Channel) Name() string { return "sns" }

func (c *Channel) Deliver(ctx context.Context, title, body string) error {
	subject := title
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}

	_, err := c.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("publish to %s: %w", c.topicARN, err)
	}
	return nil
}

package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/landsalelk/landsalelk-sub005/internal/model"
)

// Publisher is the part of the SNS client used here
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes new leads to an SNS topic that agents subscribe to
type SNSNotifier struct {
	client   Publisher
	topicARN string
}

// NewSNSNotifier creates a notifier using the default AWS credential chain
func NewSNSNotifier(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSNSNotifierWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

// NewSNSNotifierWithClient creates a notifier around an existing publisher
func NewSNSNotifierWithClient(client Publisher, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// NotifyLead publishes the lead as a plain text message
func (n *SNSNotifier) NotifyLead(ctx context.Context, lead *model.Lead) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(leadSubject(lead)),
		Message:  aws.String(FormatLead(lead)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"lead_id": {DataType: aws.String("String"), StringValue: aws.String(lead.ID)},
		},
	}
	if lead.Location != nil {
		input.MessageAttributes["location"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(*lead.Location),
		}
	}

	if _, err := n.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish lead %s: %w", lead.ID, err)
	}
	return nil
}

// maxSubjectLen is the SNS limit on Subject
const maxSubjectLen = 100

// leadSubject builds an SNS subject: printable ASCII, single line, at most 100 characters.
// Anything else is dropped from the location, which stays intact in the message body.
func leadSubject(lead *model.Lead) string {
	const base = "New buyer lead"
	if lead.Location == nil {
		return base
	}

	location := strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return ' '
		}
		return r
	}, *lead.Location)), " ")
	if location == "" {
		return base
	}

	subject := base + ": " + location
	if len(subject) > maxSubjectLen {
		subject = strings.TrimSpace(subject[:maxSubjectLen-3]) + "..."
	}
	return subject
}

// FormatLead renders a lead for humans
func FormatLead(lead *model.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Lead ID: %s\n", lead.ID)
	writeField(&b, "Name", lead.Name)
	writeField(&b, "Phone", lead.Phone)
	writeField(&b, "Requirements", lead.Requirements)
	writeField(&b, "Location", lead.Location)
	fmt.Fprintf(&b, "Received: %s", lead.CreatedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

func writeField(b *strings.Builder, label string, value *string) {
	if value == nil {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, *value)
}

// NopNotifier is used when no topic is configured
type NopNotifier struct{}

func (NopNotifier) NotifyLead(ctx context.Context, lead *model.Lead) error { return nil }

package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"propintel/internal/config"
	"propintel/internal/domain"
	"propintel/internal/port"
)

type sesNotifier struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	toAddresses []string
}

// NewNotifier creates an SES-backed BatchNotifier that emails a plain-text
// completion summary to the configured recipients.
func NewNotifier(cfg *config.NotifyConfig) (port.BatchNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	return &sesNotifier{
		client:      sesv2.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		toAddresses: cfg.ToAddresses,
	}, nil
}

func (n *sesNotifier) NotifyBatchCompleted(ctx context.Context, job *domain.BatchJob) error {
	if len(n.toAddresses) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Batch %s processed", job.ID)
	textBody := buildSummary(job)
	from := fmt.Sprintf("%s <%s>", n.fromName, n.fromAddress)

	_, err := n.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: n.toAddresses,
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildSummary(job *domain.BatchJob) string {
	failed := 0
	for i := range job.Results {
		if !job.Results[i].Succeeded() {
			failed++
		}
	}
	avg := 0
	primary := "none"
	if job.Fused != nil {
		avg = job.Fused.AverageConfidence
		if job.Fused.PrimarySource != "" {
			primary = job.Fused.PrimarySource
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Batch %s finished with status %s.\n\n", job.ID, job.Status)
	fmt.Fprintf(&b, "Documents: %d\n", job.DocumentCount)
	fmt.Fprintf(&b, "Failed: %d\n", failed)
	fmt.Fprintf(&b, "Average confidence: %d\n", avg)
	fmt.Fprintf(&b, "Primary source: %s\n", primary)
	if job.Error != "" {
		fmt.Fprintf(&b, "\nError: %s\n", job.Error)
	}
	return b.String()
}

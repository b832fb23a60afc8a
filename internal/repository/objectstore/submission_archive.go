// Package objectstore archives contact submissions as JSON objects in an
// S3-compatible bucket.
package objectstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"asperro-contact-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the subset of *s3.Client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type SubmissionArchive struct {
	client ObjectPutter
	bucket string
	prefix string
}

func NewSubmissionArchive(client ObjectPutter, bucket, prefix string) *SubmissionArchive {
	return &SubmissionArchive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

// Save writes one object per submission, keyed by UTC date and ID
func (a *SubmissionArchive) Save(ctx context.Context, s *domain.ArchivedSubmission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}

	key := a.objectKey(s)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"outcome": string(s.Outcome),
		},
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (a *SubmissionArchive) objectKey(s *domain.ArchivedSubmission) string {
	return path.Join(a.prefix, s.CreatedAt.UTC().Format("2006/01/02"), s.ID+".json")
}

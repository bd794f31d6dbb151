package coldstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type S3Exporter struct {
	client *s3.Client
	bucket string
}

func NewS3Exporter(region, accessKey, secretKey, bucket string) *S3Exporter {
	cfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
	}

	return &S3Exporter{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}
}

// Export sobe um JSON por rodada: archive/2025-01-31.json.
// Rodadas repetidas do mesmo dia sobrescrevem o mesmo objeto.
func (e *S3Exporter) Export(
	ctx context.Context,
	runDate time.Time,
	rows []models.ArchivedAppointment,
) error {

	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal archive snapshot: %w", err)
	}

	key := fmt.Sprintf("archive/%s.json", runDate.Format("2006-01-02"))

	_, err = e.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(e.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put archive snapshot %s: %w", key, err)
	}

	return nil
}

var _ Exporter = (*S3Exporter)(nil)

package dbcsource

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/brightwood/dbcdata/pkg/stream"
)

// FromS3 fetches bucket/key in full, using the default credential chain
// (environment, shared config, instance role), and wraps the result as
// an in-memory stream.Source. Table files in this format are small
// enough (the whole point of a bounded, fully-buffered segment chain)
// that streaming a partial read from S3 buys nothing a plain GetObject
// doesn't already give; ReadAt on the returned source never touches the
// network again.
func FromS3(ctx context.Context, bucket, key string) (*stream.ByteSource, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("dbcsource: load AWS config: %w", err)
	}
	return fetchS3(ctx, cfg, bucket, key)
}

// FromS3WithCredentials is FromS3 against a fixed access key pair
// instead of the default credential chain, for S3-compatible endpoints
// (a MinIO cluster hosting reference tables) that don't participate in
// it.
func FromS3WithCredentials(ctx context.Context, bucket, key, accessKeyID, secretAccessKey string) (*stream.ByteSource, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("dbcsource: load AWS config: %w", err)
	}
	return fetchS3(ctx, cfg, bucket, key)
}

func fetchS3(ctx context.Context, cfg aws.Config, bucket, key string) (*stream.ByteSource, error) {
	client := s3.NewFromConfig(cfg)
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("dbcsource: get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("dbcsource: read s3://%s/%s: %w", bucket, key, err)
	}

	return stream.NewByteSource(data), nil
}

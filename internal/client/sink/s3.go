package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophgallery/internal/imagex"
	"github.com/dmitrijs2005/gophgallery/internal/s3x"
)

// PutObjectAPI is the part of *s3.Client S3Sink needs.
type PutObjectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads downloads to Bucket under Prefix.
type S3Sink struct {
	api    PutObjectAPI
	bucket string
	prefix string
}

func NewS3Sink(api PutObjectAPI, bucket, prefix string) *S3Sink {
	return &S3Sink{api: api, bucket: bucket, prefix: prefix}
}

// OpenS3Sink builds the S3 client from c.
func OpenS3Sink(ctx context.Context, c s3x.Config, prefix string) (*S3Sink, error) {
	client, err := s3x.NewClient(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return NewS3Sink(client, c.Bucket, prefix), nil
}

// Save buffers r and stores it as one object; the result is an s3:// URL.
func (s *S3Sink) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	name, err := cleanName(name)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}

	key := s.prefix + name
	_, err = s.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(imagex.DetectMediaType(name, data)),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put %s: %w", key, err)
	}
	return describe(fmt.Sprintf("s3://%s/%s", s.bucket, key), int64(len(data))), nil
}

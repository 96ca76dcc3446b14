package s3

import (
	"bytes"
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OFFIS-RIT/compass/pkg/loader"
)

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3SubmissionLoader is a SubmissionLoader that loads payloads from an S3
// bucket using the AWS SDK v2 for Go. Objects are immutable once uploaded,
// so results are cached by key.
type S3SubmissionLoader struct {
	bucket string
	client ObjectGetter
	cache  *loader.Cache
}

// NewS3SubmissionLoader creates a loader reading from bucket through an
// existing client.
func NewS3SubmissionLoader(bucket string, client ObjectGetter) *S3SubmissionLoader {
	return &S3SubmissionLoader{
		bucket: bucket,
		client: client,
		cache:  loader.NewCache(),
	}
}

// Load retrieves the object stored under key.
func (l *S3SubmissionLoader) Load(ctx context.Context, key string) ([]byte, error) {
	return l.cache.Do(key, func() ([]byte, error) {
		out, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return nil, err
		}
		defer out.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, out.Body); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

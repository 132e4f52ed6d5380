package aws

import (
	"context"
	"errors"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3PresignAPI is the subset of the S3 presign client used for uploads.
type S3PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Presigner issues presigned PUT URLs for menu uploads.
type S3Presigner struct {
	presigner S3PresignAPI
	bucket    string
	expiry    time.Duration
}

func NewS3Presigner(cfg sdkaws.Config, bucket string, expirySeconds int64) *S3Presigner {
	return NewS3PresignerWithClient(s3.NewPresignClient(s3.NewFromConfig(cfg)), bucket, expirySeconds)
}

func NewS3PresignerWithClient(presigner S3PresignAPI, bucket string, expirySeconds int64) *S3Presigner {
	if expirySeconds <= 0 {
		expirySeconds = 900
	}
	return &S3Presigner{
		presigner: presigner,
		bucket:    bucket,
		expiry:    time.Duration(expirySeconds) * time.Second,
	}
}

// PresignPut returns a presigned PUT URL for key, the headers the client must send,
// and the URL lifetime in seconds.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string) (string, map[string]string, int64, error) {
	if p.bucket == "" {
		return "", nil, 0, errors.New("upload bucket not configured")
	}

	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}
	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = p.expiry
	})
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return presigned.URL, headers, int64(p.expiry.Seconds()), nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3-compatible bucket (AWS S3, MinIO, R2).
type S3Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3Store implements [Store] on top of aws-sdk-go-v2.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store loads the AWS configuration and prepares a multipart uploader.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("media: s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := strings.TrimSpace(opts.Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 8 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		bucket:   opts.Bucket,
		baseURL:  strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}, nil
}

// Upload streams body to the bucket and returns the public URL.
func (s *S3Store) Upload(ctx context.Context, key string, kind Kind, body io.Reader) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("media: empty object key")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		input.ContentType = aws.String(contentType)
	} else if kind == KindVideo {
		input.ContentType = aws.String("video/mp4")
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return "", fmt.Errorf("media: s3 upload %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

// Delete removes the object behind ref. Missing objects are not an error in S3.
func (s *S3Store) Delete(ctx context.Context, ref AssetRef) error {
	key := ref.ObjectKey()
	if trimmed, ok := strings.CutPrefix(ref.URL, s.baseURL+"/"); ok && s.baseURL != "" {
		key = trimmed
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: s3 delete %s: %w", key, err)
	}
	return nil
}

// Ping checks that the bucket is reachable. Used by the readiness probe.
func (s *S3Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("media: head bucket %s: %w", s.bucket, err)
	}
	return nil
}

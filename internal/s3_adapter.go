package internal

import (
	"bytes"
	"context"
	"errors"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Adapter struct {
	bucket string
	key    string
}

func (a *S3Adapter) Init(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}

	a.bucket = u.Host
	if len(u.Path) < 2 {
		return errors.New("No key specified")
	}
	a.key = u.Path[1:]

	return nil
}

func (a S3Adapter) Write(ctx context.Context, data []byte) error {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	client := s3.NewFromConfig(cfg)
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(a.key),
		Body:   bytes.NewReader(data),
	})
	return err
}

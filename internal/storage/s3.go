package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nguyentantai21042004/corpus-flow/internal/models"
)

// S3Options selects the bucket. Endpoint switches to path-style addressing for S3-compatible stores.
type S3Options struct {
	Bucket   string
	Region   string
	Endpoint string
}

// s3Storage treats folder ids as key prefixes inside one bucket.
type s3Storage struct {
	client *s3.Client
	bucket string
}

// NewS3 creates an S3 backend using the default AWS credential chain.
func NewS3(ctx context.Context, opts S3Options) (Storage, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Storage{client: client, bucket: opts.Bucket}, nil
}

func (s *s3Storage) ListFiles(ctx context.Context, folderIDs []string, format string) ([]models.File, error) {
	var files []models.File
	for _, prefix := range folderIDs {
		p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
			Bucket: aws.String(s.bucket),
			Prefix: aws.String(prefix),
		})
		for p.HasMorePages() {
			page, err := p.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list s3://%s/%s: %w", s.bucket, prefix, err)
			}
			for _, obj := range page.Contents {
				key := aws.ToString(obj.Key)
				if strings.HasSuffix(key, "/") {
					continue
				}
				base, ext := models.SplitName(path.Base(key))
				if !matchesFormat(ext, format) {
					continue
				}
				files = append(files, models.File{
					ID:        key,
					Name:      base,
					Extension: ext,
					MimeType:  models.MimeType(ext),
					Parents:   []string{path.Dir(key)},
					Size:      aws.ToInt64(obj.Size),
				})
			}
		}
	}
	return files, nil
}

func (s *s3Storage) Download(ctx context.Context, file models.File, w io.Writer) error {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(file.ID),
	})
	if err != nil {
		return fmt.Errorf("get s3://%s/%s: %w", s.bucket, file.ID, err)
	}
	defer out.Body.Close()

	if _, err := io.Copy(w, out.Body); err != nil {
		return fmt.Errorf("read s3://%s/%s: %w", s.bucket, file.ID, err)
	}
	return nil
}

func (s *s3Storage) Upload(ctx context.Context, parentID string, f models.FileToUpload) (string, error) {
	key := path.Join(parentID, uploadName(f))

	var body io.Reader = bytes.NewReader(f.Content)
	if f.Path != "" {
		in, err := os.Open(f.Path)
		if err != nil {
			return "", err
		}
		defer in.Close()
		body = in
	}

	contentType := f.MimeType
	if contentType == "" {
		contentType = models.MimeType(f.Extension)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return key, nil
}

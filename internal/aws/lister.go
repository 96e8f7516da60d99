package aws

import (
	"context"
	"fmt"
	"strings"

	"uploadsim/internal/progress"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/charmbracelet/log"
)

// Lister turns the objects of an S3 bucket into file descriptors. It only
// reads listing metadata, object bodies are never requested.
type Lister struct {
	s3 s3iface.S3API
}

// NewLister initializes a new Lister with AWS credentials. Empty keys fall
// back to the default credential chain.
func NewLister(region, accessKey, secretKey string) (*Lister, error) {
	config := &aws.Config{
		Region: aws.String(region),
	}
	if accessKey != "" && secretKey != "" {
		config.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}
	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return NewListerWithClient(s3.New(sess)), nil
}

func NewListerWithClient(client s3iface.S3API) *Lister {
	return &Lister{s3: client}
}

// ListFiles pages through every object under prefix. Folder placeholder keys
// (ending in "/") are skipped; names are the object keys.
func (l *Lister) ListFiles(ctx context.Context, bucket, prefix string) ([]progress.File, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	var files []progress.File
	err := l.s3.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, obj := range page.Contents {
			key := aws.StringValue(obj.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			files = append(files, progress.File{Name: key, Size: aws.Int64Value(obj.Size)})
		}
		return ctx.Err() == nil && !lastPage
	})
	if err != nil {
		return nil, fmt.Errorf("error listing objects in '%s': %w", bucket, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.FromContext(ctx).Debug("listed bucket", "bucket", bucket, "prefix", prefix, "files", len(files))
	return files, nil
}

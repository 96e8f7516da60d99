package aws

import (
	"context"
	"errors"
	"testing"

	"uploadsim/internal/progress"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	pages [][]*s3.Object
	err   error
	input *s3.ListObjectsV2Input
}

func (f *fakeS3) ListObjectsV2PagesWithContext(_ aws.Context, in *s3.ListObjectsV2Input, fn func(*s3.ListObjectsV2Output, bool) bool, _ ...request.Option) error {
	f.input = in
	if f.err != nil {
		return f.err
	}
	for i, objs := range f.pages {
		if !fn(&s3.ListObjectsV2Output{Contents: objs}, i == len(f.pages)-1) {
			break
		}
	}
	return nil
}

func object(key string, size int64) *s3.Object {
	return &s3.Object{Key: aws.String(key), Size: aws.Int64(size)}
}

func TestListFiles(t *testing.T) {
	client := &fakeS3{pages: [][]*s3.Object{
		{object("uploads/", 0), object("uploads/a.txt", 2048)},
		{object("uploads/b/c.bin", 1536), object("uploads/empty", 0)},
	}}
	l := NewListerWithClient(client)

	files, err := l.ListFiles(context.Background(), "bucket", "uploads/")
	require.NoError(t, err)
	assert.Equal(t, []progress.File{
		{Name: "uploads/a.txt", Size: 2048},
		{Name: "uploads/b/c.bin", Size: 1536},
		{Name: "uploads/empty", Size: 0},
	}, files)
	assert.Equal(t, "bucket", aws.StringValue(client.input.Bucket))
	assert.Equal(t, "uploads/", aws.StringValue(client.input.Prefix))
}

func TestListFilesErrors(t *testing.T) {
	l := NewListerWithClient(&fakeS3{err: errors.New("access denied")})

	_, err := l.ListFiles(context.Background(), "bucket", "")
	assert.ErrorContains(t, err, "access denied")

	_, err = l.ListFiles(context.Background(), "", "")
	assert.Error(t, err)
}

func TestListFilesCancelled(t *testing.T) {
	l := NewListerWithClient(&fakeS3{pages: [][]*s3.Object{{object("a", 1)}, {object("b", 2)}}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := l.ListFiles(ctx, "bucket", "")
	assert.ErrorIs(t, err, context.Canceled)
}

package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adboard/adboard-api/internal/config"
)

// fakeS3 keeps objects in memory and records the content type of each put.
type fakeS3 struct {
	objects      map[string][]byte
	contentTypes map[string]string
	putErr       error
	deleteErr    error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Bucket_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	bucket := NewS3BucketWithClient(fake, "ads")

	require.NoError(t, bucket.Put(ctx, "images/1", "image/png", []byte("png-bytes")))
	assert.Equal(t, "image/png", fake.contentTypes["images/1"])

	data, err := bucket.Get(ctx, "images/1")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, bucket.Delete(ctx, "images/1"))

	_, err = bucket.Get(ctx, "images/1")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Bucket_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("put failure is wrapped", func(t *testing.T) {
		fake := newFakeS3()
		fake.putErr = errors.New("throttled")
		err := NewS3BucketWithClient(fake, "ads").Put(ctx, "k", "image/png", []byte("x"))
		assert.ErrorContains(t, err, "failed to put object k")
		assert.ErrorContains(t, err, "throttled")
	})

	t.Run("generic api not found code maps to ErrObjectNotFound", func(t *testing.T) {
		fake := newFakeS3()
		fake.deleteErr = &smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}
		err := NewS3BucketWithClient(fake, "ads").Delete(ctx, "k")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("other api errors are not not-found", func(t *testing.T) {
		fake := newFakeS3()
		fake.deleteErr = &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"}
		err := NewS3BucketWithClient(fake, "ads").Delete(ctx, "k")
		assert.NotErrorIs(t, err, ErrObjectNotFound)
		assert.ErrorContains(t, err, "failed to delete object k")
	})
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, config.ImagesConfig{Backend: "database"})
	require.NoError(t, err)
	assert.Nil(t, b)

	_, err = Open(ctx, config.ImagesConfig{Backend: "ftp"})
	assert.ErrorContains(t, err, "unknown images backend")

	_, err = Open(ctx, config.ImagesConfig{Backend: "s3"})
	assert.ErrorContains(t, err, "bucket name is required")

	_, err = Open(ctx, config.ImagesConfig{Backend: "gcs"})
	assert.ErrorContains(t, err, "bucket name is required")
}

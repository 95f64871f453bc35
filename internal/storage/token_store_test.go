package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string][]byte
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

var testKey = []byte(strings.Repeat("k", 32))

func TestS3TokenStore_RoundTrip(t *testing.T) {
	objects := newFakeObjects()
	store, err := NewS3TokenStore(objects, "bucket", testKey)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, "user@example.com", "api-token-123"))

	stored := string(objects.objects["bucket/tokens/user@example.com.json"])
	require.NotEmpty(t, stored)
	assert.NotContains(t, stored, "api-token-123")

	token, err := store.GetToken(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, "api-token-123", token)
}

func TestS3TokenStore_NotFound(t *testing.T) {
	store, err := NewS3TokenStore(newFakeObjects(), "bucket", testKey)
	require.NoError(t, err)

	_, err = store.GetToken(context.Background(), "nobody")
	assert.True(t, errors.Is(err, ErrTokenNotFound))
}

func TestS3TokenStore_WrongKey(t *testing.T) {
	objects := newFakeObjects()
	writer, err := NewS3TokenStore(objects, "bucket", testKey)
	require.NoError(t, err)
	require.NoError(t, writer.SetToken(context.Background(), "u", "secret"))

	reader, err := NewS3TokenStore(objects, "bucket", []byte(strings.Repeat("x", 32)))
	require.NoError(t, err)
	_, err = reader.GetToken(context.Background(), "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decrypt token")
}

func TestS3TokenStore_PutError(t *testing.T) {
	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")
	store, err := NewS3TokenStore(objects, "bucket", testKey)
	require.NoError(t, err)

	err = store.SetToken(context.Background(), "u", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNewS3TokenStore_KeyLength(t *testing.T) {
	_, err := NewS3TokenStore(newFakeObjects(), "bucket", []byte("short"))
	assert.Error(t, err)
}

func TestObjectKey_EscapesUsername(t *testing.T) {
	assert.Equal(t, "tokens/a%2Fb.json", objectKey("a/b"))
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()
	ctx := context.Background()

	_, err := store.GetToken(ctx, "u")
	assert.True(t, errors.Is(err, ErrTokenNotFound))

	require.NoError(t, store.SetToken(ctx, "u", "t"))
	token, err := store.GetToken(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, "t", token)
}

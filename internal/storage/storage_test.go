package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const pixelPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.PutObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockS3) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*s3.DeleteObjectOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestDecodeImage(t *testing.T) {
	img, err := DecodeImage("data:image/png;base64," + pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Extension)
	assert.NotEmpty(t, img.Data)

	// bare payload
	img, err = DecodeImage(pixelPNG)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
}

func TestDecodeImageRejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
	}{
		{"empty", "", ErrInvalidImage},
		{"no base64 marker", "data:image/png,abc", ErrInvalidImage},
		{"bad base64", "data:image/png;base64,!!!", ErrInvalidImage},
		{"text payload", "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello world")), ErrNotImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeImage(tt.raw)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestS3StoreSave(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "foodgram" && *in.Key == "recipes/a.png" && *in.ContentType == "image/png"
	})).Return(&s3.PutObjectOutput{}, nil)

	store := NewS3Store(client, "foodgram", "")
	url, err := store.Save(context.Background(), "recipes/a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://foodgram.s3.amazonaws.com/recipes/a.png", url)
	client.AssertExpectations(t)
}

func TestS3StoreCustomEndpointAndDelete(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)
	client.On("DeleteObject", mock.Anything, mock.MatchedBy(func(in *s3.DeleteObjectInput) bool {
		return *in.Key == "users/b.png"
	})).Return(&s3.DeleteObjectOutput{}, nil)

	store := NewS3Store(client, "media", "http://minio:9000/")
	url, err := store.Save(context.Background(), "users/b.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000/media/users/b.png", url)

	require.NoError(t, store.Delete(context.Background(), url))
	// foreign URLs are ignored
	require.NoError(t, store.Delete(context.Background(), "https://elsewhere/x.png"))
	client.AssertNumberOfCalls(t, "DeleteObject", 1)
}

func TestS3StoreBreakerOpens(t *testing.T) {
	client := new(mockS3)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("unavailable"))

	store := NewS3Store(client, "foodgram", "")
	for i := 0; i < 5; i++ {
		_, err := store.Save(context.Background(), "k", []byte("x"), "image/png")
		require.Error(t, err)
	}

	// breaker is open, the client is no longer called
	_, err := store.Save(context.Background(), "k", []byte("x"), "image/png")
	require.Error(t, err)
	client.AssertNumberOfCalls(t, "PutObject", 5)
}

func TestLocalStore(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, "/media")

	url, err := store.Save(context.Background(), "recipes/c.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/c.png", url)

	data, err := os.ReadFile(filepath.Join(root, "recipes", "c.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)

	require.NoError(t, store.Delete(context.Background(), url))
	_, err = os.Stat(filepath.Join(root, "recipes", "c.png"))
	assert.True(t, os.IsNotExist(err))
}

package media

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Uploader_Upload(t *testing.T) {
	client := &fakeS3{}
	u := newS3Uploader(client, "loja-imagens", "https://cdn.loja.example/")

	url, err := u.Upload(context.Background(), "produtos/1/a.png", "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.loja.example/produtos/1/a.png", url)
	assert.Equal(t, "loja-imagens", aws.ToString(client.in.Bucket))
	assert.Equal(t, "image/png", aws.ToString(client.in.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(client.in.ContentLength))
	assert.Equal(t, "png-bytes", client.body)
}

func TestS3Uploader_Error(t *testing.T) {
	u := newS3Uploader(&fakeS3{err: errors.New("access denied")}, "b", "https://x")
	_, err := u.Upload(context.Background(), "k", "image/png", strings.NewReader(""), 0)
	assert.ErrorContains(t, err, "access denied")
}

func TestNewS3Uploader_RequiresBucket(t *testing.T) {
	_, err := NewS3Uploader(context.Background(), "", "sa-east-1", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestProductImageKey(t *testing.T) {
	key := ProductImageKey(42, "Camiseta Azul.JPG")
	assert.Regexp(t, regexp.MustCompile(`^produtos/42/[0-9a-f-]{36}\.jpg$`), key)
}

package objects

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/careerai/internal/domain"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = data
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

var _ domain.ObjectStore = (*Store)(nil)

func TestPutThenGet(t *testing.T) {
	fake := newFakeS3()
	s := &Store{client: fake, bucket: "resumes"}
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "u1/cv.txt", "text/plain", strings.NewReader("Go developer")))
	assert.Equal(t, "text/plain", fake.types["resumes/u1/cv.txt"])

	got, err := s.Get(ctx, "u1/cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "Go developer", string(got))
}

func TestGetMissingKey(t *testing.T) {
	s := &Store{client: newFakeS3(), bucket: "resumes"}
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNewStoreRequiresBucket(t *testing.T) {
	_, err := NewStore(context.Background(), Config{Region: "auto"})
	assert.Error(t, err)
}

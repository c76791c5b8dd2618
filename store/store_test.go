//go:build unit
// +build unit

package store

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *core.Result {
	r := core.NewResult(core.TrainMode)
	r.NChromophores = 2
	r.NStates = 3
	r.OptAverageEnergy = -0.125
	r.OptParams = []float64{0.1, -0.2, 0.3, 0.4, -0.5, 0.6}
	r.Diagonal = []float64{-0.3, 0.05, 0.1}
	r.Spectrum = []float64{-0.31, 0.06, 0.1}
	r.CISEnergies = []float64{-0.3, 0.05, 0.1}
	r.Finish()
	return r
}

// fakeS3 keeps uploaded objects in memory. Single part uploads only.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, errors.New("multipart upload is not supported")
}

func (f *fakeS3) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload is not supported")
}

func (f *fakeS3) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, errors.New("multipart upload is not supported")
}

func (f *fakeS3) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return &s3.AbortMultipartUploadOutput{}, nil
}

func TestStores(t *testing.T) {
	s := NewSetting()
	s.Bucket = "results"
	tests := []struct {
		name  string
		store core.ResultStore
	}{
		{name: "memory", store: NewMemory()},
		{name: "file", store: &File{Dir: filepath.Join(t.TempDir(), "results")}},
		{name: "s3", store: NewS3WithClient(s, newFakeS3())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, tt.store.Setup(&core.Conf{}))
			want := sampleResult()
			require.NoError(t, tt.store.Save(ctx, want))

			got, err := tt.store.Get(ctx, want.ID)
			require.NoError(t, err)
			assert.Equal(t, want.ToString(), got.ToString())

			_, err = tt.store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryKeepsCopies(t *testing.T) {
	m := NewMemory()
	r := sampleResult()
	require.NoError(t, m.Save(context.Background(), r))
	r.OptParams[0] = 99

	got, err := m.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.1, got.OptParams[0])
	got.OptParams[1] = 99

	again, err := m.Get(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, -0.2, again.OptParams[1])
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	core.ResetSetting()
	require.NoError(t, core.ParseSetting("[com.store]\ndir = \""+dir+"\"\n"))
	f := &File{}
	require.NoError(t, f.Setup(&core.Conf{}))
	assert.Equal(t, dir, f.Dir)

	r := sampleResult()
	require.NoError(t, f.Save(context.Background(), r))
	b, err := os.ReadFile(filepath.Join(dir, r.ID+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "\"n-chromophores\": 2")

	_, err = f.Get(context.Background(), "../"+r.ID)
	assert.ErrorContains(t, err, "invalid result id")
}

func TestS3Keys(t *testing.T) {
	fake := newFakeS3()
	s := NewSetting()
	s.Bucket = "bucket"
	s.Prefix = "runs/"
	st := NewS3WithClient(s, fake)
	r := sampleResult()
	require.NoError(t, st.Save(context.Background(), r))
	_, ok := fake.objects["bucket/runs/"+r.ID+".json"]
	assert.True(t, ok)
}

func TestS3SetupNeedsBucket(t *testing.T) {
	core.ResetSetting()
	require.NoError(t, core.ParseSetting(heredoc.Doc(`
		[com.store]
		region = "us-east-1"
	`)))
	assert.ErrorContains(t, (&S3{}).Setup(&core.Conf{}), "needs a bucket")

	core.ResetSetting()
	require.NoError(t, core.ParseSetting(heredoc.Doc(`
		[com.store]
		bucket = "results"
		region = "us-east-1"
		endpoint = "http://127.0.0.1:9000"
		access-key-id = "minio"
		secret-access-key = "minio123"
		use-path-style = true
	`)))
	st := &S3{}
	require.NoError(t, st.Setup(&core.Conf{}))
	assert.Equal(t, "results", st.setting.Bucket)
	assert.True(t, st.setting.UsePathStyle)
	assert.NotNil(t, st.uploader)
}

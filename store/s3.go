package store

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/go-faster/errors"
	"github.com/oqtopus-team/oqtopus-mcvqe/core"
	"go.uber.org/zap"
)

type objectAPI interface {
	manager.UploadAPIClient
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 stores results as objects under <prefix><id>.json.
type S3 struct {
	setting  Setting
	client   objectAPI
	uploader *manager.Uploader
}

func NewS3WithClient(s Setting, client objectAPI) *S3 {
	return &S3{setting: s, client: client, uploader: manager.NewUploader(client)}
}

func (s *S3) Setup(*core.Conf) error {
	if s.client != nil {
		return nil
	}
	st, err := loadSetting()
	if err != nil {
		return err
	}
	if st.Bucket == "" {
		return errors.Errorf("s3 store needs a bucket in [com.%s]", SettingName)
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(st.Region)}
	if st.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(st.AccessKeyID, st.SecretAccessKey, "")))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to load aws config/reason:%s", err))
		return err
	}
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if st.Endpoint != "" {
			o.BaseEndpoint = aws.String(st.Endpoint)
		}
		o.UsePathStyle = st.UsePathStyle
	})
	*s = *NewS3WithClient(st, client)
	zap.L().Debug(fmt.Sprintf("s3 store is ready to use bucket %s", st.Bucket))
	return nil
}

func (s *S3) key(id string) string {
	return s.setting.Prefix + objectName(id)
}

func (s *S3) Save(ctx context.Context, r *core.Result) error {
	b, err := r.MarshalIndent()
	if err != nil {
		return err
	}
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.setting.Bucket),
		Key:         aws.String(s.key(r.ID)),
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to upload %s/reason:%s", r.ID, err))
	}
	return err
}

func (s *S3) Get(ctx context.Context, id string) (*core.Result, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.setting.Bucket),
		Key:    aws.String(s.key(id)),
	})
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return nil, errors.Wrap(ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()
	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	return core.UnmarshalResult(b)
}

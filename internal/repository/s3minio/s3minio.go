package s3minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"boletimCampo/internal/pkg/logger/sl"
)

var ErrObjectNotFound = errors.New("object not found")

type Config struct {
	Enabled     bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Host        string `yaml:"host" env:"S3_HOST" env-default:"localhost"`
	Port        string `yaml:"port" env:"S3_PORT" env-default:"9000"`
	AccessKey   string `yaml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey   string `yaml:"secret_key" env:"S3_SECRET_KEY"`
	UseSSL      bool   `yaml:"use_ssl" env:"S3_USE_SSL" env-default:"false"`
	Bucket      string `yaml:"bucket" env:"S3_BUCKET" env-default:"boletins"`
	TemplateKey string `yaml:"template_key" env:"S3_TEMPLATE_KEY" env-default:"templates/boletim-template.pdf"`
	ArchiveDir  string `yaml:"archive_dir" env:"S3_ARCHIVE_DIR" env-default:"reports"`
}

func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func NewConn(ctx context.Context, config *Config) (*minio.Client, error) {
	client, err := minio.New(
		config.Endpoint(), &minio.Options{
			Creds: credentials.NewStaticV4(
				config.AccessKey,
				config.SecretKey,
				"",
			),
			Secure: config.UseSSL,
		},
	)
	if err != nil {
		return nil, err
	}

	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

type MinioRepository struct {
	log         *slog.Logger
	session     *minio.Client
	bucket      string
	templateKey string
	archiveDir  string
}

func New(log *slog.Logger, sess *minio.Client, config *Config) *MinioRepository {
	return &MinioRepository{
		log:         log,
		session:     sess,
		bucket:      config.Bucket,
		templateKey: config.TemplateKey,
		archiveDir:  config.ArchiveDir,
	}
}

// ConfigureStorage creates the bucket when it does not exist yet.
func (s *MinioRepository) ConfigureStorage(ctx context.Context) error {
	const op = "s3minio.ConfigureStorage"

	log := s.log.With(slog.String("op", op), slog.String("bucket", s.bucket))

	found, err := s.session.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if found {
		log.Debug("bucket found")
		return nil
	}

	if err := s.session.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("bucket created")

	return nil
}

// Template returns the blank report form stored in the bucket.
func (s *MinioRepository) Template(ctx context.Context) ([]byte, error) {
	const op = "s3minio.Template"

	obj, err := s.session.GetObject(ctx, s.bucket, s.templateKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w: %s", op, ErrObjectNotFound, s.templateKey)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return b, nil
}

// UploadTemplate stores the blank form under the configured key.
func (s *MinioRepository) UploadTemplate(ctx context.Context, pdf []byte) error {
	const op = "s3minio.UploadTemplate"

	if err := s.put(ctx, s.templateKey, pdf); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// SaveReport archives a rendered report under <archive_dir>/<owner>/<name>.
func (s *MinioRepository) SaveReport(ctx context.Context, owner, name string, pdf []byte) error {
	const op = "s3minio.SaveReport"

	key := ArchiveKey(s.archiveDir, owner, name)

	log := s.log.With(
		slog.String("op", op),
		slog.String("bucket", s.bucket),
		slog.String("key", key),
	)

	if err := s.put(ctx, key, pdf); err != nil {
		log.Error("failed to archive report", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("report archived", slog.Int("size", len(pdf)))

	return nil
}

func (s *MinioRepository) put(ctx context.Context, key string, object []byte) error {
	_, err := s.session.PutObject(
		ctx,
		s.bucket,
		key,
		bytes.NewReader(object),
		int64(len(object)),
		minio.PutObjectOptions{
			ContentType: "application/pdf",
		},
	)

	return err
}

func ArchiveKey(dir, owner, name string) string {
	return path.Join(dir, owner, path.Base(name))
}

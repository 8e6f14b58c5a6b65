// Package archive writes JSON snapshots of resolved timelines to an
// S3-compatible bucket and hands back a presigned download link.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/microblog/internal/logging"
	"github.com/dmitrijs2005/microblog/internal/timeline"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Config holds the object storage settings.
type Config struct {
	User         string
	Password     string
	Bucket       string
	Region       string
	BaseEndpoint string
	URLExpiry    time.Duration
}

// Snapshot is the archived document.
type Snapshot struct {
	UserID  string                  `json:"userId"`
	TakenAt time.Time               `json:"takenAt"`
	Posts   []timeline.RenderedPost `json:"posts"`
}

type Archiver struct {
	cfg    Config
	logger logging.Logger
	now    func() time.Time
}

func New(cfg Config, logger logging.Logger) *Archiver {
	if cfg.URLExpiry <= 0 {
		cfg.URLExpiry = 15 * time.Minute
	}
	return &Archiver{cfg: cfg, logger: logger.With("module", "archive"), now: time.Now}
}

// StorageKey lays snapshots out by user and day.
func StorageKey(userID string, t time.Time) string {
	return fmt.Sprintf("timelines/%s/%d/%02d/%02d/%v.json", userID, t.Year(), t.Month(), t.Day(), uuid.New())
}

func (a *Archiver) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(a.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			a.cfg.User,
			a.cfg.Password,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(a.cfg.BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Archive uploads a snapshot of posts and returns its key and a presigned
// GET URL valid for Config.URLExpiry.
func (a *Archiver) Archive(ctx context.Context, userID string, posts []timeline.RenderedPost) (string, string, error) {
	now := a.now()
	body, err := json.Marshal(Snapshot{UserID: userID, TakenAt: now.UTC(), Posts: posts})
	if err != nil {
		return "", "", err
	}

	client, err := a.client(ctx)
	if err != nil {
		return "", "", fmt.Errorf("s3 config: %w", err)
	}

	bucket := a.cfg.Bucket
	key := StorageKey(userID, now)
	contentType := "application/json"

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return "", "", fmt.Errorf("uploading %s: %w", key, err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(a.cfg.URLExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presigning %s: %w", key, err)
	}

	a.logger.Info(ctx, "timeline archived", "user_id", userID, "key", key, "posts", len(posts))
	return key, req.URL, nil
}

// Package storage hands out presigned upload URLs for place photos. The API never receives photo
// bytes: clients PUT them straight to the bucket and then store the returned URL on the place.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/crucial707/staybook/internal/apperr"
	"github.com/google/uuid"
)

// PresignExpiry is how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	now = time.Now
)

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/avif": "avif",
}

// ErrUnsupportedContentType is returned for anything that is not an accepted image type.
var ErrUnsupportedContentType = apperr.Validation(map[string]string{
	"content_type": "must be one of image/jpeg, image/png, image/webp, image/gif, image/avif",
})

// Config locates the bucket. BaseEndpoint is set for S3-compatible stores such as MinIO;
// PublicURL overrides the URL prefix under which uploaded objects are served.
type Config struct {
	Bucket       string
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	PublicURL    string
}

// PhotoUpload describes one presigned upload.
type PhotoUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PhotoPresigner signs PUT requests for new photo objects.
type PhotoPresigner struct {
	cfg    Config
	client *s3.PresignClient
}

// NewPhotoPresigner builds the S3 client. Static credentials are used when both keys are set;
// otherwise the default AWS credential chain applies.
func NewPhotoPresigner(ctx context.Context, cfg Config) (*PhotoPresigner, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &PhotoPresigner{cfg: cfg, client: newS3PresignClient(client)}, nil
}

// PresignPhotoUpload returns a URL the caller can PUT one image of contentType to.
func (p *PhotoPresigner) PresignPhotoUpload(ctx context.Context, contentType string) (*PhotoUpload, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, ErrUnsupportedContentType
	}

	issued := now().UTC()
	key := photoKey(issued, ext)
	req, err := presignPutObject(p.client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &PhotoUpload{
		Key:       key,
		UploadURL: req.URL,
		URL:       p.publicURL(key),
		ExpiresAt: issued.Add(PresignExpiry),
	}, nil
}

func (p *PhotoPresigner) publicURL(key string) string {
	if p.cfg.PublicURL != "" {
		return strings.TrimRight(p.cfg.PublicURL, "/") + "/" + key
	}
	if p.cfg.BaseEndpoint != "" {
		return strings.TrimRight(p.cfg.BaseEndpoint, "/") + "/" + p.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}

func photoKey(t time.Time, ext string) string {
	return fmt.Sprintf("places/%04d/%02d/%02d/%s.%s", t.Year(), int(t.Month()), t.Day(), uuid.NewString(), ext)
}

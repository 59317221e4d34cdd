package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/adithya/trackfolio/internal/common"
	"github.com/adithya/trackfolio/internal/server/auth"
	"github.com/adithya/trackfolio/internal/server/config"
	"github.com/adithya/trackfolio/internal/server/models"
	"github.com/adithya/trackfolio/internal/server/repositories/repomanager"
)

// Seams for tests: the AWS client constructors and calls are package vars so
// service tests can stub object storage without a network.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// GetRandomStorageKey returns a date-bucketed unique object key for an
// archived PDF.
func GetRandomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// JDService handles uploaded job-description PDFs: text extraction, the
// one-row-per-drive jd_details upsert, and archiving the original file to
// object storage. Archiving is skipped entirely when no S3 endpoint is
// configured.
type JDService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	driveSvc    *DriveService
	config      *config.Config
}

// NewJDService constructs a JDService.
func NewJDService(db *sql.DB, m repomanager.RepositoryManager, driveSvc *DriveService, cfg *config.Config) *JDService {
	return &JDService{db: db, repomanager: m, driveSvc: driveSvc, config: cfg}
}

// Upload extracts the text of a PDF, stores it against the drive (replacing
// any previous text), archives the original to object storage when
// configured, and returns the extracted text.
func (s *JDService) Upload(ctx context.Context, driveID int64, r io.Reader) (string, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return "", err
	}
	if _, err := s.driveSvc.ownedDrive(ctx, s.db, principal, driveID); err != nil {
		return "", err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("error reading upload: %w", err)
	}

	text, err := extractPDFText(data)
	if err != nil {
		return "", fmt.Errorf("error extracting pdf text: %w", err)
	}

	storageKey := ""
	if s.archiveEnabled() {
		storageKey = GetRandomStorageKey()
		if err := s.archive(ctx, storageKey, data); err != nil {
			return "", fmt.Errorf("error archiving pdf: %w", err)
		}
	}

	jd := &models.JD{DriveID: driveID, Text: text, StorageKey: storageKey}
	if err := s.repomanager.JDs(s.db).Upsert(ctx, jd); err != nil {
		return "", fmt.Errorf("error saving jd: %w", err)
	}
	return text, nil
}

// Get returns the stored JD for a drive. A drive with no uploaded JD yields
// common.ErrorNotFound.
func (s *JDService) Get(ctx context.Context, driveID int64) (*models.JD, error) {
	principal, err := auth.CurrentPrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.driveSvc.ownedDrive(ctx, s.db, principal, driveID); err != nil {
		return nil, err
	}
	return s.repomanager.JDs(s.db).GetByDrive(ctx, driveID)
}

// DownloadURL returns a short-lived presigned GET URL for the archived PDF.
func (s *JDService) DownloadURL(ctx context.Context, driveID int64) (string, error) {
	jd, err := s.Get(ctx, driveID)
	if err != nil {
		return "", err
	}
	if jd.StorageKey == "" {
		return "", common.ErrorNotFound
	}

	client, err := s.s3Client(ctx)
	if err != nil {
		return "", err
	}
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.config.S3Bucket),
		Key:    aws.String(jd.StorageKey),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return req.URL, nil
}

func (s *JDService) archiveEnabled() bool {
	return s.config.S3BaseEndpoint != "" && s.config.S3Bucket != ""
}

func (s *JDService) archive(ctx context.Context, key string, data []byte) error {
	client, err := s.s3Client(ctx)
	if err != nil {
		return err
	}
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
	})
	return err
}

func (s *JDService) s3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}
	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	if buf.Len() == 0 {
		return "", errors.New("pdf contains no extractable text")
	}
	return buf.String(), nil
}

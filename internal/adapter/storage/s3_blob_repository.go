package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
)

const (
	uploadURLExpiry   = 10 * time.Minute
	downloadURLExpiry = 15 * time.Minute
)

type s3BlobRepository struct {
	s3Client      *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
	logger        *zap.Logger
}

// NewS3BlobRepository creates a blob repository backed by an S3 bucket.
// Objects are addressed by storage ID under the "files/" prefix.
func NewS3BlobRepository(s3Client *s3.Client, bucketName string, logger *zap.Logger) repository.BlobRepository {
	return &s3BlobRepository{
		s3Client:      s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    bucketName,
		logger:        logger,
	}
}

func (r *s3BlobRepository) objectKey(storageID string) string {
	return fmt.Sprintf("files/%s", storageID)
}

func (r *s3BlobRepository) GenerateUploadURL(ctx context.Context, storageID, contentType string) (string, error) {
	putInput := &s3.PutObjectInput{
		Bucket:      aws.String(r.bucketName),
		Key:         aws.String(r.objectKey(storageID)),
		ContentType: aws.String(contentType),
	}

	presignResult, err := r.presignClient.PresignPutObject(ctx, putInput, s3.WithPresignExpires(uploadURLExpiry))
	if err != nil {
		r.logger.Error("Failed to presign upload URL",
			zap.String("storage_id", storageID),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return presignResult.URL, nil
}

func (r *s3BlobRepository) GetURL(ctx context.Context, storageID string) (string, error) {
	getInput := &s3.GetObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(r.objectKey(storageID)),
	}

	presignResult, err := r.presignClient.PresignGetObject(ctx, getInput, s3.WithPresignExpires(downloadURLExpiry))
	if err != nil {
		r.logger.Error("Failed to presign download URL",
			zap.String("storage_id", storageID),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return presignResult.URL, nil
}

func (r *s3BlobRepository) Delete(ctx context.Context, storageID string) error {
	deleteInput := &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucketName),
		Key:    aws.String(r.objectKey(storageID)),
	}

	if _, err := r.s3Client.DeleteObject(ctx, deleteInput); err != nil {
		r.logger.Error("Failed to delete object from s3",
			zap.String("storage_id", storageID),
			zap.Error(err))
		return fmt.Errorf("failed to delete file from s3: %w", err)
	}

	return nil
}

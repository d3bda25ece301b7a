package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"account-api/internal/domain"
	"account-api/internal/store"
)

// Store persists the account collection as a single JSON object in
// Amazon S3 (or compatible APIs). A missing object reads as an empty
// collection.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	key      string
}

func New(client *s3.Client, bucket, key string) *Store {
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
		key:      key,
	}
}

func (s *Store) Load(ctx context.Context) ([]domain.User, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("get object %s: %w", s.key, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", s.key, err)
	}

	users, err := store.DecodeUsers(b)
	if err != nil {
		return nil, fmt.Errorf("load object %s: %w", s.key, err)
	}
	return users, nil
}

func (s *Store) Save(ctx context.Context, users []domain.User) error {
	b, err := store.EncodeUsers(users)
	if err != nil {
		return err
	}

	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(b),
		ACL:         types.ObjectCannedACLPrivate,
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", s.key, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)

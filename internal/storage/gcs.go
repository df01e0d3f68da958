package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Jon-Makkonahi/YATUBE/internal/util"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	client     *storage.Client
	projectID  string
	bucketName string
}

func NewGCSStorage(projectID, bucketName, credentialsFile string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client:     client,
		projectID:  projectID,
		bucketName: bucketName,
	}, nil
}

func (c *GCSStorage) Save(ctx context.Context, file *multipart.FileHeader, key string) (string, error) {
	contentType, err := DetectContentType(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	writer := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err = io.Copy(writer, src); err != nil {
		writer.Close()
		return "", err
	}
	// Close 才真正提交对象
	if err := writer.Close(); err != nil {
		util.Logger.Error("上传图片到GCS失败", zap.Error(err), zap.String("project", c.projectID), zap.String("key", key))
		return "", err
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key), nil
}

func (c *GCSStorage) Delete(ctx context.Context, key string) error {
	err := c.client.Bucket(c.bucketName).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		util.Logger.Error("删除GCS图片失败", zap.Error(err), zap.String("key", key))
		return err
	}
	return nil
}

package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/Jon-Makkonahi/YATUBE/config"
	"github.com/Jon-Makkonahi/YATUBE/internal/util"
)

// ImageDir 帖子图片的存放目录
const ImageDir = "posts"

// Storage 图片存储，Save 返回的字符串写入 Post.Image
type Storage interface {
	Save(ctx context.Context, file *multipart.FileHeader, key string) (string, error)
	// Delete 删除 key 对应的对象，对象不存在时不报错
	Delete(ctx context.Context, key string) error
}

// New 根据配置选择存储驱动
func New(cfg config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "s3":
		return NewS3Storage(cfg.S3Region, cfg.S3Bucket)
	case "gcs":
		return NewGCSStorage(cfg.GCSProjectID, cfg.GCSBucketName, cfg.GCSCredentialsFile)
	case "local", "":
		return NewLocalStorage(cfg.LocalStoragePath)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.StorageDriver)
	}
}

// ImageKey 为上传的图片生成存储路径 posts/<uuid>_<name>
func ImageKey(file *multipart.FileHeader) string {
	return path.Join(ImageDir, util.GenerateUniqueFilename(file.Filename))
}

// DetectContentType 读取文件头判断真实类型
func DetectContentType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && n == 0 {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

// IsImage 文件内容是否为图片
func IsImage(file *multipart.FileHeader) bool {
	contentType, err := DetectContentType(file)
	if err != nil {
		return false
	}
	return strings.HasPrefix(contentType, "image/")
}

package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"hkexpatjobs/internal/config"
)

// Client 封装 MinIO 客户端，存放简历、头像与公司 Logo。
type Client struct {
	client     *minio.Client
	bucketName string
}

// Object 是一个可流式读取的对象及其元数据，调用方负责 Close。
type Object struct {
	io.ReadCloser
	Size         int64
	ContentType  string
	LastModified time.Time
}

// NewClient 根据配置初始化 MinIO 客户端，并确保目标 Bucket 存在。
func NewClient(cfg config.MinIOConfig) (*Client, error) {
	bucketLookup := minio.BucketLookupAuto
	switch strings.ToLower(strings.TrimSpace(cfg.BucketLookup)) {
	case "", "auto":
		bucketLookup = minio.BucketLookupAuto
	case "dns":
		bucketLookup = minio.BucketLookupDNS
	case "path":
		bucketLookup = minio.BucketLookupPath
	default:
		return nil, fmt.Errorf("invalid minio bucket lookup %q", cfg.BucketLookup)
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: bucketLookup,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if !cfg.AutoCreateBucket {
			return nil, fmt.Errorf("bucket %q does not exist (auto create disabled)", cfg.Bucket)
		}
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("make bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Client{client: client, bucketName: cfg.Bucket}, nil
}

// UploadFile 将对象上传到 Bucket。
func (c *Client) UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error {
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := c.client.PutObject(ctx, c.bucketName, objectName, reader, size, opts); err != nil {
		return fmt.Errorf("put object %q: %w", objectName, err)
	}
	return nil
}

// OpenObject 读取对象；对象不存在时返回的错误满足 IsNoSuchKey。
func (c *Client) OpenObject(ctx context.Context, objectName string) (*Object, error) {
	obj, err := c.client.GetObject(ctx, c.bucketName, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", objectName, err)
	}
	// GetObject 是惰性的，Stat 才会真正发起请求。
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("stat object %q: %w", objectName, err)
	}
	return &Object{
		ReadCloser:   obj,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// DeleteObject 删除指定对象。
// 若对象不存在会被视为成功（幂等）。
func (c *Client) DeleteObject(ctx context.Context, objectName string) error {
	objectName = strings.TrimSpace(objectName)
	if objectName == "" {
		return nil
	}
	if err := c.client.RemoveObject(ctx, c.bucketName, objectName, minio.RemoveObjectOptions{}); err != nil {
		if IsNoSuchKey(err) {
			return nil
		}
		return fmt.Errorf("remove object %q: %w", objectName, err)
	}
	return nil
}

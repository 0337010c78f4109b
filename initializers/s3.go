package initializers

import (
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"staff-tools-backend/config"
	s3client "staff-tools-backend/s3"
)

func InitS3() {
	minioClient, err := minio.New(config.Conf.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV2(config.Conf.S3.AccessKeyID, config.Conf.S3.SecretAccessKey, ""),
		Secure: *config.Conf.S3.UseSSL,
	})
	if err != nil {
		log.WithError(err).Error("s3 client initialization failed")
		return
	}

	_, err = minioClient.ListBuckets(context.Background())
	if err != nil {
		log.WithError(err).Error("s3 connection check failed")
	}

	s3client.Client = minioClient

	client := s3client.NewClient(minioClient)
	if err := client.MakeBucket(context.Background()); err != nil {
		log.WithError(err).Error("s3 bucket provisioning failed")
	}
	log.Info("s3 client initialized")
}

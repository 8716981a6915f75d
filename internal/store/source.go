package store

import (
	"context"

	"github.com/pageza/seasonal-recipes/backend/config"
)

// LoadSource loads recipes from a local path or an s3://bucket/key URI
func LoadSource(ctx context.Context, source, region string) (*Store, error) {
	if !config.IsS3Source(source) {
		return Load(source)
	}

	s3cfg, err := config.NewS3Config(ctx, source, region)
	if err != nil {
		return nil, err
	}
	return LoadFromS3(ctx, s3cfg.Client, s3cfg.Bucket, s3cfg.Key)
}

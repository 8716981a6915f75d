package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/seasonal-recipes/backend/internal/model"
)

// ObjectGetter is the subset of the S3 client used to fetch the data file
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store is the read-only recipe collection. It is built once at startup and shared
// by reference; nothing mutates it afterwards, so no locking is needed.
type Store struct {
	recipes []model.Recipe
}

// New builds a store from recipes, applying load-time defaults
func New(recipes []model.Recipe) *Store {
	out := make([]model.Recipe, len(recipes))
	for i, r := range recipes {
		if r.Season == "" {
			r.Season = model.AllSeasons
		}
		out[i] = r
	}
	return &Store{recipes: out}
}

// Empty returns a store with no recipes
func Empty() *Store {
	return &Store{}
}

// FromReader decodes a JSON array of recipes
func FromReader(r io.Reader) (*Store, error) {
	var recipes []model.Recipe
	if err := json.NewDecoder(r).Decode(&recipes); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}
	return New(recipes), nil
}

// Load reads the recipe data file at path
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe file: %w", err)
	}
	defer f.Close()

	return FromReader(f)
}

// LoadFromS3 reads the recipe data file from an S3 object
func LoadFromS3(ctx context.Context, client ObjectGetter, bucket, key string) (*Store, error) {
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	return FromReader(out.Body)
}

// OrEmpty turns a load failure into an empty store. A broken data file degrades
// recommendations and search to empty results instead of stopping the process.
func OrEmpty(s *Store, err error) *Store {
	if err != nil {
		slog.Warn("recipe data unavailable, serving empty store", "error", err)
		return Empty()
	}
	return s
}

// All returns a copy of every recipe in load order
func (s *Store) All() []model.Recipe {
	out := make([]model.Recipe, len(s.recipes))
	copy(out, s.recipes)
	return out
}

// Count returns the number of loaded recipes
func (s *Store) Count() int {
	return len(s.recipes)
}

// CountByCategory returns the number of recipes in a diet category
func (s *Store) CountByCategory(category string) int {
	n := 0
	for _, r := range s.recipes {
		if r.Category == category {
			n++
		}
	}
	return n
}

// Filter returns the recipes accepted by keep, preserving load order
func (s *Store) Filter(keep func(model.Recipe) bool) []model.Recipe {
	var out []model.Recipe
	for _, r := range s.recipes {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// List returns one page of recipes, optionally restricted to a category, and the
// total number of recipes in that selection.
func (s *Store) List(category string, page, perPage int) ([]model.Recipe, int) {
	selected := s.recipes
	if category != "" {
		selected = s.Filter(func(r model.Recipe) bool { return r.Category == category })
	}

	total := len(selected)
	if page < 1 || perPage < 1 || page-1 >= total/perPage+1 {
		return []model.Recipe{}, total
	}
	start := (page - 1) * perPage
	if start >= total {
		return []model.Recipe{}, total
	}
	end := min(start+perPage, total)

	out := make([]model.Recipe, end-start)
	copy(out, selected[start:end])
	return out, total
}

// Package corpus loads the classified-recipes corpus (spec §6.3): a
// single JSON document mapping recipe_id to its classification, read once
// at process start from either a local path or an s3:// URI.
package corpus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/flavorgraph/sous-chef/internal/domain/recipe"
	"go.uber.org/zap"
)

// entry is the wire shape of one classified recipe in the corpus file.
type entry struct {
	Title        string   `json:"title"`
	Collection   string   `json:"collection"`
	Confidence   float64  `json:"confidence"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
}

// Loader implements outbound.ClassifiedRecipeStore against a path that is
// either a local filesystem path or an s3://bucket/key URI.
type Loader struct {
	path   string
	logger *zap.Logger
}

// NewLoader constructs a Loader for path.
func NewLoader(path string, logger *zap.Logger) *Loader {
	return &Loader{path: path, logger: logger.Named("corpus-loader")}
}

// Load reads and parses the corpus document, returning one recipe.Recipe
// per entry. Summary is left empty — the classified-recipes file does not
// carry the vector store's ingestion-time summary, only the raw
// ingredients/instructions C7 and metadata attachment need (spec §6.3).
// Failure to load is a startup error, per spec §6.3.
func (l *Loader) Load(ctx context.Context) ([]*recipe.Recipe, error) {
	raw, err := l.read(ctx)
	if err != nil {
		return nil, fmt.Errorf("load classified recipes from %s: %w", l.path, err)
	}

	var entries map[string]entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("parse classified recipes from %s: %w", l.path, err)
	}

	recipes := make([]*recipe.Recipe, 0, len(entries))
	for id, e := range entries {
		r, err := recipe.New(id, e.Title, e.Collection, "", e.Ingredients, e.Instructions, e.Confidence)
		if err != nil {
			l.logger.Warn("skipping malformed classified recipe entry", zap.String("recipe_id", id), zap.Error(err))
			continue
		}
		recipes = append(recipes, r)
	}

	l.logger.Info("classified recipes loaded", zap.Int("count", len(recipes)), zap.String("path", l.path))
	return recipes, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, error) {
	if strings.HasPrefix(l.path, "s3://") {
		return l.readS3(ctx)
	}
	return os.ReadFile(l.path)
}

func (l *Loader) readS3(ctx context.Context) ([]byte, error) {
	bucket, key, err := parseS3URI(l.path)
	if err != nil {
		return nil, err
	}

	sess, err := session.NewSession(&aws.Config{})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	out, err := s3.New(sess).GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func parseS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid s3 uri: %s", uri)
	}
	return parts[0], parts[1], nil
}

// ToMap indexes recipes by ID for C6/C8 metadata lookup.
func ToMap(recipes []*recipe.Recipe) map[string]*recipe.Recipe {
	out := make(map[string]*recipe.Recipe, len(recipes))
	for _, r := range recipes {
		out[r.ID()] = r
	}
	return out
}

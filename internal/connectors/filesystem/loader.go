package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/throughnateseyes/playbook/internal/core/domain"
	"github.com/throughnateseyes/playbook/internal/core/ports/driven"
	"github.com/throughnateseyes/playbook/internal/logger"
)

// DefaultPattern selects SOP files below the root.
const DefaultPattern = "**/*.json"

// maxConcurrentReads bounds parallel file reads during a load.
const maxConcurrentReads = 8

const jsonMIMEType = "application/json"

// Loader reads and normalises SOP files below a root path.
// The root may also be a single file.
type Loader struct {
	root       string
	pattern    string
	normaliser driven.Normaliser
}

// NewLoader creates a loader for root using DefaultPattern.
func NewLoader(root string, normaliser driven.Normaliser) *Loader {
	return &Loader{
		root:       root,
		pattern:    DefaultPattern,
		normaliser: normaliser,
	}
}

// Root returns the configured root path.
func (l *Loader) Root() string {
	return l.root
}

// LoadResult is the outcome of a Load.
type LoadResult struct {
	// SOPs holds every normalised SOP in file order.
	SOPs []domain.SOP

	// Files is the number of files read successfully.
	Files int

	// Skipped lists files that could not be read or decoded.
	Skipped []string
}

// Files returns matching file paths in lexical order.
func (l *Loader) Files() ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}
	if !info.IsDir() {
		return []string{l.root}, nil
	}

	matches, err := doublestar.Glob(os.DirFS(l.root), l.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing %s: %w", l.pattern, err)
	}
	sort.Strings(matches)

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(l.root, filepath.FromSlash(m)))
	}
	return paths, nil
}

// Matches reports whether path falls under the root and the pattern.
func (l *Loader) Matches(path string) bool {
	rel, err := filepath.Rel(l.root, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(l.pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Read loads one file into a raw document and fingerprints its content.
func (l *Loader) Read(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &domain.RawDocument{
		URI:      FileURI(path),
		MIMEType: jsonMIMEType,
		Content:  content,
		Hash:     xxhash.Sum64(content),
	}, nil
}

// Decode normalises a raw document into SOPs.
func (l *Loader) Decode(ctx context.Context, raw *domain.RawDocument) ([]domain.SOP, error) {
	result, err := l.normaliser.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}
	return result.SOPs, nil
}

// Load reads every matching file concurrently. Files that fail to read or
// decode are logged and skipped; only a bad root is an error.
func (l *Loader) Load(ctx context.Context) (*LoadResult, error) {
	logger.Section("Load SOP Files")

	paths, err := l.Files()
	if err != nil {
		return nil, err
	}
	logger.Debug("Found %d files under %s", len(paths), l.root)

	perFile := make([][]domain.SOP, len(paths))
	failed := make([]bool, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReads)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			raw, err := l.Read(path)
			if err == nil {
				perFile[i], err = l.Decode(gctx, raw)
			}
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return err
				}
				logger.Warn("Skipping %s: %v", path, err)
				failed[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadResult{SOPs: []domain.SOP{}}
	for i, sops := range perFile {
		if failed[i] {
			result.Skipped = append(result.Skipped, paths[i])
			continue
		}
		result.Files++
		result.SOPs = append(result.SOPs, sops...)
	}

	logger.Debug("Loaded %d SOPs from %d files (%d skipped)", len(result.SOPs), result.Files, len(result.Skipped))
	return result, nil
}

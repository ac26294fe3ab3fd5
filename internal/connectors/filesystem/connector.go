// Package filesystem discovers documents in a local directory and watches
// it for changes.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fsnotify/fsnotify"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/logger"
)

// IgnoreFile lists gitignore-style patterns excluded from a directory.
const IgnoreFile = ".docqaignore"

// ChangeType classifies a watched file event.
type ChangeType string

// Change types.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// Change is one relevant file event.
type Change struct {
	Type ChangeType
	Path string
}

// Connector finds supported documents under a root directory.
type Connector struct {
	root    string
	formats []domain.Format
	ignore  *gitignore.GitIgnore

	watcher *fsnotify.Watcher
}

// New creates a connector for root accepting the given formats.
// An empty format list accepts every format docqa can extract.
func New(root string, formats []domain.Format) *Connector {
	if len(formats) == 0 {
		formats = domain.AllFormats()
	}
	c := &Connector{root: root, formats: formats}
	c.ignore = loadIgnore(filepath.Join(root, IgnoreFile))
	return c
}

// Root returns the directory being read.
func (c *Connector) Root() string {
	return c.root
}

// Validate checks that root exists and is a directory.
func (c *Connector) Validate() error {
	info, err := os.Stat(c.root)
	if err != nil {
		return fmt.Errorf("stat %s: %w", c.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory: %w", c.root, domain.ErrInvalidInput)
	}
	return nil
}

// Scan walks root and sends the path of every accepted file. Both channels
// are closed when the walk ends.
func (c *Connector) Scan(ctx context.Context) (<-chan string, <-chan error) {
	paths := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(paths)
		defer close(errs)

		err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Warn("skipping %s: %v", path, err)
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if path == c.root {
				return nil
			}
			if d.IsDir() {
				if isHidden(d.Name()) || c.ignored(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if !c.Accepts(path) {
				return nil
			}

			select {
			case paths <- path:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			errs <- fmt.Errorf("walk %s: %w", c.root, err)
		}
	}()

	return paths, errs
}

// Watch reports created, updated and deleted accepted files under root and
// its existing subdirectories until ctx is cancelled.
func (c *Connector) Watch(ctx context.Context) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	c.watcher = watcher

	err = filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != c.root && (isHidden(d.Name()) || c.ignored(path)) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.root, err)
	}

	changes := make(chan Change)
	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops watching.
func (c *Connector) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}

// Load reads path into an upload.
func (c *Connector) Load(path string) (*domain.Upload, error) {
	return LoadUpload(path)
}

// Accepts reports whether path has a supported extension and is neither
// hidden nor ignored.
func (c *Connector) Accepts(path string) bool {
	if isHidden(c.relative(path)) || c.ignored(path) {
		return false
	}
	return slices.Contains(c.formats, domain.FormatFromFilename(path))
}

// handleFsEvent converts an fsnotify event into a change, or nil when the
// event is irrelevant.
func (c *Connector) handleFsEvent(event fsnotify.Event) *Change {
	path := event.Name
	if !c.Accepts(path) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Type: ChangeDeleted, Path: path}
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Type: ChangeCreated, Path: path}
	case event.Has(fsnotify.Write):
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return nil
		}
		return &Change{Type: ChangeUpdated, Path: path}
	default:
		return nil
	}
}

func (c *Connector) ignored(path string) bool {
	if c.ignore == nil {
		return false
	}
	return c.ignore.MatchesPath(c.relative(path))
}

// relative returns path relative to root with forward slashes.
func (c *Connector) relative(path string) string {
	rel, err := filepath.Rel(c.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// LoadUpload reads a file into an upload with its format derived from the name.
func LoadUpload(path string) (*domain.Upload, error) {
	path = ResolvePath(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.Upload{
		Filename: filepath.Base(path),
		Format:   domain.FormatFromFilename(path),
		Content:  content,
	}, nil
}

func loadIgnore(path string) *gitignore.GitIgnore {
	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("ignoring %s: %v", path, err)
		}
		return nil
	}
	return matcher
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == filepath.Separator }) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

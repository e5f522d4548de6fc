// Package loader turns a corpus folder into Documents.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/hyperjump/veritas/internal/extract"
	"github.com/hyperjump/veritas/internal/fileid"
	"github.com/hyperjump/veritas/internal/models"
	"go.uber.org/zap"
)

// LoadError records a file that matched an extension but could not be parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the output of one folder load. Failures never abort the load.
type Result struct {
	Documents []*models.Document
	Failures  []*LoadError
	Skipped   int
}

// Loader enumerates a folder and dispatches each recognized file to the extractor.
type Loader struct {
	extractor  *extract.Extractor
	extensions []string
	recursive  bool
	logger     *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets a logger for skipped and failed files.
func WithLogger(l *zap.Logger) LoaderOption {
	return func(ld *Loader) { ld.logger = l }
}

// WithRecursive makes the loader descend into subfolders.
func WithRecursive(recursive bool) LoaderOption {
	return func(ld *Loader) { ld.recursive = recursive }
}

// WithExtensions overrides the recognized extensions (default .txt and .pdf).
func WithExtensions(exts []string) LoaderOption {
	return func(ld *Loader) { ld.extensions = exts }
}

// NewLoader creates a loader. extractor may be nil to use the default extractor.
func NewLoader(extractor *extract.Extractor, opts ...LoaderOption) *Loader {
	if extractor == nil {
		extractor = extract.NewExtractor()
	}
	ld := &Loader{
		extractor:  extractor,
		extensions: []string{".txt", ".pdf"},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	if ld.logger == nil {
		ld.logger = zap.NewNop()
	}
	return ld
}

// Load reads every recognized file in folder, in lexical order.
// A folder that does not exist is an empty corpus. A path that is not a folder is an error.
func (ld *Loader) Load(folder string) (*Result, error) {
	res := &Result{}
	info, err := os.Stat(folder)
	if errors.Is(err, fs.ErrNotExist) {
		ld.logger.Warn("corpus folder does not exist; starting with an empty corpus", zap.String("folder", folder))
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat corpus folder: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path is not a folder: %s", folder)
	}

	paths, walkFailures, err := ld.enumerate(folder)
	if err != nil {
		return nil, err
	}
	res.Failures = append(res.Failures, walkFailures...)
	for _, path := range paths {
		if !extensionAllowed(filepath.Ext(path), ld.extensions) {
			res.Skipped++
			ld.logger.Debug("loader skipping unrecognized file", zap.String("path", path))
			continue
		}
		docs, err := ld.loadFile(path)
		if err != nil {
			loadErr := &LoadError{Path: path, Err: err}
			res.Failures = append(res.Failures, loadErr)
			ld.logger.Warn("failed to load file", zap.String("path", path), zap.Error(err))
			continue
		}
		res.Documents = append(res.Documents, docs...)
		ld.logger.Debug("loader file loaded", zap.String("path", path), zap.Int("documents", len(docs)))
	}
	return res, nil
}

// enumerate returns regular files under folder in lexical order. In recursive
// mode an unreadable subfolder is reported as a failure and skipped.
func (ld *Loader) enumerate(folder string) ([]string, []*LoadError, error) {
	if !ld.recursive {
		entries, err := os.ReadDir(folder)
		if err != nil {
			return nil, nil, fmt.Errorf("read corpus folder: %w", err)
		}
		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			paths = append(paths, filepath.Join(folder, e.Name()))
		}
		return paths, nil, nil
	}
	var (
		paths    []string
		failures []*LoadError
	)
	err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == folder {
				return walkErr
			}
			failures = append(failures, &LoadError{Path: path, Err: walkErr})
			ld.logger.Warn("failed to read corpus path", zap.String("path", path), zap.Error(walkErr))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk corpus folder: %w", err)
	}
	sort.Strings(paths)
	return paths, failures, nil
}

func (ld *Loader) loadFile(path string) ([]*models.Document, error) {
	pages, err := ld.extractor.Extract(path)
	if err != nil {
		return nil, err
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	docs := make([]*models.Document, 0, len(pages))
	for _, p := range pages {
		meta := map[string]string{
			models.MetaSource: path,
			models.MetaFormat: format,
		}
		switch format {
		case "pdf":
			meta[models.MetaPage] = strconv.Itoa(p.Number)
		case "xlsx":
			meta[models.MetaSheet] = p.Label
		}
		docs = append(docs, &models.Document{
			ID:       fileid.PartDocID(path, p.Number),
			Text:     p.Text,
			Metadata: meta,
		})
	}
	return docs, nil
}

func extensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

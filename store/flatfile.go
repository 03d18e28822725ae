package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corvan/pixwall/models"
)

var _ Store = (*FlatFile)(nil)

// FlatFile keeps the whole gallery in a single directory: one `<id>.md`
// document per record plus the three binaries it references, all siblings.
// The directory is the only shared mutable resource; there is no lock file
// and no index.
type FlatFile struct {
	dir string
}

// NewFlatFile opens (and creates if needed) the backing directory.
func NewFlatFile(dir string) (*FlatFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &FlatFile{dir: dir}, nil
}

const docExt = ".md"

func (s *FlatFile) docPath(id string) string {
	return filepath.Join(s.dir, id+docExt)
}

// binaryPath resolves a stored web path (e.g. /images/123_thumb.jpg) to the
// sibling file inside the backing directory.
func (s *FlatFile) binaryPath(webPath string) string {
	return filepath.Join(s.dir, filepath.Base(webPath))
}

func (s *FlatFile) List(ctx context.Context) ([]models.ImageRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	records := []models.ImageRecord{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), docExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), docExt)
		rec, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UploadDate.After(records[j].UploadDate)
	})
	return records, nil
}

func (s *FlatFile) Get(_ context.Context, id string) (models.ImageRecord, error) {
	doc, err := os.ReadFile(s.docPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return models.ImageRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return models.ImageRecord{}, fmt.Errorf("read document %s: %w", id, err)
	}
	header, _, err := DecodeDocument(doc)
	if err != nil {
		return models.ImageRecord{}, fmt.Errorf("document %s: %w", id, err)
	}
	return recordFromHeader(id, header), nil
}

func (s *FlatFile) Create(_ context.Context, rec models.ImageRecord, variants models.VariantSet) error {
	written, err := writeBinaries(s.dir, rec, variants)
	if err != nil {
		removeAll(written)
		return err
	}

	doc := EncodeDocument(headerFromRecord(rec), "")
	if err := os.WriteFile(s.docPath(rec.ID), doc, 0644); err != nil {
		removeAll(written)
		return fmt.Errorf("write document %s: %w", rec.ID, err)
	}
	return nil
}

func (s *FlatFile) UpdateTitle(_ context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	path := s.docPath(id)
	doc, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("read document %s: %w", id, err)
	}
	merged, err := MergeHeader(doc, map[string]string{headerTitle: title})
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	if err := os.WriteFile(path, merged, 0644); err != nil {
		return fmt.Errorf("write document %s: %w", id, err)
	}
	return nil
}

func (s *FlatFile) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(s.docPath(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("remove document %s: %w", id, err)
	}
	// Binaries are best-effort: a record with an already-missing binary
	// still deletes cleanly.
	for _, webPath := range []string{rec.Path, rec.ModalPath, rec.ThumbnailPath} {
		if webPath == "" {
			continue
		}
		if err := os.Remove(s.binaryPath(webPath)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove binary for %s: %w", id, err)
		}
	}
	return nil
}

func (s *FlatFile) Close() error { return nil }

// writeBinaries writes the three variant payloads next to the documents and
// returns the paths actually written, for cleanup on a later failure.
func writeBinaries(dir string, rec models.ImageRecord, variants models.VariantSet) ([]string, error) {
	payloads := []struct {
		webPath string
		data    []byte
	}{
		{rec.Path, variants.Original},
		{rec.ModalPath, variants.Modal},
		{rec.ThumbnailPath, variants.Thumbnail},
	}

	written := make([]string, 0, len(payloads))
	for _, p := range payloads {
		local := filepath.Join(dir, filepath.Base(p.webPath))
		if err := os.WriteFile(local, p.data, 0644); err != nil {
			return written, fmt.Errorf("write binary %s: %w", filepath.Base(p.webPath), err)
		}
		written = append(written, local)
	}
	return written, nil
}

func removeAll(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}

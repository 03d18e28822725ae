package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgraph-io/badger/v4"

	"github.com/corvan/pixwall/models"
)

var _ Store = (*Badger)(nil)

// Badger keeps the metadata documents in an embedded key-value database
// keyed by record ID, encoded with the same codec the flat-file backend
// writes to disk. Binaries still live in the images directory so they stay
// web-servable.
type Badger struct {
	dir string
	db  *badger.DB
}

// NewBadger opens the database at dbPath and ensures the images directory
// exists for the binaries.
func NewBadger(imagesDir, dbPath string) (*Badger, error) {
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return &Badger{dir: imagesDir, db: db}, nil
}

func (s *Badger) List(_ context.Context) ([]models.ImageRecord, error) {
	records := []models.ImageRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := string(item.Key())
			err := item.Value(func(val []byte) error {
				header, _, err := DecodeDocument(val)
				if err != nil {
					return fmt.Errorf("document %s: %w", id, err)
				}
				records = append(records, recordFromHeader(id, header))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].UploadDate.After(records[j].UploadDate)
	})
	return records, nil
}

func (s *Badger) Get(_ context.Context, id string) (models.ImageRecord, error) {
	var rec models.ImageRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			header, _, err := DecodeDocument(val)
			if err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
			rec = recordFromHeader(id, header)
			return nil
		})
	})
	return rec, err
}

func (s *Badger) Create(_ context.Context, rec models.ImageRecord, variants models.VariantSet) error {
	written, err := writeBinaries(s.dir, rec, variants)
	if err != nil {
		removeAll(written)
		return err
	}

	doc := EncodeDocument(headerFromRecord(rec), "")
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(rec.ID), doc)
	})
	if err != nil {
		removeAll(written)
		return fmt.Errorf("write document %s: %w", rec.ID, err)
	}
	return nil
}

func (s *Badger) UpdateTitle(_ context.Context, id, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			return err
		}
		var merged []byte
		err = item.Value(func(val []byte) error {
			merged, err = MergeHeader(val, map[string]string{headerTitle: title})
			if err != nil {
				return fmt.Errorf("document %s: %w", id, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return txn.Set([]byte(id), merged)
	})
}

func (s *Badger) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(id))
	})
	if err != nil {
		return fmt.Errorf("remove document %s: %w", id, err)
	}
	for _, webPath := range []string{rec.Path, rec.ModalPath, rec.ThumbnailPath} {
		if webPath == "" {
			continue
		}
		local := filepath.Join(s.dir, filepath.Base(webPath))
		if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove binary for %s: %w", id, err)
		}
	}
	return nil
}

func (s *Badger) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

package gallery

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/corvan/pixwall/utils"
)

// Ingestion writes binaries before the document, so a crash in between
// leaves binaries no document references. The sweeper reclaims them. It
// only applies to the flat-file backend, where documents and binaries are
// directory siblings.

var variantSuffixes = []string{"_original", "_modal", "_thumb"}

// StartOrphanSweeper launches a background goroutine that periodically
// removes orphaned binaries older than grace. It is best-effort and logs
// failures.
func StartOrphanSweeper(dir string, interval, grace time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			removed, err := SweepOrphans(dir, grace)
			if err != nil {
				utils.Sugar.Warnf("orphan sweep failed: %v", err)
				continue
			}
			if removed > 0 {
				utils.Sugar.Infof("orphan sweep removed %d binaries", removed)
			}
		}
	}()
}

// SweepOrphans scans dir once and deletes every variant binary whose base
// name has no metadata document, provided the file is older than grace.
// The grace period keeps it from racing an ingestion that has written its
// binaries but not yet its document. Documents are never touched.
func SweepOrphans(dir string, grace time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-grace)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base, ok := variantBase(entry.Name())
		if !ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, base+".md")); err == nil || !os.IsNotExist(err) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			utils.Sugar.Warnf("orphan sweep could not remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}

// variantBase extracts the record base name from a binary filename like
// 1705320000000_ab12cd34_thumb.png. Non-variant files report ok=false.
func variantBase(name string) (string, bool) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	for _, suffix := range variantSuffixes {
		if strings.HasSuffix(stem, suffix) {
			return strings.TrimSuffix(stem, suffix), true
		}
	}
	return "", false
}

// Package thumbs deduplicates downloaded thumbnail images by content and
// selects a canonical one.
//
// Candidates are the .jpg files in the archive directory root. Byte-identical
// duplicates are deleted (first seen survives), survivors are ranked by
// descending size, and the largest becomes thumbnails/thumbnail_main.jpg with
// the rest renamed to stable zero-padded ordinals. Already-deduplicated
// directories are a fixed point, so the step is safe to re-run.
package thumbs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vodarc/internal/fileutil"
)

const (
	// MainName is the canonical thumbnail filename.
	MainName = "thumbnail_main.jpg"
	// SubdirName is the directory survivors are moved into.
	SubdirName = "thumbnails"
)

// Summary reports the outcome of one dedup pass.
type Summary struct {
	Candidates int
	Removed    int
	Kept       int
}

type candidate struct {
	path string
	size int64
}

// Process deduplicates and ranks the thumbnail candidates in dir. A no-op
// when no candidates are present.
func Process(dir string) (Summary, error) {
	candidates, err := gatherCandidates(dir)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{Candidates: len(candidates)}
	if len(candidates) == 0 {
		return summary, nil
	}

	survivors, removed, err := dedupByDigest(candidates)
	if err != nil {
		return Summary{}, err
	}
	summary.Removed = removed
	summary.Kept = len(survivors)

	// Size descending; the stable sort preserves enumeration order for ties.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].size > survivors[j].size
	})

	destDir := filepath.Join(dir, SubdirName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create thumbnail directory: %w", err)
	}
	for i, survivor := range survivors {
		name := MainName
		if i > 0 {
			name = fmt.Sprintf("thumbnail_%04d.jpg", i)
		}
		if err := os.Rename(survivor.path, filepath.Join(destDir, name)); err != nil {
			return Summary{}, fmt.Errorf("rename thumbnail: %w", err)
		}
	}
	return summary, nil
}

// gatherCandidates lists .jpg files in the directory root in name order.
// Files already moved into the thumbnails subdirectory are not revisited.
func gatherCandidates(dir string) ([]candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read archive directory: %w", err)
	}
	var candidates []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(entry.Name()), ".jpg") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat thumbnail %s: %w", entry.Name(), err)
		}
		candidates = append(candidates, candidate{
			path: filepath.Join(dir, entry.Name()),
			size: info.Size(),
		})
	}
	return candidates, nil
}

func dedupByDigest(candidates []candidate) ([]candidate, int, error) {
	seen := make(map[string]struct{}, len(candidates))
	survivors := make([]candidate, 0, len(candidates))
	removed := 0
	for _, cand := range candidates {
		digest, err := fileutil.HashFile(cand.path)
		if err != nil {
			return nil, 0, err
		}
		if _, dup := seen[digest]; dup {
			if err := os.Remove(cand.path); err != nil {
				return nil, 0, fmt.Errorf("remove duplicate thumbnail: %w", err)
			}
			removed++
			continue
		}
		seen[digest] = struct{}{}
		survivors = append(survivors, cand)
	}
	return survivors, removed, nil
}

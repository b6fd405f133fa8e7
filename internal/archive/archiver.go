// Package archive orchestrates the VOD archiving pipeline.
//
// One run drives five stages in strict order: probe, acquire, dedup
// thumbnails, normalize chat, normalize metadata. Every stage after the
// probe is gated on the presence of its output artifact, so an interrupted
// run resumes exactly where it stopped when pointed at the same URL again.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"vodarc/internal/chat"
	"vodarc/internal/chat/chatdb"
	"vodarc/internal/config"
	"vodarc/internal/fileutil"
	"vodarc/internal/logging"
	"vodarc/internal/metadata"
	"vodarc/internal/rawjson"
	"vodarc/internal/services"
	"vodarc/internal/thumbs"
)

// Downloader is the external-tool surface the pipeline drives.
type Downloader interface {
	Probe(ctx context.Context, url string) (rawjson.Document, error)
	Download(ctx context.Context, url, destDir string) error
}

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	Name    string
	Skipped bool
	Detail  string
}

// Result summarizes a completed run.
type Result struct {
	RunID        string
	Dir          string
	Stages       []StageResult
	ChatInserted int64
	Thumbnails   thumbs.Summary
}

// Archiver runs the archiving pipeline for one URL at a time.
type Archiver struct {
	cfg    *config.Config
	tool   Downloader
	logger *slog.Logger
	now    func() time.Time
}

// New constructs an Archiver.
func New(cfg *config.Config, tool Downloader, logger *slog.Logger) *Archiver {
	return &Archiver{
		cfg:    cfg,
		tool:   tool,
		logger: logging.NewComponentLogger(logger, "archive"),
		now:    time.Now,
	}
}

// Run archives the VOD at url into its deterministic directory, resuming any
// earlier partial run of the same video.
func (a *Archiver) Run(ctx context.Context, url string) (*Result, error) {
	result := &Result{RunID: uuid.NewString()}
	logger := a.logger.With(logging.String(logging.FieldRunID, result.RunID))

	logger.Info("probing", logging.String("url", url))
	info, err := a.tool.Probe(ctx, url)
	if err != nil {
		return nil, err
	}
	result.Stages = append(result.Stages, StageResult{Name: "probe"})

	dir := filepath.Join(a.cfg.OutputRoot(), directoryName(info, a.cfg.Naming, a.now()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive directory: %w", err)
	}
	result.Dir = dir
	logger.Info("archive directory resolved", logging.String("dir", dir))

	lock := flock.New(filepath.Join(dir, lockFilename))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "lock", "flock", "acquire archive lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrLocked, "lock", "flock", "another run holds "+dir, nil)
	}
	defer func() { _ = lock.Unlock() }()

	if err := a.acquire(ctx, url, dir, logger, result); err != nil {
		return nil, err
	}
	if err := a.dedupThumbnails(dir, logger, result); err != nil {
		return nil, err
	}
	if err := a.normalizeChat(ctx, dir, logger, result); err != nil {
		return nil, err
	}
	if err := a.normalizeMetadata(dir, logger, result); err != nil {
		return nil, err
	}

	logger.Info("archive complete", logging.String("dir", dir))
	return result, nil
}

// acquire downloads media and raw sidecars unless the media file already
// exists. The sidecar rename pass always runs so a run interrupted between
// download and rename heals on resume.
func (a *Archiver) acquire(ctx context.Context, url, dir string, logger *slog.Logger, result *Result) error {
	stage := StageResult{Name: "acquire"}
	if fileExists(filepath.Join(dir, MediaFilename)) {
		stage.Skipped = true
		stage.Detail = "media already present"
		logger.Info("media already present, skipping download")
	} else {
		logger.Info("downloading", logging.String("url", url))
		if err := a.tool.Download(ctx, url, dir); err != nil {
			return err
		}
	}
	if err := renameRawSidecars(dir); err != nil {
		return err
	}
	result.Stages = append(result.Stages, stage)
	return nil
}

func (a *Archiver) dedupThumbnails(dir string, logger *slog.Logger, result *Result) error {
	summary, err := thumbs.Process(dir)
	if err != nil {
		return services.Wrap(services.ErrTransient, "thumbnails", "dedup", "process thumbnails", err)
	}
	result.Thumbnails = summary
	stage := StageResult{Name: "thumbnails"}
	if summary.Candidates == 0 {
		stage.Skipped = true
		stage.Detail = "no candidates"
	} else {
		stage.Detail = fmt.Sprintf("%d kept, %d duplicates removed", summary.Kept, summary.Removed)
		logger.Info("thumbnails deduplicated",
			logging.Int("kept", summary.Kept),
			logging.Int("removed", summary.Removed))
	}
	result.Stages = append(result.Stages, stage)
	return nil
}

// normalizeChat parses the raw chat dump into the SQLite store and deletes
// the dump afterwards. Skipped when the store already exists or no dump is
// present.
func (a *Archiver) normalizeChat(ctx context.Context, dir string, logger *slog.Logger, result *Result) error {
	rawPath := filepath.Join(dir, RawChatFilename)
	dbPath := filepath.Join(dir, ChatDBFilename)
	stage := StageResult{Name: "chat"}

	switch {
	case fileExists(dbPath):
		stage.Skipped = true
		stage.Detail = "chat store already present"
	case !fileExists(rawPath):
		stage.Skipped = true
		stage.Detail = "no raw chat dump"
	default:
		data, err := os.ReadFile(rawPath)
		if err != nil {
			return fmt.Errorf("read raw chat dump: %w", err)
		}
		messages, err := chat.Parse(data)
		if err != nil {
			return err
		}

		store, err := chatdb.Open(dbPath)
		if err != nil {
			return services.Wrap(services.ErrTransient, "chat", "sqlite", "open chat store", err)
		}
		inserted, err := store.InsertMessages(ctx, messages)
		closeErr := store.Close()
		if err != nil {
			return services.Wrap(services.ErrTransient, "chat", "sqlite", "insert messages", err)
		}
		if closeErr != nil {
			return services.Wrap(services.ErrTransient, "chat", "sqlite", "close chat store", closeErr)
		}

		if err := os.Remove(rawPath); err != nil {
			return fmt.Errorf("remove raw chat dump: %w", err)
		}
		result.ChatInserted = inserted
		stage.Detail = fmt.Sprintf("%d messages", inserted)
		logger.Info("chat normalized", logging.Int64("messages", inserted))
	}
	result.Stages = append(result.Stages, stage)
	return nil
}

// normalizeMetadata canonicalizes the raw info dump, freezing the media
// digest into the record, then deletes the dump. Skipped when the canonical
// file already exists or no dump is present.
func (a *Archiver) normalizeMetadata(dir string, logger *slog.Logger, result *Result) error {
	rawPath := filepath.Join(dir, RawMetadataFilename)
	outPath := filepath.Join(dir, metadata.MetadataFilename)
	stage := StageResult{Name: "metadata"}

	switch {
	case fileExists(outPath):
		stage.Skipped = true
		stage.Detail = "canonical metadata already present"
	case !fileExists(rawPath):
		stage.Skipped = true
		stage.Detail = "no raw metadata dump"
	default:
		data, err := os.ReadFile(rawPath)
		if err != nil {
			return fmt.Errorf("read raw metadata dump: %w", err)
		}
		raw, err := rawjson.Parse(data)
		if err != nil {
			return services.Wrap(services.ErrParse, "metadata", "decode", "decode raw metadata dump", err)
		}

		digest, err := fileutil.HashFile(filepath.Join(dir, MediaFilename))
		if err != nil {
			return fmt.Errorf("hash media file: %w", err)
		}
		record, err := metadata.Canonicalize(raw, digest, a.now())
		if err != nil {
			return err
		}
		if err := record.WriteFiles(dir); err != nil {
			return err
		}

		if err := os.Remove(rawPath); err != nil {
			return fmt.Errorf("remove raw metadata dump: %w", err)
		}
		logger.Info("metadata canonicalized", logging.String("vod_id", record.VodID))
	}
	result.Stages = append(result.Stages, stage)
	return nil
}

// renameRawSidecars moves yt-dlp's dump files to their canonical names. The
// pass is a no-op when the dumps were already renamed or consumed.
func renameRawSidecars(dir string) error {
	chatDumps, err := filepath.Glob(filepath.Join(dir, "*.live_chat.json"))
	if err != nil {
		return fmt.Errorf("glob chat dumps: %w", err)
	}
	for _, dump := range chatDumps {
		if err := os.Rename(dump, filepath.Join(dir, RawChatFilename)); err != nil {
			return fmt.Errorf("rename chat dump: %w", err)
		}
	}

	infoDumps, err := filepath.Glob(filepath.Join(dir, "*.info.json"))
	if err != nil {
		return fmt.Errorf("glob info dumps: %w", err)
	}
	if len(infoDumps) > 0 {
		if err := os.Rename(infoDumps[0], filepath.Join(dir, RawMetadataFilename)); err != nil {
			return fmt.Errorf("rename info dump: %w", err)
		}
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}

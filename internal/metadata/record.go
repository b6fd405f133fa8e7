package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"vodarc/internal/fileutil"
	"vodarc/internal/rawjson"
	"vodarc/internal/services"
)

const (
	// MetadataFilename is the canonical metadata record name.
	MetadataFilename = "metadata.yt-vod.json"
	// DescriptionFilename is the plain-text description sidecar name.
	DescriptionFilename = "description.yt-vod.txt"

	origin            = "youtube"
	thumbnailFilename = "thumbnail_main.jpg"
)

// Record is the canonical metadata schema. Field order matches the on-disk
// key order; pointer fields render as explicit nulls when absent.
type Record struct {
	StreamID             *string  `json:"stream_id"`
	VodID                string   `json:"vod_id"`
	Title                *string  `json:"title"`
	CreatedAt            *string  `json:"created_at"`
	PublishedAt          *string  `json:"published_at"`
	ThumbnailURL         *string  `json:"thumbnail_url"`
	ThumbnailFilename    string   `json:"thumbnail_filename"`
	URL                  *string  `json:"url"`
	DownloadedAt         string   `json:"downloaded_at"`
	VodSHA256            string   `json:"vod_sha256"`
	Duration             *float64 `json:"duration"`
	DurationString       string   `json:"duration_string"`
	StartTime            *string  `json:"start_time"`
	EndTime              *string  `json:"end_time"`
	InitialTitle         *string  `json:"initial_title"`
	Language             *string  `json:"language"`
	Origin               string   `json:"origin"`
	LikeCount            *int64   `json:"like_count"`
	CommentCount         *int64   `json:"comment_count"`
	ViewCount            *int64   `json:"view_count"`
	Availability         *string  `json:"availability"`
	Resolution           *string  `json:"resolution"`
	FPS                  *float64 `json:"fps"`
	Channel              *string  `json:"channel"`
	ChannelFollowerCount *int64   `json:"channel_follower_count"`
	ChannelIsVerified    *bool    `json:"channel_is_verified"`
	Description          *string  `json:"description"`
	Tags                 []string `json:"tags"`
}

// Canonicalize builds the canonical record from a raw info dump and the
// digest of the archived media file. now stamps downloaded_at.
func Canonicalize(raw rawjson.Document, vodSHA256 string, now time.Time) (*Record, error) {
	id, ok := raw.String("id")
	if !ok {
		return nil, services.Wrap(services.ErrParse, "metadata", "canonicalize", "raw metadata has no id", nil)
	}

	start := startTimestamp(raw)
	record := &Record{
		VodID:             "v" + id,
		Title:             optString(raw, "title"),
		CreatedAt:         isoPointer(start),
		PublishedAt:       isoOptInt(raw, "upload_date"),
		ThumbnailURL:      optString(raw, "thumbnail"),
		ThumbnailFilename: thumbnailFilename,
		URL:               optString(raw, "webpage_url"),
		DownloadedAt:      now.UTC().Truncate(time.Second).Format(time.RFC3339),
		VodSHA256:         vodSHA256,
		Duration:          optFloat(raw, "duration"),
		StartTime:         isoPointer(start),
		InitialTitle:      optString(raw, "title"),
		Language:          optString(raw, "language"),
		Origin:            origin,
		LikeCount:         optInt(raw, "like_count"),
		CommentCount:      optInt(raw, "comment_count"),
		ViewCount:         optInt(raw, "view_count"),
		Availability:      optString(raw, "availability"),
		Resolution:        optString(raw, "resolution"),
		FPS:               optFloat(raw, "fps"),
		Channel:           optString(raw, "channel"),
		Description:       optString(raw, "description"),
		Tags:              raw.Strings("tags"),
	}
	if v, ok := raw.Int64("channel_follower_count"); ok {
		record.ChannelFollowerCount = &v
	}
	if v, ok := raw.Bool("channel_is_verified"); ok {
		record.ChannelIsVerified = &v
	}

	record.DurationString = durationString(raw)
	if duration, ok := raw.Int64("duration"); ok && start != 0 && duration != 0 {
		end := isoFromUnix(start + duration)
		record.EndTime = &end
	}
	return record, nil
}

// WriteFiles writes the canonical record into dir, plus the description
// sidecar when a description is present.
func (r *Record) WriteFiles(dir string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := fileutil.WriteFileAtomic(filepath.Join(dir, MetadataFilename), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if r.Description != nil && *r.Description != "" {
		path := filepath.Join(dir, DescriptionFilename)
		if err := fileutil.WriteFileAtomic(path, []byte(*r.Description), 0o644); err != nil {
			return fmt.Errorf("write description: %w", err)
		}
	}
	return nil
}

// startTimestamp resolves the stream start instant: the release timestamp
// when present, else the generic timestamp. Zero means unknown.
func startTimestamp(raw rawjson.Document) int64 {
	if ts, ok := raw.Int64("release_timestamp"); ok && ts != 0 {
		return ts
	}
	if ts, ok := raw.Int64("timestamp"); ok && ts != 0 {
		return ts
	}
	return 0
}

// durationString prefers the raw field and otherwise renders the duration in
// seconds as signed h:mm:ss text, zero when no duration is known.
func durationString(raw rawjson.Document) string {
	if s, ok := raw.String("duration_string"); ok {
		return s
	}
	seconds, _ := raw.Int64("duration")
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
}

func isoFromUnix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func isoPointer(sec int64) *string {
	if sec == 0 {
		return nil
	}
	s := isoFromUnix(sec)
	return &s
}

func isoOptInt(raw rawjson.Document, key string) *string {
	v, ok := raw.Int64(key)
	if !ok || v == 0 {
		return nil
	}
	s := isoFromUnix(v)
	return &s
}

func optString(raw rawjson.Document, key string) *string {
	v, ok := raw.String(key)
	if !ok {
		return nil
	}
	return &v
}

func optInt(raw rawjson.Document, key string) *int64 {
	v, ok := raw.Int64(key)
	if !ok {
		return nil
	}
	return &v
}

func optFloat(raw rawjson.Document, key string) *float64 {
	v, ok := raw.Float64(key)
	if !ok {
		return nil
	}
	return &v
}

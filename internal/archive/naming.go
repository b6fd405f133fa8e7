package archive

import (
	"math/rand"
	"time"

	"vodarc/internal/config"
	"vodarc/internal/rawjson"
	"vodarc/internal/textutil"
)

// Canonical artifact names inside an archive directory.
const (
	MediaFilename       = "vod.mp4"
	RawChatFilename     = "chat_raw.json"
	RawMetadataFilename = "metadata_raw.json"
	ChatDBFilename      = "chat.yt-vod.sqlite"

	lockFilename  = ".vodarc.lock"
	localIDDigits = 6
)

// directoryName derives the deterministic archive directory name from the
// probe result: start instant, prefixed video id, sanitized title. Videos
// without a start timestamp fall back to now; videos without an id get a
// random local id.
func directoryName(info rawjson.Document, naming config.Naming, now time.Time) string {
	start := now.UTC()
	if ts := probeStartTimestamp(info); ts != 0 {
		start = time.Unix(ts, 0).UTC()
	}

	id, ok := info.String("id")
	if !ok {
		id = localID(naming.LocalIDPrefix)
	}

	title, _ := info.String("title")
	return start.Format("2006-01-02T15-04-05") + "Z_" + naming.IDPrefix + id + "_" + textutil.SanitizeTitle(title)
}

func probeStartTimestamp(info rawjson.Document) int64 {
	if ts, ok := info.Int64("release_timestamp"); ok && ts != 0 {
		return ts
	}
	if ts, ok := info.Int64("timestamp"); ok && ts != 0 {
		return ts
	}
	return 0
}

func localID(prefix string) string {
	digits := make([]byte, localIDDigits)
	for i := range digits {
		digits[i] = byte('0' + rand.Intn(10))
	}
	return prefix + string(digits)
}

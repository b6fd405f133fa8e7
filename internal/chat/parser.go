package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vodarc/internal/rawjson"
)

// rendererKeys is the fixed priority list of known renderer kinds. Order
// matters: when malformed input carries several kinds, the first match wins.
var rendererKeys = [...]string{
	"liveChatTextMessageRenderer",
	"liveChatPaidMessageRenderer",
	"liveChatPaidStickerRenderer",
	"liveChatStickerRenderer",
	"liveChatViewerEngagementMessageRenderer",
}

// Parse decodes a replay dump (array-of-objects or one-object-per-line) into
// normalized messages. Any malformed top-level JSON rejects the whole dump.
func Parse(data []byte) ([]Message, error) {
	docs, err := topLevelDocuments(data)
	if err != nil {
		return nil, err
	}

	var messages []Message
	for _, top := range docs {
		replay, ok := top.Child("replayChatItemAction")
		if !ok {
			continue
		}
		offsetMS, _ := replay.Int64("videoOffsetTimeMsec")
		for _, action := range replay.Children("actions") {
			renderer, kind, pinned, ok := resolveRenderer(action)
			if !ok {
				continue
			}
			messages = append(messages, extract(renderer, kind, pinned, floorSeconds(offsetMS)))
		}
	}
	return messages, nil
}

// topLevelDocuments accepts both dump forms. The whole-file form is tried
// first; when that fails, every non-empty line must decode as one object.
func topLevelDocuments(data []byte) ([]rawjson.Document, error) {
	trimmed := bytes.TrimSpace(data)

	var parsed any
	if err := json.Unmarshal(trimmed, &parsed); err == nil {
		switch v := parsed.(type) {
		case []any:
			docs := make([]rawjson.Document, 0, len(v))
			for i, item := range v {
				doc, ok := rawjson.AsDocument(item)
				if !ok {
					return nil, fmt.Errorf("chat dump entry %d: not a JSON object", i)
				}
				docs = append(docs, doc)
			}
			return docs, nil
		default:
			if doc, ok := rawjson.AsDocument(parsed); ok {
				return []rawjson.Document{doc}, nil
			}
			return nil, fmt.Errorf("chat dump: top-level value is neither object nor array")
		}
	}

	var docs []rawjson.Document
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc, err := rawjson.Parse([]byte(line))
		if err != nil {
			return nil, fmt.Errorf("chat dump line %d: %w", i+1, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// resolveRenderer maps an action to its renderer, kind key, and pinned flag.
// Banner announcements wrap the same renderer kinds as ordinary add-item
// actions and are the only source of pinned rows.
func resolveRenderer(action rawjson.Document) (rawjson.Document, string, bool, bool) {
	if item, ok := childPath(action, "addChatItemAction", "item"); ok {
		if renderer, key, ok := firstRenderer(item); ok {
			return renderer, key, false, true
		}
		return nil, "", false, false
	}
	if contents, ok := childPath(action, "addBannerToLiveChatCommand", "bannerRenderer", "liveChatBannerRenderer", "contents"); ok {
		if renderer, key, ok := firstRenderer(contents); ok {
			return renderer, key, true, true
		}
	}
	return nil, "", false, false
}

func firstRenderer(container rawjson.Document) (rawjson.Document, string, bool) {
	for _, key := range rendererKeys {
		if renderer, ok := container.Child(key); ok {
			return renderer, key, true
		}
	}
	return nil, "", false
}

func extract(renderer rawjson.Document, kind string, pinned bool, offsetSec int64) Message {
	msg := Message{
		Type:       Classify(kind),
		Pinned:     pinned,
		SentOffset: offsetSec,
	}
	msg.ID, _ = renderer.String("id")

	if usec, ok := renderer.Int64("timestampUsec"); ok && usec != 0 {
		msg.SentAbsolute = isoFromMicros(usec)
	}

	if author, ok := renderer.Child("authorName"); ok {
		msg.UserName, _ = author.String("simpleText")
	}
	msg.UserID, _ = renderer.String("authorExternalChannelId")
	if photo, ok := renderer.Child("authorPhoto"); ok {
		if thumbs := photo.Children("thumbnails"); len(thumbs) > 0 {
			msg.UserLogo, _ = thumbs[0].String("url")
		}
	}

	if color, ok := renderer.Text("bodyBackgroundColor"); ok {
		msg.Color = color
	} else if color, ok := renderer.Text("headerBackgroundColor"); ok {
		msg.Color = color
	}

	if body, ok := extractBody(renderer); ok {
		msg.Body = &body
	}

	if micros, ok := renderer.Int64("purchaseAmountMicros"); ok {
		currency, ok := renderer.String("currency")
		if !ok {
			currency, _ = renderer.String("purchaseCurrency")
		}
		msg.Donation = fmt.Sprintf("%.2f; %s; %s", float64(micros)/1_000_000, currency, msg.Color)
	}

	msg.Badges = extractBadges(renderer)
	return msg
}

// extractBody resolves message text: structured run list first, then the
// accessibility label. The boolean reports whether a body source was present
// at all; a present source may still render to the empty string.
func extractBody(renderer rawjson.Document) (string, bool) {
	if message, ok := renderer.Child("message"); ok {
		return renderRuns(message.Children("runs")), true
	}
	if accessibility, ok := childPath(renderer, "accessibility", "accessibilityData"); ok {
		label, _ := accessibility.String("label")
		return label, true
	}
	return "", false
}

func renderRuns(runs []rawjson.Document) string {
	var b strings.Builder
	for _, run := range runs {
		if text, ok := run.String("text"); ok {
			b.WriteString(text)
			continue
		}
		if emoji, ok := run.Child("emoji"); ok {
			if shortcuts := emoji.Strings("shortcuts"); len(shortcuts) > 0 {
				b.WriteString(shortcuts[0])
				continue
			}
			if id, ok := emoji.String("emojiId"); ok {
				b.WriteString(id)
			}
		}
	}
	return b.String()
}

// extractBadges joins badge icon types with ";" in original order. Entries
// without the badge-renderer wrapper are skipped entirely; a wrapper without
// an icon type contributes an empty segment.
func extractBadges(renderer rawjson.Document) string {
	var parts []string
	for _, badge := range renderer.Children("authorBadges") {
		badgeRenderer, ok := badge.Child("liveChatAuthorBadgeRenderer")
		if !ok {
			continue
		}
		iconType := ""
		if icon, ok := badgeRenderer.Child("icon"); ok {
			iconType, _ = icon.String("iconType")
		}
		parts = append(parts, strings.ToUpper(iconType))
	}
	return strings.Join(parts, ";")
}

func childPath(doc rawjson.Document, keys ...string) (rawjson.Document, bool) {
	current := doc
	for _, key := range keys {
		next, ok := current.Child(key)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// isoFromMicros renders a microsecond timestamp as ISO-8601 UTC, keeping the
// six-digit fraction when the instant is not second-aligned.
func isoFromMicros(usec int64) string {
	t := time.UnixMicro(usec).UTC()
	if usec%1_000_000 == 0 {
		return t.Format(time.RFC3339)
	}
	return t.Format("2006-01-02T15:04:05.000000Z07:00")
}

func floorSeconds(ms int64) int64 {
	q := ms / 1000
	if ms%1000 != 0 && ms < 0 {
		q--
	}
	return q
}

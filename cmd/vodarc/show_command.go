package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"vodarc/internal/archive"
	"vodarc/internal/chat"
	"vodarc/internal/chat/chatdb"
	"vodarc/internal/metadata"
	"vodarc/internal/thumbs"
)

const (
	ansiReset = "\x1b[0m"
	ansiBold  = "\x1b[1m"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <dir>",
		Short: "Summarize an archive directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if _, err := os.Stat(dir); err != nil {
				return fmt.Errorf("archive directory: %w", err)
			}

			out := cmd.OutOrStdout()
			colorize := isatty.IsTerminal(os.Stdout.Fd())

			if err := showMetadata(out, dir, colorize); err != nil {
				return err
			}
			showThumbnails(out, dir, colorize)
			return showChat(cmd, out, dir, colorize)
		},
	}
}

func showMetadata(out io.Writer, dir string, colorize bool) error {
	path := filepath.Join(dir, metadata.MetadataFilename)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		fmt.Fprintln(out, "No canonical metadata present.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read metadata: %w", err)
	}
	var record metadata.Record
	if err := json.Unmarshal(data, &record); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}

	printHeader(out, "Metadata", colorize)
	rows := [][]string{
		{"vod_id", record.VodID},
		{"title", stringOrDash(record.Title)},
		{"channel", stringOrDash(record.Channel)},
		{"start_time", stringOrDash(record.StartTime)},
		{"end_time", stringOrDash(record.EndTime)},
		{"duration", record.DurationString},
		{"downloaded_at", record.DownloadedAt},
		{"vod_sha256", record.VodSHA256},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
	return nil
}

func showThumbnails(out io.Writer, dir string, colorize bool) {
	entries, err := os.ReadDir(filepath.Join(dir, thumbs.SubdirName))
	if err != nil {
		fmt.Fprintln(out, "No thumbnails present.")
		return
	}
	printHeader(out, "Thumbnails", colorize)
	fmt.Fprintf(out, "%d file(s) in %s/\n", len(entries), thumbs.SubdirName)
}

func showChat(cmd *cobra.Command, out io.Writer, dir string, colorize bool) error {
	path := filepath.Join(dir, archive.ChatDBFilename)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No chat store present.")
		return nil
	}

	store, err := chatdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	counts, err := store.CountByType(cmd.Context())
	if err != nil {
		return err
	}

	types := make([]string, 0, len(counts))
	for messageType := range counts {
		types = append(types, string(messageType))
	}
	sort.Strings(types)

	var total int64
	rows := make([][]string, 0, len(types))
	for _, messageType := range types {
		count := counts[chat.MessageType(messageType)]
		total += count
		rows = append(rows, []string{messageType, fmt.Sprintf("%d", count)})
	}
	rows = append(rows, []string{"total", fmt.Sprintf("%d", total)})

	printHeader(out, "Chat", colorize)
	fmt.Fprintln(out, renderTable([]string{"Type", "Messages"}, rows, []int{2}))
	return nil
}

func printHeader(out io.Writer, title string, colorize bool) {
	if colorize {
		fmt.Fprintf(out, "%s%s%s\n", ansiBold, title, ansiReset)
		return
	}
	fmt.Fprintln(out, title)
}

func stringOrDash(value *string) string {
	if value == nil || *value == "" {
		return "-"
	}
	return *value
}

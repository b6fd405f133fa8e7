// Package ytdlp wraps yt-dlp invocations for probing and acquiring VODs.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"vodarc/internal/logging"
	"vodarc/internal/rawjson"
	"vodarc/internal/services"
)

// Command describes one yt-dlp invocation.
type Command struct {
	Binary string
	Args   []string
	Env    []string
}

// Executor abstracts command execution for testability.
type Executor interface {
	// Run executes the command, forwarding each output line.
	Run(ctx context.Context, cmd Command, onLine func(string)) error
	// Output executes the command and returns its captured stdout.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary    string
	ffmpegDir string
	fragments int
	exec      Executor
	logger    *slog.Logger
}

// New constructs a yt-dlp client. ffmpegDir, when set, is prepended to the
// child's PATH so yt-dlp finds the bundled ffmpeg for merging.
func New(binary, ffmpegDir string, concurrentFragments int, logger *slog.Logger, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:    binary,
		ffmpegDir: strings.TrimSpace(ffmpegDir),
		fragments: concurrentFragments,
		exec:      commandExecutor{},
		logger:    logging.NewComponentLogger(logger, "ytdlp"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Probe fetches single-video info as a raw JSON document without downloading.
func (c *Client) Probe(ctx context.Context, url string) (rawjson.Document, error) {
	cmd := c.command("--dump-single-json", "--skip-download", "--no-warnings", url)
	c.logger.Debug("probing video info", logging.String("url", url))

	out, err := c.exec.Output(ctx, cmd)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "probe", "yt-dlp", "probe video info", err)
	}
	doc, err := rawjson.Parse(bytes.TrimSpace(out))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, "probe", "yt-dlp", "decode probe output", err)
	}
	return doc, nil
}

// Download fetches the media, raw chat dump, raw info dump, and thumbnails
// into destDir. Tool output is streamed into the logger at debug level.
func (c *Client) Download(ctx context.Context, url, destDir string) error {
	cmd := c.command(
		"--ignore-errors",
		"--concurrent-fragments", strconv.Itoa(c.fragments),
		"--write-thumbnail",
		"--convert-thumbnails", "jpg",
		"--write-info-json",
		"--write-subs",
		"--sub-langs", "live_chat",
		"--sub-format", "json",
		"--merge-output-format", "mp4",
		"-o", "vod.%(ext)s",
		"-f", "bestvideo+bestaudio/best",
		"--paths", "home:"+destDir,
		url,
	)
	c.logger.Debug("starting download", logging.String("url", url), logging.String("dest", destDir))

	err := c.exec.Run(ctx, cmd, func(line string) {
		c.logger.Debug(line)
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "acquire", "yt-dlp", "download media", err)
	}
	return nil
}

func (c *Client) command(args ...string) Command {
	return Command{
		Binary: c.binary,
		Args:   args,
		Env:    c.childEnv(),
	}
}

// childEnv augments the process environment with the ffmpeg directory at the
// front of PATH. The parent environment is never mutated.
func (c *Client) childEnv() []string {
	env := os.Environ()
	if c.ffmpegDir == "" {
		return env
	}
	out := make([]string, 0, len(env)+1)
	found := false
	for _, entry := range env {
		if !found && strings.HasPrefix(entry, "PATH=") {
			out = append(out, "PATH="+c.ffmpegDir+string(os.PathListSeparator)+strings.TrimPrefix(entry, "PATH="))
			found = true
			continue
		}
		out = append(out, entry)
	}
	if !found {
		out = append(out, "PATH="+c.ffmpegDir)
	}
	return out
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, command Command, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Env = command.Env

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", command.Binary, err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if onLine != nil {
				onLine(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() { scanErr = err })
		}
	}

	wg.Add(2)
	go scan(stdout)
	go scan(stderr)
	wg.Wait()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("%s exited: %w", command.Binary, err)
	}
	return scanErr
}

func (commandExecutor) Output(ctx context.Context, command Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command.Binary, command.Args...) //nolint:gosec
	cmd.Env = command.Env

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%s exited: %w: %s", command.Binary, err, detail)
		}
		return nil, fmt.Errorf("%s exited: %w", command.Binary, err)
	}
	return out, nil
}

// Package ytdlp extracts playlist, video and channel metadata with the yt-dlp binary.
package ytdlp

//go:generate mockgen -destination=mocks/extractor.go -package=mocks . Extractor

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/vmunix/seasonarr/internal/catalog"
)

var (
	// ErrNotInstalled is returned when no yt-dlp binary can be found.
	ErrNotInstalled = errors.New("yt-dlp not found")
	// ErrNoOutput is returned when yt-dlp exits cleanly without printing metadata.
	ErrNoOutput = errors.New("yt-dlp returned no metadata")
)

const defaultBinary = "yt-dlp"

// Source is the channel or uploader behind a URL.
type Source struct {
	Title     string `json:"title"`
	ChannelID string `json:"channel_id"`
	Thumbnail string `json:"thumbnail"`
}

// Extractor is what the API needs from yt-dlp.
type Extractor interface {
	// Playlist lists the items of a playlist without per-video extraction.
	Playlist(ctx context.Context, url string) ([]catalog.ImportedVideo, error)
	// StreamPlaylist extracts every item fully, calling fn as each one arrives.
	StreamPlaylist(ctx context.Context, url string, fn func(catalog.ImportedVideo) error) error
	// Video extracts a single item.
	Video(ctx context.Context, url string) (catalog.ImportedVideo, error)
	// Channel looks up the source of a URL.
	Channel(ctx context.Context, url string) (Source, error)
}

// Timeouts bound each kind of yt-dlp invocation. Zero means no limit.
type Timeouts struct {
	Playlist time.Duration
	Stream   time.Duration
	Video    time.Duration
	Channel  time.Duration
}

// Client runs yt-dlp as a subprocess.
type Client struct {
	binary   string
	timeouts Timeouts
	log      *slog.Logger
}

// New resolves binary (or "yt-dlp" from PATH when empty) and returns a client.
func New(binary string, timeouts Timeouts, log *slog.Logger) (*Client, error) {
	if binary == "" {
		binary = defaultBinary
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, binary)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{binary: path, timeouts: timeouts, log: log.With("component", "ytdlp")}, nil
}

// Binary returns the resolved executable path.
func (c *Client) Binary() string { return c.binary }

// rawVideo is the subset of yt-dlp's info dict we read.
type rawVideo struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Description string  `json:"description"`
}

func (r rawVideo) video() catalog.ImportedVideo {
	return catalog.ImportedVideo{
		ID:          r.ID,
		Title:       r.Title,
		URL:         WatchURL(r.ID),
		Duration:    r.Duration,
		Thumbnail:   ThumbnailURL(r.ID),
		Description: r.Description,
	}
}

// WatchURL is the canonical page for a video id.
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

// ThumbnailURL is the canonical high quality thumbnail for a video id.
func ThumbnailURL(id string) string { return "https://i.ytimg.com/vi/" + id + "/hqdefault.jpg" }

// Playlist runs a flat listing. Descriptions are never present.
func (c *Client) Playlist(ctx context.Context, url string) ([]catalog.ImportedVideo, error) {
	videos := []catalog.ImportedVideo{}
	err := c.lines(ctx, c.timeouts.Playlist, func(v catalog.ImportedVideo) error {
		v.Description = ""
		videos = append(videos, v)
		return nil
	}, "--flat-playlist", "-j", "--no-warnings", url)
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// StreamPlaylist runs a full extraction and hands each video to fn as soon as
// yt-dlp prints it. Items yt-dlp cannot extract are skipped.
func (c *Client) StreamPlaylist(ctx context.Context, url string, fn func(catalog.ImportedVideo) error) error {
	return c.lines(ctx, c.timeouts.Stream, fn,
		"--dump-json", "--no-download", "--no-warnings", "--ignore-errors", url)
}

// Video extracts one item.
func (c *Client) Video(ctx context.Context, url string) (catalog.ImportedVideo, error) {
	var (
		out   catalog.ImportedVideo
		found bool
	)
	err := c.lines(ctx, c.timeouts.Video, func(v catalog.ImportedVideo) error {
		if !found {
			out, found = v, true
		}
		return nil
	}, "--dump-json", "--no-download", "--no-warnings", "--no-playlist", url)
	if err != nil {
		return catalog.ImportedVideo{}, err
	}
	if !found {
		return catalog.ImportedVideo{}, ErrNoOutput
	}
	return out, nil
}

// Channel reads the source metadata without listing any items.
func (c *Client) Channel(ctx context.Context, url string) (Source, error) {
	ctx, cancel := withTimeout(ctx, c.timeouts.Channel)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, "--dump-single-json", "--playlist-items", "0", "--no-warnings", url)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.log.Debug("looking up source", "url", url)
	if err := cmd.Run(); err != nil {
		return Source{}, runError(ctx, err, &stderr)
	}
	return parseSource(stdout.Bytes())
}

func parseSource(data []byte) (Source, error) {
	var raw struct {
		Channel   string `json:"channel"`
		Uploader  string `json:"uploader"`
		ChannelID string `json:"channel_id"`
		Thumbnail string `json:"thumbnail"`
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Source{}, ErrNoOutput
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Source{}, fmt.Errorf("parse yt-dlp source info: %w", err)
	}
	title := raw.Channel
	if title == "" {
		title = raw.Uploader
	}
	return Source{Title: title, ChannelID: raw.ChannelID, Thumbnail: raw.Thumbnail}, nil
}

// lines runs yt-dlp and decodes every stdout line that parses as a video.
// A failing exit status is tolerated once at least one video was decoded:
// with --ignore-errors yt-dlp exits non-zero when any single item fails.
func (c *Client) lines(ctx context.Context, timeout time.Duration, fn func(catalog.ImportedVideo) error, args ...string) error {
	ctx, cancel := withTimeout(ctx, timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("yt-dlp stdout: %w", err)
	}

	c.log.Debug("running yt-dlp", "args", args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	n, scanErr := scanVideos(stdout, fn, c.log)
	if scanErr != nil {
		cancel()
		_, _ = io.Copy(io.Discard, stdout)
		_ = cmd.Wait()
		return scanErr
	}

	if err := cmd.Wait(); err != nil {
		if n > 0 && ctx.Err() == nil {
			c.log.Warn("yt-dlp exited with errors", "videos", n, "error", runError(ctx, err, &stderr))
			return nil
		}
		return runError(ctx, err, &stderr)
	}
	return nil
}

// scanVideos calls fn for every JSON line in r. Lines that are not JSON objects are skipped.
func scanVideos(r io.Reader, fn func(catalog.ImportedVideo) error, log *slog.Logger) (int, error) {
	n := 0
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var raw rawVideo
		if err := json.Unmarshal(line, &raw); err != nil {
			log.Debug("skipping non-JSON output line", "error", err)
			continue
		}
		if raw.ID == "" {
			continue
		}
		n++
		if err := fn(raw.video()); err != nil {
			return n, err
		}
	}
	if err := sc.Err(); err != nil {
		return n, fmt.Errorf("read yt-dlp output: %w", err)
	}
	return n, nil
}

func runError(ctx context.Context, err error, stderr *bytes.Buffer) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("yt-dlp: %w", ctxErr)
	}
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return fmt.Errorf("yt-dlp: %w", err)
	}
	if i := strings.LastIndexByte(msg, '\n'); i >= 0 {
		msg = msg[i+1:]
	}
	return fmt.Errorf("yt-dlp: %s: %w", msg, err)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

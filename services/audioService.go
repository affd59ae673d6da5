package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const MaxAudioUploadBytes = 50 * 1024 * 1024

var (
	ErrUnsupportedURL    = errors.New("unsupported audio source")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidTempID     = errors.New("invalid temp id")
	ErrAudioNotFound     = errors.New("audio file not found")
	ErrInvalidDuration   = errors.New("invalid duration")
	ErrAudioTimeout      = errors.New("audio tool timed out")
	ErrStorageDisabled   = errors.New("audio storage not configured")
)

var allowedAudioHosts = map[string]struct{}{
	"youtube.com": {}, "www.youtube.com": {}, "youtu.be": {},
	"twitter.com": {}, "x.com": {}, "www.x.com": {},
}

var allowedAudioExts = map[string]struct{}{
	".mp3": {}, ".m4a": {}, ".wav": {}, ".ogg": {}, ".webm": {}, ".aac": {},
}

var (
	alnumPattern       = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	filenameCharFilter = regexp.MustCompile(`[^\p{L}\p{N}_\-]`)
)

// CommandError carries the stderr of a failed external tool.
type CommandError struct {
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandRunner runs an external program and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrAudioTimeout
		}
		return nil, &CommandError{Stderr: stderr.String(), Err: err}
	}
	return stdout.Bytes(), nil
}

// AudioClip is an audio file staged in the temp directory awaiting trimming.
type AudioClip struct {
	TempID     string `json:"temp_id"`
	DurationMs int    `json:"duration_ms"`
}

// AudioService stages imam recordings on local disk, trims them with ffmpeg
// and publishes the result to object storage.
type AudioService struct {
	TempDir  string
	Run      CommandRunner
	Uploader AudioUploader
	NewID    func() string
}

var audioService *AudioService

func NewAudioService(uploader AudioUploader) *AudioService {
	return &AudioService{
		TempDir:  os.TempDir(),
		Run:      execRunner,
		Uploader: uploader,
		NewID:    func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

func InitAudioService() {
	storage, err := InitS3Storage(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("audio uploads disabled")
		SetAudioService(NewAudioService(nil))
		return
	}
	SetAudioService(NewAudioService(storage))
}

func SetAudioService(s *AudioService) {
	audioService = s
}

func GetAudioService() *AudioService {
	return audioService
}

func ValidTempID(tempID string) bool {
	return alnumPattern.MatchString(tempID)
}

// TempPath is where the staged clip for tempID lives.
func (s *AudioService) TempPath(tempID string) string {
	return filepath.Join(s.TempDir, "admin_audio_"+tempID+".mp3")
}

// Extract downloads the audio track of a YouTube or X post as mp3.
func (s *AudioService) Extract(ctx context.Context, rawURL string) (AudioClip, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return AudioClip{}, ErrUnsupportedURL
	}
	if _, ok := allowedAudioHosts[strings.ToLower(u.Hostname())]; !ok {
		return AudioClip{}, ErrUnsupportedURL
	}

	tempID := s.NewID()
	output := s.TempPath(tempID)

	runCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
	defer cancel()
	_, err = s.Run(runCtx, "yt-dlp",
		"-x", "--audio-format", "mp3", "--no-playlist",
		"--js-runtimes", "node",
		"--extractor-args", "youtube:player_client=web_creator,mediaconnect",
		"-o", output, u.String(),
	)
	if err != nil {
		return AudioClip{}, err
	}

	duration, err := s.Probe(ctx, output)
	if err != nil {
		return AudioClip{}, err
	}
	return AudioClip{TempID: tempID, DurationMs: duration}, nil
}

// SaveUpload stages an uploaded file, converting non-mp3 formats to mp3.
func (s *AudioService) SaveUpload(ctx context.Context, filename string, body io.Reader) (AudioClip, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAudioExts[ext]; !ok {
		return AudioClip{}, fmt.Errorf("%w (%s)", ErrUnsupportedFormat, ext)
	}

	tempID := s.NewID()
	output := s.TempPath(tempID)

	if ext == ".mp3" {
		if err := writeFile(output, body); err != nil {
			return AudioClip{}, err
		}
	} else {
		raw := filepath.Join(s.TempDir, "admin_audio_"+tempID+"_raw"+ext)
		if err := writeFile(raw, body); err != nil {
			return AudioClip{}, err
		}
		defer os.Remove(raw)

		runCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
		_, err := s.Run(runCtx, "ffmpeg", "-y", "-i", raw, "-vn", "-acodec", "libmp3lame", "-q:a", "2", output)
		if err != nil {
			return AudioClip{}, err
		}
	}

	duration, err := s.Probe(ctx, output)
	if err != nil {
		return AudioClip{}, err
	}
	return AudioClip{TempID: tempID, DurationMs: duration}, nil
}

// Probe returns the duration of an audio file in milliseconds, 0 when unknown.
func (s *AudioService) Probe(ctx context.Context, path string) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	out, err := s.Run(runCtx, "ffprobe", "-v", "quiet", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(string(out))
	if text == "" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected ffprobe output %q: %w", text, err)
	}
	return int(seconds * 1000), nil
}

// TrimUpload cuts [startMs, endMs) out of a staged clip and uploads it.
// A nil endMs means the end of the clip. Staged files are removed whatever
// the outcome.
func (s *AudioService) TrimUpload(ctx context.Context, tempID string, startMs int, endMs *int, filename string) (string, error) {
	if !ValidTempID(tempID) {
		return "", ErrInvalidTempID
	}

	source := s.TempPath(tempID)
	if _, err := os.Stat(source); err != nil {
		return "", ErrAudioNotFound
	}
	trimmed := strings.TrimSuffix(source, ".mp3") + "_trimmed.mp3"
	defer func() {
		for _, p := range []string{source, trimmed} {
			if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
				log.Warn().Err(err).Str("path", p).Msg("failed to remove temp audio")
			}
		}
	}()

	end := 0
	if endMs != nil {
		end = *endMs
	} else {
		probed, err := s.Probe(ctx, source)
		if err != nil {
			return "", err
		}
		end = probed
	}

	duration := float64(end-startMs) / 1000
	if duration <= 0 {
		return "", ErrInvalidDuration
	}

	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()
	_, err := s.Run(runCtx, "ffmpeg", "-y", "-i", source,
		"-ss", formatSeconds(float64(startMs)/1000), "-t", formatSeconds(duration),
		"-c", "copy", trimmed)
	if err != nil {
		return "", err
	}

	if s.Uploader == nil {
		return "", ErrStorageDisabled
	}

	f, err := os.Open(trimmed)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return s.Uploader.UploadAudio(ctx, AudioKey(filename, s.NewID), f)
}

// AudioKey derives the object key from a user supplied name, or a random
// one when the name is empty after sanitizing.
func AudioKey(filename string, newID func() string) string {
	name := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(filename), " ", "-"))
	name = filenameCharFilter.ReplaceAllString(name, "")
	if name == "" {
		name = newID()
	}
	return "audio/" + name + ".mp3"
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func writeFile(path string, body io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

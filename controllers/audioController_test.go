package controllers

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/Taraweeh/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubRunner answers ffprobe with a fixed duration and makes ffmpeg write
// its output file.
func stubRunner(_ context.Context, name string, args ...string) ([]byte, error) {
	switch name {
	case "ffprobe":
		return []byte("12.5\n"), nil
	case "ffmpeg":
		return nil, os.WriteFile(args[len(args)-1], []byte("trimmed"), 0o600)
	}
	return nil, nil
}

func newTestAudioPipeline(t *testing.T, uploader services.AudioUploader) *services.AudioService {
	s := &services.AudioService{
		TempDir:  t.TempDir(),
		Run:      stubRunner,
		Uploader: uploader,
		NewID:    func() string { return "generated" },
	}
	services.SetAudioService(s)
	t.Cleanup(func() { services.SetAudioService(nil) })
	return s
}

func TestAudioPipelineNotConfigured(t *testing.T) {
	services.SetAudioService(nil)

	c, w := SetupTestContext()
	SetJSONBody(c, http.MethodPost, audioExtractBody{URL: "https://youtu.be/x"})
	ExtractAudio(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// Test ExtractAudio - Only YouTube and X links are accepted
func TestExtractAudio(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		expectedStatus int
	}{
		{name: "missing url", url: "  ", expectedStatus: http.StatusBadRequest},
		{name: "unsupported host", url: "https://soundcloud.com/track", expectedStatus: http.StatusBadRequest},
		{name: "youtube link", url: "https://www.youtube.com/watch?v=abc", expectedStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestAudioPipeline(t, nil)

			c, w := SetupTestContext()
			SetJSONBody(c, http.MethodPost, audioExtractBody{URL: tt.url})
			ExtractAudio(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"temp_id":"generated","duration_ms":12500}`, w.Body.String())
			}
		})
	}
}

// Test GetTempAudio - Serve a staged clip by id
func TestGetTempAudio(t *testing.T) {
	tests := []struct {
		name           string
		tempID         string
		stage          bool
		expectedStatus int
	}{
		{name: "staged clip", tempID: "abc123", stage: true, expectedStatus: http.StatusOK},
		{name: "path traversal", tempID: "..%2Fetc", expectedStatus: http.StatusBadRequest},
		{name: "unknown clip", tempID: "missing1", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestAudioPipeline(t, nil)
			if tt.stage {
				assert.NoError(t, os.WriteFile(s.TempPath(tt.tempID), []byte("mp3"), 0o600))
			}

			c, w := SetupTestContext()
			c.Params = gin.Params{{Key: "temp_id", Value: tt.tempID}}
			GetTempAudio(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

// Test TrimUploadAudio - Trim a staged clip and publish it
func TestTrimUploadAudio(t *testing.T) {
	end := 4000

	tests := []struct {
		name           string
		body           audioTrimBody
		uploader       bool
		stage          bool
		expectedStatus int
		expectedKey    string
	}{
		{
			name:           "trim and upload",
			body:           audioTrimBody{Temp_ID: "abc123", Start_Ms: 1000, End_Ms: &end, Filename: "Yasser Dosari"},
			uploader:       true,
			stage:          true,
			expectedStatus: http.StatusOK,
			expectedKey:    "audio/yasser-dosari.mp3",
		},
		{
			name:           "end before start",
			body:           audioTrimBody{Temp_ID: "abc123", Start_Ms: 5000, End_Ms: &end},
			uploader:       true,
			stage:          true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid temp id",
			body:           audioTrimBody{Temp_ID: "../../etc/passwd"},
			uploader:       true,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "clip not staged",
			body:           audioTrimBody{Temp_ID: "abc123"},
			uploader:       true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "storage not configured",
			body:           audioTrimBody{Temp_ID: "abc123"},
			stage:          true,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploader := &recordingUploader{}
			var s *services.AudioService
			if tt.uploader {
				s = newTestAudioPipeline(t, uploader)
			} else {
				s = newTestAudioPipeline(t, nil)
			}
			if tt.stage {
				assert.NoError(t, os.WriteFile(s.TempPath(tt.body.Temp_ID), []byte("mp3"), 0o600))
			}

			c, w := SetupTestContext()
			SetJSONBody(c, http.MethodPost, tt.body)
			TrimUploadAudio(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedKey != "" {
				assert.Equal(t, tt.expectedKey, uploader.key)
				assert.Equal(t, "trimmed", uploader.body)
			}
			if tt.stage {
				// staged files are cleaned up whatever the outcome
				matches, _ := filepath.Glob(filepath.Join(s.TempDir, "admin_audio_*"))
				assert.Empty(t, matches)
			}
		})
	}
}

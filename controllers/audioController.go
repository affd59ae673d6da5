package controllers

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Taraweeh/services"
	"github.com/gin-gonic/gin"
)

type audioExtractBody struct {
	URL string `json:"url"`
}

type audioTrimBody struct {
	Temp_ID  string `json:"temp_id"`
	Start_Ms int    `json:"start_ms"`
	End_Ms   *int   `json:"end_ms"`
	Filename string `json:"filename"`
}

func audioPipeline(c *gin.Context) (*services.AudioService, bool) {
	s := services.GetAudioService()
	if s == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audio pipeline not configured"})
		return nil, false
	}
	return s, true
}

// audioError maps pipeline failures to responses. timeoutMsg names the step
// that ran out of time.
func audioError(c *gin.Context, err error, timeoutMsg string) {
	var cmdErr *services.CommandError
	switch {
	case errors.Is(err, services.ErrAudioTimeout):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeoutMsg})
	case errors.Is(err, services.ErrInvalidTempID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
	case errors.Is(err, services.ErrAudioNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "الملف غير موجود"})
	case errors.Is(err, services.ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, gin.H{"error": "مدة غير صالحة"})
	case errors.Is(err, services.ErrStorageDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Audio storage not configured"})
	case errors.As(err, &cmdErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "فشل استخراج الصوت: " + services.Truncate(cmdErr.Stderr, 200)})
	default:
		serverError(c, err, "Audio processing failed")
	}
}

// ExtractAudio - Pull the audio of a YouTube or X post into a temp clip
func ExtractAudio(c *gin.Context) {
	s, ok := audioPipeline(c)
	if !ok {
		return
	}

	var body audioExtractBody
	_ = c.ShouldBindJSON(&body)
	url := strings.TrimSpace(body.URL)
	if url == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الرابط مطلوب"})
		return
	}

	clip, err := s.Extract(c.Request.Context(), url)
	if errors.Is(err, services.ErrUnsupportedURL) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "الرابط غير مدعوم (يوتيوب أو تويتر فقط)"})
		return
	}
	if err != nil {
		audioError(c, err, "انتهت مهلة الاستخراج")
		return
	}

	c.JSON(http.StatusOK, clip)
}

// GetTempAudio - Stream a staged clip so the reviewer can pick trim points
func GetTempAudio(c *gin.Context) {
	s, ok := audioPipeline(c)
	if !ok {
		return
	}

	tempID := c.Param("temp_id")
	if !services.ValidTempID(tempID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}
	path := s.TempPath(tempID)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "الملف غير موجود"})
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.File(path)
}

// UploadAudioFile - Stage an uploaded recording, converting it to mp3
func UploadAudioFile(c *gin.Context) {
	s, ok := audioPipeline(c)
	if !ok {
		return
	}

	if c.Request.ContentLength > services.MaxAudioUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "حجم الملف كبير جداً (الحد الأقصى 50 ميجابايت)"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxAudioUploadBytes)

	header, err := c.FormFile("file")
	if err != nil || header.Filename == "" {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "حجم الملف كبير جداً (الحد الأقصى 50 ميجابايت)"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "لم يتم اختيار ملف"})
		return
	}

	file, err := header.Open()
	if err != nil {
		serverError(c, err, "Failed to read upload")
		return
	}
	defer file.Close()

	clip, err := s.SaveUpload(c.Request.Context(), header.Filename, file)
	if errors.Is(err, services.ErrUnsupportedFormat) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "نوع الملف غير مدعوم (" + strings.ToLower(filepath.Ext(header.Filename)) + ")"})
		return
	}
	if err != nil {
		audioError(c, err, "انتهت مهلة التحويل")
		return
	}

	c.JSON(http.StatusOK, clip)
}

// TrimUploadAudio - Cut the chosen range out of a staged clip and publish it
func TrimUploadAudio(c *gin.Context) {
	s, ok := audioPipeline(c)
	if !ok {
		return
	}

	var body audioTrimBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "معرف غير صالح"})
		return
	}

	url, err := s.TrimUpload(c.Request.Context(), strings.TrimSpace(body.Temp_ID), body.Start_Ms, body.End_Ms, body.Filename)
	if err != nil {
		audioError(c, err, "انتهت مهلة القص")
		return
	}

	requestLogger(c).Info().Str("url", url).Msg("audio sample uploaded")
	c.JSON(http.StatusOK, gin.H{"s3_url": url})
}

package endpoints

import (
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EasterCompany/dex-voice-agent/fault"
)

type textInput struct {
	Text string `json:"text"`
}

// handleGenerateAudio synthesizes caller-supplied text directly.
func (s *Server) handleGenerateAudio(c *gin.Context) {
	var input textInput
	if err := c.ShouldBindJSON(&input); err != nil {
		s.jsonError(c, fault.Wrap(fault.Validation, fault.StageInput, "Invalid request body", err))
		return
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		s.jsonError(c, fault.New(fault.Validation, fault.StageInput, "Text is required"))
		return
	}

	audioURL, err := s.ttsClient.Synthesize(c.Request.Context(), text)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "audio_url": audioURL})
}

// handleUploadAudio stores the uploaded file under the upload directory and
// reports its metadata. Pure storage, nothing downstream.
func (s *Server) handleUploadAudio(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		s.jsonError(c, fault.Wrap(fault.Validation, fault.StageUpload, "No file provided", err))
		return
	}

	dst := filepath.Join(s.cfg.UploadDir, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, dst); err != nil {
		s.jsonError(c, fault.Wrap(fault.Internal, fault.StageUpload, "Upload failed", err))
		return
	}

	info, err := os.Stat(dst)
	if err != nil {
		s.jsonError(c, fault.Wrap(fault.Internal, fault.StageUpload, "Upload failed", err))
		return
	}
	sizeKB := math.Round(float64(info.Size())/1024*100) / 100

	s.logger.Info().Str("filename", file.Filename).Float64("size_kb", sizeKB).Msg("file uploaded")
	c.JSON(http.StatusOK, gin.H{
		"filename":     file.Filename,
		"content_type": file.Header.Get("Content-Type"),
		"size_kb":      sizeKB,
	})
}

// readAudioFile pulls the multipart audio payload into memory. The bytes are
// handed to the transcription adapter as-is; nothing is written to disk, so
// there is no temp file to clean up.
func readAudioFile(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, fault.Wrap(fault.Validation, fault.StageInput, "No audio file provided", err)
	}
	f, err := file.Open()
	if err != nil {
		return nil, fault.Wrap(fault.Internal, fault.StageInput, "Could not open uploaded file", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fault.Wrap(fault.Internal, fault.StageInput, "Could not read uploaded file", err)
	}
	return data, nil
}

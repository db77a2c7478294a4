package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleTranscribeFile transcribes an uploaded recording and returns the text.
func (s *Server) handleTranscribeFile(c *gin.Context) {
	audio, err := readAudioFile(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}

	transcript, err := s.sttClient.Transcribe(c.Request.Context(), audio)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "transcript": transcript})
}

// handleEcho transcribes the recording and speaks the same text back through
// the synthesis adapter.
func (s *Server) handleEcho(c *gin.Context) {
	audio, err := readAudioFile(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}

	transcript, err := s.sttClient.Transcribe(c.Request.Context(), audio)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}

	audioURL, err := s.ttsClient.Synthesize(c.Request.Context(), transcript)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "audio_url": audioURL, "transcript": transcript})
}

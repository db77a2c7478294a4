package endpoints

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/EasterCompany/dex-voice-agent/fault"
	"github.com/EasterCompany/dex-voice-agent/tts"
)

type errorBody struct {
	Message  string `json:"message"`
	Stage    string `json:"stage,omitempty"`
	Upstream any    `json:"upstream,omitempty"`
}

// jsonError writes the structured error envelope with the status code the
// error's kind dictates. Unclassified errors surface as a generic 500 with no
// internal detail.
func (s *Server) jsonError(c *gin.Context, err error) {
	body := errorBody{Message: "Internal server error"}
	if fe := fault.As(err); fe != nil {
		body.Message = fe.Message
		body.Stage = fe.Stage
		body.Upstream = fe.Upstream
	}
	s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	c.JSON(fault.StatusOf(err), gin.H{"ok": false, "error": body})
}

// fallbackAudio serves the pre-generated fallback asset in place of an error.
// Audio-contract endpoints always return playable audio; raw upstream errors
// never reach a voice client.
func (s *Server) fallbackAudio(c *gin.Context, err error) {
	s.logger.Warn().Err(err).Str("path", c.FullPath()).Msg("serving fallback audio")
	s.serveAsset(c, tts.FallbackFileName)
}

// noSpeechAudio serves the "couldn't hear you" asset.
func (s *Server) noSpeechAudio(c *gin.Context) {
	s.logger.Warn().Str("path", c.FullPath()).Msg("no speech detected, serving fallback audio")
	s.serveAsset(c, tts.NoSpeechFileName)
}

func (s *Server) serveAsset(c *gin.Context, name string) {
	c.Header("Content-Type", "audio/mpeg")
	c.File(filepath.Join(s.cfg.UploadDir, name))
}

// adapterFailure reports whether err came from an adapter (and should map to
// fallback audio) rather than from storage or a bug (JSON 500).
func adapterFailure(err error) bool {
	switch fault.KindOf(err) {
	case fault.Config, fault.Upstream, fault.Timeout, fault.NotFoundUpstream:
		return true
	}
	return false
}

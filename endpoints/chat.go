package endpoints

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/EasterCompany/dex-voice-agent/fault"
	"github.com/EasterCompany/dex-voice-agent/history"
	"github.com/EasterCompany/dex-voice-agent/tts"
)

// handleLLMQuery runs the single-turn pipeline:
// transcribe → respond → synthesize. No history is read or written.
func (s *Server) handleLLMQuery(c *gin.Context) {
	audio, err := readAudioFile(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	ctx := c.Request.Context()

	userText, err := s.sttClient.Transcribe(ctx, audio)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}
	if userText == "" {
		s.noSpeechAudio(c)
		return
	}

	llmText, err := s.llmClient.Respond(ctx, userText)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}

	audioURL, err := s.ttsClient.Synthesize(ctx, tts.Truncate(llmText))
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"transcript":   userText,
		"llm_response": llmText,
		"audio_url":    audioURL,
	})
}

// handleAgentChat runs the multi-turn pipeline. The session's
// read-render-append sequence runs under the session lock, so concurrent
// requests for one session cannot interleave their turns. The user turn is
// persisted as soon as the transcript is known and the assistant turn as soon
// as the responder succeeds; both happen before synthesis, so history
// survives a failed synthesis call, and the user turn survives a failed
// responder call.
func (s *Server) handleAgentChat(c *gin.Context) {
	sessionID := c.Param("session_id")

	audio, err := readAudioFile(c)
	if err != nil {
		s.jsonError(c, err)
		return
	}
	ctx := c.Request.Context()

	userText, err := s.sttClient.Transcribe(ctx, audio)
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}
	userText = strings.TrimSpace(userText)
	if userText == "" {
		s.noSpeechAudio(c)
		return
	}

	var llmText string
	var turns []history.Turn
	err = s.store.WithLock(sessionID, func() error {
		prior, err := s.store.History(ctx, sessionID)
		if err != nil {
			return fault.Wrap(fault.Internal, "", "could not load conversation history", err)
		}
		prompt := history.RenderPrompt(prior, userText)

		if _, err := s.store.Append(ctx, sessionID, history.RoleUser, userText); err != nil {
			return fault.Wrap(fault.Internal, "", "could not persist user turn", err)
		}

		llmText, err = s.llmClient.Respond(ctx, prompt)
		if err != nil {
			return err
		}

		if _, err := s.store.Append(ctx, sessionID, history.RoleAssistant, llmText); err != nil {
			return fault.Wrap(fault.Internal, "", "could not persist assistant turn", err)
		}

		turns, err = s.store.History(ctx, sessionID)
		if err != nil {
			return fault.Wrap(fault.Internal, "", "could not load updated history", err)
		}
		return nil
	})
	if err != nil {
		// Adapter failures keep the audio contract; storage failures are
		// internal errors and get the JSON envelope instead.
		if adapterFailure(err) {
			s.fallbackAudio(c, err)
		} else {
			s.jsonError(c, err)
		}
		return
	}

	audioURL, err := s.ttsClient.Synthesize(ctx, tts.Truncate(llmText))
	if err != nil {
		s.fallbackAudio(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"session_id":   sessionID,
		"transcript":   userText,
		"llm_response": llmText,
		"audio_url":    audioURL,
		"history":      turns,
	})
}

// handleChatHistory returns the session transcript without running the
// pipeline. Unknown sessions read as empty, matching the store contract.
func (s *Server) handleChatHistory(c *gin.Context) {
	sessionID := c.Param("session_id")
	turns, err := s.store.History(c.Request.Context(), sessionID)
	if err != nil {
		s.jsonError(c, fault.Wrap(fault.Internal, "", "could not load conversation history", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session_id": sessionID, "history": turns})
}

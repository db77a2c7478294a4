// Package endpoints provides the HTTP surface and the per-endpoint pipelines
// that sequence the transcription, responder and synthesis adapters around
// the conversation store.
package endpoints

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/EasterCompany/dex-voice-agent/config"
	"github.com/EasterCompany/dex-voice-agent/health"
	"github.com/EasterCompany/dex-voice-agent/interfaces"
	"github.com/EasterCompany/dex-voice-agent/logger"
)

// Server wires the gin engine to the adapters and the conversation store.
type Server struct {
	cfg       *config.Config
	store     interfaces.ConversationStore
	sttClient interfaces.SpeechToText
	ttsClient interfaces.TextToSpeech
	llmClient interfaces.Responder

	engine     *gin.Engine
	httpServer *http.Server
	logger     zerolog.Logger
	startTime  time.Time
}

// NewServer builds the engine, middleware and routes.
func NewServer(cfg *config.Config, store interfaces.ConversationStore, stt interfaces.SpeechToText, tts interfaces.TextToSpeech, llm interfaces.Responder) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger())
	engine.Use(gin.Recovery())
	engine.Use(requestIDMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = false
	engine.Use(cors.New(corsConfig))

	s := &Server{
		cfg:       cfg,
		store:     store,
		sttClient: stt,
		ttsClient: tts,
		llmClient: llm,
		engine:    engine,
		logger:    logger.Component("endpoints"),
		startTime: time.Now(),
	}

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      engine,
		ReadTimeout:  2 * time.Minute,
		WriteTimeout: 2 * time.Minute,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// The bundled UI is optional; API-only deployments ship without it.
	if _, err := os.Stat("templates"); err == nil {
		s.engine.LoadHTMLGlob("templates/*.html")
		s.engine.GET("/", func(c *gin.Context) {
			c.HTML(http.StatusOK, "index.html", nil)
		})
	}
	if _, err := os.Stat("static"); err == nil {
		s.engine.Static("/static", "./static")
	}

	s.engine.GET("/health", s.handleHealth)

	s.engine.POST("/generate-audio", s.handleGenerateAudio)
	s.engine.POST("/upload-audio", s.handleUploadAudio)
	s.engine.POST("/transcribe/file", s.handleTranscribeFile)
	s.engine.POST("/tts/echo", s.handleEcho)
	s.engine.POST("/llm/query", s.handleLLMQuery)

	agent := s.engine.Group("/agent")
	{
		agent.POST("/chat/:session_id", s.handleAgentChat)
		agent.GET("/chat/:session_id/history", s.handleChatHistory)
	}
}

// Handler exposes the engine for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the listener fails or Shutdown is called.
func (s *Server) Run() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, health.Snapshot(c.Request.Context(), s.cfg, s.store, s.startTime))
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

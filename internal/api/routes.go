package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/xingkongliang/text-to-speech-app/domain/entities"
	"github.com/xingkongliang/text-to-speech-app/internal/auth"
	"github.com/xingkongliang/text-to-speech-app/internal/i18n"
	"github.com/xingkongliang/text-to-speech-app/internal/websocket"
	"github.com/xingkongliang/text-to-speech-app/usecase"
)

// Dependencies are the collaborators the HTTP shell drives
type Dependencies struct {
	Speech    *usecase.SpeechService
	Artifacts *usecase.ArtifactAccess
	Hub       *websocket.Hub
	Issuer    *auth.TokenIssuer // enables the bearer-token guard when not nil
	SaveDir   string            // save destinations resolve inside it
	Labels    i18n.Labels
	Logger    *zap.Logger
}

type handlers struct {
	Dependencies
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, deps Dependencies) {
	h := &handlers{Dependencies: deps}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "text-to-speech",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")
	if h.Issuer != nil {
		v1.Use(h.requireShellToken)
	}

	v1.GET("/voices", h.listVoices)

	// Speech APIs
	v1.POST("/speech", h.createSpeech, requireJSON)
	v1.DELETE("/speech/job", h.cancelJob)
	v1.GET("/speech/current", h.streamCurrent)
	v1.GET("/speech/current/info", h.describeCurrent)
	v1.POST("/speech/save", h.saveCurrent, requireJSON)

	// Event stream
	if h.Issuer != nil {
		e.GET("/ws", h.events, h.requireShellToken)
	} else {
		e.GET("/ws", h.events)
	}
}

func (h *handlers) listVoices(c echo.Context) error {
	voices := entities.Voices()
	names := make([]string, len(voices))
	for i, v := range voices {
		names[i] = string(v)
	}
	return c.JSON(http.StatusOK, VoicesResponse{
		Voices:  names,
		Default: string(entities.DefaultVoice),
	})
}

func (h *handlers) createSpeech(c echo.Context) error {
	var req SpeechRequest
	if err := c.Bind(&req); err != nil {
		h.Logger.Error("Failed to bind speech request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	synthesis := entities.SynthesisRequest{
		Text:     req.Text,
		Voice:    entities.Voice(req.Voice),
		FileName: req.FileName,
	}

	if req.Async {
		job, err := h.Speech.Submit(synthesis, func(result *entities.SynthesisResult, err error) {
			if err != nil {
				h.Logger.Warn("Background synthesis failed", zap.Error(err))
			}
		})
		if err != nil {
			return h.fail(c, err, h.Labels.GenerateMessage("", err))
		}
		return c.JSON(http.StatusAccepted, JobResponse{
			JobID:  job.ID,
			Status: "running",
		})
	}

	result, err := h.Speech.Synthesize(c.Request().Context(), synthesis)
	if err != nil {
		return h.fail(c, err, h.Labels.GenerateMessage("", err))
	}

	return c.JSON(http.StatusOK, SpeechResponse{
		Path:      result.Path,
		FileName:  result.FileName,
		Voice:     string(result.Voice),
		Bytes:     result.Bytes,
		ElapsedMs: result.Elapsed.Milliseconds(),
		Message:   h.Labels.GenerateMessage(result.Path, nil),
	})
}

func (h *handlers) cancelJob(c echo.Context) error {
	job := h.Speech.Session().Cancel()
	if job == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "no_job",
			Message: "No speech request is in progress",
		})
	}

	h.Logger.Info("Synthesis cancelled", zap.String("jobID", job.ID))
	return c.JSON(http.StatusOK, JobResponse{
		JobID:  job.ID,
		Status: "cancelled",
	})
}

func (h *handlers) streamCurrent(c echo.Context) error {
	rc, err := h.Artifacts.Open()
	if err != nil {
		return h.fail(c, err, h.Labels.PlayMessage(err))
	}
	defer rc.Close()

	return c.Stream(http.StatusOK, "audio/mpeg", rc)
}

func (h *handlers) describeCurrent(c echo.Context) error {
	artifact, err := h.Artifacts.Describe()
	if err != nil {
		return h.fail(c, err, h.Labels.PlayMessage(err))
	}

	return c.JSON(http.StatusOK, ArtifactInfoResponse{
		Path:       artifact.Path,
		Size:       artifact.Size,
		ModifiedAt: artifact.ModTime,
		DurationMs: artifact.Duration.Milliseconds(),
	})
}

func (h *handlers) saveCurrent(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Destination) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Destination is required",
		})
	}

	path, err := h.Artifacts.CopyWithin(h.SaveDir, req.Destination)
	if err != nil {
		return h.fail(c, err, h.Labels.SaveMessage("", err))
	}

	return c.JSON(http.StatusOK, SaveResponse{
		Path:    path,
		Message: h.Labels.SaveMessage(path, nil),
	})
}

func (h *handlers) events(c echo.Context) error {
	return websocket.HandleWebSocket(h.Hub, c, h.Logger)
}

// requireShellToken rejects requests without a valid shell token. The token is
// read from the Authorization header, or from the token query parameter for
// browser WebSocket clients that cannot set headers.
func (h *handlers) requireShellToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := auth.BearerToken(c.Request().Header.Get("Authorization"))
		if token == "" {
			token = c.QueryParam("token")
		}

		if token == "" {
			h.Logger.Warn("Request rejected: missing token", zap.String("path", c.Path()))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "missing_token",
				Message: "JWT token is required in Authorization header",
			})
		}

		claims, err := h.Issuer.ValidateToken(token)
		if err != nil {
			h.Logger.Warn("Request rejected: invalid token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "invalid_token",
				Message: "Invalid or expired JWT token",
			})
		}

		c.Set("subject", claims.Subject)
		return next(c)
	}
}

// requireJSON refuses bodies the default binder would otherwise accept as
// form fields, so a cross-site HTML form cannot drive the API.
func requireJSON(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		contentType := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
		if !strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
			return c.JSON(http.StatusUnsupportedMediaType, ErrorResponse{
				Error:   "unsupported_media_type",
				Message: "Content-Type must be application/json",
			})
		}
		return next(c)
	}
}

// fail maps a service error onto its HTTP status
func (h *handlers) fail(c echo.Context, err error, message string) error {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.JSON(status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, entities.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, entities.ErrBusy):
		return http.StatusConflict, "busy"
	case errors.Is(err, entities.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, entities.ErrSynthesisFailed):
		return http.StatusBadGateway, "synthesis_failed"
	case errors.Is(err, entities.ErrIOFailed):
		return http.StatusInternalServerError, "io_failed"
	case errors.Is(err, entities.ErrWriteFailed):
		return http.StatusInternalServerError, "write_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/storyboard/internal/common"
	"github.com/dmitrijs2005/storyboard/internal/logging"
	"github.com/dmitrijs2005/storyboard/internal/storyboard"
	"github.com/dmitrijs2005/storyboard/internal/workflow"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

// HistoryReader is the read side of the journal.
type HistoryReader interface {
	List(ctx context.Context, sessionID string, limit int) ([]storyboard.HistoryItem, error)
	Sessions(ctx context.Context) ([]string, error)
}

type Handler struct {
	session *workflow.Session
	keys    *workflow.KeyHolder
	history HistoryReader
	logger  logging.Logger
}

// NewHandler serves s. keys receives keys posted to /api/credential;
// history may be nil, the in-memory log is served then.
func NewHandler(s *workflow.Session, keys *workflow.KeyHolder, history HistoryReader, l logging.Logger) *Handler {
	return &Handler{session: s, keys: keys, history: history, logger: l.With("module", "httpapi")}
}

// Router builds the gin engine with all routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := r.Group("/api")
	api.GET("/state", h.getState)
	api.PUT("/settings", h.putSettings)
	api.POST("/script", h.postScript)
	api.PATCH("/scenes/:id", h.patchScene)
	api.DELETE("/scenes/:id", h.deleteScene)
	api.POST("/scenes/:id/regenerate", h.postRegenerate)
	api.POST("/scenes/:id/image", h.postImage)
	api.POST("/scenes/:id/video", h.postVideo)
	api.GET("/scenes/:id/media", h.getMedia)
	api.POST("/videos", h.postVideos)
	api.POST("/assets", h.postAsset)
	api.DELETE("/assets/:id", h.deleteAsset)
	api.POST("/exports/:kind", h.postExport)
	api.POST("/credential", h.postCredential)
	api.GET("/history", h.getHistory)
	api.GET("/sessions", h.getSessions)
	api.POST("/reset", h.postReset)
	return r
}

func (h *Handler) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()
	h.logger.Debug(c.Request.Context(), "request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"elapsed", time.Since(start))
}

func (h *Handler) writeState(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, newStateView(h.session.State(), h.session.Authorized(ctx)))
}

func (h *Handler) getState(c *gin.Context) {
	h.writeState(c)
}

type settingsRequest struct {
	Plot       *string `json:"plot"`
	Style      *string `json:"style"`
	SceneCount *int    `json:"sceneCount"`
	Resolution *string `json:"resolution"`
	Duration   *int    `json:"duration"`
}

// putSettings applies the fields present in the body in a fixed order and
// stops at the first invalid one.
func (h *Handler) putSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	var steps []func() error
	if req.Plot != nil {
		steps = append(steps, func() error { return h.session.SetPlot(ctx, *req.Plot) })
	}
	if req.Style != nil {
		steps = append(steps, func() error { return h.session.SetStyle(ctx, *req.Style) })
	}
	if req.SceneCount != nil {
		steps = append(steps, func() error { return h.session.SetSceneCount(ctx, *req.SceneCount) })
	}
	if req.Resolution != nil {
		steps = append(steps, func() error {
			r, err := storyboard.ParseResolution(*req.Resolution)
			if err != nil {
				return err
			}
			return h.session.SetResolution(ctx, r)
		})
	}
	if req.Duration != nil {
		steps = append(steps, func() error {
			d, err := storyboard.ParseDuration(*req.Duration)
			if err != nil {
				return err
			}
			return h.session.SetDuration(ctx, d)
		})
	}

	for _, step := range steps {
		if err := step(); err != nil {
			h.writeError(c, err)
			return
		}
	}
	h.writeState(c)
}

// jobContext detaches generation from the request: a dropped connection
// must not abandon a job the backend keeps running.
func jobContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

func (h *Handler) postScript(c *gin.Context) {
	if err := h.session.GenerateScript(jobContext(c.Request.Context())); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeState(c)
}

type editRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *Handler) patchScene(c *gin.Context) {
	var req editRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	field, err := storyboard.ParseSceneField(req.Field)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.session.EditScene(c.Request.Context(), c.Param("id"), field, req.Value); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeState(c)
}

func (h *Handler) deleteScene(c *gin.Context) {
	ctx, conf := withConfirmation(c)
	if err := h.session.DeleteScene(ctx, c.Param("id")); err != nil {
		if errors.Is(err, common.ErrNotConfirmed) {
			c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error(), "confirm": conf.prompt})
			return
		}
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// sceneAction runs one per-scene generation and answers with the new state.
func (h *Handler) sceneAction(run func(context.Context, string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := run(jobContext(c.Request.Context()), c.Param("id")); err != nil {
			h.writeError(c, err)
			return
		}
		h.writeState(c)
	}
}

func (h *Handler) postRegenerate(c *gin.Context) { h.sceneAction(h.session.RegenerateScene)(c) }
func (h *Handler) postImage(c *gin.Context) { h.sceneAction(h.session.GenerateImage)(c) }
func (h *Handler) postVideo(c *gin.Context) { h.sceneAction(h.session.GenerateVideo)(c) }

// getMedia serves the scene's video (kind=video) or still (kind=image).
// Without kind the preview is served: the video when there is one.
func (h *Handler) getMedia(c *gin.Context) {
	sc, ok := h.session.State().Scene(c.Param("id"))
	if !ok {
		h.writeError(c, fmt.Errorf("scene %s: %w", c.Param("id"), common.ErrorNotFound))
		return
	}

	var (
		blob  storyboard.Blob
		found bool
	)
	switch c.Query("kind") {
	case "video":
		blob, found = storyboard.VideoOf(sc.Media)
	case "image":
		blob, found = storyboard.StillOf(sc.Media)
	case "":
		blob, found = storyboard.Preview(sc.Media)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be video or image"})
		return
	}
	if !found {
		h.writeError(c, fmt.Errorf("media of scene %d: %w", sc.Number, common.ErrorNotFound))
		return
	}
	c.Data(http.StatusOK, blob.MIMEType, blob.Data)
}

type bulkResponse struct {
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

func (h *Handler) postVideos(c *gin.Context) {
	ctx, conf := withConfirmation(c)
	res, err := h.session.GenerateAllVideos(jobContext(ctx))
	body := bulkResponse{Generated: res.Generated, Skipped: res.Skipped, Failed: res.Failed}
	switch {
	case errors.Is(err, common.ErrNotConfirmed):
		c.JSON(http.StatusPreconditionRequired, gin.H{"error": err.Error(), "confirm": conf.prompt})
	case err != nil:
		h.writeError(c, err)
	default:
		c.JSON(http.StatusOK, body)
	}
}

func (h *Handler) postAsset(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	a, err := h.session.AddAsset(c.Request.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAssetView(a))
}

func (h *Handler) deleteAsset(c *gin.Context) {
	if err := h.session.RemoveAsset(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) postExport(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		locs []string
		err  error
	)
	switch storyboard.ExportKind(c.Param("kind")) {
	case storyboard.ExportVideos:
		locs, err = h.session.ExportVideos(ctx)
	case storyboard.ExportScript:
		var loc string
		loc, err = h.session.ExportScript(ctx)
		locs = []string{loc}
	case storyboard.ExportSheet:
		var loc string
		loc, err = h.session.ExportContactSheet(ctx)
		locs = []string{loc}
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown export " + c.Param("kind")})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locations": locs})
}

type credentialRequest struct {
	Key string `json:"key" binding:"required"`
}

// postCredential installs a key and reopens the video gate.
func (h *Handler) postCredential(c *gin.Context) {
	var req credentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.keys.Set(req.Key)
	if err := h.session.SelectCredential(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeState(c)
}

func (h *Handler) getHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	var items []storyboard.HistoryItem
	if h.history != nil {
		var err error
		if items, err = h.history.List(c.Request.Context(), h.session.ID(), limit); err != nil {
			h.writeError(c, err)
			return
		}
	} else {
		all := h.session.State().History
		for i := len(all) - 1; i >= 0 && len(items) < limit; i-- {
			items = append(items, all[i])
		}
	}
	c.JSON(http.StatusOK, gin.H{"session": h.session.ID(), "items": newHistoryViews(items)})
}

// getSessions lists the sessions with stored history. Without a journal
// only the live session is known.
func (h *Handler) getSessions(c *gin.Context) {
	ids := []string{h.session.ID()}
	if h.history != nil {
		var err error
		if ids, err = h.history.Sessions(c.Request.Context()); err != nil {
			h.writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"current": h.session.ID(), "sessions": ids})
}

func (h *Handler) postReset(c *gin.Context) {
	if err := h.session.Reset(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	h.writeState(c)
}

package gameapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/metrics"
	"github.com/beka-birhanu/vinom-nav/service/i"
)

const defaultTopN = 10

// RunsController exposes the metrics manager. Reads are public; opening,
// updating and closing runs needs an operator token.
type RunsController struct {
	mu          sync.Mutex // Guards manager
	manager     *metrics.Manager
	leaderboard i.Leaderboard
	logger      game.Logger
}

// NewRunsController initializes a RunsController. The leaderboard is optional.
func NewRunsController(m *metrics.Manager, lb i.Leaderboard, logger game.Logger) *RunsController {
	return &RunsController{
		manager:     m,
		leaderboard: lb,
		logger:      game.LoggerOrNop(logger),
	}
}

// RegisterPublic registers public routes.
func (r *RunsController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/metrics", r.table)
	route.GET("/metrics/:maze/:algorithm", r.average)
	route.GET("/leaderboard/:maze", r.top)
}

// RegisterProtected registers protected routes.
func (r *RunsController) RegisterProtected(route *gin.RouterGroup) {
	runs := route.Group("/runs")
	{
		runs.POST("", r.start)
		runs.PATCH("", r.update)
		runs.POST("/end", r.end)
	}
}

func (r *RunsController) table(ctx *gin.Context) {
	r.mu.Lock()
	t := r.manager.Table()
	r.mu.Unlock()
	ctx.JSON(http.StatusOK, t)
}

func (r *RunsController) average(ctx *gin.Context) {
	a := game.Algorithm(ctx.Param("algorithm"))
	if !a.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown algorithm %q", a)})
		return
	}

	r.mu.Lock()
	m, ok := r.manager.GetAverageMetrics(a, ctx.Param("maze"))
	r.mu.Unlock()
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "no successful runs"})
		return
	}
	ctx.JSON(http.StatusOK, m)
}

func (r *RunsController) top(ctx *gin.Context) {
	if r.leaderboard == nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "leaderboard disabled"})
		return
	}

	n := defaultTopN
	if raw := ctx.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "n must be a positive integer"})
			return
		}
		n = v
	}

	entries, err := r.leaderboard.Top(ctx, ctx.Param("maze"), n)
	if err != nil {
		r.logger.Error(fmt.Sprintf("reading leaderboard: %s", err))
		ctx.Status(http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []i.LeaderboardEntry{}
	}
	ctx.JSON(http.StatusOK, entries)
}

func (r *RunsController) start(ctx *gin.Context) {
	var request StartRunRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !request.Algorithm.Valid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown algorithm %q", request.Algorithm)})
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.manager.StartRun(ctx, request.Algorithm, request.Maze)
	ctx.JSON(http.StatusCreated, StartRunResponse{ID: id})
}

func (r *RunsController) update(ctx *gin.Context) {
	var request UpdateRunRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.manager.UpdateRun(metrics.RunUpdate{
		PathLength:    request.PathLength,
		NodesExplored: request.NodesExplored,
		Elapsed:       millis(request.ElapsedMs),
		TimeRemaining: millis(request.RemainingMs),
		TotalTime:     millis(request.TotalMs),
	})
	if err != nil {
		r.fail(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (r *RunsController) end(ctx *gin.Context) {
	var request EndRunRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	open, ok := r.manager.OpenRun()
	if !ok {
		r.fail(ctx, metrics.ErrNoOpenRun)
		return
	}

	var score float64
	switch {
	case !request.Success:
	case request.Score != nil:
		score = *request.Score
	case request.Optimal != nil:
		elapsed := time.Duration(open.Elapsed * float64(time.Second))
		score = metrics.Score(*request.Optimal, open.PathLength, open.NodesExplored, elapsed)
	}

	run, err := r.manager.EndRun(ctx, request.Success, score)
	if err != nil {
		r.fail(ctx, err)
		return
	}

	if run.Success && r.leaderboard != nil {
		if err := r.leaderboard.Submit(ctx, run.Maze, run.Algorithm, run.Score); err != nil {
			r.logger.Error(fmt.Sprintf("submitting %s score on %s: %s", run.Algorithm, run.Maze, err))
		}
	}
	ctx.JSON(http.StatusOK, RunResponse{Run: run})
}

func millis(ms *int64) *time.Duration {
	if ms == nil {
		return nil
	}
	return metrics.Duration(time.Duration(*ms) * time.Millisecond)
}

func (r *RunsController) fail(ctx *gin.Context, err error) {
	if errors.Is(err, metrics.ErrNoOpenRun) {
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	r.logger.Error(err.Error())
	ctx.Status(http.StatusInternalServerError)
}

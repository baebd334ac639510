package gameapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/beka-birhanu/vinom-nav/game"
	"github.com/beka-birhanu/vinom-nav/game/learning"
	"github.com/beka-birhanu/vinom-nav/game/maze"
	"github.com/beka-birhanu/vinom-nav/game/search"
	"github.com/beka-birhanu/vinom-nav/service"
)

var (
	ErrNoEndpoints = errors.New("variant has no reachable endpoints")
)

// NavigationController answers path and move queries on named variants.
// Navigators built for move queries are kept in a bounded LRU cache.
type NavigationController struct {
	factory          *service.Factory
	trainingEpisodes int
	logger           game.Logger
	cache            *navigatorCache
}

// NavigationConfig holds the dependencies of a NavigationController.
type NavigationConfig struct {
	Factory          *service.Factory
	TrainingEpisodes int // Episodes a learner trains before its first move, zero selects its configured cap
	CacheSize        int // Navigators kept for move queries, defaults to 32
	Logger           game.Logger
}

// NewNavigationController initializes a NavigationController with the given
// configuration.
func NewNavigationController(c *NavigationConfig) *NavigationController {
	return &NavigationController{
		factory:          c.Factory,
		trainingEpisodes: c.TrainingEpisodes,
		logger:           game.LoggerOrNop(c.Logger),
		cache:            newNavigatorCache(c.CacheSize),
	}
}

// RegisterPublic registers public routes.
func (n *NavigationController) RegisterPublic(route *gin.RouterGroup) {
	nav := route.Group("/navigation")
	{
		nav.POST("/path", n.path)
		nav.POST("/move", n.move)
	}
}

// RegisterProtected registers protected routes.
func (n *NavigationController) RegisterProtected(route *gin.RouterGroup) {}

func (n *NavigationController) path(ctx *gin.Context) {
	var request PathRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := maze.NewVariant(request.Maze, variantSeed(request.WorldRequest))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	finder, err := search.New(request.Algorithm, v.Grid)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counter := &game.NodeCounter{}
	finder.SetNodeRecorder(counter)
	path, cost := finder.FindPath(orDefault(request.Start, v.Start()), orDefault(request.Goal, v.Goal()))

	response := PathResponse{Path: path, NodesExplored: counter.Count()}
	if response.Path == nil {
		response.Path = []game.Position{}
	}
	if !math.IsInf(cost, 1) {
		response.Cost = &cost
	}
	ctx.JSON(http.StatusOK, response)
}

func (n *NavigationController) move(ctx *gin.Context) {
	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := n.navigator(ctx, request.WorldRequest)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e.mu.Lock()
	d := e.nav.NextMove(request.Current, orDefault(request.Goal, e.variant.Goal()))
	e.mu.Unlock()

	ctx.JSON(http.StatusOK, MoveResponse{Direction: d, Next: request.Current.Step(d)})
}

func (n *NavigationController) navigator(ctx context.Context, request WorldRequest) (*navEntry, error) {
	seed := variantSeed(request)
	key := fmt.Sprintf("%s/%d/%s", request.Maze, seed, request.Algorithm)

	return n.cache.getOrBuild(key, func() (*navEntry, error) {
		v, err := maze.NewVariant(request.Maze, seed)
		if err != nil {
			return nil, err
		}
		// The build is shared with other callers of the same key.
		nav, err := n.factory.Build(context.WithoutCancel(ctx), request.Algorithm, v.Grid, v.Name, true)
		if err != nil {
			return nil, err
		}

		if l, ok := nav.(learning.Learner); ok {
			report := l.Train(v.Start(), v.Goal(), n.trainingEpisodes, 0)
			if report.Summary.StopReason == learning.StopReasonInvalidEndpoints {
				return nil, ErrNoEndpoints
			}
			l.ResetHistory()
			n.logger.Info(fmt.Sprintf("trained %s on %s: %d episodes, success rate %.2f",
				request.Algorithm, v.Name, report.Summary.TotalEpisodes, report.Summary.SuccessRate))
		}
		return &navEntry{nav: nav, variant: v}, nil
	})
}

// variantSeed drops the seed of variants that do not use one, so they share
// a cache entry.
func variantSeed(request WorldRequest) int64 {
	if request.Maze != maze.VariantWillson {
		return 0
	}
	return request.Seed
}

func orDefault(p *game.Position, def game.Position) game.Position {
	if p == nil {
		return def
	}
	return *p
}

package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"optimeal/internal/clipper"
	"optimeal/internal/generator"
	"optimeal/internal/planner"
	"optimeal/internal/selector"
)

// Server exposes the planning pipeline over HTTP. The generator, clipper and
// repository are optional; their endpoints report 503 when the dependency is
// not configured.
type Server struct {
	planner   *planner.Planner
	generator *generator.Generator
	clipper   *clipper.Clipper
	plans     *planner.PlanRepository
	jwt       JWTConfig
}

// NewServer creates a Server.
func NewServer(p *planner.Planner, gen *generator.Generator, clip *clipper.Clipper, plans *planner.PlanRepository, jwt JWTConfig) *Server {
	return &Server{
		planner:   p,
		generator: gen,
		clipper:   clip,
		plans:     plans,
		jwt:       jwt,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1", JWTMiddleware(s.jwt))
	{
		v1.POST("/meal-plans", s.createMealPlan)
		v1.GET("/meal-plans", s.listMealPlans)
		v1.GET("/recipes", s.listRecipes)
		v1.POST("/recipes/generate", s.generateRecipe)
		v1.POST("/recipes/clip", s.clipRecipe)
	}

	return r
}

type createMealPlanRequest struct {
	planner.Preferences
	SingleStoreMode bool `json:"single_store_mode"`
}

func (s *Server) createMealPlan(c *gin.Context) {
	var req createMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.WeeklyBudget <= 0 {
		errorResponse(c, http.StatusBadRequest, "invalid_request", "weekly_budget must be positive")
		return
	}

	plan, err := s.planner.GeneratePlan(req.Preferences, req.SingleStoreMode)
	if err != nil {
		switch {
		case errors.Is(err, selector.ErrNoEligibleCandidates):
			errorResponse(c, http.StatusUnprocessableEntity, "no_eligible_candidates", err.Error())
		case errors.Is(err, selector.ErrInfeasible):
			errorResponse(c, http.StatusUnprocessableEntity, "infeasible", err.Error())
		default:
			errorResponse(c, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}

	if s.plans != nil {
		data, err := json.Marshal(plan)
		if err == nil {
			err = s.plans.Save(c.Request.Context(), GetUserID(c), data)
		}
		if err != nil {
			// History is best-effort; the plan itself is still returned.
			log.Printf("failed to store meal plan: %v", err)
		}
	}

	c.JSON(http.StatusCreated, plan)
}

func (s *Server) listMealPlans(c *gin.Context) {
	if s.plans == nil {
		errorResponse(c, http.StatusServiceUnavailable, "unavailable", "plan history is not configured")
		return
	}

	stored, err := s.plans.ListRecentByUserID(c.Request.Context(), GetUserID(c), 10)
	if err != nil {
		errorResponse(c, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	type entry struct {
		ID        int64           `json:"id"`
		CreatedAt string          `json:"created_at"`
		Plan      json.RawMessage `json:"plan"`
	}
	out := make([]entry, 0, len(stored))
	for _, p := range stored {
		out = append(out, entry{ID: p.ID, CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"), Plan: p.PlanData})
	}
	c.JSON(http.StatusOK, gin.H{"meal_plans": out})
}

func (s *Server) listRecipes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"recipes": s.planner.Recipes()})
}

func (s *Server) generateRecipe(c *gin.Context) {
	if s.generator == nil {
		errorResponse(c, http.StatusServiceUnavailable, "unavailable", "recipe generation is not configured")
		return
	}

	var req generator.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Description == "" {
		errorResponse(c, http.StatusBadRequest, "invalid_request", "description is required")
		return
	}

	r, err := s.generator.Generate(c.Request.Context(), req)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, "generation_failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, r)
}

type clipRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) clipRecipe(c *gin.Context) {
	if s.clipper == nil {
		errorResponse(c, http.StatusServiceUnavailable, "unavailable", "recipe clipping is not configured")
		return
	}

	var req clipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	r, err := s.clipper.ClipURL(c.Request.Context(), req.URL)
	if err != nil {
		errorResponse(c, http.StatusUnprocessableEntity, "clip_failed", err.Error())
		return
	}
	c.JSON(http.StatusCreated, r)
}

func errorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": code, "message": message})
}

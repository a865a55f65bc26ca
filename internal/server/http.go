package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/spendguard/spend-intervention/pkg/behavior"
	"github.com/spendguard/spend-intervention/pkg/cart"
	"github.com/spendguard/spend-intervention/pkg/engine"
)

// HTTPServer exposes the engine over a JSON API for the extension UI.
type HTTPServer struct {
	server *http.Server
	engine *engine.Engine
	port   int
}

// NewHTTPServer creates the API server around the engine facade.
func NewHTTPServer(eng *engine.Engine, port int, environment string) *HTTPServer {
	if environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{engine: eng, port: port}

	router := gin.New()
	router.Use(gin.Recovery())
	s.registerRoutes(router)

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}
	return s
}

func (s *HTTPServer) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	users := router.Group("/v1/users/:id")
	{
		users.GET("/stats", s.getUserStats)
		users.GET("/achievements", s.getAchievements)
		users.GET("/history/stats", s.getHistoryStats)
		users.GET("/history/similar", s.getSimilar)
		users.GET("/reports/monthly", s.getMonthlyReport)
		users.GET("/reports/weekly", s.getWeeklyReport)
		users.GET("/interventions/stats", s.getInterventionStats)

		users.POST("/behaviors", s.postBehavior)
		users.POST("/interventions/plan", s.postPlan)
		users.POST("/interventions/outcome", s.postOutcome)
		users.POST("/timer/complete", s.postTimerComplete)
		users.POST("/endure", s.postEndure)
		users.POST("/regrets", s.postRegret)
	}
}

type behaviorRequest struct {
	Kind string `json:"kind" binding:"required"`
}

type itemRequest struct {
	Title    string `json:"title" binding:"required"`
	Price    int    `json:"price"`
	ImageURL string `json:"imageUrl"`
}

type planRequest struct {
	Items []itemRequest `json:"items" binding:"required"`
}

type outcomeRequest struct {
	Blocked  bool          `json:"blocked"`
	Items    []itemRequest `json:"items" binding:"required"`
	Dialogue []string      `json:"dialogue"`
	Amount   int           `json:"amount"`
}

type regretRequest struct {
	ItemTitle string `json:"itemTitle" binding:"required"`
	Reason    string `json:"reason"`
}

func (s *HTTPServer) getUserStats(c *gin.Context) {
	stats, err := s.engine.UserStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) getAchievements(c *gin.Context) {
	unlocked, err := s.engine.Achievements(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"achievements": unlocked})
}

func (s *HTTPServer) getHistoryStats(c *gin.Context) {
	stats, err := s.engine.HistoryStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) getSimilar(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title query parameter is required"})
		return
	}
	result, err := s.engine.CheckSimilar(c.Request.Context(), c.Param("id"), title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *HTTPServer) getMonthlyReport(c *gin.Context) {
	report, err := s.engine.MonthlyReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *HTTPServer) getWeeklyReport(c *gin.Context) {
	report, err := s.engine.WeeklyReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *HTTPServer) getInterventionStats(c *gin.Context) {
	stats, err := s.engine.InterventionStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *HTTPServer) postBehavior(c *gin.Context) {
	var req behaviorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	level, err := s.engine.Observe(c.Request.Context(), c.Param("id"), behavior.Kind(req.Kind))
	if err != nil {
		if errors.Is(err, behavior.ErrUnknownBehavior) {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown behavior kind: %s", req.Kind)})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resistanceLevel": level})
}

func (s *HTTPServer) postPlan(c *gin.Context) {
	var req planRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payload, err := s.engine.PlanIntervention(c.Request.Context(), c.Param("id"), toCartItems(req.Items))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payload)
}

func (s *HTTPServer) postOutcome(c *gin.Context) {
	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	outcome, err := s.engine.ResolveIntervention(c.Request.Context(), c.Param("id"),
		req.Blocked, toCartItems(req.Items), req.Dialogue, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *HTTPServer) postTimerComplete(c *gin.Context) {
	outcome, err := s.engine.CompleteTimer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *HTTPServer) postEndure(c *gin.Context) {
	outcome, err := s.engine.EndureToxicity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (s *HTTPServer) postRegret(c *gin.Context) {
	var req regretRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := s.engine.Regret(c.Request.Context(), c.Param("id"), req.ItemTitle, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}

func toCartItems(reqs []itemRequest) []cart.Item {
	items := make([]cart.Item, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, cart.Item{Title: r.Title, Price: r.Price, ImageURL: r.ImageURL})
	}
	return items
}

func respondError(c *gin.Context, err error) {
	logrus.Errorf("request failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

// Start begins serving the API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	go func() {
		logrus.Infof("http server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the API server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	logrus.Info("shutting down http server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("http server stopped")
	return nil
}

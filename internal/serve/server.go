package serve

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/exptune/exptune/internal/store"
)

// Config holds the settings for the read-only experiment API.
type Config struct {
	Port     int
	StoreDir string
}

type experimentSummary struct {
	ExperimentID string   `json:"experiment_id"`
	SpecName     string   `json:"spec_name"`
	Objective    string   `json:"objective"`
	Status       string   `json:"status"`
	Trials       int      `json:"trials"`
	BestValue    *float64 `json:"best_value,omitempty"`
	CreatedAt    string   `json:"created_at"`
}

type handler struct {
	storeDir string
}

// NewRouter builds the gin router over the local experiment store. The store
// is re-read per request; the CLI owns all writes.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.Default()
	h := &handler{storeDir: cfg.StoreDir}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	{
		experiments := api.Group("/experiments")
		{
			experiments.GET("", h.listExperiments)
			experiments.GET("/:id", h.getExperiment)
			experiments.GET("/:id/trials", h.getTrials)
		}
	}
	return r
}

func (h *handler) listExperiments(c *gin.Context) {
	paths, err := store.List(h.storeDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	summaries := make([]experimentSummary, 0, len(paths))
	for _, p := range paths {
		exp, err := store.Load(p)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		summaries = append(summaries, experimentSummary{
			ExperimentID: exp.ExperimentID,
			SpecName:     exp.SpecName,
			Objective:    exp.Objective,
			Status:       string(exp.Status),
			Trials:       len(exp.Trials),
			BestValue:    exp.BestValue,
			CreatedAt:    exp.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"experiments": summaries,
		"total":       len(summaries),
	})
}

func (h *handler) getExperiment(c *gin.Context) {
	exp, err := store.Find(h.storeDir, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, exp)
}

func (h *handler) getTrials(c *gin.Context) {
	exp, err := store.Find(h.storeDir, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"experiment_id": exp.ExperimentID,
		"trials":        exp.Trials,
	})
}

package handlers

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"cell-testbench/internal/analysis"
	"cell-testbench/internal/api/models"
	"cell-testbench/internal/config"
	"cell-testbench/internal/sim"
	"cell-testbench/internal/synth"
)

// BenchHandler owns the configured bench: the simulation driver and the
// goroutine stepping it. Configuration happens once per bench; the tick loop
// runs independently of how often clients poll for readings.
type BenchHandler struct {
	mu     sync.Mutex
	cfg    *config.Config
	driver *sim.Driver
	runCtx context.Context
	cancel context.CancelFunc

	// pace is the real-time delay between ticks for watchable charts.
	pace time.Duration
}

// NewBenchHandler creates a bench handler. pace is the inter-tick delay for
// background runs; 0 runs as fast as possible.
func NewBenchHandler(pace time.Duration) *BenchHandler {
	return &BenchHandler{pace: pace}
}

// Configure handles POST /api/v1/bench/configure. The body is the same
// document shape as the YAML config: "cells" and "tasks" collections.
func (h *BenchHandler) Configure(c *gin.Context) {
	var cfg config.Config
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
		return
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.driver != nil {
		switch h.driver.State() {
		case sim.StateRunning, sim.StatePaused:
			c.JSON(http.StatusConflict, models.ErrorResponse{
				Error: models.ErrorDetail{
					Code:    "BENCH_BUSY",
					Message: "cannot reconfigure while a run is in progress; stop it first",
				},
			})
			return
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	cells, err := cfg.BuildCells(rng)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		})
		return
	}
	driver, err := sim.NewDriver(cells, synth.NewFrom(rng))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_CONFIG", Message: err.Error()},
		})
		return
	}

	h.cfg = &cfg
	h.driver = driver
	log.Printf("BenchHandler: configured %d cells (seed=%d)", len(cells), seed)

	c.JSON(http.StatusOK, models.ConfigureResponse{
		Status: "configured",
		Bench:  driver.Snapshot(),
	})
}

// Start handles POST /api/v1/bench/start. It resets the log, begins a new
// run, and steps it in a background goroutine.
func (h *BenchHandler) Start(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	driver, ok := h.configured()
	if !ok {
		respondNotConfigured(c)
		return
	}

	runID, err := driver.Start()
	if err != nil {
		respondInvalidState(c, err)
		return
	}

	// Restarting a completed run leaves a stale cancel func behind;
	// release its context before replacing it.
	if h.cancel != nil {
		h.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	h.runCtx = ctx
	h.cancel = cancel
	go func() {
		if err := driver.Run(ctx, h.pace); err != nil && err != context.Canceled {
			log.Printf("BenchHandler: run %s ended with error: %v", runID, err)
		}
	}()

	log.Printf("BenchHandler: started run %s", runID)
	c.JSON(http.StatusOK, models.StartResponse{RunID: runID, Bench: driver.Snapshot()})
}

// Pause handles POST /api/v1/bench/pause.
func (h *BenchHandler) Pause(c *gin.Context) {
	h.control(c, func(d *sim.Driver) error { return d.Pause() })
}

// Resume handles POST /api/v1/bench/resume.
func (h *BenchHandler) Resume(c *gin.Context) {
	h.control(c, func(d *sim.Driver) error { return d.Resume() })
}

// Stop handles POST /api/v1/bench/stop. The log is retained for export.
func (h *BenchHandler) Stop(c *gin.Context) {
	h.control(c, func(d *sim.Driver) error {
		if err := d.Stop(); err != nil {
			return err
		}
		if h.cancel != nil {
			h.cancel()
			h.cancel = nil
		}
		return nil
	})
}

func (h *BenchHandler) control(c *gin.Context, op func(*sim.Driver) error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	driver, ok := h.configured()
	if !ok {
		respondNotConfigured(c)
		return
	}
	if err := op(driver); err != nil {
		respondInvalidState(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ControlResponse{Bench: driver.Snapshot()})
}

// GetStatus handles GET /api/v1/bench/status.
func (h *BenchHandler) GetStatus(c *gin.Context) {
	h.mu.Lock()
	driver, ok := h.configured()
	h.mu.Unlock()
	if !ok {
		respondNotConfigured(c)
		return
	}
	c.JSON(http.StatusOK, driver.Snapshot())
}

// GetReadings handles GET /api/v1/bench/readings?cell=&since=.
func (h *BenchHandler) GetReadings(c *gin.Context) {
	h.mu.Lock()
	driver, ok := h.configured()
	h.mu.Unlock()
	if !ok {
		respondNotConfigured(c)
		return
	}

	since := 0
	if s := c.Query("since"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: fmt.Sprintf("invalid since value %q", s)},
			})
			return
		}
		since = v
	}

	readings := driver.Readings(c.Query("cell"), since)
	c.JSON(http.StatusOK, models.ReadingsResponse{Count: len(readings), Readings: readings})
}

// ExportReadings handles GET /api/v1/bench/readings/export?format=csv|json.
func (h *BenchHandler) ExportReadings(c *gin.Context) {
	h.mu.Lock()
	driver, ok := h.configured()
	h.mu.Unlock()
	if !ok {
		respondNotConfigured(c)
		return
	}

	readings := driver.Readings("", 0)
	stamp := time.Now().Format("20060102_150405")

	switch format := c.DefaultQuery("format", "csv"); format {
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=cell_test_log_%s.csv", stamp))
		if err := sim.WriteReadingsCSV(c.Writer, readings); err != nil {
			log.Printf("BenchHandler: CSV export failed: %v", err)
		}
	case "json":
		c.Header("Content-Type", "application/json")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=cell_test_log_%s.json", stamp))
		if err := sim.WriteReadingsJSON(c.Writer, readings); err != nil {
			log.Printf("BenchHandler: JSON export failed: %v", err)
		}
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: fmt.Sprintf("unsupported export format %q", format)},
		})
	}
}

// GetStats handles GET /api/v1/bench/stats.
func (h *BenchHandler) GetStats(c *gin.Context) {
	h.mu.Lock()
	driver, ok := h.configured()
	h.mu.Unlock()
	if !ok {
		respondNotConfigured(c)
		return
	}
	c.JSON(http.StatusOK, models.StatsResponse{Cells: analysis.Summarize(driver.Readings("", 0))})
}

// configured returns the driver if a bench has been configured.
// Callers must hold h.mu.
func (h *BenchHandler) configured() (*sim.Driver, bool) {
	return h.driver, h.driver != nil
}

func respondNotConfigured(c *gin.Context) {
	c.JSON(http.StatusConflict, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_CONFIGURED",
			Message: "no bench configured; POST /api/v1/bench/configure first",
		},
	})
}

func respondInvalidState(c *gin.Context, err error) {
	c.JSON(http.StatusConflict, models.ErrorResponse{
		Error: models.ErrorDetail{Code: "INVALID_STATE", Message: err.Error()},
	})
}

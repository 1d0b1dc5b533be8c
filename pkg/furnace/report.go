package furnace

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/material"
)

// Config controls a furnace run
type Config struct {
	Samples int       // Samples per material and angle
	Workers int       // 0 uses one worker per CPU
	Seed    int64     // Base seed; each task offsets it by its ID
	Angles  []float64 // Outgoing angles from the normal, in degrees
	Logger  core.Logger
}

// DefaultConfig returns a config for a quick check
func DefaultConfig() Config {
	return Config{
		Samples: 20000,
		Seed:    42,
		Angles:  []float64{0, 30, 60, 85},
	}
}

// Report holds the results of a run ordered by material, then angle
type Report struct {
	Results []Result
}

// Run estimates the albedo of every material at every configured angle
func Run(materials []material.Material, cfg Config) *Report {
	logger := cfg.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}

	numTasks := len(materials) * len(cfg.Angles)
	pool := NewWorkerPool(cfg.Workers, numTasks)
	pool.Start()
	logger.Printf("Furnace: %d materials x %d angles on %d workers, %d samples each\n",
		len(materials), len(cfg.Angles), pool.GetNumWorkers(), cfg.Samples)

	taskID := 0
	for _, mat := range materials {
		for _, theta := range cfg.Angles {
			pool.SubmitTask(Task{
				TaskID:   taskID,
				Material: mat,
				Theta:    theta,
				Samples:  cfg.Samples,
				Seed:     cfg.Seed + int64(taskID),
			})
			taskID++
		}
	}
	pool.Stop()

	report := &Report{Results: make([]Result, 0, numTasks)}
	for {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		report.Results = append(report.Results, result)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].TaskID < report.Results[j].TaskID
	})
	return report
}

// Violations returns results whose albedo exceeds 1 in any channel by more
// than tolerance plus three standard errors
func (r *Report) Violations(tolerance float64) []Result {
	var out []Result
	for _, result := range r.Results {
		albedo := result.Stats.Albedo()
		limit := 1 + tolerance + 3*result.Stats.StdErr()
		if albedo.MaxComponent() > limit {
			out = append(out, result)
		}
	}
	return out
}

// Table writes the report as a text table
func (r *Report) Table(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Material", "Type", "Theta", "Albedo R", "Albedo G", "Albedo B", "Std Err", "Failed"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, result := range r.Results {
		albedo := result.Stats.Albedo()
		table.Append([]string{
			result.Material,
			result.Type.String(),
			fmt.Sprintf("%.0f", result.Theta),
			fmt.Sprintf("%.4f", albedo.X),
			fmt.Sprintf("%.4f", albedo.Y),
			fmt.Sprintf("%.4f", albedo.Z),
			fmt.Sprintf("%.4f", result.Stats.StdErr()),
			fmt.Sprintf("%d", result.Stats.Failed),
		})
	}
	table.Render()
}

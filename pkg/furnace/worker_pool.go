package furnace

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-scattering/pkg/core"
	"github.com/df07/go-scattering/pkg/material"
)

// Task asks a worker to estimate the albedo of one material at one angle
type Task struct {
	TaskID   int // For deterministic ordering
	Material material.Material
	Theta    float64 // Outgoing angle from the normal, in degrees
	Samples  int
	Seed     int64
}

// Result contains the estimate for a task
type Result struct {
	TaskID   int
	Material string
	Type     material.Type
	Theta    float64
	Stats    AlbedoStats
}

// WorkerPool runs furnace tasks in parallel. Materials are shared between
// workers; each task gets its own sampler.
type WorkerPool struct {
	taskQueue   chan Task
	resultQueue chan Result
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual furnace tasks
type Worker struct {
	ID          int
	taskQueue   chan Task
	resultQueue chan Result
}

// NewWorkerPool creates a worker pool with room for maxTasks queued tasks
func NewWorkerPool(numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan Task, maxTasks),
		resultQueue: make(chan Result, maxTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}
	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop waits for queued tasks to finish and closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a task to the worker pool
func (wp *WorkerPool) SubmitTask(task Task) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed result
func (wp *WorkerPool) GetResult() (Result, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(task.Seed)))
		w.resultQueue <- Result{
			TaskID:   task.TaskID,
			Material: task.Material.Name(),
			Type:     task.Material.Type(),
			Theta:    task.Theta,
			Stats:    Estimate(task.Material, task.Theta, task.Samples, sampler),
		}
	}
}

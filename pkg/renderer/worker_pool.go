package renderer

import (
	"context"
	"sync"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile  *Tile
	Frame *Frame // Shared frame; each task writes only its tile's pixels
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	Tile  *Tile
	Stats TileStats
	Error error
}

// WorkerPool manages parallel tile rendering
type WorkerPool struct {
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID          int
	renderer    *TileRenderer
	taskQueue   chan TileTask
	resultQueue chan TileResult
}

// NewWorkerPool creates a worker pool whose queues hold every task and result
// at once, so submitting and reporting never block
func NewWorkerPool(renderer *TileRenderer, numWorkers, numTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkerCount()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan TileTask, numTasks),
		resultQueue: make(chan TileResult, numTasks),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			renderer:    renderer,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers. Tasks picked up after ctx is done are reported
// with the context error instead of being rendered.
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a tile task to the worker pool
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.taskQueue <- task
}

// Results returns the channel completed tiles are reported on
func (wp *WorkerPool) Results() <-chan TileResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- TileResult{Tile: task.Tile, Error: err}
			continue
		}

		stats := w.renderer.RenderTile(task.Tile, task.Frame)
		w.resultQueue <- TileResult{Tile: task.Tile, Stats: stats}
	}
}

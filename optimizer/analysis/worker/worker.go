package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/feiyu23/spark-resume-ai/optimizer/analysis"
	"github.com/feiyu23/spark-resume-ai/optimizer/analysis/analysissrv"
	"github.com/feiyu23/spark-resume-ai/pkg/logx"
)

type AnalysisWorker struct {
	service *analysissrv.Service
	queue   analysis.JobQueue
	workers int
}

func NewAnalysisWorker(service *analysissrv.Service, queue analysis.JobQueue, workers int) *AnalysisWorker {
	return &AnalysisWorker{
		service: service,
		queue:   queue,
		workers: workers,
	}
}

func (w *AnalysisWorker) Start(ctx context.Context) {
	logx.Infof("Starting %d analysis workers", w.workers)

	// Start delayed job mover
	go w.moveDelayedJobs(ctx)

	// Start worker pool
	for i := 0; i < w.workers; i++ {
		go w.processJobs(ctx, i)
	}
}

func (w *AnalysisWorker) processJobs(ctx context.Context, workerID int) {
	logx.Infof("Worker %d started", workerID)

	for {
		select {
		case <-ctx.Done():
			logx.Infof("Worker %d stopping", workerID)
			return
		default:
			// Dequeue with 5 second timeout
			data, err := w.queue.Dequeue(ctx, 5*time.Second)
			if err != nil {
				logx.Errorf("Worker %d dequeue error: %v", workerID, err)
				continue
			}

			// Timeout elapsed, no jobs available
			if len(data) == 0 {
				continue
			}

			var job analysis.AnalysisJob
			if err := json.Unmarshal(data, &job); err != nil {
				logx.Errorf("Worker %d unmarshal error: %v (data: %s)", workerID, err, string(data))
				continue
			}

			logx.Infof("Worker %d processing job: %s", workerID, job.ID)
			if err := w.service.ProcessAnalysisJob(ctx, &job); err != nil {
				logx.Errorf("Worker %d job failed: %v", workerID, err)
			}
		}
	}
}

func (w *AnalysisWorker) moveDelayedJobs(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			count, err := w.queue.MoveDelayedToReady(ctx)
			if err != nil {
				logx.Errorf("Failed to move delayed jobs: %v", err)
			} else if count > 0 {
				logx.Infof("Moved %d delayed jobs to ready queue", count)
			}
		}
	}
}

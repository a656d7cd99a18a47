package graph

import (
	"context"
	"fmt"
	"sync"

	"github.com/marketmind-ai/marketmind/internal/models"
)

// AnalystTask is one unit of the analysis fan-out, keyed by its stable slot.
type AnalystTask struct {
	Key string
	Run func(ctx context.Context) (*models.AgentReport, error)
}

type slotResult struct {
	report *models.AgentReport
	err    error
}

// RunAnalystTasks executes all tasks and returns per-slot results. Every key
// appears in both maps' domain: a failed task yields a nil report and an
// entry in errs. A panic in one task is contained and surfaces as that
// slot's error; it never affects the others.
func RunAnalystTasks(ctx context.Context, tasks []AnalystTask, concurrent bool) (map[string]*models.AgentReport, map[string]error) {
	results := make(map[string]slotResult, len(tasks))

	if concurrent {
		var mu sync.Mutex
		var wg sync.WaitGroup
		for _, task := range tasks {
			wg.Add(1)
			go func(task AnalystTask) {
				defer wg.Done()
				res := runOneTask(ctx, task)
				mu.Lock()
				results[task.Key] = res
				mu.Unlock()
			}(task)
		}
		wg.Wait()
	} else {
		for _, task := range tasks {
			results[task.Key] = runOneTask(ctx, task)
		}
	}

	reports := make(map[string]*models.AgentReport, len(tasks))
	errs := make(map[string]error)
	for _, task := range tasks {
		res := results[task.Key]
		reports[task.Key] = res.report
		if res.err != nil {
			errs[task.Key] = res.err
		}
	}
	return reports, errs
}

func runOneTask(ctx context.Context, task AnalystTask) (res slotResult) {
	defer func() {
		if r := recover(); r != nil {
			res = slotResult{err: fmt.Errorf("analyst %s panicked: %v", task.Key, r)}
		}
	}()

	report, err := task.Run(ctx)
	if err != nil {
		return slotResult{err: err}
	}
	if report == nil {
		return slotResult{err: fmt.Errorf("analyst %s returned no report", task.Key)}
	}
	return slotResult{report: report}
}

// Package resumes owns the résumé collection and the upload batch
// lifecycle. All state lives behind a mutex and every mutation replaces
// the previous snapshot wholesale, so concurrently resolving uploads
// never clobber each other's updates.
package resumes

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
	"github.com/jobreach/jobreach/internal/utils"
)

// Gateway is the slice of the backend API the orchestrator needs.
type Gateway interface {
	ListResumes(ctx context.Context, userID string) ([]gateway.ResumeRecord, error)
	UploadResume(ctx context.Context, userID string, file gateway.UploadFile) (gateway.ResumeRecord, error)
	DeleteResume(ctx context.Context, userID string, id int64) error
	SetDefaultResume(ctx context.Context, userID string, id int64) error
}

// Snapshot is a read-only copy of the orchestrator state.
type Snapshot struct {
	Resumes []gateway.ResumeRecord
	Tasks   []UploadTask
	Batch   BatchStatus
}

type Orchestrator struct {
	gw     Gateway
	logger *zap.Logger

	// ClearDelay is how long settled tasks stay visible before the
	// transient progress view empties. Zero or negative disables the
	// automatic clear; callers may use ClearTasks instead.
	ClearDelay time.Duration

	mu       sync.Mutex
	resumes  []gateway.ResumeRecord
	tasks    []UploadTask
	batch    BatchStatus
	batchGen int
}

func New(gw Gateway, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gw:         gw,
		logger:     logger,
		ClearDelay: 3 * time.Second,
		batch:      BatchIdle,
	}
}

// Load replaces the résumé collection from the backend.
func (o *Orchestrator) Load(ctx context.Context, userID string) error {
	records, err := o.gw.ListResumes(ctx, userID)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.resumes = append([]gateway.ResumeRecord(nil), records...)
	o.mu.Unlock()

	return nil
}

// Upload runs one batch. All files fire concurrently; a failing file
// surfaces on its own task and never aborts or blocks the others. The
// call returns once every task is terminal.
func (o *Orchestrator) Upload(ctx context.Context, userID string, files []gateway.UploadFile) BatchResult {
	if len(files) == 0 {
		return BatchResult{}
	}

	o.mu.Lock()
	tasks := make([]UploadTask, len(files))
	for i, f := range files {
		tasks[i] = UploadTask{FileName: f.Name, Status: TaskPending, Progress: progressPending}
	}
	o.tasks = tasks
	o.batch = BatchUploading
	o.batchGen++
	gen := o.batchGen
	o.mu.Unlock()

	var wg sync.WaitGroup
	results := make([]bool, len(files))

	for i := range files {
		wg.Add(1)
		go func(i int, file gateway.UploadFile) {
			defer wg.Done()
			results[i] = o.uploadOne(ctx, userID, i, file)
		}(i, files[i])
	}
	wg.Wait()

	o.mu.Lock()
	o.batch = BatchIdle
	o.mu.Unlock()

	var result BatchResult
	for _, ok := range results {
		if ok {
			result.Succeeded++
		} else {
			result.Failed++
		}
	}

	o.logger.Info("upload batch settled",
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)

	o.scheduleClear(gen)

	return result
}

func (o *Orchestrator) uploadOne(ctx context.Context, userID string, i int, file gateway.UploadFile) bool {
	o.updateTask(i, TaskUploading, progressUploading, "")

	record, err := o.gw.UploadResume(ctx, userID, file)
	if err != nil {
		o.logger.Warn("resume upload failed",
			zap.String("file", file.Name),
			zap.Error(err),
		)
		o.updateTask(i, TaskError, progressPending, err.Error())
		return false
	}

	o.updateTask(i, TaskProcessing, progressProcessing, "")

	// The confirmed record becomes visible before the batch settles.
	o.appendResume(record)
	o.updateTask(i, TaskSuccess, progressSuccess, "")

	return true
}

// Delete removes a résumé on the backend and drops it from the view.
func (o *Orchestrator) Delete(ctx context.Context, userID string, id int64) error {
	if err := o.gw.DeleteResume(ctx, userID, id); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	next := make([]gateway.ResumeRecord, 0, len(o.resumes))
	for _, r := range o.resumes {
		if r.ID != id {
			next = append(next, r)
		}
	}
	o.resumes = next

	return nil
}

// SetDefault marks one résumé as default and reconciles the local view
// optimistically: exactly one record keeps IsDefault afterwards.
func (o *Orchestrator) SetDefault(ctx context.Context, userID string, id int64) error {
	if err := o.gw.SetDefaultResume(ctx, userID, id); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	next := make([]gateway.ResumeRecord, len(o.resumes))
	for i, r := range o.resumes {
		r.IsDefault = r.ID == id
		next[i] = r
	}
	o.resumes = next

	return nil
}

// ClearTasks empties the transient progress view immediately.
func (o *Orchestrator) ClearTasks() {
	o.mu.Lock()
	o.tasks = nil
	o.mu.Unlock()
}

func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return Snapshot{
		Resumes: append([]gateway.ResumeRecord(nil), o.resumes...),
		Tasks:   append([]UploadTask(nil), o.tasks...),
		Batch:   o.batch,
	}
}

// updateTask applies one transition as a copy of the previous task
// list. Terminal tasks are never touched again.
func (o *Orchestrator) updateTask(i int, status TaskStatus, progress int, detail string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if i < 0 || i >= len(o.tasks) {
		return
	}

	next := make([]UploadTask, len(o.tasks))
	copy(next, o.tasks)

	task := next[i]
	if task.Terminal() {
		return
	}

	task.Status = status
	task.Progress = progress
	task.Err = detail
	next[i] = task
	o.tasks = next
}

func (o *Orchestrator) appendResume(record gateway.ResumeRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()

	next := make([]gateway.ResumeRecord, len(o.resumes), len(o.resumes)+1)
	copy(next, o.resumes)
	o.resumes = append(next, record)
}

// scheduleClear empties the task list after the display delay so the
// user sees final states before they disappear. A newer batch keeps its
// own tasks.
func (o *Orchestrator) scheduleClear(gen int) {
	if o.ClearDelay <= 0 {
		return
	}

	go func() {
		if err := utils.WaitFor(context.Background(), o.ClearDelay); err != nil {
			return
		}

		o.mu.Lock()
		defer o.mu.Unlock()
		if o.batchGen == gen {
			o.tasks = nil
		}
	}()
}

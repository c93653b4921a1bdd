package resumes

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobreach/jobreach/internal/gateway"
)

// stubGateway simulates the backend. Uploads can be failed per file
// name and gated on a channel to control completion order.
type stubGateway struct {
	mu        sync.Mutex
	nextID    int64
	uploadErr map[string]error
	gates     map[string]chan struct{}
	records   []gateway.ResumeRecord
	listErr   error
	deleteErr error
}

func newStubGateway() *stubGateway {
	return &stubGateway{
		uploadErr: map[string]error{},
		gates:     map[string]chan struct{}{},
	}
}

func (s *stubGateway) gateFor(name string) chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gates[name]
}

func (s *stubGateway) ListResumes(context.Context, string) ([]gateway.ResumeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listErr != nil {
		return nil, s.listErr
	}

	return append([]gateway.ResumeRecord(nil), s.records...), nil
}

func (s *stubGateway) UploadResume(_ context.Context, _ string, file gateway.UploadFile) (gateway.ResumeRecord, error) {
	if gate := s.gateFor(file.Name); gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.uploadErr[file.Name]; err != nil {
		return gateway.ResumeRecord{}, err
	}

	s.nextID++

	return gateway.ResumeRecord{ID: s.nextID, FileName: file.Name}, nil
}

func (s *stubGateway) DeleteResume(context.Context, string, int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteErr
}

func (s *stubGateway) SetDefaultResume(context.Context, string, int64) error {
	return nil
}

func newOrchestrator(gw Gateway) *Orchestrator {
	o := New(gw, zap.NewNop())
	o.ClearDelay = 0

	return o
}

func uploadFiles(names ...string) []gateway.UploadFile {
	files := make([]gateway.UploadFile, len(names))
	for i, name := range names {
		files[i] = gateway.UploadFile{Name: name}
	}

	return files
}

func TestUploadBatchPartialFailure(t *testing.T) {
	gw := newStubGateway()
	gw.uploadErr["two.pdf"] = &gateway.ServerError{StatusCode: 500, Message: "parse failure"}
	o := newOrchestrator(gw)

	result := o.Upload(context.Background(), "user-1", uploadFiles("one.pdf", "two.pdf", "three.pdf"))

	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)

	snap := o.Snapshot()
	assert.Equal(t, BatchIdle, snap.Batch)

	require.Len(t, snap.Tasks, 3)
	terminal := 0
	for _, task := range snap.Tasks {
		if task.Terminal() {
			terminal++
		}
	}
	assert.Equal(t, 3, terminal, "every task must settle")

	assert.Equal(t, TaskSuccess, snap.Tasks[0].Status)
	assert.Equal(t, 100, snap.Tasks[0].Progress)
	assert.Equal(t, TaskError, snap.Tasks[1].Status)
	assert.Equal(t, 0, snap.Tasks[1].Progress)
	assert.Contains(t, snap.Tasks[1].Err, "parse failure")
	assert.Equal(t, TaskSuccess, snap.Tasks[2].Status)

	names := make([]string, 0, len(snap.Resumes))
	for _, r := range snap.Resumes {
		names = append(names, r.FileName)
	}
	assert.ElementsMatch(t, []string{"one.pdf", "three.pdf"}, names)
}

func TestUploadCompletionOrderDoesNotMatter(t *testing.T) {
	gw := newStubGateway()
	gw.gates["one.pdf"] = make(chan struct{})
	o := newOrchestrator(gw)

	done := make(chan BatchResult, 1)
	go func() {
		done <- o.Upload(context.Background(), "user-1", uploadFiles("one.pdf", "two.pdf", "three.pdf"))
	}()

	// Files two and three finish while one is still held open.
	require.Eventually(t, func() bool {
		return len(o.Snapshot().Resumes) == 2
	}, time.Second, 5*time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, BatchUploading, snap.Batch, "batch must stay open until every task settles")
	assert.Equal(t, TaskUploading, snap.Tasks[0].Status)
	assert.Equal(t, TaskSuccess, snap.Tasks[1].Status)
	assert.Equal(t, TaskSuccess, snap.Tasks[2].Status)

	close(gw.gates["one.pdf"])

	result := <-done
	assert.Equal(t, BatchResult{Succeeded: 3}, result)
	assert.Equal(t, BatchIdle, o.Snapshot().Batch)
}

func TestFailingUploadDoesNotBlockSiblings(t *testing.T) {
	gw := newStubGateway()
	gw.gates["slow.pdf"] = make(chan struct{})
	gw.uploadErr["bad.pdf"] = &gateway.NetworkError{Err: context.DeadlineExceeded}
	o := newOrchestrator(gw)

	done := make(chan BatchResult, 1)
	go func() {
		done <- o.Upload(context.Background(), "user-1", uploadFiles("slow.pdf", "bad.pdf"))
	}()

	// The failure lands while its sibling is still in flight.
	require.Eventually(t, func() bool {
		tasks := o.Snapshot().Tasks
		return len(tasks) > 1 && tasks[1].Status == TaskError
	}, time.Second, 5*time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, TaskUploading, snap.Tasks[0].Status)
	assert.Equal(t, BatchUploading, snap.Batch)

	close(gw.gates["slow.pdf"])

	result := <-done
	assert.Equal(t, BatchResult{Succeeded: 1, Failed: 1}, result)

	snap = o.Snapshot()
	assert.Equal(t, TaskSuccess, snap.Tasks[0].Status, "sibling outcome unaffected by the failure")
	assert.Equal(t, TaskError, snap.Tasks[1].Status)
}

func TestSuccessVisibleBeforeBatchSettles(t *testing.T) {
	gw := newStubGateway()
	gw.gates["held.pdf"] = make(chan struct{})
	o := newOrchestrator(gw)

	done := make(chan BatchResult, 1)
	go func() {
		done <- o.Upload(context.Background(), "user-1", uploadFiles("fast.pdf", "held.pdf"))
	}()

	require.Eventually(t, func() bool {
		return len(o.Snapshot().Resumes) == 1
	}, time.Second, 5*time.Millisecond)

	snap := o.Snapshot()
	assert.Equal(t, "fast.pdf", snap.Resumes[0].FileName)
	assert.Equal(t, BatchUploading, snap.Batch)

	close(gw.gates["held.pdf"])
	<-done
}

func TestTasksClearAfterDisplayDelay(t *testing.T) {
	gw := newStubGateway()
	o := New(gw, zap.NewNop())
	o.ClearDelay = 100 * time.Millisecond

	o.Upload(context.Background(), "user-1", uploadFiles("one.pdf"))

	require.Len(t, o.Snapshot().Tasks, 1, "final states stay visible for the display delay")

	require.Eventually(t, func() bool {
		return len(o.Snapshot().Tasks) == 0
	}, time.Second, 5*time.Millisecond)

	assert.Len(t, o.Snapshot().Resumes, 1, "clearing the progress view keeps the collection")
}

func TestEmptyBatchIsANoOp(t *testing.T) {
	o := newOrchestrator(newStubGateway())

	result := o.Upload(context.Background(), "user-1", nil)

	assert.Equal(t, BatchResult{}, result)
	assert.Equal(t, BatchIdle, o.Snapshot().Batch)
}

func TestLoadReplacesCollection(t *testing.T) {
	gw := newStubGateway()
	gw.records = []gateway.ResumeRecord{
		{ID: 1, FileName: "a.pdf"},
		{ID: 2, FileName: "b.pdf", IsDefault: true},
	}
	o := newOrchestrator(gw)

	require.NoError(t, o.Load(context.Background(), "user-1"))
	require.Len(t, o.Snapshot().Resumes, 2)

	gw.mu.Lock()
	gw.records = gw.records[:1]
	gw.mu.Unlock()

	require.NoError(t, o.Load(context.Background(), "user-1"))
	assert.Len(t, o.Snapshot().Resumes, 1)
}

func TestDeleteRemovesRecord(t *testing.T) {
	gw := newStubGateway()
	gw.records = []gateway.ResumeRecord{{ID: 1, FileName: "a.pdf"}, {ID: 2, FileName: "b.pdf"}}
	o := newOrchestrator(gw)
	require.NoError(t, o.Load(context.Background(), "user-1"))

	require.NoError(t, o.Delete(context.Background(), "user-1", 1))

	snap := o.Snapshot()
	require.Len(t, snap.Resumes, 1)
	assert.Equal(t, int64(2), snap.Resumes[0].ID)
}

func TestDeleteKeepsRecordOnGatewayError(t *testing.T) {
	gw := newStubGateway()
	gw.records = []gateway.ResumeRecord{{ID: 1, FileName: "a.pdf"}}
	gw.deleteErr = &gateway.ServerError{StatusCode: 404}
	o := newOrchestrator(gw)
	require.NoError(t, o.Load(context.Background(), "user-1"))

	require.Error(t, o.Delete(context.Background(), "user-1", 1))
	assert.Len(t, o.Snapshot().Resumes, 1)
}

func TestSetDefaultReconcilesToSingleDefault(t *testing.T) {
	gw := newStubGateway()
	gw.records = []gateway.ResumeRecord{
		{ID: 1, FileName: "a.pdf", IsDefault: true},
		{ID: 2, FileName: "b.pdf"},
		{ID: 3, FileName: "c.pdf"},
	}
	o := newOrchestrator(gw)
	require.NoError(t, o.Load(context.Background(), "user-1"))

	require.NoError(t, o.SetDefault(context.Background(), "user-1", 3))

	defaults := 0
	for _, r := range o.Snapshot().Resumes {
		if r.IsDefault {
			defaults++
			assert.Equal(t, int64(3), r.ID)
		}
	}
	assert.Equal(t, 1, defaults, "exactly one record may be the default")
}

func TestSnapshotIsACopy(t *testing.T) {
	gw := newStubGateway()
	gw.records = []gateway.ResumeRecord{{ID: 1, FileName: "a.pdf"}}
	o := newOrchestrator(gw)
	require.NoError(t, o.Load(context.Background(), "user-1"))

	snap := o.Snapshot()
	snap.Resumes[0].FileName = "mutated.pdf"

	assert.Equal(t, "a.pdf", o.Snapshot().Resumes[0].FileName)
}

package resumes

// TaskStatus is the lifecycle state of one upload. Transitions are
// monotonic: pending -> uploading -> processing -> success, or any
// non-terminal state -> error. A terminal task never changes again.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskUploading  TaskStatus = "uploading"
	TaskProcessing TaskStatus = "processing"
	TaskSuccess    TaskStatus = "success"
	TaskError      TaskStatus = "error"
)

// Progress markers are synthetic stage values, not measured transfer
// progress.
const (
	progressPending    = 0
	progressUploading  = 25
	progressProcessing = 75
	progressSuccess    = 100
)

// UploadTask tracks one file of an upload batch. Tasks are ordered by
// submission order and live only until the batch view is cleared.
type UploadTask struct {
	FileName string
	Progress int
	Status   TaskStatus
	Err      string
}

// Terminal reports whether no further transitions will occur.
func (t UploadTask) Terminal() bool {
	return t.Status == TaskSuccess || t.Status == TaskError
}

// BatchStatus is the aggregate state of the orchestrator.
type BatchStatus string

const (
	BatchIdle      BatchStatus = "idle"
	BatchUploading BatchStatus = "uploading"
)

// BatchResult is the settled outcome of one batch: k succeeded, m
// failed, k+m equals the number of submitted files.
type BatchResult struct {
	Succeeded int
	Failed    int
}

package upload

// Status is the processing outcome of a single uploaded file.
type Status string

// Upload outcome values.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Result is the outcome of processing one file in a multi-file upload.
type Result struct {
	filename string
	id       string
	status   Status
	err      error
}

// NewOK creates a successful upload result carrying the stored document ID.
func NewOK(filename, id string) Result {
	return Result{filename: filename, id: id, status: StatusOK}
}

// NewError creates a failed upload result.
func NewError(filename string, err error) Result {
	return Result{filename: filename, status: StatusError, err: err}
}

// Filename returns the original upload filename.
func (r Result) Filename() string { return r.filename }

// ID returns the stored document identifier (empty on failure).
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() Status { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

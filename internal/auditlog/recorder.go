package auditlog

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
	"github.com/google/uuid"
)

// Entry is the fire-and-forget payload handed to the Recorder.
type Entry struct {
	Action      enums.LogAction
	UserID      uuid.UUID
	TargetModel *enums.TargetModel
	TargetID    *uuid.UUID
	Details     json.RawMessage
	IPAddress   string
	UserAgent   string
	Status      enums.LogStatus
	Error       *string
}

// Store is the subset of the repository the recorder writes through.
type Store interface {
	Append(ctx context.Context, entry *models.AuditLog) error
}

// Recorder persists audit entries off the request path. Record never blocks
// the caller: entries flow through a buffered channel into one background
// goroutine, and a full buffer drops the entry with a warning. Store failures
// are logged and swallowed, so request outcomes are never coupled to the
// audit trail.
type Recorder struct {
	store   Store
	logg    *logger.Logger
	queue   chan Entry
	done    chan struct{}
	once    sync.Once
	timeout time.Duration
}

// NewRecorder starts the background writer. queueSize caps the number of
// entries waiting to be flushed.
func NewRecorder(store Store, logg *logger.Logger, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		store:   store,
		logg:    logg,
		queue:   make(chan Entry, queueSize),
		done:    make(chan struct{}),
		timeout: 5 * time.Second,
	}
	go r.run()
	return r
}

// Record enqueues one entry without blocking. Entries arriving while the
// buffer is full are dropped.
func (r *Recorder) Record(ctx context.Context, entry Entry) {
	if entry.Status == "" {
		entry.Status = enums.LogStatusSuccess
	}
	select {
	case r.queue <- entry:
	default:
		if r.logg != nil {
			r.logg.Warn(ctx, "audit queue full, dropping entry")
		}
	}
}

// Close stops the background writer after draining queued entries.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.queue)
		<-r.done
	})
}

func (r *Recorder) run() {
	defer close(r.done)
	for entry := range r.queue {
		r.write(entry)
	}
}

func (r *Recorder) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	record := &models.AuditLog{
		Action:      entry.Action,
		UserID:      entry.UserID,
		TargetModel: entry.TargetModel,
		TargetID:    entry.TargetID,
		Details:     entry.Details,
		IPAddress:   entry.IPAddress,
		UserAgent:   entry.UserAgent,
		Status:      entry.Status,
		Error:       entry.Error,
	}
	if err := r.store.Append(ctx, record); err != nil && r.logg != nil {
		r.logg.Error(ctx, "writing audit entry", err)
	}
}

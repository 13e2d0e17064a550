package pending

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const queueKey = "pending_logs_v1"

// Queue is a crash-durable, insertion-ordered sequence of pending logs.
// Every mutation persists the full sequence before returning, so an
// interruption between calls leaves storage consistent with the last
// completed call. Corrupt or missing storage reads as an empty queue.
type Queue interface {
	Load() []Log
	Enqueue(record Log)
	Dequeue(clientID string)
	Clear()
}

type queue struct {
	mu    sync.Mutex
	store BlobStore
	log   *zap.Logger
}

// NewQueue builds the durable queue on the given blob store.
func NewQueue(store BlobStore, log *zap.Logger) Queue {
	return &queue{
		store: store,
		log:   log.Named("pending.queue"),
	}
}

func (q *queue) Load() []Log {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.read()
}

func (q *queue) Enqueue(record Log) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.read()
	for _, item := range items {
		if item.ClientID == record.ClientID {
			return
		}
	}
	q.write(append(items, record))
}

func (q *queue) Dequeue(clientID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := q.read()
	kept := items[:0]
	for _, item := range items {
		if item.ClientID != clientID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return
	}
	q.write(kept)
}

func (q *queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Delete(queueKey); err != nil {
		q.log.Warn("clear queue", zap.Error(err))
	}
}

func (q *queue) read() []Log {
	blob, ok, err := q.store.Get(queueKey)
	if err != nil || !ok {
		if err != nil {
			q.log.Warn("read queue", zap.Error(err))
		}
		return nil
	}
	var items []Log
	if err := json.Unmarshal(blob, &items); err != nil {
		// Corrupt state is unrecoverable here; treat as empty.
		q.log.Warn("corrupt queue blob, resetting", zap.Error(err))
		return nil
	}
	return items
}

func (q *queue) write(items []Log) {
	if items == nil {
		items = []Log{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		q.log.Error("encode queue", zap.Error(err))
		return
	}
	if err := q.store.Put(queueKey, blob); err != nil {
		q.log.Error("persist queue", zap.Error(err))
	}
}

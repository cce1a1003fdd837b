package db

import (
	"database/sql"
	"time"
)

type task struct {
	exec func(*sql.DB) (interface{}, error)
	resp chan taskResult
}

type taskResult struct {
	data interface{}
	err  error
}

// Queue serializes all database access through a single worker so that
// sqlite never sees two writers at once. Busy errors are retried with
// a linear backoff.
type Queue struct {
	tasks      chan task
	db         *sql.DB
	maxRetry   int
	retryDelay time.Duration
}

func NewQueue(db *sql.DB) *Queue {
	return newQueue(db, 100*time.Millisecond)
}

// NewQueueForTest uses a minimal retry delay.
func NewQueueForTest(db *sql.DB) *Queue {
	return newQueue(db, time.Millisecond)
}

func newQueue(db *sql.DB, retryDelay time.Duration) *Queue {
	q := &Queue{
		tasks:      make(chan task, 100),
		db:         db,
		maxRetry:   3,
		retryDelay: retryDelay,
	}
	go q.worker()
	return q
}

func (q *Queue) Execute(fn func(*sql.DB) (interface{}, error)) (interface{}, error) {
	resp := make(chan taskResult, 1)
	q.tasks <- task{exec: fn, resp: resp}
	result := <-resp
	return result.data, result.err
}

func (q *Queue) worker() {
	for t := range q.tasks {
		t.resp <- q.runWithRetry(t)
	}
}

func (q *Queue) runWithRetry(t task) taskResult {
	var lastErr error
	for attempt := 0; attempt < q.maxRetry; attempt++ {
		data, err := t.exec(q.db)
		if err == nil {
			return taskResult{data: data}
		}
		lastErr = err
		if attempt < q.maxRetry-1 {
			time.Sleep(time.Duration(attempt+1) * q.retryDelay)
		}
	}
	return taskResult{err: lastErr}
}

func (q *Queue) Close() {
	close(q.tasks)
}

func (q *Queue) DB() *sql.DB {
	return q.db
}

// Package worker is the asynq handler registry the automation run task is
// registered on. It keeps main free of asynq handler plumbing; the queue
// itself is configured where the server is built.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
)

type Mux struct{ mux *asynq.ServeMux }

func NewMux() *Mux { return &Mux{mux: asynq.NewServeMux()} }

// HandleFunc binds a task type to its handler.
func (m *Mux) HandleFunc(t string, h func(ctx context.Context, task *asynq.Task) error) {
	m.mux.HandleFunc(t, h)
}

func (m *Mux) Mux() *asynq.ServeMux { return m.mux }

package domain

import (
	"sync"
)

type WorkerEventKind string

const (
	WorkerCreated     WorkerEventKind = "colaborador_creado"
	WorkerUpdated     WorkerEventKind = "colaborador_actualizado"
	WorkerBlocked     WorkerEventKind = "colaborador_bloqueado"
	WorkerUnblocked   WorkerEventKind = "colaborador_desbloqueado"
	WorkerTerminated  WorkerEventKind = "colaborador_finiquitado"
	AnalysisCompleted WorkerEventKind = "analisis_completado"
)

// WorkerEvent describe un cambio de estado ya confirmado en la base de
// datos. Changed lista los campos modificados cuando Kind es
// colaborador_actualizado.
type WorkerEvent struct {
	Kind      WorkerEventKind
	Worker    *Worker
	Changed   []string
	ChangedBy string
}

// Notifier invoca callbacks registrados de forma síncrona después de cada
// transición de estado confirmada. No se garantiza ningún orden entre
// handlers, así que ninguno debe depender de otro.
type Notifier struct {
	mu       sync.RWMutex
	handlers []func(WorkerEvent)
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Register(fn func(WorkerEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers = append(n.handlers, fn)
}

func (n *Notifier) Notify(ev WorkerEvent) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, fn := range n.handlers {
		fn(ev)
	}
}

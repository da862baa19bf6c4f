// Package automation sequences a full run for one registro: portal login,
// form fill, ticket recovery, status persistence and the two WhatsApp
// notifications. Runs are triggered fire-and-forget through the task
// queue; outcome is only observable on the registro row and the artifact
// files.
package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sicbot/internal/config"
	"sicbot/internal/core/registro"
	"sicbot/internal/core/whatsapp"
	"sicbot/internal/logger"
	"sicbot/internal/platform/tasks"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskTypeRun = "automation:run"

type Payload struct {
	RunID      string `json:"run_id"`
	RegistroID int64  `json:"registro_id"`
}

type Service struct {
	log       *logger.Logger
	cfg       config.Config
	maps      config.Maps
	tracker   StatusTracker
	registros RegistroSource
	tasks     *tasks.Client
	newPortal PortalFactory
	newSender SenderFactory
}

func NewService(
	cfg config.Config,
	maps config.Maps,
	tracker StatusTracker,
	registros RegistroSource,
	taskClient *tasks.Client,
	newPortal PortalFactory,
	newSender SenderFactory,
) *Service {
	return &Service{
		log:       logger.New("Automation"),
		cfg:       cfg,
		maps:      maps,
		tracker:   tracker,
		registros: registros,
		tasks:     taskClient,
		newPortal: newPortal,
		newSender: newSender,
	}
}

// Enqueue schedules a run for the registro. MaxRetry is zero: the run owns
// its own retry policy, and delivery is best-effort by contract.
func (s *Service) Enqueue(_ context.Context, registroID int64) error {
	payload, err := json.Marshal(Payload{RunID: uuid.NewString(), RegistroID: registroID})
	if err != nil {
		return err
	}
	return s.tasks.Enqueue(asynq.NewTask(TaskTypeRun, payload), "default", 0)
}

// HandleTask is the asynq entry point for one queued run.
func (s *Service) HandleTask(ctx context.Context, task *asynq.Task) error {
	var p Payload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return err
	}
	r, err := s.registros.GetByID(ctx, p.RegistroID)
	if err != nil {
		s.log.LogErrorf("run %s: load registro %d failed: %v", p.RunID, p.RegistroID, err)
		return nil
	}
	s.log.LogInfof("run %s: starting for registro %d (nit=%s)", p.RunID, r.ID, r.Nit)
	s.Run(ctx, r)
	return nil
}

// Run executes the workflow for one registro. A run whose browser session
// terminates unexpectedly is retried once from the top; any other error,
// or a second failure, is terminal.
func (s *Service) Run(ctx context.Context, r *registro.Registro) {
	s.tracker.MarkRunning(ctx, r.ID)

	ticket, err := s.attempt(ctx, r)
	if err != nil && isTargetClosed(err) {
		s.log.LogWarnf("registro %d: browser session terminated, retrying once: %v", r.ID, err)
		ticket, err = s.attempt(ctx, r)
	}
	if err != nil {
		s.log.LogErrorf("registro %d: run failed: %v", r.ID, err)
		s.tracker.MarkTerminal(ctx, r.ID, registro.EstadoError, err.Error())
		return
	}

	s.tracker.MarkTerminal(ctx, r.ID, registro.EstadoCompletado, "")
	s.log.LogInfof("registro %d: run completed, ticket %s", r.ID, ticket)
}

func (s *Service) attempt(ctx context.Context, r *registro.Registro) (string, error) {
	run, err := s.newPortal()
	if err != nil {
		return "", fmt.Errorf("start portal session: %w", err)
	}
	defer run.Close()

	if err := run.Login(ctx); err != nil {
		s.captureArtifacts(run, r.ID)
		return "", err
	}
	if err := run.FillForm(ctx, r); err != nil {
		s.captureArtifacts(run, r.ID)
		return "", err
	}
	ticket, err := run.FindTicket(ctx, r.Nit, r.Empresa)
	if err != nil {
		s.captureArtifacts(run, r.ID)
		return "", err
	}
	s.tracker.PersistTicket(ctx, r.ID, ticket)
	r.Ticket = ticket

	if err := s.dispatchNotifications(ctx, r, ticket); err != nil {
		return "", err
	}
	return ticket, nil
}

// dispatchNotifications sends the group notification and the requester
// acknowledgment. The two sends are independent; either failing is logged
// without failing the run or blocking the other. Only the messaging
// session itself failing to open or authenticate is fatal.
func (s *Service) dispatchNotifications(ctx context.Context, r *registro.Registro, ticket string) error {
	sender, err := s.newSender()
	if err != nil {
		return fmt.Errorf("start messaging session: %w", err)
	}
	defer sender.Close()

	if err := sender.SendToGroup(ctx, s.cfg.WaGroupName, whatsapp.GroupMessage(r, ticket)); err != nil {
		s.log.LogErrorf("registro %d: group notification failed: %v", r.ID, err)
		s.captureArtifacts(sender, r.ID)
	}
	if err := sender.SendToNumber(ctx, r.Celular, whatsapp.DirectMessage(r, ticket, s.maps)); err != nil {
		s.log.LogErrorf("registro %d: requester acknowledgment failed: %v", r.ID, err)
		s.captureArtifacts(sender, r.ID)
	}
	return nil
}

// isTargetClosed reports whether the error looks like the underlying
// browser/tab terminating mid-run, the one condition worth a full retry.
func isTargetClosed(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "target closed") || strings.Contains(msg, "has been closed")
}

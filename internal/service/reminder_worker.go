package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"gstdesk/internal/config"
	"gstdesk/internal/domain"
	"gstdesk/internal/gst"
	"gstdesk/internal/port"
)

// reminderLateDays is the delay the reminder quotes a late fee for.
const reminderLateDays = 7

// ReminderWorker polls for pending returns nearing their due date and emails
// the admins of each business. A return is reminded at most once a day.
type ReminderWorker struct {
	returnRepo   port.FilingReturnRepository
	businessRepo port.BusinessRepository
	userRepo     port.UserRepository
	sender       port.EmailSender
	cal          Calendar
	cfg          config.ReminderConfig
	log          *logrus.Entry

	wg  sync.WaitGroup
	sem chan struct{}

	mu       sync.Mutex
	inFlight map[uuid.UUID]bool
	sentOn   map[uuid.UUID]time.Time
}

// NewReminderWorker creates a new ReminderWorker.
func NewReminderWorker(
	returnRepo port.FilingReturnRepository,
	businessRepo port.BusinessRepository,
	userRepo port.UserRepository,
	sender port.EmailSender,
	cal Calendar,
	cfg config.ReminderConfig,
	log *logrus.Logger,
) *ReminderWorker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &ReminderWorker{
		returnRepo:   returnRepo,
		businessRepo: businessRepo,
		userRepo:     userRepo,
		sender:       sender,
		cal:          cal,
		cfg:          cfg,
		log:          log.WithField("component", "reminderWorker"),
		sem:          make(chan struct{}, cfg.Concurrency),
		inFlight:     make(map[uuid.UUID]bool),
		sentOn:       make(map[uuid.UUID]time.Time),
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight reminders have finished.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.log.WithFields(logrus.Fields{
		"poll":        w.cfg.PollInterval,
		"concurrency": w.cfg.Concurrency,
		"lead_days":   w.cfg.LeadDays,
	}).Info("started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info("shutting down, waiting for in-flight reminders")
			w.wg.Wait()
			w.log.Info("shutdown complete")
			return
		case <-ticker.C:
			w.dispatch(ctx)
		}
	}
}

// RunOnce performs a single poll and waits for its reminders to be sent.
func (w *ReminderWorker) RunOnce(ctx context.Context) {
	w.dispatch(ctx)
	w.wg.Wait()
}

func (w *ReminderWorker) dispatch(ctx context.Context) {
	today := w.cal.Today()
	w.prune(today)
	returns, err := w.returnRepo.ListPendingDueBetween(ctx, today, today.AddDate(0, 0, w.cfg.LeadDays))
	if err != nil {
		if ctx.Err() == nil {
			w.log.WithError(err).Error("listing returns due soon")
		}
		return
	}

	for i := range returns {
		r := returns[i] // copy for goroutine
		if !w.claim(r.ID, today) {
			continue
		}

		select {
		case w.sem <- struct{}{}: // acquire
		case <-ctx.Done():
			w.release(r.ID, today, false)
			return
		}
		w.wg.Add(1)
		go func() {
			defer w.wg.Done()
			defer func() { <-w.sem }() // release

			// Use a fresh context so in-flight sends complete during shutdown.
			sendCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			err := w.remind(sendCtx, &r)
			if err != nil {
				w.log.WithError(err).WithField("return_id", r.ID).Error("sending reminder")
			}
			w.release(r.ID, today, err == nil)
		}()
	}
}

// claim marks a return in flight unless it is already in flight or was
// reminded today.
func (w *ReminderWorker) claim(id uuid.UUID, today time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[id] {
		return false
	}
	if sent, ok := w.sentOn[id]; ok && sent.Equal(today) {
		return false
	}
	w.inFlight[id] = true
	return true
}

// prune forgets reminders sent before today; only today's entries gate claim.
func (w *ReminderWorker) prune(today time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for id, sent := range w.sentOn {
		if sent.Before(today) {
			delete(w.sentOn, id)
		}
	}
}

func (w *ReminderWorker) release(id uuid.UUID, today time.Time, sent bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, id)
	if sent {
		w.sentOn[id] = today
	}
}

func (w *ReminderWorker) remind(ctx context.Context, r *domain.FilingReturn) error {
	business, err := w.businessRepo.GetByID(ctx, r.BusinessID)
	if err != nil {
		return err
	}
	if !business.IsActive {
		return nil
	}
	admins, err := w.userRepo.ListAdmins(ctx, r.BusinessID)
	if err != nil {
		return err
	}

	fee := gst.LateFee(r.ReturnType, reminderLateDays)
	for i := range admins {
		err := w.sender.SendDueDateReminder(ctx, port.DueDateReminder{
			ToEmail:          admins[i].Email,
			ToName:           admins[i].FullName,
			BusinessName:     business.Name,
			ReturnType:       r.ReturnType,
			Period:           r.Period,
			DueDate:          r.DueDate,
			EstimatedLateFee: fee,
		})
		if err != nil {
			return err
		}
	}

	w.log.WithFields(logrus.Fields{
		"return_id":   r.ID,
		"business_id": r.BusinessID,
		"recipients":  len(admins),
	}).Info("reminder sent")
	return nil
}

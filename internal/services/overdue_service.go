package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shelfwise/shelfwise-backend/internal/email"
	"github.com/shelfwise/shelfwise-backend/internal/repository"
	"github.com/shelfwise/shelfwise-backend/pkg/debug"
)

// OverdueService periodically sweeps for overdue loans and emails reminders.
// Each loan is reminded at most once per day via the notified_at column.
type OverdueService struct {
	transactions *repository.TransactionRepository
	email        *email.Service
	cron         *cron.Cron
}

// NewOverdueService creates a new overdue sweep service
func NewOverdueService(transactions *repository.TransactionRepository, emailService *email.Service) *OverdueService {
	return &OverdueService{
		transactions: transactions,
		email:        emailService,
		cron:         cron.New(),
	}
}

// Start schedules the hourly sweep and runs one immediately
func (s *OverdueService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	debug.Info("Overdue loan sweep scheduled hourly")

	go s.Sweep()
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *OverdueService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep finds overdue loans and sends a reminder for each. Send failures are
// logged and skipped; the loan stays eligible for the next sweep.
func (s *OverdueService) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := time.Now()
	loans, err := s.transactions.ListOverdue(ctx, now)
	if err != nil {
		debug.Error("Overdue sweep failed to list loans: %v", err)
		return
	}
	if len(loans) == 0 {
		debug.Debug("Overdue sweep found no loans to remind")
		return
	}

	debug.Info("Overdue sweep reminding %d loan(s)", len(loans))
	for _, loan := range loans {
		err := s.email.SendOverdueNotice(ctx, loan.UserEmail, loan.UserFirstName, loan.BookTitle, loan.DueDate)
		if err != nil {
			debug.Error("Failed to send overdue notice for loan %s: %v", loan.TransactionID, err)
			continue
		}
		if err := s.transactions.MarkNotified(ctx, loan.TransactionID, now); err != nil {
			debug.Error("Failed to record notice for loan %s: %v", loan.TransactionID, err)
		}
	}
}

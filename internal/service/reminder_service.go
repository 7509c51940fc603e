package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"silvercare/internal/domain"
	"silvercare/internal/metrics"
	"silvercare/internal/notify"
	"silvercare/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ScheduledTimeLayout is the display format stored in scheduled_time.
const ScheduledTimeLayout = "03:04 PM"

// ReminderService sends a reminder for every pending dose whose scheduled
// time matches the current minute. Each dose is reminded at most once per slot.
type ReminderService struct {
	meds   repository.MedicationsRepository
	sender notify.Sender
	loc    *time.Location
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	slot string
	sent map[int64]struct{}

	cron *cron.Cron
}

func NewReminderService(meds repository.MedicationsRepository, sender notify.Sender, loc *time.Location, logger *zap.Logger) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		meds:   meds,
		sender: sender,
		loc:    loc,
		logger: logger,
		now:    time.Now,
		sent:   map[int64]struct{}{},
	}
}

// LoadLocation resolves an IANA zone name; "" and "Local" mean time.Local.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time zone %q: %w", name, err)
	}
	return loc, nil
}

// Start schedules RunOnce with the given cron spec, e.g. "@every 1m".
func (s *ReminderService) Start(spec string) error {
	c := cron.New(cron.WithLocation(s.loc), cron.WithChain(cron.Recover(cron.DefaultLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("medication reminder run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", spec, err)
	}
	s.cron = c
	c.Start()
	s.logger.Info("medication reminders started", zap.String("spec", spec), zap.String("tz", s.loc.String()))
	return nil
}

// Stop waits for a running job to finish.
func (s *ReminderService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce sends reminders for the current minute and returns how many were sent.
func (s *ReminderService) RunOnce(ctx context.Context) (int, error) {
	now := s.now().In(s.loc)
	scheduled := now.Format(ScheduledTimeLayout)

	due, err := s.meds.ListPendingAt(ctx, scheduled)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range due {
		if !s.claim(now, rec.ID) {
			continue
		}
		msg := notify.Message{UserID: rec.UserID, Kind: notify.KindReminder, Body: domain.ReminderText(rec)}
		if err := s.sender.Send(ctx, msg); err != nil {
			metrics.NotificationFailures.WithLabelValues(notify.KindReminder).Inc()
			s.logger.Warn("failed to send medication reminder",
				zap.Int64("id", rec.ID), zap.Int64("user_id", rec.UserID), zap.Error(err))
			continue
		}
		sent++
		metrics.RemindersSent.Inc()
	}
	if sent > 0 {
		s.logger.Info("medication reminders sent", zap.String("scheduled_time", scheduled), zap.Int("count", sent))
	}
	return sent, nil
}

// claim marks id as reminded for the minute of now.
func (s *ReminderService) claim(now time.Time, id int64) bool {
	slot := now.Format("2006-01-02 15:04")

	s.mu.Lock()
	defer s.mu.Unlock()
	if slot != s.slot {
		s.slot = slot
		s.sent = map[int64]struct{}{}
	}
	if _, ok := s.sent[id]; ok {
		return false
	}
	s.sent[id] = struct{}{}
	return true
}

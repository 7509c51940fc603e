package service

import (
	"context"
	"encoding/json"
	"time"

	"silvercare/internal/domain"
	"silvercare/internal/metrics"
	"silvercare/internal/notify"
	"silvercare/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SosNotifyRequest mirrors the POST /sos body.
type SosNotifyRequest struct {
	UserID int64    `json:"user_id"`
	Lat    *float64 `json:"lat,omitempty"`
	Lng    *float64 `json:"lng,omitempty"`
}

const SosNotifiedMessage = "Emergency contacts notified"

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 100
)

// SosNotifyResponse is the POST /sos response body.
type SosNotifyResponse struct {
	Message         string `json:"message"`
	ContactsAlerted int    `json:"contactsAlerted"`
	EventID         string `json:"event_id,omitempty"`
}

// SosDispatcher alerts a user's emergency contacts.
type SosDispatcher struct {
	contacts  repository.EmergencyContactsRepository
	sender    notify.Sender // per-contact SMS
	broadcast notify.Sender // optional, e.g. MQTT to caregivers' devices
	events    SosEventRecorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewSosDispatcher(
	contacts repository.EmergencyContactsRepository,
	sender notify.Sender,
	broadcast notify.Sender,
	events SosEventRecorder,
	logger *zap.Logger,
) *SosDispatcher {
	return &SosDispatcher{
		contacts:  contacts,
		sender:    sender,
		broadcast: broadcast,
		events:    events,
		logger:    logger,
		now:       time.Now,
	}
}

// Notify alerts every contact of the user and returns how many were found.
// Zero contacts is not an error. Only the contact lookup can fail the call.
func (d *SosDispatcher) Notify(ctx context.Context, req SosNotifyRequest) (*SosNotifyResponse, error) {
	if req.UserID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return nil, domain.Validation("lat and lng must be given together")
	}

	contacts, err := d.contacts.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	d.logger.Warn("sending emergency alerts",
		zap.Int64("user_id", req.UserID),
		zap.Any("lat", req.Lat),
		zap.Any("lng", req.Lng),
		zap.Int("contacts", len(contacts)),
	)

	for _, c := range contacts {
		msg := notify.Message{
			UserID: req.UserID,
			To:     c.PhoneNumber,
			Kind:   notify.KindSOS,
			Body:   domain.SosAlertText(c.ContactName, req.UserID, req.Lat, req.Lng),
		}
		if err := d.sender.Send(ctx, msg); err != nil {
			metrics.NotificationFailures.WithLabelValues(notify.KindSOS).Inc()
			d.logger.Error("failed to alert emergency contact",
				zap.Int64("user_id", req.UserID),
				zap.String("contact_name", c.ContactName),
				zap.Error(err),
			)
		}
	}

	ev := domain.SosEvent{
		EventID:         uuid.NewString(),
		UserID:          req.UserID,
		Lat:             req.Lat,
		Lng:             req.Lng,
		ContactsAlerted: len(contacts),
		TriggeredAt:     d.now().UTC(),
	}
	d.recordEvent(ctx, ev)

	metrics.SOSDispatches.Inc()
	metrics.ContactsAlerted.Add(float64(len(contacts)))

	return &SosNotifyResponse{
		Message:         SosNotifiedMessage,
		ContactsAlerted: len(contacts),
		EventID:         ev.EventID,
	}, nil
}

func (d *SosDispatcher) Last(ctx context.Context, userID int64) (*domain.SosEvent, error) {
	if userID <= 0 {
		return nil, domain.Validation("user_id must be a positive integer")
	}
	if d.events == nil {
		return nil, domain.NotFound("no recent sos event", nil)
	}
	return d.events.Last(ctx, userID)
}

func (d *SosDispatcher) Recent(ctx context.Context, limit int) ([]domain.SosEvent, error) {
	if d.events == nil {
		return []domain.SosEvent{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultRecentLimit
	case limit > maxRecentLimit:
		limit = maxRecentLimit
	}
	return d.events.Recent(ctx, limit)
}

// recordEvent never fails the dispatch.
func (d *SosDispatcher) recordEvent(ctx context.Context, ev domain.SosEvent) {
	if d.events != nil {
		if err := d.events.Record(ctx, ev); err != nil {
			d.logger.Warn("failed to record sos event", zap.String("event_id", ev.EventID), zap.Error(err))
		}
	}
	if d.broadcast != nil {
		payload, _ := json.Marshal(ev)
		if err := d.broadcast.Send(ctx, notify.Message{UserID: ev.UserID, Kind: notify.KindSOS, Body: string(payload)}); err != nil {
			metrics.NotificationFailures.WithLabelValues("sos_broadcast").Inc()
			d.logger.Warn("failed to broadcast sos event", zap.String("event_id", ev.EventID), zap.Error(err))
		}
	}
}

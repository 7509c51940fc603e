package view

import (
	"context"
	"fmt"

	"silvercare/internal/domain"
	"silvercare/internal/sos"
)

const (
	emergencyIdleText       = "Press the button in case of a medical emergency."
	emergencyContactingText = "⏳ Contacting Emergency Services..."
	emergencyDispatchedText = "🚑 Ambulance is on the way!"
	locationLoadingText     = "Loading Location..."
)

// Render builds the view model of the current page.
func (a *App) Render(ctx context.Context) (PageView, error) {
	records, err := a.deps.Medications.List(ctx, a.userID)
	if err != nil {
		return PageView{}, err
	}

	state := a.State()
	pv := PageView{Page: state.Page, Theme: state.Theme, RiskLevel: domain.RiskLevelOf(records)}

	switch state.Page {
	case PageDashboard:
		pv.Dashboard = renderDashboard(records)
	case PageMedication:
		pv.Medication = renderMedication(records)
	case PageEmergency:
		pv.Emergency = a.renderEmergency()
	case PageDoctors:
		pv.Doctors = a.renderDoctors(ctx)
	case PageAssistant:
		pv.Assistant = a.renderAssistant()
	case PageFeedback:
		pv.Feedback, err = a.renderFeedback(ctx)
		if err != nil {
			return PageView{}, err
		}
	}
	return pv, nil
}

func renderDashboard(records []domain.MedicationRecord) *DashboardView {
	level := domain.RiskLevelOf(records)
	v := &DashboardView{
		Counts:    domain.CountByStatus(records),
		RiskLevel: level,
		Advice:    domain.RiskAdvice(level),
	}
	if next, ok := domain.NextDose(records); ok {
		v.NextDose = &next
	}
	return v
}

func renderMedication(records []domain.MedicationRecord) *MedicationView {
	level := domain.RiskLevelOf(records)
	v := &MedicationView{Records: records, RiskLevel: level}
	if level != domain.RiskLow {
		v.RiskAlert = domain.RiskAdvice(level)
	}
	if len(records) > 0 {
		v.VoiceReminder = domain.ReminderText(records[0])
	}
	return v
}

func (a *App) renderEmergency() *EmergencyView {
	snap := a.flow.Snapshot()
	v := &EmergencyView{Status: snap.Status, Location: snap.Location}

	switch snap.Status {
	case sos.StatusIdle:
		v.StatusText = emergencyIdleText
		return v
	case sos.StatusContacting:
		v.StatusText = emergencyContactingText
	case sos.StatusAmbulanceSent:
		v.StatusText = emergencyDispatchedText
	}
	v.LocationText = LocationText(snap.Location)

	a.mu.Lock()
	d := a.dispatch
	a.mu.Unlock()
	if d != nil && d.activation == snap.Activation {
		n := d.alerted
		v.ContactsAlerted = &n
		v.AlertText = fmt.Sprintf("An SMS has been sent to %d emergency contact(s).", n)
	}
	return v
}

// LocationText is the display string for the location sub-state.
func LocationText(l sos.Location) string {
	switch l.State {
	case sos.LocationPending:
		return locationLoadingText
	case sos.LocationResolved:
		if l.Coords != nil {
			return fmt.Sprintf("Lat: %.4f, Lng: %.4f", l.Coords.Lat, l.Coords.Lng)
		}
	case sos.LocationDenied:
		return l.Reason
	}
	return ""
}

func (a *App) renderDoctors(ctx context.Context) *DoctorsView {
	a.mu.Lock()
	c := a.lastCoords
	a.mu.Unlock()

	var lat, lng *float64
	if c != nil {
		la, ln := c.Lat, c.Lng
		lat, lng = &la, &ln
	}
	return &DoctorsView{Providers: a.deps.Providers.Nearby(ctx, lat, lng)}
}

func (a *App) renderAssistant() *AssistantView {
	a.mu.Lock()
	defer a.mu.Unlock()

	msgs := make([]ChatMessage, len(a.thread))
	copy(msgs, a.thread)
	return &AssistantView{Disclaimer: ChatDisclaimer, Messages: msgs, Typing: a.typing > 0}
}

func (a *App) renderFeedback(ctx context.Context) (*FeedbackView, error) {
	a.mu.Lock()
	v := &FeedbackView{Rating: a.rating, Submitted: a.submitted}
	a.mu.Unlock()

	if !v.Submitted {
		return v, nil
	}
	sum, err := a.deps.Feedback.Summary(ctx)
	if err != nil {
		return nil, err
	}
	v.Average = sum.Average
	v.Count = sum.Count
	return v, nil
}

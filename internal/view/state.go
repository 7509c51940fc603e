package view

import (
	"silvercare/internal/domain"
	"silvercare/internal/sos"
)

// Page is the closed set of app screens.
type Page string

const (
	PageDashboard  Page = "dashboard"
	PageMedication Page = "medication"
	PageEmergency  Page = "emergency"
	PageDoctors    Page = "doctors"
	PageAssistant  Page = "assistant"
	PageFeedback   Page = "feedback"
)

// Pages is the navigation order.
var Pages = []Page{PageDashboard, PageMedication, PageEmergency, PageDoctors, PageAssistant, PageFeedback}

func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if string(p) == s {
			return p, nil
		}
	}
	return "", domain.Validation("unknown page")
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// AppState is the navigation state of one session.
type AppState struct {
	Page  Page  `json:"page"`
	Theme Theme `json:"theme"`
}

// PageView is the rendered session. Exactly one of the page fields is set,
// matching Page.
type PageView struct {
	Page      Page             `json:"page"`
	Theme     Theme            `json:"theme"`
	RiskLevel domain.RiskLevel `json:"risk_level"`

	Dashboard  *DashboardView  `json:"dashboard,omitempty"`
	Medication *MedicationView `json:"medication,omitempty"`
	Emergency  *EmergencyView  `json:"emergency,omitempty"`
	Doctors    *DoctorsView    `json:"doctors,omitempty"`
	Assistant  *AssistantView  `json:"assistant,omitempty"`
	Feedback   *FeedbackView   `json:"feedback,omitempty"`
}

type DashboardView struct {
	NextDose  *domain.MedicationRecord `json:"next_dose,omitempty"`
	Counts    domain.StatusCounts      `json:"counts"`
	RiskLevel domain.RiskLevel         `json:"risk_level"`
	Advice    string                   `json:"advice"`
}

type MedicationView struct {
	Records   []domain.MedicationRecord `json:"records"`
	RiskLevel domain.RiskLevel          `json:"risk_level"`
	RiskAlert string                    `json:"risk_alert,omitempty"`
	// VoiceReminder is what a speech front end reads for the first record.
	VoiceReminder string `json:"voice_reminder,omitempty"`
}

type EmergencyView struct {
	Status       sos.Status   `json:"status"`
	StatusText   string       `json:"status_text"`
	Location     sos.Location `json:"location"`
	LocationText string       `json:"location_text,omitempty"`
	// ContactsAlerted is set once this activation's dispatch has completed.
	ContactsAlerted *int   `json:"contacts_alerted,omitempty"`
	AlertText       string `json:"alert_text,omitempty"`
}

type DoctorsView struct {
	Providers []domain.Provider `json:"providers"`
}

type ChatMessage struct {
	Sender string `json:"sender"` // "bot" | "user"
	Text   string `json:"text"`
}

type AssistantView struct {
	Disclaimer string        `json:"disclaimer"`
	Messages   []ChatMessage `json:"messages"`
	Typing     bool          `json:"typing"`
}

type FeedbackView struct {
	Rating    int     `json:"rating"`
	Submitted bool    `json:"submitted"`
	Average   float64 `json:"average,omitempty"`
	Count     int     `json:"count,omitempty"`
}

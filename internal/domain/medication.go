package domain

// MedicationStatus is the closed set of dose states.
type MedicationStatus string

const (
	StatusPending MedicationStatus = "pending"
	StatusTaken   MedicationStatus = "taken"
	StatusMissed  MedicationStatus = "missed"
)

func (s MedicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusTaken, StatusMissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed.
func (s MedicationStatus) Terminal() bool {
	return s == StatusTaken || s == StatusMissed
}

// MedicationRecord maps to the medications table.
type MedicationRecord struct {
	ID            int64            `json:"id" db:"id"`                         // BIGSERIAL, PRIMARY KEY
	UserID        int64            `json:"user_id" db:"user_id"`               // BIGINT, NOT NULL
	MedicineName  string           `json:"medicine_name" db:"medicine_name"`   // VARCHAR(255), NOT NULL
	Dosage        string           `json:"dosage" db:"dosage"`                 // VARCHAR(100)
	ScheduledTime string           `json:"scheduled_time" db:"scheduled_time"` // VARCHAR(20), display string e.g. "08:00 AM"
	Status        MedicationStatus `json:"status" db:"status"`                 // VARCHAR(16), NOT NULL, DEFAULT 'pending'
}

// RiskLevel is derived from the missed count and never stored.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Notice is the user-facing message emitted by a successful transition.
type Notice struct {
	Kind    string `json:"kind"` // "reinforcement" | "risk"
	Message string `json:"message"`
}

const (
	NoticeTakenMessage  = "Great job staying on track!"
	NoticeMissedMessage = "Reminder: Missing medication increases health risk!"
)

// Transition applies target to a pending record. The returned record is a copy.
func Transition(rec MedicationRecord, target MedicationStatus) (MedicationRecord, Notice, error) {
	if rec.Status != StatusPending {
		return rec, Notice{}, InvalidTransition(rec.Status, target)
	}

	var n Notice
	switch target {
	case StatusTaken:
		n = Notice{Kind: "reinforcement", Message: NoticeTakenMessage}
	case StatusMissed:
		n = Notice{Kind: "risk", Message: NoticeMissedMessage}
	default:
		return rec, Notice{}, InvalidTransition(rec.Status, target)
	}

	rec.Status = target
	return rec, n, nil
}

// StatusCounts tallies records per status.
type StatusCounts struct {
	Taken   int `json:"taken"`
	Missed  int `json:"missed"`
	Pending int `json:"pending"`
}

func CountByStatus(records []MedicationRecord) StatusCounts {
	var c StatusCounts
	for _, r := range records {
		switch r.Status {
		case StatusTaken:
			c.Taken++
		case StatusMissed:
			c.Missed++
		case StatusPending:
			c.Pending++
		}
	}
	return c
}

func RiskLevelOf(records []MedicationRecord) RiskLevel {
	return riskFromMissed(CountByStatus(records).Missed)
}

func riskFromMissed(missed int) RiskLevel {
	switch {
	case missed == 0:
		return RiskLow
	case missed == 1:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// RiskAdvice is the dashboard line shown for a risk level.
func RiskAdvice(level RiskLevel) string {
	if level == RiskLow {
		return NoticeTakenMessage
	}
	return NoticeMissedMessage
}

// NextDose is the first pending record, else the first record.
func NextDose(records []MedicationRecord) (MedicationRecord, bool) {
	for _, r := range records {
		if r.Status == StatusPending {
			return r, true
		}
	}
	if len(records) > 0 {
		return records[0], true
	}
	return MedicationRecord{}, false
}

// ReminderText is the spoken/sent reminder for a dose.
func ReminderText(rec MedicationRecord) string {
	return "It's time to take your medicine: " + rec.MedicineName
}

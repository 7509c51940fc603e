package repository

import (
	"context"

	"silvercare/internal/domain"
)

// DemoUserID owns the seeded demo data.
const DemoUserID int64 = 1

// SeedDemo loads the demo schedule and a single emergency contact.
// contacts may be nil when contacts live in Postgres.
func SeedDemo(ctx context.Context, meds MedicationsRepository, contacts *MemoryEmergencyContactsRepository) error {
	existing, err := meds.ListByUser(ctx, DemoUserID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		demo := []domain.MedicationRecord{
			{UserID: DemoUserID, MedicineName: "Aspirin", Dosage: "1 Pill", ScheduledTime: "08:00 AM", Status: domain.StatusPending},
			{UserID: DemoUserID, MedicineName: "Metformin", Dosage: "500mg", ScheduledTime: "01:00 PM", Status: domain.StatusTaken},
			{UserID: DemoUserID, MedicineName: "Lisinopril", Dosage: "10mg", ScheduledTime: "08:00 PM", Status: domain.StatusMissed},
		}
		for i := range demo {
			if _, err := meds.Create(ctx, &demo[i]); err != nil {
				return err
			}
		}
	}

	if contacts != nil {
		if list, _ := contacts.ListByUser(ctx, DemoUserID); len(list) == 0 {
			contacts.Add(domain.EmergencyContact{UserID: DemoUserID, ContactName: "Son", PhoneNumber: "9876543210"})
		}
	}
	return nil
}

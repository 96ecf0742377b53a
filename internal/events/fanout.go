package events

import "gorm.io/gorm"

// Fanout writes the notification rows derived from domain events. Emit
// takes the database handle of the calling operation so that fan-out
// shares its transaction: if the surrounding operation rolls back, so do
// the notifications.
type Fanout struct{}

func NewFanout() *Fanout {
	return &Fanout{}
}

// Emit derives and inserts the notifications for ev. Emitting an event
// that notifies nobody is a no-op, not an error.
func (f *Fanout) Emit(db *gorm.DB, ev Event) error {
	rows := Notifications(ev)
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

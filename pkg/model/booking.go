package model

// BookingRef is an immutable snapshot of the device's current calendar
// booking, captured once when a countdown starts and discarded when it ends.
// StartTime and EndTime are kept as the device reports them (ISO 8601 text);
// the agent never does time arithmetic on them.
type BookingRef struct {
	ID        string `json:"id" bson:"booking_id"`
	MeetingID string `json:"meeting_id" bson:"meeting_id"`
	Title     string `json:"title" bson:"title"`
	StartTime string `json:"start_time" bson:"start_time"`
	EndTime   string `json:"end_time" bson:"end_time"`
}

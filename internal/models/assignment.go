package models

// Assignment binds one event to a concrete (teacher, room, timeslot)
// triple. A full assignment set contains exactly one row per event and is
// replaced atomically by the Catalog Store.
type Assignment struct {
	EventID    int64 `db:"event_id" json:"event_id"`
	TeacherID  int64 `db:"teacher_id" json:"teacher_id"`
	RoomID     int64 `db:"room_id" json:"room_id"`
	TimeslotID int64 `db:"timeslot_id" json:"timeslot_id"`
}

// ClassView is a single scheduled class as seen by a formatted timetable
// client: names resolved, not ids.
type ClassView struct {
	EventName   string   `json:"event_name"`
	RoomName    string   `json:"room_name"`
	TeacherName string   `json:"teacher_name"`
	BatchNames  []string `json:"batch_names"`
}

// TimeslotView groups the classes landing on one timeslot.
type TimeslotView struct {
	StartHour int         `json:"start_hour"`
	EndHour   int         `json:"end_hour"`
	SlotType  SlotType    `json:"slot_type"`
	Classes   []ClassView `json:"classes"`
}

// DayView groups a day's timeslot views, sorted by start hour.
type DayView struct {
	Day       Weekday        `json:"day"`
	Timeslots []TimeslotView `json:"timeslots"`
}

// TimetableView is the full formatted timetable: Mon-Fri day records.
type TimetableView struct {
	Days []DayView `json:"days"`
}

// UnassignedTeacherName is substituted when an assignment references a
// teacher row that can no longer be resolved.
const UnassignedTeacherName = "Unassigned"

// FreeInterval is one contiguous free period for a batch on a given day.
type FreeInterval struct {
	Day       Weekday `json:"day"`
	StartHour int     `json:"start_hour"`
	EndHour   int     `json:"end_hour"`
	Duration  int     `json:"duration"`
}

package models

// RosterEntry is one student as the attendance service reports it.
type RosterEntry struct {
	Name   string       `json:"name"`
	RollNo string       `json:"roll_no,omitempty"`
	Status RosterStatus `json:"status"`
	Time   string       `json:"time,omitempty"` // arrival time, present only
}

// RosterStatus represents which list a student sits in
type RosterStatus string

const (
	RosterStatusWaiting RosterStatus = "waiting"
	RosterStatusPresent RosterStatus = "present"
)

// Valid reports whether s names one of the two lists.
func (s RosterStatus) Valid() bool {
	return s == RosterStatusWaiting || s == RosterStatusPresent
}

// Snapshot is one poll response. It fully replaces whatever was rendered before.
type Snapshot struct {
	Total    int           `json:"total"`
	Present  int           `json:"present"`
	Absent   int           `json:"absent"`
	LastScan *RosterEntry  `json:"last_scan,omitempty"`
	Waiting  []RosterEntry `json:"waiting"`
	Arrived  []RosterEntry `json:"present_list"`
}

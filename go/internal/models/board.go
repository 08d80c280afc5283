package models

import "strconv"

// Board is the rendered kiosk view. Pages draw it as-is; every field is already text.
type Board struct {
	Visible      bool   `json:"visible"`
	SessionMeta  string `json:"session_meta"`
	SessionTitle string `json:"session_title"`

	Total    string `json:"total"`
	Present  string `json:"present"`
	Absent   string `json:"absent"`
	LastScan string `json:"last_scan"`

	Waiting []BoardRow `json:"waiting"`
	Arrived []BoardRow `json:"present_list"`

	Camera  CameraView `json:"camera"`
	Reports []Report   `json:"reports,omitempty"`
}

// BoardRow is one draggable row. List tags the container the row was rendered into.
type BoardRow struct {
	Index  int          `json:"index"`
	Name   string       `json:"name"`
	Detail string       `json:"detail"`
	RollNo string       `json:"roll_no,omitempty"`
	Time   string       `json:"time,omitempty"`
	List   RosterStatus `json:"list"`
}

// CameraView is the camera panel next to the lists.
type CameraView struct {
	Status   string `json:"status"`
	Error    bool   `json:"error"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// EmptyBoard is the cleared board: zero counters, no rows, no last scan.
func EmptyBoard() Board {
	return Board{
		Total:    "0",
		Present:  "0",
		Absent:   "0",
		LastScan: Dash,
		Waiting:  []BoardRow{},
		Arrived:  []BoardRow{},
	}
}

// ApplySnapshot overwrites counters and rebuilds both lists from snap.
// The last-scan label only changes when the snapshot carries a named scan.
func (b *Board) ApplySnapshot(snap Snapshot) {
	b.Total = strconv.Itoa(snap.Total)
	b.Present = strconv.Itoa(snap.Present)
	b.Absent = strconv.Itoa(snap.Absent)

	if snap.LastScan != nil && snap.LastScan.Name != "" {
		b.LastScan = snap.LastScan.Name
	}

	b.Waiting = make([]BoardRow, 0, len(snap.Waiting))
	for i, s := range snap.Waiting {
		b.Waiting = append(b.Waiting, BoardRow{
			Index:  i,
			Name:   s.Name,
			Detail: s.RollNo,
			RollNo: s.RollNo,
			List:   RosterStatusWaiting,
		})
	}

	b.Arrived = make([]BoardRow, 0, len(snap.Arrived))
	for i, s := range snap.Arrived {
		b.Arrived = append(b.Arrived, BoardRow{
			Index:  i,
			Name:   s.Name,
			Detail: s.Time,
			Time:   s.Time,
			List:   RosterStatusPresent,
		})
	}
}

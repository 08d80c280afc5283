package models

import "fmt"

// Session is the class session the kiosk is currently running.
type Session struct {
	Subject   string `json:"subject"`
	Section   string `json:"section"`
	StartTime string `json:"class_start,omitempty"`
	EndTime   string `json:"class_end,omitempty"`
	Started   bool   `json:"started"`
}

// Meta renders the one-line session header shown above the lists.
func (s Session) Meta() string {
	return fmt.Sprintf("Subject: %s | Section: %s | %s - %s",
		s.Subject, s.Section, orDash(s.StartTime), orDash(s.EndTime))
}

// Title is the short "subject - section" label.
func (s Session) Title() string {
	return fmt.Sprintf("%s - %s", s.Subject, s.Section)
}

// StopSummary is what the service reports when a session is closed out.
type StopSummary struct {
	Total   int    `json:"total"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	PDFFile string `json:"pdf_file"`
}

// String formats the summary the way the stop alert shows it.
func (s StopSummary) String() string {
	return fmt.Sprintf("Session stopped successfully!\n\nStats:\nTotal: %d\nPresent: %d\nAbsent: %d\n\nPDF: %s",
		s.Total, s.Present, s.Absent, s.PDFFile)
}

// Report is a generated session report available on the service.
type Report struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

const Dash = "—"

func orDash(s string) string {
	if s == "" {
		return Dash
	}
	return s
}

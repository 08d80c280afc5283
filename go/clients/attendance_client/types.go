package attendance_client

import "errors"

// Response is the envelope every mutating endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Err converts a success:false envelope into an *APIError.
func (r Response) Err(fallback string) error {
	if r.Success {
		return nil
	}
	msg := r.Message
	if msg == "" {
		msg = fallback
	}
	return &APIError{Message: msg}
}

// APIError carries a logical failure reported by the backend.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// MessageOf returns the backend message when err is an *APIError and err.Error() otherwise.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

type SectionsResponse struct {
	Sections []string `json:"sections"`
}

type StartSessionRequest struct {
	Subject    string `json:"subject"`
	Section    string `json:"section"`
	ClassStart string `json:"class_start"`
	ClassEnd   string `json:"class_end"`
}

type WaitingStudent struct {
	Name   string `json:"name"`
	RollNo string `json:"roll_no"`
}

type PresentStudent struct {
	Name string `json:"name"`
	Time string `json:"time"`
}

// LastScan is the most recent card scan. The backend sends an empty object when there is none.
type LastScan struct {
	Name string `json:"name"`
	Time string `json:"time,omitempty"`
	UID  string `json:"uid,omitempty"`
}

type SessionListsResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message,omitempty"`
	Total       int              `json:"total"`
	Present     int              `json:"present"`
	Absent      int              `json:"absent"`
	LastScan    *LastScan        `json:"last_scan,omitempty"`
	Waiting     []WaitingStudent `json:"waiting"`
	PresentList []PresentStudent `json:"present_list"`
}

type AttendanceRequest struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	RollNo  string `json:"roll_no"`
}

type SessionStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
	Absent  int `json:"absent"`
}

type StopSessionResponse struct {
	Response
	Stats   SessionStats `json:"stats"`
	PDFFile string       `json:"pdf_file"`
}

type Report struct {
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

type ListReportsResponse struct {
	Response
	Reports []Report `json:"reports"`
}

type OpenReportRequest struct {
	Filename string `json:"filename"`
}

type CapturePhotoRequest struct {
	StudentName string `json:"student_name"`
}

type CapturePhotoResponse struct {
	Response
	PhotoURL       string `json:"photo_url,omitempty"`
	CameraDisabled bool   `json:"camera_disabled,omitempty"`
}

// ErrCameraDisabled is returned by CapturePhoto when the service has no camera.
var ErrCameraDisabled = errors.New("camera not available")

package attendance_client

const (
	// Default base URL of the attendance service
	DefaultBaseURL = "http://localhost:5000"

	// Session endpoints
	AvailableSectionsEndpoint = "/api/available_sections"
	StartClassSessionEndpoint = "/api/start_class_session"
	SessionListsEndpoint      = "/api/session_lists"
	ResetSessionEndpoint      = "/api/reset_session"
	StopSessionEndpoint       = "/api/stop_session"

	// Attendance mutations
	MarkPresentManualEndpoint = "/api/mark_present_manual"
	RemoveAttendanceEndpoint  = "/api/remove_attendance"

	// Reports
	ListReportsEndpoint = "/api/list_reports"
	OpenReportEndpoint  = "/api/open_report"

	// Camera
	CapturePhotoEndpoint = "/api/capture_photo"
	PhotoStatsEndpoint   = "/api/photo_stats"
)

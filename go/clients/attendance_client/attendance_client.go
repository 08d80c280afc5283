package attendance_client

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mcdev12/kiosk/go/clients"
)

type AttendanceClient struct {
	*clients.BaseClient
}

func NewAttendanceClient(baseURL string) *AttendanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &AttendanceClient{
		BaseClient: clients.NewBaseClient(baseURL),
	}
	client.SetHeader("Accept", "application/json")
	return client
}

func (c *AttendanceClient) AvailableSections(ctx context.Context) ([]string, error) {
	var response SectionsResponse
	if err := c.GetJSON(ctx, AvailableSectionsEndpoint, &response); err != nil {
		return nil, fmt.Errorf("failed to get sections: %w", err)
	}
	return response.Sections, nil
}

func (c *AttendanceClient) StartClassSession(ctx context.Context, req StartSessionRequest) error {
	var response Response
	if err := c.PostJSON(ctx, StartClassSessionEndpoint, req, &response); err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	return response.Err("Failed to start session")
}

func (c *AttendanceClient) SessionLists(ctx context.Context, section string) (*SessionListsResponse, error) {
	endpoint := fmt.Sprintf("%s?section=%s", SessionListsEndpoint, url.QueryEscape(section))

	var response SessionListsResponse
	if err := c.GetJSON(ctx, endpoint, &response); err != nil {
		return nil, fmt.Errorf("failed to get session lists: %w", err)
	}
	return &response, nil
}

func (c *AttendanceClient) MarkPresentManual(ctx context.Context, req AttendanceRequest) error {
	var response Response
	if err := c.PostJSON(ctx, MarkPresentManualEndpoint, req, &response); err != nil {
		return fmt.Errorf("failed to mark present: %w", err)
	}
	return response.Err("Operation failed")
}

func (c *AttendanceClient) RemoveAttendance(ctx context.Context, req AttendanceRequest) error {
	var response Response
	if err := c.PostJSON(ctx, RemoveAttendanceEndpoint, req, &response); err != nil {
		return fmt.Errorf("failed to remove attendance: %w", err)
	}
	return response.Err("Operation failed")
}

func (c *AttendanceClient) ResetSession(ctx context.Context) error {
	var response Response
	if err := c.PostJSON(ctx, ResetSessionEndpoint, nil, &response); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return response.Err("Unknown error")
}

func (c *AttendanceClient) StopSession(ctx context.Context) (*StopSessionResponse, error) {
	var response StopSessionResponse
	if err := c.PostJSON(ctx, StopSessionEndpoint, nil, &response); err != nil {
		return nil, fmt.Errorf("failed to stop session: %w", err)
	}
	if err := response.Err("Unknown error"); err != nil {
		return nil, err
	}
	return &response, nil
}

func (c *AttendanceClient) ListReports(ctx context.Context) ([]Report, error) {
	var response ListReportsResponse
	if err := c.GetJSON(ctx, ListReportsEndpoint, &response); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	if err := response.Err("No reports available"); err != nil {
		return nil, err
	}
	return response.Reports, nil
}

func (c *AttendanceClient) OpenReport(ctx context.Context, filename string) error {
	var response Response
	if err := c.PostJSON(ctx, OpenReportEndpoint, OpenReportRequest{Filename: filename}, &response); err != nil {
		return fmt.Errorf("failed to open report: %w", err)
	}
	return response.Err("Failed to open report")
}

// CapturePhoto asks the service to snap the camera for a scanned student and returns
// the photo URL. ErrCameraDisabled is returned when the service reports no camera.
func (c *AttendanceClient) CapturePhoto(ctx context.Context, studentName string) (string, error) {
	var response CapturePhotoResponse
	if err := c.PostJSON(ctx, CapturePhotoEndpoint, CapturePhotoRequest{StudentName: studentName}, &response); err != nil {
		return "", fmt.Errorf("failed to capture photo: %w", err)
	}
	if response.CameraDisabled {
		return "", ErrCameraDisabled
	}
	if err := response.Err("Photo capture failed"); err != nil {
		return "", err
	}
	return response.PhotoURL, nil
}

// PhotoStats reports whether the camera subsystem is up.
func (c *AttendanceClient) PhotoStats(ctx context.Context) (bool, error) {
	var response Response
	if err := c.GetJSON(ctx, PhotoStatsEndpoint, &response); err != nil {
		return false, fmt.Errorf("failed to get photo stats: %w", err)
	}
	return response.Success, nil
}

package client

// http_client.go = handles HTTP client functionality for the revivalhub CLI.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"revivalhub/internal/microservices/http-api/dto"
	"revivalhub/internal/microservices/http-api/models"
)

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is a non-success response decoded from the {"error", "code"} body.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.Status, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.Status)
}

// CreateResult is the outcome of submitting a collaboration request.
// NotificationPending is set when the server accepted the request but has
// not yet notified the listing owner.
type CreateResult struct {
	Collaboration       models.Collaboration
	NotificationPending bool
	Warning             string
}

// constructor for HTTP client
func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// set token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Register creates a new account
func (c *HTTPClient) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	var result dto.RegisterResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", request, &result, http.StatusCreated); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login exchanges credentials for an access token
func (c *HTTPClient) Login(ctx context.Context, request *dto.LoginRequest) (*dto.AuthResponse, error) {
	var result dto.AuthResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", request, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateCollaboration submits a collaboration request or an offer
func (c *HTTPClient) CreateCollaboration(ctx context.Context, request *dto.CreateCollaborationRequest) (*CreateResult, error) {
	var raw json.RawMessage
	status, err := c.do(ctx, http.MethodPost, "/api/v1/collaborations", request, &raw, http.StatusCreated, http.StatusAccepted)
	if err != nil {
		return nil, err
	}

	var result CreateResult
	if status == http.StatusAccepted {
		var pending dto.CreateCollaborationResponse
		if err := json.Unmarshal(raw, &pending); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		if pending.Collaboration != nil {
			result.Collaboration = *pending.Collaboration
		}
		result.NotificationPending = pending.NotificationPending
		result.Warning = pending.Warning
		return &result, nil
	}

	if err := json.Unmarshal(raw, &result.Collaboration); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

// IncomingCollaborations lists pending requests on the caller's listings
func (c *HTTPClient) IncomingCollaborations(ctx context.Context) ([]dto.IncomingCollaboration, error) {
	var result struct {
		Collaborations []dto.IncomingCollaboration `json:"collaborations"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/collaborations/incoming", nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Collaborations, nil
}

// Notifications returns the caller's newest notifications. limit <= 0 uses the server default.
func (c *HTTPClient) Notifications(ctx context.Context, limit int) ([]dto.NotificationResponse, error) {
	path := "/api/v1/notifications"
	if limit > 0 {
		path += "?" + url.Values{"limit": {strconv.Itoa(limit)}}.Encode()
	}

	var result struct {
		Notifications []dto.NotificationResponse `json:"notifications"`
	}
	if _, err := c.do(ctx, http.MethodGet, path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return result.Notifications, nil
}

// UnreadCount returns how many of the caller's notifications are unread
func (c *HTTPClient) UnreadCount(ctx context.Context) (int64, error) {
	var result dto.UnreadCountResponse
	if _, err := c.do(ctx, http.MethodGet, "/api/v1/notifications/unread-count", nil, &result, http.StatusOK); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// MarkRead marks a notification as read
func (c *HTTPClient) MarkRead(ctx context.Context, notificationID string) (*models.Notification, error) {
	var result models.Notification
	path := "/api/v1/notifications/" + url.PathEscape(notificationID) + "/read"
	if _, err := c.do(ctx, http.MethodPatch, path, nil, &result, http.StatusOK); err != nil {
		return nil, err
	}
	return &result, nil
}

// do sends a JSON request and decodes the body into out when the status is
// one of expected. Any other status is returned as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, expected ...int) (int, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer response.Body.Close()

	for _, status := range expected {
		if response.StatusCode == status {
			if out == nil {
				return status, nil
			}
			if err := json.NewDecoder(response.Body).Decode(out); err != nil {
				return status, fmt.Errorf("failed to decode response: %w", err)
			}
			return status, nil
		}
	}

	apiErr := &APIError{Status: response.StatusCode, Message: response.Status}
	var errBody struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.NewDecoder(response.Body).Decode(&errBody); err == nil && errBody.Error != "" {
		apiErr.Message = errBody.Error
		apiErr.Code = errBody.Code
	}
	return response.StatusCode, apiErr
}

package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/rflorenc/formpatch/internal/models"
)

// FormsPath is the marketing forms collection endpoint.
const FormsPath = "/marketing/v3/forms/"

// DefaultPageSize is the listing page size requested from the API.
const DefaultPageSize = 100

// Reporter receives user-facing diagnostics for failed calls.
type Reporter interface {
	Failure(msg string)
	Detail(msg string)
	Hint(msg string)
}

// Forms wraps the three form operations the tool needs. Each failure is
// reported to the Reporter and then returned, so callers can tell an empty
// result apart from a failed fetch.
type Forms struct {
	client   *Client
	out      Reporter
	pageSize int
}

// NewForms creates a Forms service. pageSize <= 0 uses DefaultPageSize.
func NewForms(client *Client, out Reporter, pageSize int) *Forms {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Forms{client: client, out: out, pageSize: pageSize}
}

// ListAll returns every form across all pages.
func (f *Forms) ListAll(ctx context.Context) ([]models.Form, error) {
	params := url.Values{"limit": {strconv.Itoa(f.pageSize)}}
	forms, err := f.client.GetAll(ctx, OpList, FormsPath, params)
	if err != nil {
		f.report(err, "Fetching forms")
		return nil, err
	}
	return forms, nil
}

// Get returns the form with the given ID.
func (f *Forms) Get(ctx context.Context, id string) (models.Form, error) {
	if id == "" {
		return nil, errors.New("form ID is required")
	}
	var form models.Form
	if err := f.client.GetJSON(ctx, OpGet, FormsPath+url.PathEscape(id), nil, &form); err != nil {
		f.report(err, fmt.Sprintf("Fetching form %s", id))
		return nil, err
	}
	return form, nil
}

// Update sends the enable payload for the form and pauses afterwards.
func (f *Forms) Update(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("form ID is required")
	}
	if _, err := f.client.Patch(ctx, OpUpdate, FormsPath+url.PathEscape(id), models.EnablePayload()); err != nil {
		f.report(err, fmt.Sprintf("Updating form %s", id))
		return err
	}
	return f.client.Pause(ctx)
}

func (f *Forms) report(err error, what string) {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		f.out.Failure(fmt.Sprintf("%s failed: %v", what, err))
		f.client.logger.Warn("forms request failed", zap.String("op", what), zap.Error(err))
		return
	}

	f.client.logger.Warn("forms request failed",
		zap.String("op", apiErr.Op),
		zap.String("method", apiErr.Method),
		zap.String("url", apiErr.URL),
		zap.Int("status", apiErr.StatusCode),
		zap.Error(apiErr.Cause))

	if apiErr.StatusCode == 0 {
		f.out.Failure(fmt.Sprintf("%s failed: %v", what, apiErr.Cause))
	} else {
		f.out.Failure(fmt.Sprintf("%s failed: HTTP %d", what, apiErr.StatusCode))
		if apiErr.Body != "" {
			f.out.Detail("Response body: " + truncate(apiErr.Body, 1000))
		}
	}
	if apiErr.Hint != "" {
		f.out.Hint(apiErr.Hint)
	}
}

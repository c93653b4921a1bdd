package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

const resumeFileField = "resume"

type ResumeRecord struct {
	ID            int64  `json:"id"`
	FileName      string `json:"fileName"`
	FileSizeBytes int64  `json:"fileSize,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
	IsDefault     bool   `json:"isDefault,omitempty"`
}

// UploadFile is one document submitted for upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

func (c *Client) ListResumes(ctx context.Context, userID string) ([]ResumeRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var out struct {
		Resumes []ResumeRecord `json:"resumes"`
	}
	if err := c.getJSON(ctx, "/resumes/", userQuery(userID), &out); err != nil {
		return nil, err
	}

	return out.Resumes, nil
}

func (c *Client) UploadResume(ctx context.Context, userID string, file UploadFile) (ResumeRecord, error) {
	var record ResumeRecord

	if err := requireUser(userID); err != nil {
		return record, err
	}
	if file.Name == "" {
		return record, &ValidationError{Field: "file name", Reason: "must not be empty"}
	}
	if file.Reader == nil {
		return record, &ValidationError{Field: "file", Reason: "no content"}
	}

	fields := map[string]string{userIDParam: userID}
	err := c.postMultipart(ctx, "/resumes/upload", userQuery(userID), fields, resumeFileField, file.Name, file.Reader, &record)
	if err != nil {
		return ResumeRecord{}, err
	}

	return record, nil
}

func (c *Client) DeleteResume(ctx context.Context, userID string, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	return c.sendNoBody(ctx, http.MethodDelete, fmt.Sprintf("/resumes/%d", id), userQuery(userID))
}

// SetDefaultResume marks one résumé as the default. The backend keeps
// the single-default invariant; callers reconcile their view after a
// successful call.
func (c *Client) SetDefaultResume(ctx context.Context, userID string, id int64) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	return c.sendNoBody(ctx, http.MethodPut, fmt.Sprintf("/resumes/%d/default", id), userQuery(userID))
}

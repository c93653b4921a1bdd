package gateway

import (
	"context"
	"fmt"
	"strings"
)

type BestResume struct {
	ID       int64   `json:"id"`
	FileName string  `json:"fileName"`
	Score    float64 `json:"score"`
}

type MatchResult struct {
	ID             int64      `json:"id"`
	BestResume     BestResume `json:"bestResume"`
	GapAnalysis    []string   `json:"gapAnalysis"`
	EmailDraft     string     `json:"emailDraft"`
	JobDescription string     `json:"jobDescription"`
	CreatedAt      string     `json:"createdAt,omitempty"`
	// FeedbackScore is +1, -1 or 0 when no feedback was given.
	FeedbackScore int `json:"feedbackScore,omitempty"`
}

type matchRequest struct {
	JobDescription string `json:"job_description"`
	PersonalStory  string `json:"personal_story,omitempty"`
}

type feedbackRequest struct {
	Feedback int `json:"feedback"`
}

func (c *Client) FindMatch(ctx context.Context, userID, jobDescription, personalStory string) (MatchResult, error) {
	var result MatchResult

	if err := requireUser(userID); err != nil {
		return result, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return result, &ValidationError{Field: "job description", Reason: "must not be empty"}
	}

	body := matchRequest{
		JobDescription: jobDescription,
		PersonalStory:  personalStory,
	}

	if err := c.postJSON(ctx, "/match/", userQuery(userID), body, &result); err != nil {
		return MatchResult{}, err
	}

	return result, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, userID string, matchID int64, score int) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if score != 1 && score != -1 {
		return &ValidationError{Field: "feedback", Reason: "must be 1 or -1"}
	}

	path := fmt.Sprintf("/match/%d/feedback", matchID)

	return c.postJSON(ctx, path, userQuery(userID), feedbackRequest{Feedback: score}, nil)
}

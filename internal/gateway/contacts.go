package gateway

import (
	"context"
	"fmt"
)

type ContactRecord struct {
	Name        string  `json:"name"`
	Role        string  `json:"role"`
	Company     string  `json:"company"`
	LinkedinURL string  `json:"linkedinUrl,omitempty"`
	Email       string  `json:"email,omitempty"`
	MutualScore float64 `json:"mutualScore"`
}

// GetContacts returns people at the target company for an existing
// match. Only ever called after the match exists.
func (c *Client) GetContacts(ctx context.Context, userID string, matchID int64) ([]ContactRecord, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	var contacts []ContactRecord
	if err := c.getJSON(ctx, fmt.Sprintf("/contacts/%d", matchID), userQuery(userID), &contacts); err != nil {
		return nil, err
	}

	return contacts, nil
}

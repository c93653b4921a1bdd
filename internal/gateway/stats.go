package gateway

import "context"

type Stats struct {
	TotalResumes  int     `json:"totalResumes"`
	TotalMatches  int     `json:"totalMatches"`
	AvgMatchScore float64 `json:"avgMatchScore"`
	TotalContacts int     `json:"totalContacts"`
}

func (c *Client) GetStats(ctx context.Context, userID string) (Stats, error) {
	var stats Stats

	if err := requireUser(userID); err != nil {
		return stats, err
	}

	if err := c.getJSON(ctx, "/analytics/stats", userQuery(userID), &stats); err != nil {
		return Stats{}, err
	}

	return stats, nil
}

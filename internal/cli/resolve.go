package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveDeadlineID resolves user input to a full deadline ID. Accepts an
// exact ID or an unambiguous prefix, matched against the user's own deadlines.
func resolveDeadlineID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("deadline ID is required")
	}

	entries, err := app.Deadlines.ListByUser(ctx, app.UserID)
	if err != nil {
		return "", err
	}

	for _, e := range entries {
		if e.Deadline.ID == input {
			return input, nil
		}
	}

	var matches []string
	for _, e := range entries {
		if strings.HasPrefix(e.Deadline.ID, input) {
			matches = append(matches, e.Deadline.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("deadline not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("deadline ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

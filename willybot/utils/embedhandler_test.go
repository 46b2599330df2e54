package utils

import (
	"errors"
	"fmt"
	"testing"

	"github.com/willyosu/willybot/willybot/database"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
		wantMsg  string
	}{
		{
			name:     "missing row",
			err:      fmt.Errorf("badge lookup: %w", &database.NotFoundError{Entity: "badge", ID: "gold"}),
			wantType: NotFoundError,
			wantMsg:  "Could not find badge.",
		},
		{
			name:     "unknown attribute",
			err:      &database.NotFoundError{Entity: "badge", Key: "attribute", ID: "owner"},
			wantType: UserError,
			wantMsg:  `Badge has no attribute "owner".`,
		},
		{
			name:     "validation",
			err:      database.NewValidationError("tier", "must be between 1 and %d", 6),
			wantType: UserError,
			wantMsg:  "Invalid tier: must be between 1 and 6.",
		},
		{
			name:     "duplicate",
			err:      &database.ConstraintError{Entity: "badge", Err: errors.New("UNIQUE constraint failed")},
			wantType: ConflictError,
			wantMsg:  "That badge already exists.",
		},
		{
			name:     "anything else",
			err:      errors.New("disk I/O error"),
			wantType: SystemError,
			wantMsg:  "Something went wrong with that badge, try again later.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotMsg := ClassifyError(tt.err, "badge")
			if gotType != tt.wantType || gotMsg != tt.wantMsg {
				t.Errorf("ClassifyError() = (%v, %q), want (%v, %q)", gotType, gotMsg, tt.wantType, tt.wantMsg)
			}
		})
	}
}

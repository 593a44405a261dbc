package audit

import (
	"encoding/json"
	"time"

	auditerrors "go-payroll/internal/audit/errors"

	"github.com/google/uuid"
)

// Entry describes one audit row before it is stamped.
type Entry struct {
	OrganisationID uuid.UUID
	PayrollID      *uuid.UUID
	PayrollRunID   *uuid.UUID
	Action         string
	FromStatus     string
	ToStatus       string
	ActorID        string
	ActorName      string
	NewValues      any
	Reason         string
}

// Build turns e into a row. NewValues is marshalled as a JSON snapshot;
// an unparsable actor id is recorded by name only.
func Build(e Entry, now time.Time) (*PayrollAudit, error) {
	if e.PayrollID == nil && e.PayrollRunID == nil {
		return nil, auditerrors.ErrSubjectRequired
	}

	snapshot := []byte("{}")
	if e.NewValues != nil {
		b, err := json.Marshal(e.NewValues)
		if err != nil {
			return nil, err
		}
		snapshot = b
	}

	row := &PayrollAudit{
		ID:             uuid.New(),
		OrganisationID: e.OrganisationID,
		PayrollID:      e.PayrollID,
		PayrollRunID:   e.PayrollRunID,
		Action:         e.Action,
		FromStatus:     e.FromStatus,
		ToStatus:       e.ToStatus,
		ChangedByName:  e.ActorName,
		NewValues:      string(snapshot),
		CreatedAt:      now.UTC(),
	}
	if id, err := uuid.Parse(e.ActorID); err == nil {
		row.ChangedBy = &id
	}
	if e.Reason != "" {
		reason := e.Reason
		row.Reason = &reason
	}
	return row, nil
}

package eventlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Event is an append-only audit record for grading-relevant transitions
// (AttemptScored, ResultSubmitted, ResultGraded, ...). Key is the natural key
// of the aggregate the event is about.
type Event struct {
	Type string
	Key  string
	Data any // marshalled to JSON
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO event_log (typ, key, data, created_at) VALUES ($1,$2,$3,$4)`,
		e.Type, e.Key, string(data), time.Now().Unix())
	return err
}

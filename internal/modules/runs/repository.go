package runs

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/openquantum/nanocell/internal/modules/nanobot"
)

// runsColumns is the column list for the runs table.
// Column order must match scanRun() expectations.
const runsColumns = `id, kind, created_at, params, summary, samples`

// Repository handles run database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new run repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "runs").Logger(),
	}
}

// InitSchema creates the runs table if it does not exist.
func (r *Repository) InitSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			params TEXT NOT NULL,
			summary TEXT NOT NULL,
			samples BLOB
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
		CREATE INDEX IF NOT EXISTS idx_runs_kind ON runs(kind);
	`

	if _, err := r.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create runs schema: %w", err)
	}

	return nil
}

// Save inserts a run. Trajectory samples are packed into a msgpack blob.
func (r *Repository) Save(run Run) error {
	var samples []byte
	if len(run.Samples) > 0 {
		packed, err := msgpack.Marshal(run.Samples)
		if err != nil {
			return fmt.Errorf("failed to pack run samples: %w", err)
		}
		samples = packed
	}

	query := `
		INSERT INTO runs (id, kind, created_at, params, summary, samples)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		string(run.Kind),
		run.CreatedAt.Unix(),
		string(run.Params),
		string(run.Summary),
		samples,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	r.log.Debug().
		Str("run_id", run.ID).
		Str("kind", string(run.Kind)).
		Msg("Run saved")

	return nil
}

// List returns run metadata, most recent first. kind filters when non-empty.
func (r *Repository) List(kind Kind, limit int) ([]Info, error) {
	query := `
		SELECT id, kind, created_at, summary FROM runs
		WHERE ? = '' OR kind = ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, string(kind), string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		var info Info
		var createdAt int64
		var summary string

		if err := rows.Scan(&info.ID, &info.Kind, &createdAt, &summary); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		info.CreatedAt = time.Unix(createdAt, 0).UTC()
		info.Summary = []byte(summary)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return infos, nil
}

// Get retrieves a run by ID, including its trajectory. Returns nil when
// the run does not exist.
func (r *Repository) Get(id string) (*Run, error) {
	query := "SELECT " + runsColumns + " FROM runs WHERE id = ?"

	var run Run
	var createdAt int64
	var params, summary string
	var samples []byte

	err := r.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Kind,
		&createdAt,
		&params,
		&summary,
		&samples,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	run.CreatedAt = time.Unix(createdAt, 0).UTC()
	run.Params = []byte(params)
	run.Summary = []byte(summary)

	if len(samples) > 0 {
		var unpacked []nanobot.Sample
		if err := msgpack.Unmarshal(samples, &unpacked); err != nil {
			return nil, fmt.Errorf("failed to unpack run samples: %w", err)
		}
		run.Samples = unpacked
	}

	return &run, nil
}

// Delete removes a run. Returns false when the run did not exist.
func (r *Repository) Delete(id string) (bool, error) {
	result, err := r.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return affected > 0, nil
}

// PurgeOlderThan deletes runs created before the cutoff and returns the
// number removed.
func (r *Repository) PurgeOlderThan(cutoff time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM runs WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge runs: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read purge result: %w", err)
	}

	if affected > 0 {
		r.log.Info().
			Int64("purged", affected).
			Time("cutoff", cutoff).
			Msg("Purged old runs")
	}

	return affected, nil
}

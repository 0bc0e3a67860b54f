package storage

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
)

const schema = `
CREATE TABLE snapshots (
	step 	INTEGER,
	time 	REAL,
	link 	INTEGER,
	x 		REAL,
	y 		REAL);
`

const indices = `
CREATE INDEX idx_step ON snapshots (step, link);
CREATE INDEX idx_link ON snapshots (link);
`

const insert = `INSERT INTO snapshots VALUES (?, ?, ?, ?, ?);`
const queryAll = `SELECT step, time, link, x, y FROM snapshots ORDER BY step ASC, link ASC;`

// ExportSQLite writes history into a new database at path, one
// transaction per snapshot. An existing file is never overwritten.
func ExportSQLite(path string, history dynamo.History) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s exists", path)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?_journal_mode=OFF&_synchronous=OFF")
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return err
	}

	stmt, err := db.Prepare(insert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, snap := range history {
		if err := insertSnapshot(db, stmt, snap); err != nil {
			return fmt.Errorf("step %d: %w", snap.Step, err)
		}
	}

	_, err = db.Exec(indices)
	return err
}

func insertSnapshot(db *sql.DB, stmt *sql.Stmt, snap dynamo.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	txStmt := tx.Stmt(stmt)
	for i, p := range snap.Positions {
		if _, err := txStmt.Exec(snap.Step, snap.Time, i, p.X, p.Y); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// LoadSQLite reads back a database written by ExportSQLite.
func LoadSQLite(path string) (dynamo.History, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(queryAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make(dynamo.History, 0)
	for rows.Next() {
		var (
			step, link int
			t, x, y    float64
		)
		if err := rows.Scan(&step, &t, &link, &x, &y); err != nil {
			return nil, err
		}
		if len(history) == 0 || history[len(history)-1].Step != step {
			history = append(history, dynamo.Snapshot{Step: step, Time: t})
		}
		last := &history[len(history)-1]
		last.Positions = append(last.Positions, r2.Vec{X: x, Y: y})
	}

	return history, rows.Err()
}

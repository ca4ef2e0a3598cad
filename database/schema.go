package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apex/log"
)

// InitSchema creates the event log table if it doesn't exist.
func InitSchema(ctx context.Context, db *sql.DB, table string) error {
	log.Infof("Initializing %s schema...", table)

	if _, err := db.ExecContext(ctx, eventLogTableSQL(table)); err != nil {
		return fmt.Errorf("failed to create %s table: %w", table, err)
	}
	log.Infof("%s table created/verified", table)

	return nil
}

// eventLogTableSQL keeps the envelope as text: a JSON column would reorder
// keys and reformat the document on insert. device_id and severity are
// virtual columns extracted from it so lookups can use an index; severity is
// stored trimmed and uppercased.
func eventLogTableSQL(table string) string {
	return fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s(
		id BIGINT NOT NULL AUTO_INCREMENT,
		`+"`user`"+` VARCHAR(255) NOT NULL,
		`+"`json`"+` LONGTEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		device_id VARCHAR(255) GENERATED ALWAYS AS
			(JSON_UNQUOTE(JSON_EXTRACT(`+"`json`"+`, '$.originalPayload.deviceId'))) VIRTUAL,
		severity VARCHAR(64) GENERATED ALWAYS AS
			(UPPER(TRIM(JSON_UNQUOTE(JSON_EXTRACT(`+"`json`"+`, '$.originalPayload.severity'))))) VIRTUAL,
		PRIMARY KEY (id),
		INDEX user_index (`+"`user`"+`),
		INDEX device_id_index (device_id),
		INDEX severity_index (severity),
		CHECK (JSON_VALID(`+"`json`"+`))
	)`, table)
}

// ABOUTME: SQLite schema for the verdict cache
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
CREATE TABLE IF NOT EXISTS verdicts (
    key TEXT PRIMARY KEY,
    grammatical INTEGER NOT NULL,
    natural INTEGER NOT NULL,
    suggestions TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_verdicts_created ON verdicts(created_at);
`

package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS activity (
	id         TEXT PRIMARY KEY,
	entity     TEXT NOT NULL CHECK(entity IN ('section', 'meta')),
	entity_id  INTEGER NOT NULL DEFAULT 0,
	action     TEXT NOT NULL,
	name       TEXT NOT NULL DEFAULT '',
	error      TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_created_at ON activity(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_activity_entity_created
	ON activity(entity, created_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}

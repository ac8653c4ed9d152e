package postgres

var schema = []string{
	`CREATE TABLE IF NOT EXISTS actions (
		id            TEXT PRIMARY KEY,
		org_id        TEXT NOT NULL,
		session_id    TEXT NOT NULL DEFAULT '',
		type          TEXT NOT NULL,
		status        TEXT NOT NULL,
		params        JSONB NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		result        JSONB,
		error_message TEXT NOT NULL DEFAULT '',
		review_note   TEXT NOT NULL DEFAULT '',
		created_by    TEXT NOT NULL DEFAULT '',
		approved_by   TEXT NOT NULL DEFAULT '',
		approved_at   TIMESTAMPTZ,
		executed_by   TEXT NOT NULL DEFAULT '',
		executed_at   TIMESTAMPTZ,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS actions_org_status_created_idx ON actions (org_id, status, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS actions_status_created_idx ON actions (status, created_at)`,

	`CREATE TABLE IF NOT EXISTS suggestions (
		id               TEXT PRIMARY KEY,
		org_id           TEXT NOT NULL,
		type             TEXT NOT NULL,
		priority         TEXT NOT NULL,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		suggested_action JSONB,
		metadata         JSONB,
		status           TEXT NOT NULL,
		dismissed_by     TEXT NOT NULL DEFAULT '',
		dismissed_at     TIMESTAMPTZ,
		dismissal_note   TEXT NOT NULL DEFAULT '',
		action_id        TEXT NOT NULL DEFAULT '',
		actioned_at      TIMESTAMPTZ,
		created_at       TIMESTAMPTZ NOT NULL,
		updated_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS suggestions_org_created_idx ON suggestions (org_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS chat_messages (
		id         TEXT PRIMARY KEY,
		org_id     TEXT NOT NULL DEFAULT '',
		session_id TEXT NOT NULL,
		role       TEXT NOT NULL,
		content    TEXT NOT NULL,
		action_id  TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS chat_messages_session_created_idx ON chat_messages (session_id, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS calendar_credentials (
		org_id        TEXT PRIMARY KEY,
		calendar_id   TEXT NOT NULL DEFAULT '',
		access_token  TEXT NOT NULL DEFAULT '',
		refresh_token TEXT NOT NULL DEFAULT '',
		token_type    TEXT NOT NULL DEFAULT '',
		expiry        TIMESTAMPTZ,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS tokens (
		id         TEXT PRIMARY KEY,
		sub        TEXT NOT NULL,
		name       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		expires_at TIMESTAMPTZ
	)`,
}

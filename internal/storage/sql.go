package storage

import (
	_ "embed"
)

const (
	insertSessionSQL = `
INSERT INTO sessions (
                      imported_at,
                      log_path,
                      vehicle,
                      config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?)`

	selectSessionSQL = `
SELECT
    id,
    imported_at,
    log_path,
    vehicle,
    config
FROM sessions
WHERE
    id = ?`

	selectSessionsSQL = `
SELECT
    id,
    imported_at,
    log_path,
    vehicle,
    config
FROM sessions
ORDER BY imported_at`

	insertSignalSQL = `
INSERT INTO signals (session_id, name)
VALUES (?, ?)`

	insertSampleSQL = `
INSERT INTO samples (signal_id,
                     idx,
                     t,
                     value)
VALUES (?, ?, ?, ?)`

	selectTimeBoundsSQL = `
SELECT
    MIN(s.t),
    MAX(s.t)
FROM samples s
         JOIN signals sig ON sig.id = s.signal_id
WHERE sig.session_id = ?`

	selectSamplesSQL = `
SELECT sig.name,
       s.idx,
       s.t,
       s.value
FROM samples s
         JOIN signals sig ON sig.id = s.signal_id
WHERE sig.session_id = ?
  AND s.t >= ?
  AND s.t <= ?`

	orderSamplesSQL = `
ORDER BY sig.id, s.idx`
)

//go:embed schema.sql
var schemaSQL string

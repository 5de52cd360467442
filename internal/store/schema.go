package store

const schema = `
CREATE TABLE IF NOT EXISTS packet (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at DATETIME NOT NULL,
	direction   TEXT NOT NULL,
	status      TEXT NOT NULL,
	payload     BLOB NOT NULL
);

CREATE TABLE IF NOT EXISTS status (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at DATETIME NOT NULL,
	power       BOOLEAN NOT NULL,
	mode        TEXT NOT NULL,
	fan         TEXT NOT NULL,
	setpoint    INTEGER NOT NULL,
	temp        INTEGER NOT NULL,
	save        TEXT NOT NULL,
	humid       BOOLEAN NOT NULL,
	clean       BOOLEAN NOT NULL,
	filter      BOOLEAN NOT NULL,
	vent        BOOLEAN NOT NULL,
	pwr_lv1     INTEGER NOT NULL,
	pwr_lv2     INTEGER NOT NULL,
	filter_time INTEGER NOT NULL
);
`

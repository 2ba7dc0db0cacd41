package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('admin', 'dispatcher')),
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS drivers (
	id                  TEXT PRIMARY KEY,
	name                TEXT NOT NULL,
	truck_unit          TEXT NOT NULL,
	driver_percent      TEXT NOT NULL,
	company_percent     TEXT NOT NULL DEFAULT '0',
	service_fee_percent TEXT NOT NULL DEFAULT '0',
	dob                 TEXT,
	license_number      TEXT NOT NULL DEFAULT '',
	driver_type         TEXT NOT NULL,
	employee_llc        TEXT,
	cdl_expiry          TEXT,
	medical_expiry      TEXT,
	status              TEXT NOT NULL,
	created_at          TEXT NOT NULL,
	updated_at          TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_drivers_active_name
	ON drivers(LOWER(TRIM(name))) WHERE status = 'ACTIVE';

CREATE TABLE IF NOT EXISTS loads (
	id               TEXT PRIMARY KEY,
	load_number      TEXT NOT NULL,
	customer         TEXT NOT NULL,
	pick_up_location TEXT NOT NULL DEFAULT '',
	drop_location    TEXT NOT NULL DEFAULT '',
	driver_id        TEXT,
	status           TEXT NOT NULL,
	gross_amount     TEXT NOT NULL,
	notes            TEXT,
	delivery_date    TEXT,
	created_at       TEXT NOT NULL,
	updated_at       TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_loads_load_number ON loads(LOWER(TRIM(load_number)));

CREATE INDEX IF NOT EXISTS idx_loads_driver_delivery ON loads(driver_id, delivery_date);

CREATE TABLE IF NOT EXISTS fuel_transactions (
	id            TEXT PRIMARY KEY,
	card_number   TEXT NOT NULL DEFAULT '',
	tran_date     TEXT NOT NULL,
	tran_time     TEXT NOT NULL DEFAULT '',
	invoice       TEXT NOT NULL,
	unit          TEXT NOT NULL DEFAULT '',
	driver_name   TEXT NOT NULL DEFAULT '',
	odometer      INTEGER,
	location_name TEXT NOT NULL DEFAULT '',
	city          TEXT NOT NULL DEFAULT '',
	state_prov    TEXT NOT NULL DEFAULT '',
	fees          TEXT NOT NULL DEFAULT '0',
	item          TEXT NOT NULL DEFAULT '',
	unit_price    TEXT NOT NULL DEFAULT '0',
	disc_ppu      TEXT NOT NULL DEFAULT '0',
	disc_cost     TEXT NOT NULL DEFAULT '0',
	qty           TEXT NOT NULL DEFAULT '0',
	disc_amt      TEXT NOT NULL DEFAULT '0',
	disc_type     TEXT NOT NULL DEFAULT '',
	amt           TEXT NOT NULL,
	currency      TEXT NOT NULL DEFAULT 'USD',
	driver_id     TEXT,
	created_at    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fuel_transactions_date ON fuel_transactions(tran_date);

CREATE TABLE IF NOT EXISTS recurring_fees (
	id              TEXT PRIMARY KEY,
	driver_id       TEXT NOT NULL,
	fee_type        TEXT NOT NULL,
	amount          TEXT NOT NULL,
	start_date      TEXT NOT NULL,
	total_weeks     INTEGER NOT NULL CHECK (total_weeks >= 1),
	weeks_remaining INTEGER NOT NULL CHECK (weeks_remaining >= 0),
	active          INTEGER NOT NULL DEFAULT 1,
	fee_month       INTEGER NOT NULL,
	fee_year        INTEGER NOT NULL,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL,
	UNIQUE (driver_id, fee_type, fee_month, fee_year)
);

CREATE TABLE IF NOT EXISTS cash_advances (
	id              TEXT PRIMARY KEY,
	driver_id       TEXT NOT NULL,
	amount          TEXT NOT NULL,
	given_date      TEXT NOT NULL,
	due_date        TEXT NOT NULL,
	payment_weeks   INTEGER NOT NULL CHECK (payment_weeks >= 1),
	weeks_remaining INTEGER NOT NULL CHECK (weeks_remaining >= 0),
	active          INTEGER NOT NULL DEFAULT 1,
	created_at      TEXT NOT NULL,
	updated_at      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS deduction_installments (
	id              TEXT PRIMARY KEY,
	record_kind     TEXT NOT NULL,
	record_id       TEXT NOT NULL,
	driver_id       TEXT NOT NULL,
	period_start    TEXT NOT NULL,
	period_end      TEXT NOT NULL,
	amount          TEXT NOT NULL,
	weeks_remaining INTEGER NOT NULL,
	created_at      TEXT NOT NULL,
	UNIQUE (record_kind, record_id, period_start, period_end)
);
`

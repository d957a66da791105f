package store

const schema = `
CREATE TABLE IF NOT EXISTS scans (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL,
    package_count INTEGER NOT NULL,
    backends TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scan_packages (
    scan_id INTEGER NOT NULL,
    manager TEXT NOT NULL,
    name TEXT NOT NULL,
    version TEXT,
    description TEXT,
    homepage TEXT,
    licenses TEXT,
    PRIMARY KEY (scan_id, manager, name),
    FOREIGN KEY (scan_id) REFERENCES scans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS plans (
    id TEXT PRIMARY KEY,
    created_at TIMESTAMP NOT NULL,
    strategy TEXT NOT NULL,
    cadence TEXT NOT NULL,
    currency TEXT NOT NULL,
    budget_amount INTEGER NOT NULL,
    min_amount INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS plan_entries (
    plan_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    project_key TEXT NOT NULL,
    display_name TEXT NOT NULL,
    amount INTEGER NOT NULL,
    PRIMARY KEY (plan_id, position),
    FOREIGN KEY (plan_id) REFERENCES plans(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS enrichment (
    project_key TEXT PRIMARY KEY,
    repo_url TEXT,
    description TEXT,
    stars INTEGER,
    funding_urls TEXT,
    fetched_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scan_packages_scan ON scan_packages(scan_id);
CREATE INDEX IF NOT EXISTS idx_plan_entries_plan ON plan_entries(plan_id);
CREATE INDEX IF NOT EXISTS idx_scans_created ON scans(created_at);
`

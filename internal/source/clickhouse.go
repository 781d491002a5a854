package source

import (
	"database/sql"
	"fmt"
)

// clickHouseTables holds the MergeTree DDL for the dataset tables.
// ClickHouse has no golang-migrate driver for clickhouse-go v2, so tables are created on open.
var clickHouseTables = []string{
	`CREATE TABLE IF NOT EXISTS skillspot_dataset_loads (
		load_id String,
		loaded_at Int64,
		job_count Int64,
		company_count Int64,
		skill_count Int64
	) ENGINE = MergeTree ORDER BY loaded_at`,
	`CREATE TABLE IF NOT EXISTS skillspot_companies (
		company_id String,
		name String,
		description String,
		company_size Int64,
		follower_count Int64
	) ENGINE = MergeTree ORDER BY company_id`,
	`CREATE TABLE IF NOT EXISTS skillspot_company_industries (
		company_id String,
		seq_no Int64,
		industry String
	) ENGINE = MergeTree ORDER BY (company_id, seq_no)`,
	`CREATE TABLE IF NOT EXISTS skillspot_company_specialties (
		company_id String,
		seq_no Int64,
		specialty String
	) ENGINE = MergeTree ORDER BY (company_id, seq_no)`,
	`CREATE TABLE IF NOT EXISTS skillspot_employee_counts (
		company_id String,
		employee_count Int64,
		follower_count Int64,
		time_recorded Int64
	) ENGINE = MergeTree ORDER BY (company_id, time_recorded)`,
	`CREATE TABLE IF NOT EXISTS skillspot_skills (
		skill_abr String,
		skill_name String
	) ENGINE = MergeTree ORDER BY skill_abr`,
	`CREATE TABLE IF NOT EXISTS skillspot_postings (
		job_id String,
		title String,
		company_id String,
		location String,
		city String,
		state String,
		country String,
		work_type String,
		posted_at Int64,
		active Int64,
		salary_min Nullable(Float64),
		salary_med Nullable(Float64),
		salary_max Nullable(Float64),
		pay_period String,
		currency String
	) ENGINE = MergeTree ORDER BY (posted_at, job_id)`,
	`CREATE TABLE IF NOT EXISTS skillspot_job_skills (
		job_id String,
		seq_no Int64,
		skill_name String,
		skill_key String
	) ENGINE = MergeTree ORDER BY (skill_key, job_id)`,
	`CREATE TABLE IF NOT EXISTS skillspot_job_benefits (
		job_id String,
		seq_no Int64,
		benefit String,
		inferred Int64
	) ENGINE = MergeTree ORDER BY (job_id, seq_no)`,
	`CREATE TABLE IF NOT EXISTS skillspot_demand_gaps (
		skill_name String,
		gap Float64
	) ENGINE = MergeTree ORDER BY skill_name`,
}

func createClickHouseTables(db *sql.DB) error {
	for _, ddl := range clickHouseTables {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("failed to create ClickHouse table: %w", err)
		}
	}
	return nil
}

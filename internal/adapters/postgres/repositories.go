package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"qrsafe/internal/domain"
)

// strpos keeps URL characters such as % and _ literal, unlike LIKE.
const findMaliciousSQL = `
	SELECT normalized_url, original_url, threat_type, threat_details, reported_date, source
	FROM malicious_urls
	WHERE normalized_url = $1
	   OR strpos($1, normalized_url) > 0
	   OR strpos(normalized_url, $1) > 0
	LIMIT 1`

const findVerifiedSQL = `
	SELECT normalized_url, original_url, company_name, verification_date, category, notes
	FROM verified_partners
	WHERE normalized_url = $1
	   OR left($1, length(normalized_url)) = normalized_url
	LIMIT 1`

// FindMalicious returns the first threat record whose key matches key in
// either substring direction.
func (db *DB) FindMalicious(ctx context.Context, key domain.NormalizedURL) (domain.MaliciousEntry, bool, error) {
	var (
		e        domain.MaliciousEntry
		stored   string
		details  pgtype.Text
		reported pgtype.Date
	)
	err := db.Pool.QueryRow(ctx, findMaliciousSQL, string(key)).
		Scan(&stored, &e.URL, &e.ThreatType, &details, &reported, &e.ReportSource)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MaliciousEntry{}, false, nil
	}
	if err != nil {
		return domain.MaliciousEntry{}, false, err
	}
	e.NormalizedURL = domain.NormalizedURL(stored)
	if details.Valid {
		e.ThreatDetails = &details.String
	}
	if reported.Valid {
		t := reported.Time
		e.ReportedDate = &t
	}
	return e, true, nil
}

// FindVerified returns the first partner whose key equals or prefixes key.
func (db *DB) FindVerified(ctx context.Context, key domain.NormalizedURL) (domain.VerifiedEntry, bool, error) {
	var (
		e      domain.VerifiedEntry
		stored string
		date   time.Time
	)
	err := db.Pool.QueryRow(ctx, findVerifiedSQL, string(key)).
		Scan(&stored, &e.URL, &e.CompanyName, &date, &e.Category, &e.Notes)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.VerifiedEntry{}, false, nil
	}
	if err != nil {
		return domain.VerifiedEntry{}, false, err
	}
	e.NormalizedURL = domain.NormalizedURL(stored)
	e.VerificationDate = date
	return e, true, nil
}

func (db *DB) UpsertMalicious(ctx context.Context, e domain.MaliciousEntry) error {
	var reported any
	if e.ReportedDate != nil {
		reported = *e.ReportedDate
	}
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO malicious_urls (original_url, normalized_url, threat_type, threat_details, reported_date, source)
		VALUES ($1, $2, $3, $4, COALESCE($5::date, CURRENT_DATE), $6)
		ON CONFLICT (normalized_url) DO UPDATE SET
			original_url = EXCLUDED.original_url,
			threat_type = EXCLUDED.threat_type,
			threat_details = EXCLUDED.threat_details,
			reported_date = EXCLUDED.reported_date,
			source = EXCLUDED.source
	`, e.URL, string(e.NormalizedURL), e.ThreatType, e.ThreatDetails, reported, e.ReportSource)
	return err
}

func (db *DB) UpsertVerified(ctx context.Context, e domain.VerifiedEntry) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO verified_partners (company_name, original_url, normalized_url, verification_date, category, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (normalized_url) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			original_url = EXCLUDED.original_url,
			verification_date = EXCLUDED.verification_date,
			category = EXCLUDED.category,
			notes = EXCLUDED.notes
	`, e.CompanyName, e.URL, string(e.NormalizedURL), e.VerificationDate, e.Category, e.Notes)
	return err
}

package database

import "database/sql"

// InsertBrief inserts or replaces the archived brief for a topic and date.
func (db *DB) InsertBrief(topic, briefDate, headline, storiesJSON string, storyCount, sourceCount int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT OR REPLACE INTO briefs
		(topic, brief_date, headline, stories_json, story_count, source_count)
		VALUES (?, ?, ?, ?, ?, ?)`,
		topic, briefDate, headline, storiesJSON, storyCount, sourceCount,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetBrief returns the archived brief for a topic and date, or nil.
func (db *DB) GetBrief(topic, briefDate string) (*BriefRecord, error) {
	row := db.conn.QueryRow(
		`SELECT id, topic, brief_date, headline, stories_json, story_count, source_count, generated_at
		FROM briefs WHERE topic = ? AND brief_date = ?`, topic, briefDate,
	)

	var b BriefRecord
	if err := row.Scan(&b.ID, &b.Topic, &b.BriefDate, &b.Headline, &b.StoriesJSON,
		&b.StoryCount, &b.SourceCount, &b.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// GetAllBriefs returns all archived briefs, newest first.
func (db *DB) GetAllBriefs() ([]BriefRecord, error) {
	rows, err := db.conn.Query(
		`SELECT id, topic, brief_date, headline, stories_json, story_count, source_count, generated_at
		FROM briefs ORDER BY brief_date DESC, topic ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var briefs []BriefRecord
	for rows.Next() {
		var b BriefRecord
		if err := rows.Scan(&b.ID, &b.Topic, &b.BriefDate, &b.Headline, &b.StoriesJSON,
			&b.StoryCount, &b.SourceCount, &b.GeneratedAt); err != nil {
			return nil, err
		}
		briefs = append(briefs, b)
	}
	return briefs, rows.Err()
}

// InsertReport records one run's telemetry.
func (db *DB) InsertReport(topic, briefDate string, storyCount, uniqueDomains int, domainCounts string) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO run_reports (topic, brief_date, story_count, unique_domains, domain_counts)
		VALUES (?, ?, ?, ?, ?)`,
		topic, briefDate, storyCount, uniqueDomains, domainCounts,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetReportsForTopic returns run reports for a topic, newest first.
func (db *DB) GetReportsForTopic(topic string) ([]RunReport, error) {
	rows, err := db.conn.Query(
		`SELECT id, topic, brief_date, story_count, unique_domains, domain_counts, generated_at
		FROM run_reports WHERE topic = ? ORDER BY brief_date DESC`, topic,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []RunReport
	for rows.Next() {
		var r RunReport
		if err := rows.Scan(&r.ID, &r.Topic, &r.BriefDate, &r.StoryCount,
			&r.UniqueDomains, &r.DomainCounts, &r.GeneratedAt); err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM briefs", &s.TotalBriefs},
		{"SELECT COUNT(DISTINCT topic) FROM briefs", &s.Topics},
		{"SELECT COUNT(DISTINCT brief_date) FROM briefs", &s.DaysWithData},
		{"SELECT COUNT(*) FROM run_reports", &s.TotalReports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}

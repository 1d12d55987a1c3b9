package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/coachlab/golfmetrics/internal/model"
)

// BatchExists returns true if a batch for the given session date is already stored.
func (db *DB) BatchExists(sessionDate string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM batches WHERE session_date = ?", sessionDate).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertBatch inserts a batch record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertBatch(b model.BatchSummary) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO batches(id, session_date, file_count, shot_count, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.SessionDate, b.FileCount, b.ShotCount, b.CreatedAt,
	)
	return err
}

// DeleteBatch removes a batch and its shots and stats for a session date.
func (db *DB) DeleteBatch(sessionDate string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM shots WHERE session_date = ?", sessionDate); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM session_stats WHERE session_date = ?", sessionDate); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM batches WHERE session_date = ?", sessionDate); err != nil {
		return err
	}
	return tx.Commit()
}

// InsertShots bulk-inserts canonical shots in a transaction.
func (db *DB) InsertShots(batchID string, shots []model.Shot) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO shots(
			batch_id, session_date, player_raw, alias, hand, club, is_driver,
			carry, total, offline, club_speed, ball_speed, smash,
			hla, vla, back_spin, spin_axis, spin_total, spin_lat, peak_height,
			extra
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range shots {
		extra, err := json.Marshal(s.Extra)
		if err != nil {
			return fmt.Errorf("marshal extras for %s: %w", s.Alias, err)
		}
		_, err = stmt.Exec(
			batchID, s.SessionDate, s.PlayerRaw, s.Alias, s.Hand, s.Club, boolInt(s.IsDriver),
			nullable(s.Carry), nullable(s.Total), nullable(s.Offline),
			nullable(s.ClubSpeed), nullable(s.BallSpeed), nullable(s.Smash),
			nullable(s.HLA), nullable(s.VLA),
			nullable(s.BackSpin), nullable(s.SpinAxis),
			nullable(s.SpinTotal), nullable(s.SpinLat), nullable(s.PeakHeight),
			string(extra),
		)
		if err != nil {
			return fmt.Errorf("insert shot for %s: %w", s.Alias, err)
		}
	}
	return tx.Commit()
}

// InsertSessionStats bulk-inserts aggregate rows in a transaction.
func (db *DB) InsertSessionStats(stats []model.SessionStats) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO session_stats(
			session_date, alias, hand, total_shots, clubs_played,
			driver_shots, driver_fairway_count, driver_good_drives, driver_avg_carry_good
		) VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, s := range stats {
		_, err = stmt.Exec(
			s.SessionDate, s.Alias, s.Hand, s.TotalShots, s.ClubsPlayed,
			s.DriverShots, s.DriverFairwayCount, s.DriverGoodDrives,
			nullable(s.DriverAvgCarryGood),
		)
		if err != nil {
			return fmt.Errorf("insert session_stats for %s: %w", s.Alias, err)
		}
	}
	return tx.Commit()
}

// ListBatches returns all stored batches ordered by session_date desc.
func (db *DB) ListBatches() ([]model.BatchSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, session_date, file_count, shot_count, created_at
		FROM batches ORDER BY session_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.BatchSummary
	for rows.Next() {
		var b model.BatchSummary
		if err := rows.Scan(&b.ID, &b.SessionDate, &b.FileCount, &b.ShotCount, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// GetShots returns all canonical shots for a session date, in insert order.
func (db *DB) GetShots(sessionDate string) ([]model.Shot, error) {
	rows, err := db.conn.Query(`
		SELECT session_date, player_raw, alias, hand, club, is_driver,
		       carry, total, offline, club_speed, ball_speed, smash,
		       hla, vla, back_spin, spin_axis, spin_total, spin_lat, peak_height,
		       extra
		FROM shots WHERE session_date = ? ORDER BY id`, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Shot
	for rows.Next() {
		var s model.Shot
		var isDriverInt int
		var carry, total, offline, clubSpeed, ballSpeed, smash sql.NullFloat64
		var hla, vla, backSpin, spinAxis, spinTotal, spinLat, peakHeight sql.NullFloat64
		var extra string
		if err := rows.Scan(
			&s.SessionDate, &s.PlayerRaw, &s.Alias, &s.Hand, &s.Club, &isDriverInt,
			&carry, &total, &offline, &clubSpeed, &ballSpeed, &smash,
			&hla, &vla, &backSpin, &spinAxis, &spinTotal, &spinLat, &peakHeight,
			&extra,
		); err != nil {
			return nil, err
		}
		s.IsDriver = isDriverInt != 0
		s.Carry = fromNullable(carry)
		s.Total = fromNullable(total)
		s.Offline = fromNullable(offline)
		s.ClubSpeed = fromNullable(clubSpeed)
		s.BallSpeed = fromNullable(ballSpeed)
		s.Smash = fromNullable(smash)
		s.HLA = fromNullable(hla)
		s.VLA = fromNullable(vla)
		s.BackSpin = fromNullable(backSpin)
		s.SpinAxis = fromNullable(spinAxis)
		s.SpinTotal = fromNullable(spinTotal)
		s.SpinLat = fromNullable(spinLat)
		s.PeakHeight = fromNullable(peakHeight)
		if err := json.Unmarshal([]byte(extra), &s.Extra); err != nil {
			return nil, fmt.Errorf("unmarshal extras: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetSessionStats returns all aggregate rows for a session date ordered by alias.
func (db *DB) GetSessionStats(sessionDate string) ([]model.SessionStats, error) {
	rows, err := db.conn.Query(`
		SELECT session_date, alias, hand, total_shots, clubs_played,
		       driver_shots, driver_fairway_count, driver_good_drives, driver_avg_carry_good
		FROM session_stats WHERE session_date = ? ORDER BY alias`, sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SessionStats
	for rows.Next() {
		var s model.SessionStats
		var avg sql.NullFloat64
		if err := rows.Scan(
			&s.SessionDate, &s.Alias, &s.Hand, &s.TotalShots, &s.ClubsPlayed,
			&s.DriverShots, &s.DriverFairwayCount, &s.DriverGoodDrives, &avg,
		); err != nil {
			return nil, err
		}
		s.DriverAvgCarryGood = fromNullable(avg)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListAliases returns the distinct aliases stored for a session date.
func (db *DB) ListAliases(sessionDate string) ([]string, error) {
	rows, err := db.conn.Query(
		"SELECT DISTINCT alias FROM shots WHERE session_date = ? ORDER BY alias", sessionDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullable maps the missing sentinel to SQL NULL.
func nullable(v float64) sql.NullFloat64 {
	if model.IsMissing(v) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return model.Missing()
	}
	return v.Float64
}

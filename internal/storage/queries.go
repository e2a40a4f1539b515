package storage

import (
	"database/sql"
	"fmt"

	"github.com/laneiq/lolmetrics/internal/model"
)

// MatchExists returns true if the (match, player) perspective is stored.
func (db *DB) MatchExists(matchID, puuid string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE match_id = ? AND puuid = ?", matchID, puuid).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(m model.MatchRecord) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO matches(
			match_id, puuid, queue_id, game_creation, game_duration,
			champion_id, champion_name, role, win,
			kills, deaths, assists, gold_earned, cs, vision_score, damage_dealt
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.MatchID, m.PUUID, m.QueueID, m.GameCreation, m.GameDuration,
		m.ChampionID, m.ChampionName, string(m.Role), boolInt(m.Win),
		m.Kills, m.Deaths, m.Assists, m.GoldEarned, m.CS, m.VisionScore, m.DamageDealt,
	)
	return err
}

// ListMatches returns a player's stored matches, newest first.
func (db *DB) ListMatches(puuid string) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, puuid, queue_id, game_creation, game_duration,
		       champion_id, champion_name, role, win,
		       kills, deaths, assists, gold_earned, cs, vision_score, damage_dealt
		FROM matches WHERE puuid = ? ORDER BY game_creation DESC`, puuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatches(rows)
}

// ListAllMatches returns every stored match row, newest first.
func (db *DB) ListAllMatches() ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, puuid, queue_id, game_creation, game_duration,
		       champion_id, champion_name, role, win,
		       kills, deaths, assists, gold_earned, cs, vision_score, damage_dealt
		FROM matches ORDER BY game_creation DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatches(rows)
}

// GetMatchByPrefix resolves a match by id prefix. Returns nil when no match
// is stored with that prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchRecord, error) {
	rows, err := db.conn.Query(`
		SELECT match_id, puuid, queue_id, game_creation, game_duration,
		       champion_id, champion_name, role, win,
		       kills, deaths, assists, gold_earned, cs, vision_score, damage_dealt
		FROM matches WHERE match_id LIKE ? || '%' LIMIT 1`, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	matches, err := scanMatches(rows)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return &matches[0], nil
}

func scanMatches(rows *sql.Rows) ([]model.MatchRecord, error) {
	var out []model.MatchRecord
	for rows.Next() {
		var m model.MatchRecord
		var role string
		var win int
		if err := rows.Scan(
			&m.MatchID, &m.PUUID, &m.QueueID, &m.GameCreation, &m.GameDuration,
			&m.ChampionID, &m.ChampionName, &role, &win,
			&m.Kills, &m.Deaths, &m.Assists, &m.GoldEarned, &m.CS, &m.VisionScore, &m.DamageDealt,
		); err != nil {
			return nil, err
		}
		m.Role = model.Role(role)
		m.Win = win != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// InsertTimeline stores a raw timeline payload, zstd-compressed.
func (db *DB) InsertTimeline(matchID string, frameInterval int, payload []byte) error {
	compressed := db.encoder.EncodeAll(payload, nil)
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO timelines(match_id, frame_interval, payload)
		VALUES (?, ?, ?)`, matchID, frameInterval, compressed)
	return err
}

// GetTimeline returns the decompressed raw timeline payload, or nil when the
// match has no stored timeline.
func (db *DB) GetTimeline(matchID string) ([]byte, error) {
	var compressed []byte
	err := db.conn.QueryRow("SELECT payload FROM timelines WHERE match_id = ?", matchID).Scan(&compressed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	payload, err := db.decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress timeline %s: %w", matchID, err)
	}
	return payload, nil
}

// InsertLaneStats stores one analyzed lane record.
func (db *DB) InsertLaneStats(s model.LaneStats) error {
	var swingStart, swingEnd, swingSeverity any
	var swingKind any
	if s.WorstSwing != nil {
		swingStart = s.WorstSwing.StartMinute
		swingEnd = s.WorstSwing.EndMinute
		swingSeverity = s.WorstSwing.Severity
		swingKind = string(s.WorstSwing.Kind)
	}
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO lane_stats(
			match_id, puuid, participant_id, opponent_id, win, duration_min,
			gold_at10, gold_at15, gold_at20,
			gold_diff_at10, gold_diff_at15, gold_diff_at20,
			level_at10, level_diff_at10,
			max_lead, max_lead_minute, max_deficit, max_deficit_minute,
			throw_minute, comeback_minute,
			first_item_minute, second_item_minute, third_item_minute,
			swing_start_minute, swing_end_minute, swing_severity, swing_kind,
			cs_gold, kill_gold
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.MatchID, s.PUUID, s.ParticipantID, s.OpponentID, boolInt(s.Win), s.DurationMin,
		nullableInt(s.GoldAt10), nullableInt(s.GoldAt15), nullableInt(s.GoldAt20),
		nullableInt(s.GoldDiffAt10), nullableInt(s.GoldDiffAt15), nullableInt(s.GoldDiffAt20),
		nullableInt(s.LevelAt10), nullableInt(s.LevelDiffAt10),
		s.MaxLead, s.MaxLeadMinute, s.MaxDeficit, s.MaxDeficitMinute,
		nullableInt(s.ThrowMinute), nullableInt(s.ComebackMinute),
		nullableFloat(s.FirstItemMinute), nullableFloat(s.SecondItemMinute), nullableFloat(s.ThirdItemMinute),
		swingStart, swingEnd, swingSeverity, swingKind,
		s.CSGold, s.KillGold,
	)
	return err
}

// GetLaneStats returns all analyzed lane records for a player, oldest first
// by stored match order.
func (db *DB) GetLaneStats(puuid string) ([]model.LaneStats, error) {
	rows, err := db.conn.Query(`
		SELECT ls.match_id, ls.puuid, ls.participant_id, ls.opponent_id, ls.win, ls.duration_min,
		       ls.gold_at10, ls.gold_at15, ls.gold_at20,
		       ls.gold_diff_at10, ls.gold_diff_at15, ls.gold_diff_at20,
		       ls.level_at10, ls.level_diff_at10,
		       ls.max_lead, ls.max_lead_minute, ls.max_deficit, ls.max_deficit_minute,
		       ls.throw_minute, ls.comeback_minute,
		       ls.first_item_minute, ls.second_item_minute, ls.third_item_minute,
		       ls.swing_start_minute, ls.swing_end_minute, ls.swing_severity, ls.swing_kind,
		       ls.cs_gold, ls.kill_gold
		FROM lane_stats ls
		LEFT JOIN matches m ON m.match_id = ls.match_id AND m.puuid = ls.puuid
		WHERE ls.puuid = ?
		ORDER BY m.game_creation ASC`, puuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.LaneStats
	for rows.Next() {
		var s model.LaneStats
		var win int
		var g10, g15, g20, d10, d15, d20, l10, ld10, throwMin, comebackMin sql.NullInt64
		var item1, item2, item3 sql.NullFloat64
		var swStart, swEnd, swSev sql.NullInt64
		var swKind sql.NullString
		if err := rows.Scan(
			&s.MatchID, &s.PUUID, &s.ParticipantID, &s.OpponentID, &win, &s.DurationMin,
			&g10, &g15, &g20, &d10, &d15, &d20, &l10, &ld10,
			&s.MaxLead, &s.MaxLeadMinute, &s.MaxDeficit, &s.MaxDeficitMinute,
			&throwMin, &comebackMin,
			&item1, &item2, &item3,
			&swStart, &swEnd, &swSev, &swKind,
			&s.CSGold, &s.KillGold,
		); err != nil {
			return nil, err
		}
		s.Win = win != 0
		s.GoldAt10, s.GoldAt15, s.GoldAt20 = fromNullInt(g10), fromNullInt(g15), fromNullInt(g20)
		s.GoldDiffAt10, s.GoldDiffAt15, s.GoldDiffAt20 = fromNullInt(d10), fromNullInt(d15), fromNullInt(d20)
		s.LevelAt10, s.LevelDiffAt10 = fromNullInt(l10), fromNullInt(ld10)
		s.ThrowMinute, s.ComebackMinute = fromNullInt(throwMin), fromNullInt(comebackMin)
		s.FirstItemMinute, s.SecondItemMinute, s.ThirdItemMinute = fromNullFloat(item1), fromNullFloat(item2), fromNullFloat(item3)
		if swSev.Valid {
			s.WorstSwing = &model.GoldSwing{
				MatchID:     s.MatchID,
				StartMinute: int(swStart.Int64),
				EndMinute:   int(swEnd.Int64),
				Severity:    int(swSev.Int64),
				Kind:        model.SwingKind(swKind.String),
			}
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// IncrementChampionRole bumps the local champion-role game counter.
func (db *DB) IncrementChampionRole(championID int, role model.Role) error {
	_, err := db.conn.Exec(`
		INSERT INTO champion_roles(champion_id, role, games) VALUES (?, ?, 1)
		ON CONFLICT(champion_id, role) DO UPDATE SET games = games + 1`,
		championID, string(role))
	return err
}

// ChampionRoleCounts returns the locally aggregated per-role game counts for
// a champion. Satisfies roles.LocalCounts.
func (db *DB) ChampionRoleCounts(championID int) (map[model.Role]int, error) {
	rows, err := db.conn.Query("SELECT role, games FROM champion_roles WHERE champion_id = ?", championID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[model.Role]int)
	for rows.Next() {
		var role string
		var games int
		if err := rows.Scan(&role, &games); err != nil {
			return nil, err
		}
		counts[model.Role(role)] = games
	}
	return counts, rows.Err()
}

// PrimaryRole returns the role a player has played most among stored
// matches, defaulting to MIDDLE with no data.
func (db *DB) PrimaryRole(puuid string) (model.Role, error) {
	var role string
	err := db.conn.QueryRow(`
		SELECT role FROM matches WHERE puuid = ? AND role != ''
		GROUP BY role ORDER BY COUNT(1) DESC LIMIT 1`, puuid).Scan(&role)
	if err == sql.ErrNoRows {
		return model.RoleMiddle, nil
	}
	if err != nil {
		return model.RoleMiddle, err
	}
	return model.Role(role), nil
}

// DeleteMatch removes a match's rows across all tables.
func (db *DB) DeleteMatch(matchID string) error {
	for _, q := range []string{
		"DELETE FROM lane_stats WHERE match_id = ?",
		"DELETE FROM timelines WHERE match_id = ?",
		"DELETE FROM matches WHERE match_id = ?",
	} {
		if _, err := db.conn.Exec(q, matchID); err != nil {
			return fmt.Errorf("delete match %s: %w", matchID, err)
		}
	}
	return nil
}

// Overview summarizes the whole database for the summary command.
type Overview struct {
	TotalMatches  int
	UniquePlayers int
	Timelines     int
	LaneStats     int
	EarliestGame  int64
	LatestGame    int64
	WinRate       float64
}

// GetOverview returns the database-wide overview.
func (db *DB) GetOverview() (*Overview, error) {
	var ov Overview
	err := db.conn.QueryRow(`
		SELECT COUNT(1), COUNT(DISTINCT puuid),
		       COALESCE(MIN(game_creation), 0), COALESCE(MAX(game_creation), 0),
		       COALESCE(AVG(win) * 100, 0)
		FROM matches`).Scan(&ov.TotalMatches, &ov.UniquePlayers, &ov.EarliestGame, &ov.LatestGame, &ov.WinRate)
	if err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM timelines").Scan(&ov.Timelines); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(1) FROM lane_stats").Scan(&ov.LaneStats); err != nil {
		return nil, err
	}
	return &ov, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func fromNullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func fromNullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

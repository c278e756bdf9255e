package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-lol-metrics/internal/model"
)

// MatchExists returns true if a match with the given hash is already stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertMatch inserts a match record. Uses INSERT OR REPLACE for idempotency.
func (db *DB) InsertMatch(summary model.MatchSummary) error {
	return db.inTx(func(tx *sql.Tx) error { return insertMatch(tx, summary) })
}

// DeleteMatch removes a match and every row that belongs to it.
func (db *DB) DeleteMatch(hash string) error {
	return db.inTx(func(tx *sql.Tx) error { return deleteMatch(tx, hash) })
}

// InsertPlayers stores the roster of a match in team and slot order.
func (db *DB) InsertPlayers(matchHash string, teams []model.Team) error {
	return db.inTx(func(tx *sql.Tx) error { return insertPlayers(tx, matchHash, teams) })
}

// InsertTeamResults bulk-inserts team results in a transaction. Results are
// stored in the given order, which is the Game.Teams order.
func (db *DB) InsertTeamResults(results []model.TeamResult) error {
	return db.inTx(func(tx *sql.Tx) error { return insertTeamResults(tx, results) })
}

// InsertFrames stores every frame of the timeline. Team rows are written only
// for merged frames; player rows for every frame, position-only or not.
func (db *DB) InsertFrames(matchHash string, frames []*model.Frame) error {
	return db.inTx(func(tx *sql.Tx) error { return insertFrames(tx, matchHash, frames) })
}

// MatchRecord is everything stored for one match. Frames may be nil.
type MatchRecord struct {
	Summary model.MatchSummary
	Teams   []model.Team
	Results []model.TeamResult
	Frames  []*model.Frame
}

// ReplaceMatch deletes whatever is stored under the match hash and writes rec
// in a single transaction. On error the previous rows are left untouched.
func (db *DB) ReplaceMatch(rec MatchRecord) error {
	hash := rec.Summary.MatchHash
	return db.inTx(func(tx *sql.Tx) error {
		if err := deleteMatch(tx, hash); err != nil {
			return fmt.Errorf("clear match: %w", err)
		}
		if err := insertMatch(tx, rec.Summary); err != nil {
			return fmt.Errorf("insert match: %w", err)
		}
		if err := insertPlayers(tx, hash, rec.Teams); err != nil {
			return fmt.Errorf("insert players: %w", err)
		}
		if err := insertTeamResults(tx, rec.Results); err != nil {
			return fmt.Errorf("insert team results: %w", err)
		}
		if err := insertFrames(tx, hash, rec.Frames); err != nil {
			return fmt.Errorf("insert frames: %w", err)
		}
		return nil
	})
}

func (db *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func insertMatch(tx *sql.Tx, summary model.MatchSummary) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO matches(hash, game_urn, start_time, source_dir, frame_count, duration, run_id, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		summary.MatchHash, summary.GameURN, summary.StartTime, summary.SourceDir,
		summary.FrameCount, summary.Duration, summary.RunID,
		summary.ParsedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func deleteMatch(tx *sql.Tx, hash string) error {
	for _, table := range []string{"player_frames", "team_frames", "team_results", "match_players"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_hash = ?", hash); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM matches WHERE hash = ?", hash); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return nil
}

func insertPlayers(tx *sql.Tx, matchHash string, teams []model.Team) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO match_players(
			match_hash, team_urn, team_index, player_urn, summoner_name, champion_id, slot
		) VALUES (?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for ti, t := range teams {
		for slot, p := range t.Players {
			if _, err := stmt.Exec(matchHash, t.URN, ti, p.URN, p.SummonerName, p.ChampionID, slot); err != nil {
				return fmt.Errorf("insert match_players for %s: %w", p.URN, err)
			}
		}
	}
	return nil
}

func insertTeamResults(tx *sql.Tx, results []model.TeamResult) error {
	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_results(
			match_hash, team_urn, team_index,
			kills, deaths, assists, total_gold, kda,
			gold_diff_10, gold_diff_15, gold_diff_20, gold_diff_end,
			tower_kills, inhib_kills, dragon_kills, baron_kills, rift_herald_kills, plates,
			first_blood, first_turret, first_inhibitor, first_dragon, first_baron, first_rift_herald
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range results {
		_, err = stmt.Exec(
			r.MatchHash, r.TeamURN, i,
			r.Kills, r.Deaths, r.Assists, r.TotalGold, r.KDA,
			r.GoldDiff10, r.GoldDiff15, r.GoldDiff20, r.GoldDiffEnd,
			r.TowerKills, r.InhibKills, r.DragonKills, r.BaronKills, r.RiftHeraldKills, r.Plates,
			boolInt(r.FirstBlood), boolInt(r.FirstTurret), boolInt(r.FirstInhibitor),
			boolInt(r.FirstDragon), boolInt(r.FirstBaron), boolInt(r.FirstRiftHerald),
		)
		if err != nil {
			return fmt.Errorf("insert team_results for %s: %w", r.TeamURN, err)
		}
	}
	return nil
}

func insertFrames(tx *sql.Tx, matchHash string, frames []*model.Frame) error {
	if len(frames) == 0 {
		return nil
	}
	teamStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO team_frames(
			match_hash, tick, team_urn, team_index, total_gold, kills, deaths, assists,
			tower_kills, inhib_kills, dragon_kills, baron_kills
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer teamStmt.Close()

	playerStmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_frames(
			match_hash, tick, player_urn, has_position, x, y, merged,
			level, experience, alive, health, health_max, current_gold, total_gold,
			kills, deaths, assists, creep_score, wards_placed, wards_killed
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer playerStmt.Close()

	for _, f := range frames {
		for ti, t := range f.Teams {
			_, err = teamStmt.Exec(
				matchHash, f.GameTime, t.TeamURN, ti, t.TotalGold, t.Kills, t.Deaths, t.Assists,
				t.TowerKills, t.InhibKills, t.DragonKills, t.BaronKills,
			)
			if err != nil {
				return fmt.Errorf("insert team_frames at %d: %w", f.GameTime, err)
			}
		}
		for _, p := range f.Players {
			var x, y int
			if p.Position != nil {
				x, y = p.Position.X, p.Position.Y
			}
			_, err = playerStmt.Exec(
				matchHash, f.GameTime, p.PlayerURN, boolInt(p.Position != nil), x, y, boolInt(p.Merged),
				p.Level, p.Experience, boolInt(p.Alive), p.Health, p.HealthMax, p.CurrentGold, p.TotalGold,
				p.Kills, p.Deaths, p.Assists, p.CreepScore, p.WardsPlaced, p.WardsKilled,
			)
			if err != nil {
				return fmt.Errorf("insert player_frames at %d: %w", f.GameTime, err)
			}
		}
	}
	return nil
}

const matchColumns = `hash, game_urn, start_time, source_dir, frame_count, duration, run_id, parsed_at`

func scanMatch(sc interface{ Scan(...any) error }) (model.MatchSummary, error) {
	var s model.MatchSummary
	var parsedAt string
	if err := sc.Scan(&s.MatchHash, &s.GameURN, &s.StartTime, &s.SourceDir,
		&s.FrameCount, &s.Duration, &s.RunID, &parsedAt); err != nil {
		return s, err
	}
	if t, err := time.Parse(time.RFC3339, parsedAt); err == nil {
		s.ParsedAt = t
	}
	return s, nil
}

// ListMatches returns all stored matches, most recent game first.
func (db *DB) ListMatches() ([]model.MatchSummary, error) {
	rows, err := db.conn.Query(`SELECT ` + matchColumns + ` FROM matches ORDER BY start_time DESC, parsed_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchSummary
	for rows.Next() {
		s, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// GetMatchByPrefix finds the first match whose hash starts with the given prefix.
func (db *DB) GetMatchByPrefix(prefix string) (*model.MatchSummary, error) {
	row := db.conn.QueryRow(`SELECT `+matchColumns+` FROM matches WHERE hash LIKE ? LIMIT 1`, prefix+"%")
	s, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetPlayers returns the stored roster of a match grouped into teams.
func (db *DB) GetPlayers(matchHash string) ([]model.Team, error) {
	rows, err := db.conn.Query(`
		SELECT team_urn, player_urn, summoner_name, champion_id
		FROM match_players WHERE match_hash = ? ORDER BY team_index, slot`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var teamURN string
		var p model.Player
		if err := rows.Scan(&teamURN, &p.URN, &p.SummonerName, &p.ChampionID); err != nil {
			return nil, err
		}
		if n := len(teams); n == 0 || teams[n-1].URN != teamURN {
			teams = append(teams, model.Team{URN: teamURN})
		}
		last := &teams[len(teams)-1]
		last.Players = append(last.Players, p)
	}
	return teams, rows.Err()
}

// GetTeamResults returns the team results of a match in Game.Teams order.
func (db *DB) GetTeamResults(matchHash string) ([]model.TeamResult, error) {
	rows, err := db.conn.Query(`
		SELECT team_urn,
		       kills, deaths, assists, total_gold, kda,
		       gold_diff_10, gold_diff_15, gold_diff_20, gold_diff_end,
		       tower_kills, inhib_kills, dragon_kills, baron_kills, rift_herald_kills, plates,
		       first_blood, first_turret, first_inhibitor, first_dragon, first_baron, first_rift_herald
		FROM team_results WHERE match_hash = ? ORDER BY team_index`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamResult
	for rows.Next() {
		r := model.TeamResult{MatchHash: matchHash}
		var fb, ft, fi, fd, fbn, frh int
		if err := rows.Scan(&r.TeamURN,
			&r.Kills, &r.Deaths, &r.Assists, &r.TotalGold, &r.KDA,
			&r.GoldDiff10, &r.GoldDiff15, &r.GoldDiff20, &r.GoldDiffEnd,
			&r.TowerKills, &r.InhibKills, &r.DragonKills, &r.BaronKills, &r.RiftHeraldKills, &r.Plates,
			&fb, &ft, &fi, &fd, &fbn, &frh); err != nil {
			return nil, err
		}
		r.FirstBlood = fb != 0
		r.FirstTurret = ft != 0
		r.FirstInhibitor = fi != 0
		r.FirstDragon = fd != 0
		r.FirstBaron = fbn != 0
		r.FirstRiftHerald = frh != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetTeamFrames returns the stored team snapshots of a match ordered by tick,
// then team order.
func (db *DB) GetTeamFrames(matchHash string) ([]model.TeamFrameRow, error) {
	rows, err := db.conn.Query(`
		SELECT tick, team_urn, total_gold, kills, deaths, assists,
		       tower_kills, inhib_kills, dragon_kills, baron_kills
		FROM team_frames WHERE match_hash = ? ORDER BY tick, team_index`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TeamFrameRow
	for rows.Next() {
		var r model.TeamFrameRow
		if err := rows.Scan(&r.Tick, &r.TeamURN, &r.TotalGold, &r.Kills, &r.Deaths, &r.Assists,
			&r.TowerKills, &r.InhibKills, &r.DragonKills, &r.BaronKills); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetPlayerFrames returns the stored player snapshots of a match ordered by tick.
func (db *DB) GetPlayerFrames(matchHash string) ([]model.PlayerFrameRow, error) {
	rows, err := db.conn.Query(`
		SELECT tick, player_urn, has_position, x, y, merged,
		       level, experience, alive, health, health_max, current_gold, total_gold,
		       kills, deaths, assists, creep_score, wards_placed, wards_killed
		FROM player_frames WHERE match_hash = ? ORDER BY tick, player_urn`, matchHash)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PlayerFrameRow
	for rows.Next() {
		var r model.PlayerFrameRow
		var hasPos, merged, alive, x, y int
		if err := rows.Scan(&r.Tick, &r.PlayerURN, &hasPos, &x, &y, &merged,
			&r.Level, &r.Experience, &alive, &r.Health, &r.HealthMax, &r.CurrentGold, &r.TotalGold,
			&r.Kills, &r.Deaths, &r.Assists, &r.CreepScore, &r.WardsPlaced, &r.WardsKilled); err != nil {
			return nil, err
		}
		if hasPos != 0 {
			r.Position = &model.Position{X: x, Y: y}
		}
		r.Merged = merged != 0
		r.Alive = alive != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

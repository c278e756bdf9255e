package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-lol-metrics/internal/batch"
	"github.com/pable/go-lol-metrics/internal/model"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func signed(n int) string {
	if n > 0 {
		return "+" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// PrintMatchSummary prints a one-line summary header for the match.
func PrintMatchSummary(w io.Writer, s model.MatchSummary) {
	start := s.StartTime
	if start == "" {
		start = "unknown"
	}
	fmt.Fprintf(w, "\nGame: %s  |  Start: %s  |  Length: %s  |  Frames: %d  |  Hash: %s\n\n",
		s.GameURN, start, s.DurationString(), s.FrameCount, shortHash(s.MatchHash))
}

// PrintMatchList prints one row per stored match.
func PrintMatchList(w io.Writer, matches []model.MatchSummary) {
	table := newTable(w)
	table.Header("HASH", "GAME", "START", "LENGTH", "FRAMES", "SOURCE")
	for _, m := range matches {
		table.Append(
			shortHash(m.MatchHash),
			m.GameURN,
			m.StartTime,
			m.DurationString(),
			strconv.Itoa(m.FrameCount),
			m.SourceDir,
		)
	}
	table.Render()
}

// PrintRows prints a raw query result. NULLs arrive already rendered.
func PrintRows(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

// PrintRoster prints the players of each team.
func PrintRoster(w io.Writer, teams []model.Team) {
	table := newTable(w)
	table.Header("TEAM", "PLAYER", "SUMMONER", "CHAMPION")
	for _, t := range teams {
		for _, p := range t.Players {
			table.Append(t.URN, p.URN, p.SummonerName, strconv.Itoa(p.ChampionID))
		}
	}
	table.Render()
}

// PrintTeamTable prints the combat and gold line of each team.
// If focusTeam is non-empty, that team's row is marked with ">".
func PrintTeamTable(w io.Writer, results []model.TeamResult, focusTeam string) {
	table := newTable(w)
	table.Header(" ", "TEAM", "K", "D", "A", "KDA", "GOLD", "GD@10", "GD@15", "GD@20", "GD_END")
	for _, r := range results {
		marker := " "
		if focusTeam != "" && r.TeamURN == focusTeam {
			marker = ">"
		}
		table.Append(
			marker,
			r.TeamURN,
			strconv.Itoa(r.Kills),
			strconv.Itoa(r.Deaths),
			strconv.Itoa(r.Assists),
			fmt.Sprintf("%.1f", r.KDA),
			strconv.Itoa(r.TotalGold),
			signed(r.GoldDiff10),
			signed(r.GoldDiff15),
			signed(r.GoldDiff20),
			signed(r.GoldDiffEnd),
		)
	}
	table.Render()
}

// PrintObjectiveTable prints objective counts and first-event flags per team.
func PrintObjectiveTable(w io.Writer, results []model.TeamResult) {
	table := newTable(w)
	table.Header("TEAM", "TOWERS", "PLATES", "INHIBS", "DRAGONS", "HERALDS", "BARONS",
		"1ST_BLOOD", "1ST_TOWER", "1ST_INHIB", "1ST_DRAGON", "1ST_HERALD", "1ST_BARON")
	for _, r := range results {
		table.Append(
			r.TeamURN,
			strconv.Itoa(r.TowerKills),
			strconv.Itoa(r.Plates),
			strconv.Itoa(r.InhibKills),
			strconv.Itoa(r.DragonKills),
			strconv.Itoa(r.RiftHeraldKills),
			strconv.Itoa(r.BaronKills),
			yesNo(r.FirstBlood),
			yesNo(r.FirstTurret),
			yesNo(r.FirstInhibitor),
			yesNo(r.FirstDragon),
			yesNo(r.FirstRiftHerald),
			yesNo(r.FirstBaron),
		)
	}
	table.Render()
}

// GoldPoint is the gold state at the first merged tick of a minute.
type GoldPoint struct {
	Minute int
	Tick   int
	Gold   [2]int
	Diff   int // Gold[0] - Gold[1]
}

// GoldCurve samples team frame rows once per minute. Rows must be ordered by
// tick then team, two per tick, as storage returns them.
func GoldCurve(rows []model.TeamFrameRow) []GoldPoint {
	var out []GoldPoint
	for i := 0; i+1 < len(rows); i += 2 {
		a, b := rows[i], rows[i+1]
		if a.Tick != b.Tick {
			// Incomplete tick; realign on the next row.
			i--
			continue
		}
		minute := a.Tick / 60
		if n := len(out); n > 0 && out[n-1].Minute == minute {
			continue
		}
		out = append(out, GoldPoint{
			Minute: minute,
			Tick:   a.Tick,
			Gold:   [2]int{a.TotalGold, b.TotalGold},
			Diff:   a.TotalGold - b.TotalGold,
		})
	}
	return out
}

// PrintGoldCurve prints the per-minute gold differential with a bar scaled to
// the largest lead in the game. Positive leads belong to teams[0].
func PrintGoldCurve(w io.Writer, points []GoldPoint, teams [2]string) {
	const width = 20
	maxAbs := 1
	for _, p := range points {
		if d := abs(p.Diff); d > maxAbs {
			maxAbs = d
		}
	}

	table := newTable(w)
	table.Header("MIN", "TIME", teams[0], teams[1], "DIFF", "LEAD")
	for _, p := range points {
		n := abs(p.Diff) * width / maxAbs
		bar := strings.Repeat("#", n)
		lead := ""
		switch {
		case p.Diff > 0:
			lead = fmt.Sprintf("%-*s|", width, "") + bar
		case p.Diff < 0:
			lead = fmt.Sprintf("%*s|", width, bar)
		default:
			lead = fmt.Sprintf("%-*s|", width, "")
		}
		table.Append(
			strconv.Itoa(p.Minute),
			model.FormatGameTime(p.Tick),
			strconv.Itoa(p.Gold[0]),
			strconv.Itoa(p.Gold[1]),
			signed(p.Diff),
			lead,
		)
	}
	table.Render()
}

// PrintBatchReport prints one row per capture of a batch run and a totals line.
func PrintBatchReport(w io.Writer, rep *batch.Report) {
	table := newTable(w)
	table.Header("CAPTURE", "STATUS", "HASH", "GAME", "FRAMES", "DRIFTED", "TOOK")
	for _, o := range rep.Outcomes {
		status, game, frames, drifted := "ok", "", "", ""
		switch {
		case o.Err != nil:
			status = "FAILED"
		case o.Cached:
			status = "cached"
		default:
			game = o.Result.Summary.GameURN
			frames = strconv.Itoa(o.Result.Summary.FrameCount)
			drifted = strconv.Itoa(o.Result.Merge.Drifted)
		}
		table.Append(o.Dir, status, shortHash(o.Hash), game, frames, drifted, o.Took.Round(time.Millisecond).String())
	}
	table.Render()
	fmt.Fprintf(w, "\nRun %s: %d ok, %d cached, %d failed\n", rep.RunID, rep.OK, rep.Cached, rep.Failed)
	for _, o := range rep.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", o.Dir, o.Err)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-lol-metrics/internal/model"
	"github.com/pable/go-lol-metrics/internal/report"
	"github.com/pable/go-lol-metrics/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
	cLead     = color.New(color.FgGreen)
	cTrail    = color.New(color.FgRed)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("lolmetrics shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("lolmetrics")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "schema":
			cMuted.Println(schemaHelp)
		case "list":
			shellList(db)
		case "show":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix> [--team <urn>]")
				continue
			}
			team := ""
			for i := 1; i+1 < len(args); i++ {
				if args[i] == "--team" {
					team = args[i+1]
				}
			}
			shellShow(db, args[0], team)
		case "gold":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: gold <hash-prefix>")
				continue
			}
			shellGold(db, args[0])
		case "sql":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: sql <query>")
				continue
			}
			if err := querySQL(db, strings.TrimSpace(strings.TrimPrefix(line, "sql"))); err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", cmd)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored matches"},
		{"show <hash-prefix>", "show a match's team results"},
		{"show <hash-prefix> --team <urn>", "same, highlighting one team"},
		{"gold <hash-prefix>", "per-minute gold lead, coloured by leader"},
		{"sql <query>", "run a raw SQL query"},
		{"schema", "list tables and columns"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	matches, err := db.ListMatches()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(matches) == 0 {
		cMuted.Println("No matches stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%-14s  %-28s  %-22s  %6s  %s\n",
		"HASH", "GAME", "START", "LENGTH", "FRAMES")
	cMuted.Fprintf(os.Stdout, "%-14s  %-28s  %-22s  %6s  %s\n",
		"──────────────", "────────────────────────────", "──────────────────────", "──────", "──────")
	for _, m := range matches {
		fmt.Fprintf(os.Stdout, "%-14s  %-28s  %-22s  %6s  %d\n",
			m.MatchHash[:12], m.GameURN, m.StartTime, m.DurationString(), m.FrameCount)
	}
}

func shellShow(db *storage.DB, prefix, team string) {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if match == nil {
		cWarn.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
		return
	}
	roster, err := db.GetPlayers(match.MatchHash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	results, err := db.GetTeamResults(match.MatchHash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintRoster(os.Stdout, roster)
	report.PrintTeamTable(os.Stdout, results, team)
	report.PrintObjectiveTable(os.Stdout, results)
}

func shellGold(db *storage.DB, prefix string) {
	match, err := db.GetMatchByPrefix(prefix)
	if err != nil || match == nil {
		cWarn.Fprintf(os.Stderr, "no match found with prefix %q\n", prefix)
		return
	}
	rows, err := db.GetTeamFrames(match.MatchHash)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	points := report.GoldCurve(rows)
	if len(points) == 0 {
		cMuted.Println("No team frames stored for this match.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%5s  %6s  %8s\n", "MIN", "TIME", "DIFF")
	for _, p := range points {
		c := cMuted
		switch {
		case p.Diff > 0:
			c = cLead
		case p.Diff < 0:
			c = cTrail
		}
		fmt.Fprintf(os.Stdout, "%5d  %6s  ", p.Minute, model.FormatGameTime(p.Tick))
		c.Fprintf(os.Stdout, "%+8d\n", p.Diff)
	}
}

// Package main provides oddsctl, a command line client for one-shot
// schedule, odds and board lookups against the upstream feeds.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/oddsboard/internal/board"
	"github.com/yourusername/oddsboard/internal/config"
	"github.com/yourusername/oddsboard/internal/logger"
	"github.com/yourusername/oddsboard/internal/models"
	"github.com/yourusername/oddsboard/internal/odds"
	"github.com/yourusername/oddsboard/internal/provider"
)

var (
	configFile string
	leagueFlag string
	dateFlag   string
	jsonOut    bool

	appLog *logrus.Logger
	cfg    *config.Config
	boards *board.Service
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&leagueFlag, "league", "l", "MLB", "League to query")
	rootCmd.PersistentFlags().StringVarP(&dateFlag, "date", "d", "", "Date as YYYY-MM-DD (default today UTC)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Emit raw JSON")

	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(boardCmd)
}

var rootCmd = &cobra.Command{
	Use:   "oddsctl",
	Short: "Query league schedules, vendor odds and the resolved board",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		appLog = logger.NewLogger("warn", cfg.App.Environment)
		factory := provider.NewFactory(cfg, appLog)
		httpClient := factory.NewHTTPClient()
		boards = board.NewService(cfg, appLog, factory.ScheduleSources(httpClient), factory.OddsSources(httpClient), nil)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func queryArgs() (models.League, time.Time, error) {
	league, ok := models.ParseLeague(leagueFlag)
	if !ok {
		return "", time.Time{}, fmt.Errorf("unknown league %q", leagueFlag)
	}
	date := time.Now().UTC()
	if dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", dateFlag)
		if err != nil {
			return "", time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
		date = parsed
	}
	return league, date, nil
}

func fetchSnapshot() (*board.Snapshot, error) {
	league, date, err := queryArgs()
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return boards.Refresh(ctx, league, date)
}

func emitJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the league schedule for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := fetchSnapshot()
		if err != nil {
			return err
		}
		if jsonOut {
			return emitJSON(snap.Schedule)
		}
		fmt.Printf("%s schedule for %s (%d games)\n", snap.League, snap.Date, len(snap.Schedule))
		for _, g := range snap.Schedule {
			fmt.Printf("  %s  %s at %s", g.StartUTC.Format("15:04"), g.Away, g.Home)
			if g.Venue != "" {
				fmt.Printf("  (%s)", g.Venue)
			}
			fmt.Println()
		}
		return nil
	},
}

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Print the merged raw odds rows for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := fetchSnapshot()
		if err != nil {
			return err
		}
		if jsonOut {
			return emitJSON(snap.OddsRows)
		}
		fmt.Printf("%s odds for %s (%d rows)\n", snap.League, snap.Date, len(snap.OddsRows))
		for _, row := range snap.OddsRows {
			fmt.Printf("  %s at %s: %d book(s)\n", row.Away, row.Home, len(row.Books))
		}
		return nil
	},
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print the resolved board for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := fetchSnapshot()
		if err != nil {
			return err
		}
		if jsonOut {
			return emitJSON(snap)
		}
		fmt.Printf("%s board for %s (%d rows)\n", snap.League, snap.Date, len(snap.Rows))
		for _, row := range snap.Rows {
			fmt.Printf("  %s at %s", row.Game.Away, row.Game.Home)
			if !row.HasOdds {
				fmt.Println("  [no odds]")
				continue
			}
			fmt.Println()
			printMarket("moneyline", row.Moneyline)
			printMarket("spread", row.Spread)
			printMarket("total", row.Total)
			if row.MarketProb != nil {
				fmt.Printf("    market prob: home %.1f%%  away %.1f%%\n",
					row.MarketProb.Home*100, row.MarketProb.Away*100)
			}
		}
		return nil
	},
}

func printMarket(name string, m *models.MarketQuotes) {
	if m == nil {
		return
	}
	fmt.Printf("    %s: best %s / %s", name, formatQuote(m.BestA), formatQuote(m.BestB))
	if m.ConsensusA != nil || m.ConsensusB != nil {
		fmt.Printf("  consensus %s / %s", formatQuote(m.ConsensusA), formatQuote(m.ConsensusB))
	}
	fmt.Println()
}

func formatQuote(q *models.Quote) string {
	if q == nil {
		return "—"
	}
	price := fmt.Sprintf("%+d", q.Price)
	if dec, ok := odds.DecimalOdds(q.Price); ok {
		price = fmt.Sprintf("%+d/%.2f", q.Price, dec)
	}
	if q.Point != nil {
		return fmt.Sprintf("%s %s (%s)", q.FormatPoint(), price, q.Book)
	}
	return fmt.Sprintf("%s (%s)", price, q.Book)
}

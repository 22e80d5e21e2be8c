package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/registry"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagClear bool
	flagLimit int
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top scores of a variant, or a summary of every variant
when none is given.

Examples:
  t2048 scores
  t2048 scores 2048
  t2048 scores 2048_5x5 --limit 20
  t2048 scores 2048 --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the scores of the variant")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagClear {
			return fmt.Errorf("--clear needs a variant")
		}
		return printSummary(store)
	}

	gameID := args[0]
	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown variant %q, run 't2048 list' to see them", gameID)
	}

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			return err
		}
		fmt.Printf("Cleared scores for %s\n", gameID)
		return nil
	}

	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", gameID)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 't2048 play %s' to set the first high score!\n", gameID)
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "Rank", "Score", "Max", "Moves", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %s\n", "----", "-----", "---", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %-8d  %-6d  %s\n",
			i+1, entry.Score, entry.MaxTile, entry.Moves, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	// The best score slot also counts games abandoned before game over.
	if best, err := store.BestScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	if high, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best finished game: %d\n", high)
	}
	return nil
}

func printSummary(store *storage.Store) error {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Println("No games played yet.")
		return nil
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-10s  %-6s  %-8s  %-6s  %-8s  %s\n", "Variant", "Games", "Best", "Tile", "Avg", "Last played")
	fmt.Printf("  %-10s  %-6s  %-8s  %-6s  %-8s  %s\n", "-------", "-----", "----", "----", "---", "-----------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-10s  %-6d  %-8d  %-6d  %-8.0f  %s\n",
			id, s.GamesCount, s.HighScore, s.BestTile, s.AvgScore, s.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

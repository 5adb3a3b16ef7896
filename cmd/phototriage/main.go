package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ekinoz/phototriage/internal/config"
	"github.com/ekinoz/phototriage/internal/gallery"
	"github.com/ekinoz/phototriage/internal/log"
	"github.com/ekinoz/phototriage/internal/medialib"
	"github.com/ekinoz/phototriage/internal/review"
	"github.com/ekinoz/phototriage/internal/store"
	"github.com/ekinoz/phototriage/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	var clearCache bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&clearCache, "clear-cache", false, "wipe the listing cache and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("phototriage %s\n", Version)
		return
	}

	if err := run(clearCache); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(clearCache bool) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if clearCache {
		if err := config.ClearCache(cfg); err != nil {
			return err
		}
		fmt.Println("cache cleared")
		return nil
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting phototriage", "version", Version)

	// First run: ask where the media lives
	if len(cfg.Library.Roots) == 0 {
		if err := runSetupFlow(cfg); err != nil {
			return err
		}
	}

	// Listing cache
	listings, err := store.NewListingStore(cfg.Library.CacheDir)
	if err != nil {
		logger.Warn("cache unavailable, continuing in memory", "error", err)
		listings, _ = store.NewListingStore("")
	}
	defer listings.Close()

	// Media library over the configured roots
	lib := medialib.NewLibrary(cfg.Library.Roots, cfg.Library.CacheDir, cfg.Tools.FFmpeg, cfg.Tools.FFprobe, logger)

	// Services
	gallerySvc := gallery.NewService(lib, listings, logger)
	queries := gallery.NewQueries(listings)
	committer := review.NewCommitter(lib, func(albumID string) {
		lib.Invalidate()
		gallerySvc.InvalidateAlbum(albumID)
	}, logger)

	// TUI
	model := tui.New(tui.Deps{
		Gallery:   gallerySvc,
		Queries:   queries,
		Media:     lib,
		Gate:      lib,
		Committer: committer,
		Config:    cfg,
		Logger:    logger,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow prompts for library roots on first run
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to phototriage!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	home, _ := os.UserHomeDir()
	suggestion := filepath.Join(home, "Pictures")

	for {
		fmt.Printf("Where does your media live? [%s]: ", suggestion)
		input, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
		root := strings.TrimSpace(input)
		if root == "" {
			root = suggestion
		}
		if strings.HasPrefix(root, "~") {
			root = filepath.Join(home, root[1:])
		}

		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			fmt.Printf("✗ %s is not a readable directory. Please try again.\n\n", root)
			continue
		}

		cfg.Library.Roots = []string{root}
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	return nil
}

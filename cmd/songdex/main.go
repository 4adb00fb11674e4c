/*
Songdex
Copyright (c) 2026 The Songdex Contributors.

This file is part of Songdex.

Songdex is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Songdex is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Songdex.  If not, see <http://www.gnu.org/licenses/>.
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/songdex/songdex-core/pkg/config"
	"github.com/songdex/songdex-core/pkg/database"
	"github.com/songdex/songdex-core/pkg/helpers"
	"github.com/songdex/songdex-core/pkg/index"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	musicDir := flag.String(
		"root",
		"",
		"set the music directory (persisted in config)",
	)
	doScan := flag.Bool(
		"scan",
		false,
		"reconcile the index with the music directory and exit",
	)
	doWatch := flag.Bool(
		"watch",
		false,
		"scan, then keep the index updated until interrupted",
	)
	query := flag.String(
		"query",
		"",
		"search text matched against title, artist and filename",
	)
	tagFilter := flag.String(
		"tags",
		"",
		"comma-separated category:value tag filters",
	)
	sortFlag := flag.String(
		"sort",
		"title",
		"sort order: title, artist, recent or untagged",
	)
	audioOnly := flag.Bool(
		"audio-only",
		false,
		"only list songs with a companion audio file",
	)
	untagged := flag.Bool(
		"untagged",
		false,
		"only list songs without manual tags",
	)
	listTags := flag.Bool(
		"list-tags",
		false,
		"list all tags grouped by category and exit",
	)
	doStats := flag.Bool(
		"stats",
		false,
		"show index statistics and exit",
	)
	doVacuum := flag.Bool(
		"vacuum",
		false,
		"compact the index database and exit",
	)
	debug := flag.Bool(
		"debug",
		false,
		"enable debug logging to stderr",
	)
	showVersion := flag.Bool(
		"version",
		false,
		"print version and exit",
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s v%s\n", config.AppName, config.AppVersion)
		return nil
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	var logWriters []io.Writer
	if *debug {
		logWriters = append(logWriters, os.Stderr)
	}
	err = helpers.InitLogging(
		helpers.DataDir(), config.LogFile,
		*debug || cfg.DebugLogging(), logWriters,
	)
	if err != nil {
		return fmt.Errorf("error setting up logging: %w", err)
	}

	if *musicDir != "" {
		if err := cfg.SetMusicDir(*musicDir); err != nil {
			return fmt.Errorf("error saving music dir: %w", err)
		}
	}
	root := cfg.MusicDir()
	if root == "" {
		return errors.New("no music directory configured, pass -root")
	}
	if info, statErr := os.Stat(root); statErr != nil || !info.IsDir() {
		return fmt.Errorf("music directory does not exist: %s", root)
	}

	ctx := context.Background()
	idx, err := index.Open(ctx, filepath.Join(helpers.DataDir(), config.SongDbFile), root)
	if err != nil {
		return fmt.Errorf("error opening index: %w", err)
	}
	defer func() {
		if closeErr := idx.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing index")
		}
	}()

	switch {
	case *doStats:
		return printStats(ctx, idx)
	case *listTags:
		return printTagGroups(ctx, idx)
	case *doVacuum:
		if err := idx.Vacuum(); err != nil {
			return fmt.Errorf("vacuum failed: %w", err)
		}
		fmt.Println("Database compacted")
		return nil
	case *doScan:
		return runScan(ctx, idx)
	case *doWatch:
		return runWatch(ctx, idx)
	default:
		return printSongs(ctx, idx, *query, *tagFilter, *sortFlag, *audioOnly, *untagged)
	}
}

func runScan(ctx context.Context, idx *index.Index) error {
	res, err := idx.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	fmt.Printf(
		"Scan complete: %d added, %d kept, %d removed, %d orphan tags removed\n",
		res.Added, res.Kept, res.Removed, res.OrphansRemoved,
	)
	return nil
}

func runWatch(ctx context.Context, idx *index.Index) error {
	if err := runScan(ctx, idx); err != nil {
		return err
	}
	if err := idx.StartWatch(); err != nil {
		return fmt.Errorf("error starting watcher: %w", err)
	}
	fmt.Println("Watching for changes, press Ctrl-C to stop")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	return nil
}

func printStats(ctx context.Context, idx *index.Index) error {
	stats, err := idx.Stats(ctx)
	if err != nil {
		return fmt.Errorf("error reading stats: %w", err)
	}
	fmt.Printf("Songs:      %d\n", stats.TotalSongs)
	fmt.Printf("With audio: %d\n", stats.SongsWithAudio)
	fmt.Printf("Untagged:   %d\n", stats.UntaggedSongs)
	return nil
}

func printTagGroups(ctx context.Context, idx *index.Index) error {
	groups, err := idx.ListTagGroups(ctx)
	if err != nil {
		return fmt.Errorf("error listing tags: %w", err)
	}
	for _, group := range groups {
		fmt.Printf("%s:\n", database.CategoryLabel(group.Category))
		for _, tag := range group.Tags {
			fmt.Printf("  %s (%d)\n", tag.Value, tag.Count)
		}
	}
	return nil
}

func printSongs(
	ctx context.Context, idx *index.Index,
	query, tagFilter, sortFlag string, audioOnly, untagged bool,
) error {
	tagIDs, err := resolveTagFilters(ctx, idx, tagFilter)
	if err != nil {
		return err
	}

	songs, err := idx.Query(ctx, database.SongQuery{
		Search:       query,
		TagIDs:       tagIDs,
		Sort:         database.ParseSortMode(sortFlag),
		HasAudioOnly: audioOnly,
		UntaggedOnly: untagged,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	for _, song := range songs {
		line := song.Title
		if song.Artist != "" {
			line = song.Artist + " - " + song.Title
		}
		if song.HasAudio {
			line += " [audio]"
		}
		fmt.Println(line)
	}
	fmt.Printf("%d songs\n", len(songs))
	return nil
}

// resolveTagFilters turns "category:value,category:value" into tag ids.
// Unknown tags are an error so typos do not silently match nothing.
func resolveTagFilters(ctx context.Context, idx *index.Index, arg string) ([]int64, error) {
	if arg == "" {
		return nil, nil
	}

	groups, err := idx.ListTagGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing tags: %w", err)
	}
	byName := make(map[string]int64)
	for _, group := range groups {
		for _, tag := range group.Tags {
			byName[group.Category+":"+tag.Value] = tag.DBID
		}
	}

	var ids []int64
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, ok := byName[part]
		if !ok {
			return nil, fmt.Errorf("unknown tag: %s", part)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

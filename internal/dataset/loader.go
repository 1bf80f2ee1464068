// MovieRec - Movie Recommendation Service
// Copyright 2026 Le Q. Khai (LeQKhai)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/LeQKhai/MovieRec

package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/LeQKhai/MovieRec/internal/logging"
	"github.com/LeQKhai/MovieRec/internal/textutil"
)

// File names expected inside the data directory.
const (
	MoviesFile  = "movies.csv"
	RatingsFile = "ratings.csv"
	LinksFile   = "links.csv"
	TagsFile    = "tags.csv"
)

// Load reads the four CSV tables from dir. Titles are article-normalized and
// tag text is encoding-repaired during the read, so callers always see clean
// rows. A missing required column aborts the load with a *SchemaError.
func Load(dir string) (*Tables, error) {
	start := time.Now()

	tables := &Tables{}
	files := []struct {
		name string
		read func(io.Reader) error
	}{
		{MoviesFile, func(r io.Reader) (err error) { tables.Movies, err = ReadMovies(r); return }},
		{RatingsFile, func(r io.Reader) (err error) { tables.Ratings, err = ReadRatings(r); return }},
		{LinksFile, func(r io.Reader) (err error) { tables.Links, err = ReadLinks(r); return }},
		{TagsFile, func(r io.Reader) (err error) { tables.Tags, err = ReadTags(r); return }},
	}

	for _, f := range files {
		if err := loadFile(filepath.Join(dir, f.name), f.read); err != nil {
			return nil, err
		}
	}

	logging.Info().
		Str("component", "dataset").
		Int("movies", len(tables.Movies)).
		Int("ratings", len(tables.Ratings)).
		Int("links", len(tables.Links)).
		Int("tags", len(tables.Tags)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("dataset loaded")

	return tables, nil
}

func loadFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := read(f); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

// header maps column names to their positions in the CSV header row.
type header map[string]int

func readHeader(table string, rec []string, required []string) (header, error) {
	h := make(header, len(rec))
	for i, name := range rec {
		h[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, &SchemaError{Table: table, Column: col}
		}
	}
	return h, nil
}

func (h header) get(rec []string, col string) string {
	i := h[col]
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

// ReadMovies parses the movies table from r.
func ReadMovies(r io.Reader) ([]MovieRow, error) {
	var rows []MovieRow
	err := readCSV(r, "movies", movieColumns, func(h header, rec []string, line int) error {
		id, err := strconv.Atoi(h.get(rec, "movieId"))
		if err != nil {
			return fmt.Errorf("line %d: movieId: %w", line, err)
		}
		rows = append(rows, MovieRow{
			MovieID: id,
			Title:   textutil.FixTitle(h.get(rec, "title")),
			Genres:  h.get(rec, "genres"),
		})
		return nil
	})
	return rows, err
}

// ReadRatings parses the ratings table from r.
func ReadRatings(r io.Reader) ([]RatingRow, error) {
	var rows []RatingRow
	err := readCSV(r, "ratings", ratingColumns, func(h header, rec []string, line int) error {
		userID, err := strconv.Atoi(h.get(rec, "userId"))
		if err != nil {
			return fmt.Errorf("line %d: userId: %w", line, err)
		}
		movieID, err := strconv.Atoi(h.get(rec, "movieId"))
		if err != nil {
			return fmt.Errorf("line %d: movieId: %w", line, err)
		}
		rating, err := strconv.ParseFloat(h.get(rec, "rating"), 64)
		if err != nil {
			return fmt.Errorf("line %d: rating: %w", line, err)
		}
		rows = append(rows, RatingRow{UserID: userID, MovieID: movieID, Rating: rating})
		return nil
	})
	return rows, err
}

// ReadLinks parses the links table from r. Empty tmdbId cells are kept as
// rows with HasTMDB false so the left join downstream stays explicit.
func ReadLinks(r io.Reader) ([]LinkRow, error) {
	var rows []LinkRow
	err := readCSV(r, "links", linkColumns, func(h header, rec []string, line int) error {
		movieID, err := strconv.Atoi(h.get(rec, "movieId"))
		if err != nil {
			return fmt.Errorf("line %d: movieId: %w", line, err)
		}
		row := LinkRow{MovieID: movieID}
		if raw := strings.TrimSpace(h.get(rec, "tmdbId")); raw != "" {
			tmdbID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return fmt.Errorf("line %d: tmdbId: %w", line, err)
			}
			row.TMDBID = tmdbID
			row.HasTMDB = true
		}
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// ReadTags parses the tags table from r, repairing tag text as it goes.
func ReadTags(r io.Reader) ([]TagRow, error) {
	var rows []TagRow
	err := readCSV(r, "tags", tagColumns, func(h header, rec []string, line int) error {
		userID, err := strconv.Atoi(h.get(rec, "userId"))
		if err != nil {
			return fmt.Errorf("line %d: userId: %w", line, err)
		}
		movieID, err := strconv.Atoi(h.get(rec, "movieId"))
		if err != nil {
			return fmt.Errorf("line %d: movieId: %w", line, err)
		}
		rows = append(rows, TagRow{
			UserID:  userID,
			MovieID: movieID,
			Tag:     textutil.RepairText(h.get(rec, "tag")),
		})
		return nil
	})
	return rows, err
}

// readCSV drives the per-record parse function over a CSV stream.
func readCSV(r io.Reader, table string, required []string, parse func(header, []string, int) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows handled by header.get

	first, err := reader.Read()
	if err == io.EOF {
		return &SchemaError{Table: table, Column: required[0]}
	}
	if err != nil {
		return fmt.Errorf("%s header: %w", table, err)
	}

	h, err := readHeader(table, first, required)
	if err != nil {
		return err
	}

	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
		if err := parse(h, rec, line); err != nil {
			return fmt.Errorf("%s: %w", table, err)
		}
	}
}

// Package report serializes ladder standings into CSV reports for
// downstream tooling.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/obstacle-ladder/internal/domain"
)

var playerHeader = []string{"id", "login", "name", "score"}

var mapHeader = []string{
	"id", "name", "score", "average_score",
	"min_record", "max_record", "average_record", "median_record",
	"records_count",
}

// WritePlayerReport writes the player standings as CSV rows, one per player
// with at least one scored record, in the order given
func WritePlayerReport(w io.Writer, players []domain.PlayerStanding) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(playerHeader); err != nil {
		return fmt.Errorf("writing player report header: %w", err)
	}
	for _, p := range players {
		row := []string{
			strconv.FormatInt(p.PlayerID, 10),
			p.Login,
			p.Name,
			formatFloat(p.Score),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing player row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing player report: %w", err)
	}
	return nil
}

// WriteMapReport writes the map standings as CSV rows, one per map with at
// least one record, in the order given
func WriteMapReport(w io.Writer, maps []domain.MapStanding) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(mapHeader); err != nil {
		return fmt.Errorf("writing map report header: %w", err)
	}
	for _, m := range maps {
		row := []string{
			strconv.FormatInt(m.MapID, 10),
			m.Name,
			formatFloat(m.Score),
			formatFloat(m.AverageScore),
			formatFloat(m.MinRecord),
			formatFloat(m.MaxRecord),
			formatFloat(m.AverageRecord),
			formatFloat(m.MedianRecord),
			strconv.Itoa(m.RecordsCount),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing map row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing map report: %w", err)
	}
	return nil
}

// WriteReports writes both reports to the given file paths. There is no
// temp-file-plus-rename: a failed run may leave a partial file behind, and the
// caller treats any error here as fatal.
func WriteReports(ladder *domain.Ladder, playersPath, mapsPath string) error {
	if err := writeFile(playersPath, func(w io.Writer) error {
		return WritePlayerReport(w, ladder.Players)
	}); err != nil {
		return err
	}
	return writeFile(mapsPath, func(w io.Writer) error {
		return WriteMapReport(w, ladder.Maps)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing report file: %w", err)
	}
	return nil
}

// formatFloat renders a score or time in the shortest form that round-trips
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

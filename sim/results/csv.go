package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

var seasonHeader = []string{
	"run_id", "replication", "season", "team", "budget", "payroll", "skill", "revenue",
	"wins", "losses", "rank", "eliminated_rs", "eliminated_pp", "eliminated_round",
	"champion", "bankrupt", "shortfall", "valid",
}

var salaryHeader = []string{
	"run_id", "replication", "season", "count", "min", "mean", "median", "max",
}

// WriteSeasonCSV writes season rows with a header line.
func WriteSeasonCSV(w io.Writer, rows []SeasonRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(seasonHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.RunID, strconv.Itoa(r.Replication), strconv.Itoa(r.Season), r.Team,
			ftoa(r.Budget), ftoa(r.Payroll), ftoa(r.Skill), ftoa(r.Revenue),
			strconv.Itoa(r.Wins), strconv.Itoa(r.Losses), strconv.Itoa(r.Rank),
			btoa(r.EliminatedRS), btoa(r.EliminatedPP), strconv.Itoa(r.EliminatedIn),
			btoa(r.Champion), btoa(r.Bankrupt), strconv.Itoa(r.Shortfall), btoa(r.Valid),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSalaryCSV writes salary summary rows with a header line.
func WriteSalaryCSV(w io.Writer, rows []SalaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salaryHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.RunID, strconv.Itoa(r.Replication), strconv.Itoa(r.Season), strconv.Itoa(r.Count),
			ftoa(r.Min), ftoa(r.Mean), ftoa(r.Median), ftoa(r.Max),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveCSV creates path and writes rows into it with write.
func SaveCSV[T any](path string, rows []T, write func(io.Writer, []T) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := write(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func btoa(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

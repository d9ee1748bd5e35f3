// Package export builds the downloadable CSV documents. The field layout is
// fixed by the files users already have on disk: fields joined with ", ",
// rows joined with newlines, no quoting or delimiter escaping.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"siplog/internal/entity/user"
)

const (
	userHeader = "Date, Time, Amount (ml)"
	allHeader  = "User ID, Date, Time, Amount (ml)"

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"

	fieldSep = ", "

	AllUsers = "all_users"
)

type usersStorage interface {
	LoadUsers() (user.Document, error)
}

type config interface {
	AmountPrecision() int
}

// File is one ready-to-save export: a suggested filename plus the document
// content.
type File struct {
	Name    string
	Content string
}

// Exporter reads the users document from storage and renders it into the CSV
// formats. It is independent of the aggregation layer.
type Exporter struct {
	storage   usersStorage
	precision int
}

func New(cfg config, storage usersStorage) *Exporter {
	return &Exporter{
		storage:   storage,
		precision: cfg.AmountPrecision(),
	}
}

// ExportUser renders the records of a single user. The filename embeds the
// user ID and the export date.
func (e *Exporter) ExportUser(id string, now time.Time) (File, error) {
	doc, err := e.storage.LoadUsers()
	if err != nil {
		return File{}, errors.Wrap(err, "export user")
	}
	records, ok := doc.Get(id)
	if !ok {
		return File{}, errors.Errorf("export user: unknown user %q", id)
	}

	rows := make([]string, 0, len(records)+3)
	rows = append(rows, userHeader)
	for _, rec := range records {
		rows = append(rows, strings.Join([]string{
			rec.Created.Format(dateLayout),
			rec.Created.Format(timeLayout),
			e.formatAmount(rec.Amount),
		}, fieldSep))
	}
	rows = append(rows, "")
	rows = append(rows, strings.Join([]string{
		"Total Consumption", "", formatTotal(totalOf(records)),
	}, fieldSep))

	return File{
		Name:    FileName(id, now),
		Content: strings.Join(rows, "\n"),
	}, nil
}

// ExportAll renders every user that has at least one record, in document
// insertion order, with a per-user total after each block and a grand total
// at the end. Users with empty record lists are skipped entirely.
func (e *Exporter) ExportAll(now time.Time) (File, error) {
	doc, err := e.storage.LoadUsers()
	if err != nil {
		return File{}, errors.Wrap(err, "export all")
	}

	rows := []string{allHeader}
	grandTotal := 0.0
	for _, id := range doc.IDs() {
		records, _ := doc.Get(id)
		if len(records) == 0 {
			continue
		}
		for _, rec := range records {
			rows = append(rows, strings.Join([]string{
				id,
				rec.Created.Format(dateLayout),
				rec.Created.Format(timeLayout),
				e.formatAmount(rec.Amount),
			}, fieldSep))
		}
		total := totalOf(records)
		grandTotal += total
		rows = append(rows, "")
		rows = append(rows, strings.Join([]string{
			"Total for " + id, "", "", formatTotal(total),
		}, fieldSep))
		rows = append(rows, "")
	}
	rows = append(rows, strings.Join([]string{
		"Grand Total", "", "", formatTotal(grandTotal),
	}, fieldSep))

	return File{
		Name:    FileName(AllUsers, now),
		Content: strings.Join(rows, "\n"),
	}, nil
}

func (e *Exporter) formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', e.precision, 64)
}

// Totals are always rendered with one decimal, in both precision modes.
func formatTotal(total float64) string {
	return fmt.Sprintf("%.1f ml", total)
}

func totalOf(records []user.Record) float64 {
	total := 0.0
	for _, rec := range records {
		total += rec.Amount
	}
	return total
}

// FileName is the download name convention: subject (user ID or all_users)
// plus the export date.
func FileName(subject string, now time.Time) string {
	return fmt.Sprintf("consumption_%s_%s.csv", subject, now.Format(dateLayout))
}

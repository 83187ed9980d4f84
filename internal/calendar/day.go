package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Day holds the entries of one calendar date, split by category group.
type Day struct {
	Date             time.Time `json:"date"`
	Payments         []Entry   `json:"payments"`
	UnpaidLessons    []Entry   `json:"unpaid_lessons"`
	ExpiredPackages  []Entry   `json:"expired_packages"`
	ExpiringPackages []Entry   `json:"expiring_packages"`
}

// Label is a short student name shown on a calendar cell.
type Label struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

// Entries returns the entries visible in a mode. Owed entries list expired
// and expiring packages before unpaid lessons.
func (d Day) Entries(mode ViewMode) []Entry {
	if mode == ModeUnpaid {
		entries := make([]Entry, 0, len(d.ExpiredPackages)+len(d.ExpiringPackages)+len(d.UnpaidLessons))
		entries = append(entries, d.ExpiredPackages...)
		entries = append(entries, d.ExpiringPackages...)
		return append(entries, d.UnpaidLessons...)
	}
	return append([]Entry(nil), d.Payments...)
}

func (d Day) Empty() bool {
	return len(d.Payments) == 0 && len(d.UnpaidLessons) == 0 &&
		len(d.ExpiredPackages) == 0 && len(d.ExpiringPackages) == 0
}

func (d Day) Total(mode ViewMode) decimal.Decimal {
	total := decimal.Zero
	for _, e := range d.Entries(mode) {
		total = total.Add(e.Amount)
	}
	return total
}

// Caption counts every category of the day whatever the mode, e.g.
// "1 pagamento - 1 lezione non pagata". Empty when the day has no entries.
func (d Day) Caption() string {
	var parts []string
	for _, s := range []string{
		plural(len(d.Payments), "pagamento", "pagamenti"),
		plural(len(d.UnpaidLessons), "lezione non pagata", "lezioni non pagate"),
		plural(len(d.ExpiredPackages), "pacchetto scaduto", "pacchetti scaduti"),
		plural(len(d.ExpiringPackages), "pacchetto in scadenza", "pacchetti in scadenza"),
	} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

func plural(n int, one, many string) string {
	switch n {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("1 %s", one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// Labels returns one label per distinct short name in Italian alphabetical
// order. When a student appears in several categories the package one wins.
func (d Day) Labels(mode ViewMode) []Label {
	byName := make(map[string]Label)
	for _, e := range d.Entries(mode) {
		current, seen := byName[e.Label]
		if !seen || labelRank(e.Category) < labelRank(current.Category) {
			byName[e.Label] = Label{Name: e.Label, Category: e.Category}
		}
	}

	labels := make([]Label, 0, len(byName))
	for _, label := range byName {
		labels = append(labels, label)
	}
	// collators keep state and are not safe to share
	c := collate.New(language.Italian)
	sort.Slice(labels, func(i, j int) bool {
		return c.CompareString(labels[i].Name, labels[j].Name) < 0
	})
	return labels
}

func labelRank(c Category) int {
	switch c {
	case CategoryPackagePayment, CategoryExpiredPackage, CategoryExpiringPackage:
		return 0
	}
	return 1
}

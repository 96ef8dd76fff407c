// Package loader reads the raw Meta Ads exports for a client: the
// 30-day and 7-day windows plus any monthly history files, in xlsx or
// csv form, with dirty-export tolerance built in.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/adscope/meta-ads-monitor/internal/config"
	"github.com/adscope/meta-ads-monitor/internal/domain"
	"github.com/adscope/meta-ads-monitor/internal/pkg/logger"
)

// ClientData is everything the raw directory holds for one client.
type ClientData struct {
	Client     string
	Primary    *domain.AdSet // 30-day window, always present
	Secondary  *domain.AdSet // 7-day window, nil when not exported
	Historical []domain.Ad   // monthly rows, Period set per row
}

// FileKind classifies a raw export by its filename.
type FileKind string

const (
	Kind30d   FileKind = "30d"
	Kind7d    FileKind = "7d"
	KindMonth FileKind = "month"
	KindOther FileKind = "other"
)

var (
	re30d   = regexp.MustCompile(`[-_]30d\b`)
	re7d    = regexp.MustCompile(`[-_]7d\b`)
	reMonth = regexp.MustCompile(`[-_](ene|feb|mar|abr|may|jun|jul|ago|sep|oct|nov|dic)\b`)
)

// DetectKind classifies a filename and returns its period label: the
// window name for 30d/7d files, the month token for history files.
func DetectKind(filename string) (FileKind, string) {
	lower := strings.ToLower(filepath.Base(filename))
	if re30d.MatchString(lower) {
		return Kind30d, "30d"
	}
	if re7d.MatchString(lower) {
		return Kind7d, "7d"
	}
	if m := reMonth.FindStringSubmatch(lower); m != nil {
		return KindMonth, m[1]
	}
	return KindOther, ""
}

// managerFor tags rows by the account manager encoded in the filename.
func managerFor(filename string) string {
	if strings.Contains(strings.ToLower(filepath.Base(filename)), "ian") {
		return "Ian"
	}
	return "General"
}

// Loader reads raw exports from the configured raw directory.
type Loader struct {
	rawDir string
}

// New creates a loader over the configured raw directory.
func New(cfg *config.Config) *Loader {
	return &Loader{rawDir: cfg.Dirs.RawDir}
}

// Clients scans the raw directory and returns the distinct client
// prefixes, upper-cased and sorted. The client is the first token of
// the filename before a dash or underscore; tokens of 2 characters or
// fewer are ignored as noise.
func (l *Loader) Clients() ([]string, error) {
	entries, err := os.ReadDir(l.rawDir)
	if err != nil {
		return nil, fmt.Errorf("reading raw directory: %w", err)
	}

	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() || !isDataFile(entry.Name()) {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		token := regexp.MustCompile(`[-_]`).Split(base, 2)[0]
		client := strings.ToUpper(strings.TrimSpace(token))
		if len(client) > 2 {
			seen[client] = true
		}
	}

	clients := make([]string, 0, len(seen))
	for c := range seen {
		clients = append(clients, c)
	}
	sort.Strings(clients)
	return clients, nil
}

func isDataFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlxs", ".csv":
		return true
	}
	return false
}

// Load reads every file in the raw directory belonging to one client
// and splits them into the 30d window, the 7d window and the monthly
// history. A missing 30d file is an error; everything else is
// optional.
func (l *Loader) Load(client string) (*ClientData, error) {
	entries, err := os.ReadDir(l.rawDir)
	if err != nil {
		return nil, fmt.Errorf("reading raw directory: %w", err)
	}

	data := &ClientData{Client: client}
	needle := strings.ToLower(client)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !isDataFile(name) {
			continue
		}
		if !strings.Contains(strings.ToLower(name), needle) {
			continue
		}

		path := filepath.Join(l.rawDir, name)
		kind, period := DetectKind(name)

		ads, err := l.readFile(path)
		if err != nil {
			// One unreadable export must not sink the whole client.
			logger.Warn("skipping unreadable export", "file", name, "error", err.Error())
			continue
		}

		manager := managerFor(name)
		for i := range ads {
			ads[i].Manager = manager
		}

		// A client can split one window across files (one per manager);
		// rows from every matching file merge into the same window.
		switch kind {
		case Kind30d:
			if data.Primary == nil {
				data.Primary = &domain.AdSet{Client: client, Window: "30d"}
			}
			data.Primary.Ads = append(data.Primary.Ads, ads...)
		case Kind7d:
			if data.Secondary == nil {
				data.Secondary = &domain.AdSet{Client: client, Window: "7d"}
			}
			data.Secondary.Ads = append(data.Secondary.Ads, ads...)
		case KindMonth:
			for i := range ads {
				ads[i].Period = period
			}
			data.Historical = append(data.Historical, ads...)
		}
	}

	if data.Primary == nil {
		return nil, fmt.Errorf("client %s: no 30-day export found", client)
	}
	return data, nil
}

// readFile parses one export into ad rows.
func (l *Loader) readFile(path string) ([]domain.Ad, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		rows, err = readCSV(path)
	default:
		rows, err = readXLSX(path)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	idx := headerIndex(rows[0])
	ads := make([]domain.Ad, 0, len(rows)-1)

	for i, row := range rows[1:] {
		ad := domain.Ad{
			Spend:           numericCell(row, idx, "spend"),
			Results:         numericCell(row, idx, "results"),
			MsgInit:         numericCell(row, idx, "msg_init"),
			MsgContacts:     numericCell(row, idx, "msg_contacts"),
			LinkClicks:      numericCell(row, idx, "link_clicks"),
			IGProfile:       numericCell(row, idx, "ig_profile"),
			Leads:           numericCell(row, idx, "leads"),
			Purchases:       numericCell(row, idx, "purchases"),
			Interactions:    numericCell(row, idx, "interactions"),
			VideoViews:      numericCell(row, idx, "video_views"),
			ThruPlays:       numericCell(row, idx, "thruplay"),
			Reach:           numericCell(row, idx, "reach"),
			Impressions:     numericCell(row, idx, "impressions"),
			Frequency:       numericCell(row, idx, "frequency"),
			CTR:             numericCell(row, idx, "ctr"),
			CPC:             numericCell(row, idx, "cpc"),
			CPM:             numericCell(row, idx, "cpm"),
			CPL:             numericCell(row, idx, "cpl"),
			ROAS:            numericCell(row, idx, "roas"),
			ConversionValue: numericCell(row, idx, "conversion_value"),
		}

		if name, ok := cell(row, idx, "ad_name"); ok && strings.TrimSpace(name) != "" {
			ad.Name = strings.TrimSpace(name)
		} else {
			ad.Name = syntheticName(i)
		}
		if obj, ok := cell(row, idx, "objective"); ok {
			ad.DeclaredObjective = strings.TrimSpace(obj)
		}

		ads = append(ads, ad)
	}
	return ads, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	return rows, nil
}

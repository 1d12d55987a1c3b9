package ingest

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// Date column candidates, tried in priority order before falling back to
// any header containing "date".
var dateColumns = []string{
	"date", "Date", "DATE",
	"Round Date", "round date", "RoundDate",
	"Session Date", "session date", "SessionDate",
}

// Localized month tokens mapped to the canonical English abbreviation.
// Substitution is longest-match-first so "juillet" is never clipped by
// "juil".
var monthTokens = map[string]string{
	// French, full
	"janvier": "Jan", "février": "Feb", "fevrier": "Feb", "mars": "Mar",
	"avril": "Apr", "mai": "May", "juin": "Jun", "juillet": "Jul",
	"août": "Aug", "aout": "Aug", "septembre": "Sep", "octobre": "Oct",
	"novembre": "Nov", "décembre": "Dec", "decembre": "Dec",
	// French, abbreviated
	"janv.": "Jan", "janv": "Jan", "févr.": "Feb", "févr": "Feb",
	"fevr.": "Feb", "fevr": "Feb", "avr.": "Apr", "avr": "Apr",
	"juil.": "Jul", "juil": "Jul", "sept.": "Sep", "sept": "Sep",
	"oct.": "Oct", "nov.": "Nov", "déc.": "Dec", "déc": "Dec", "dec.": "Dec",
	// English, full (abbreviations are already what the layouts expect)
	"january": "Jan", "february": "Feb", "march": "Mar", "april": "Apr",
	"june": "Jun", "july": "Jul", "august": "Aug", "september": "Sep",
	"october": "Oct", "november": "Nov", "december": "Dec",
}

var weekdayRe = regexp.MustCompile(`(?i)^(lundi|mardi|mercredi|jeudi|vendredi|samedi|dimanche|monday|tuesday|wednesday|thursday|friday|saturday|sunday)[,\s]+`)

var parenRe = regexp.MustCompile(`\([^)]*\)`)

var spaceRe = regexp.MustCompile(`\s+`)

// dayMonthYearRe recovers "<day> <month token> <year>" out of strings the
// fixed layouts reject, e.g. "le 3 mars 2025 tapis".
var dayMonthYearRe = regexp.MustCompile(`(\d{1,2})\s+([\p{L}.]+)\s+(\d{4})`)

// dateLayouts is the ordered ladder of accepted formats. Day-first
// numeric forms outrank month-first, matching the dominant locale of the
// exports.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2 Jan 2006",
	"2 January 2006",
	"02-01-2006",
	"02/01/2006",
	"01/02/2006",
}

var monthNameLayouts = []string{"2 Jan 2006", "2 January 2006"}

// sorted month tokens, longest first, built once.
var monthTokenOrder = func() []string {
	keys := make([]string, 0, len(monthTokens))
	for k := range monthTokens {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// ParseSessionDate normalizes one arbitrary date representation to
// canonical "YYYY-MM-DD". It strips spreadsheet formula markers and
// quoting, discards a parenthesized time-of-day, strips a leading
// weekday, rewrites localized month names, then walks the layout ladder.
// An empty result string means no pattern matched.
func ParseSessionDate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "=")
	s = trimQuotes(s)
	s = parenRe.ReplaceAllString(s, " ")
	s = weekdayRe.ReplaceAllString(s, "")
	s = substituteMonths(s)
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}

	// Last resort: pull a <day> <month> <year> fragment out of the noise.
	if m := dayMonthYearRe.FindStringSubmatch(s); m != nil {
		frag := substituteMonths(m[1] + " " + m[2] + " " + m[3])
		for _, layout := range monthNameLayouts {
			if t, err := time.Parse(layout, frag); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
	}
	return "", false
}

// SessionDate resolves the single session date of one file. The date
// column is picked from the candidate list, else any header containing
// "date". Within the column a dominant date (all values, or at least 80%
// of the parseable ones) wins, so a stray typo row does not poison the
// file; anything less dominant is ambiguous.
func SessionDate(f RawFile) (string, error) {
	col := dateColumn(f)
	if col < 0 {
		return "", &MissingDateColumnError{File: f.Name}
	}

	counts := make(map[string]int)
	total := 0
	firstBad := ""
	for _, row := range f.Rows {
		v := strings.TrimSpace(row[col])
		if v == "" {
			continue
		}
		d, ok := ParseSessionDate(v)
		if !ok {
			if firstBad == "" {
				firstBad = v
			}
			continue
		}
		counts[d]++
		total++
	}
	if total == 0 {
		if firstBad == "" {
			firstBad = "(empty column)"
		}
		return "", &DateParseError{Value: firstBad, Column: f.Header[col], File: f.Name}
	}

	best, bestN := "", 0
	for d, n := range counts {
		if n > bestN || (n == bestN && d < best) {
			best, bestN = d, n
		}
	}
	if len(counts) > 1 && float64(bestN)/float64(total) < 0.80 {
		dates := make([]string, 0, len(counts))
		for d := range counts {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		return "", &AmbiguousSessionBatchError{Dates: dates, File: f.Name}
	}
	return best, nil
}

// BatchSessionDate resolves one session date across all files of a batch.
// Every file must agree; a batch spanning several dates is rejected as a
// whole rather than silently picking one.
func BatchSessionDate(files []RawFile) (string, error) {
	seen := make(map[string]bool)
	date := ""
	for _, f := range files {
		d, err := SessionDate(f)
		if err != nil {
			return "", err
		}
		seen[d] = true
		date = d
	}
	if len(seen) > 1 {
		dates := make([]string, 0, len(seen))
		for d := range seen {
			dates = append(dates, d)
		}
		sort.Strings(dates)
		return "", &AmbiguousSessionBatchError{Dates: dates}
	}
	return date, nil
}

func dateColumn(f RawFile) int {
	for _, name := range dateColumns {
		if i := f.Column(name); i >= 0 {
			return i
		}
	}
	for i, h := range f.Header {
		if strings.Contains(strings.ToLower(h), "date") {
			return i
		}
	}
	return -1
}

func substituteMonths(s string) string {
	lower := strings.ToLower(s)
	for _, tok := range monthTokenOrder {
		for {
			i := strings.Index(lower, tok)
			if i < 0 {
				break
			}
			s = s[:i] + monthTokens[tok] + s[i+len(tok):]
			lower = strings.ToLower(s)
		}
	}
	return s
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

package ingest

import "strings"

// UnknownPlayer is the sentinel used when no player name can be found.
const UnknownPlayer = "UNKNOWN"

var playerColumns = []string{"player", "Player", "Joueur", "joueur", "name", "Name"}

// DetectPlayerName extracts the player display name from a file: the
// first non-empty value of a known player column, else the filename
// (monitor exports are named "<Name>Shots...csv"), else the sentinel.
// Never fails; identity resolution downstream handles the sentinel.
func DetectPlayerName(f RawFile) string {
	for _, name := range playerColumns {
		col := f.Column(name)
		if col < 0 {
			continue
		}
		for _, row := range f.Rows {
			if v := strings.TrimSpace(row[col]); v != "" && !strings.EqualFold(v, "nan") {
				return v
			}
		}
	}

	base := strings.TrimSuffix(f.Name, ".csv")
	if i := strings.Index(base, "Shots"); i > 0 {
		return base[:i]
	}
	if base != "" {
		return base
	}
	return UnknownPlayer
}

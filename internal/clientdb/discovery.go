package clientdb

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"mydata/epsilon-export/internal/logging"
	"mydata/epsilon-export/internal/models"
	"mydata/epsilon-export/internal/textutils"
)

var (
	nameHints = []string{"client", "customer", "pelat", "πελατ", "db"}

	extensionBonus = map[string]int{
		".xlsx": 4,
		".xlsm": 4,
		".xls":  3,
		".csv":  2,
		".txt":  1,
	}
)

type candidate struct {
	path    string
	score   int
	modTime time.Time
}

// Discover returns the most likely roster file in dirs. Files must carry a
// roster hint in their name; ties on score go to the most recently modified.
func Discover(dirs ...string) (string, bool) {
	var best *candidate
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			info, err := e.Info()
			if err != nil || info.Size() == 0 {
				continue
			}
			score, ok := scoreFile(e.Name(), info.Size())
			if !ok {
				continue
			}
			c := candidate{path: filepath.Join(dir, e.Name()), score: score, modTime: info.ModTime()}
			if best == nil || c.score > best.score ||
				(c.score == best.score && c.modTime.After(best.modTime)) {
				best = &c
			}
		}
	}
	if best == nil {
		return "", false
	}
	return best.path, true
}

func scoreFile(name string, size int64) (int, bool) {
	bonus, ok := extensionBonus[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return 0, false
	}
	folded := textutils.Fold(name)
	hints := 0
	for _, h := range nameHints {
		if strings.Contains(folded, h) {
			hints++
		}
	}
	if hints == 0 {
		return 0, false
	}
	return hints*10 + bonus + sizeBucket(size), true
}

func sizeBucket(size int64) int {
	switch {
	case size >= 100*1024:
		return 3
	case size >= 4*1024:
		return 2
	case size > 0:
		return 1
	}
	return 0
}

// LoadOrDiscover loads the roster at path, or discovers one in dirs when path
// is empty. Nothing found yields an empty roster.
func (l *Loader) LoadOrDiscover(path string, dirs ...string) (*models.ClientMap, error) {
	if path == "" {
		found, ok := Discover(dirs...)
		if !ok {
			l.logger.Warn("No client roster found; every row will lack a customer id",
				logging.F("dirs", dirs))
			return models.NewClientMap(), nil
		}
		l.logger.Debug("Discovered client roster", logging.F(logging.FieldFile, found))
		path = found
	}
	return l.Load(path)
}

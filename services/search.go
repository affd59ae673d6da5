package services

import (
	"sort"
	"strings"
	"sync"

	"github.com/Taraweeh/initializers"
	"github.com/Taraweeh/models"
	"github.com/doug-martin/goqu/v9"
)

const maxImamResults = 15

// ImamIndexEntry is an imam with its precomputed search forms.
type ImamIndexEntry struct {
	ID            int
	Name          string
	MosqueID      *int
	MosqueName    *string
	Norm          string
	Stripped      string
	Words         []string
	StrippedWords []string
}

func NewImamIndexEntry(id int, name string, mosqueID *int, mosqueName *string) ImamIndexEntry {
	norm := NormalizeArabic(name)
	stripped := StripPrefixes(norm)
	return ImamIndexEntry{
		ID:            id,
		Name:          name,
		MosqueID:      mosqueID,
		MosqueName:    mosqueName,
		Norm:          norm,
		Stripped:      stripped,
		Words:         strings.Fields(norm),
		StrippedWords: strings.Fields(stripped),
	}
}

var imamIndex struct {
	sync.RWMutex
	entries []ImamIndexEntry
	count   int64
	built   bool
	// generation changes on every invalidation so a rebuild started
	// before it cannot install stale entries
	generation uint64
}

// InvalidateImamIndex drops the cached index; the next search rebuilds it.
func InvalidateImamIndex() {
	imamIndex.Lock()
	defer imamIndex.Unlock()
	imamIndex.entries = nil
	imamIndex.count = 0
	imamIndex.built = false
	imamIndex.generation++
}

// installImamIndex stores a rebuilt index unless the cache was invalidated
// after the rebuild started.
func installImamIndex(generation uint64, entries []ImamIndexEntry, count int64) bool {
	imamIndex.Lock()
	defer imamIndex.Unlock()
	if imamIndex.generation != generation {
		return false
	}
	imamIndex.entries = entries
	imamIndex.count = count
	imamIndex.built = true
	return true
}

type imamIndexRow struct {
	Imam_ID     int
	Name        string
	Mosque_ID   *int
	Mosque_Name *string
}

// GetImamIndex returns the cached index, rebuilding it when the number of
// imams has changed since it was built.
func GetImamIndex() ([]ImamIndexEntry, error) {
	count, err := initializers.DB.From("imam").Count()
	if err != nil {
		return nil, err
	}

	imamIndex.RLock()
	if imamIndex.built && imamIndex.count == count {
		entries := imamIndex.entries
		imamIndex.RUnlock()
		return entries, nil
	}
	generation := imamIndex.generation
	imamIndex.RUnlock()

	var rows []imamIndexRow
	err = initializers.DB.From(goqu.T("imam")).
		LeftJoin(goqu.T("mosque"), goqu.On(goqu.I("mosque.mosque_id").Eq(goqu.I("imam.mosque_id")))).
		Select(
			goqu.I("imam.imam_id"),
			goqu.I("imam.name"),
			goqu.I("imam.mosque_id"),
			goqu.I("mosque.name").As("mosque_name"),
		).
		Order(goqu.I("imam.imam_id").Asc()).
		ScanStructs(&rows)
	if err != nil {
		return nil, err
	}

	entries := make([]ImamIndexEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, NewImamIndexEntry(r.Imam_ID, r.Name, r.Mosque_ID, r.Mosque_Name))
	}

	installImamIndex(generation, entries, count)
	return entries, nil
}

// SearchImams ranks index entries against q and returns the best matches.
func SearchImams(q string, index []ImamIndexEntry) []models.ImamSearchResult {
	results := []models.ImamSearchResult{}

	qNorm := NormalizeArabic(strings.TrimSpace(q))
	if qNorm == "" {
		return results
	}
	qStripped := StripPrefixes(qNorm)
	if qStripped == "" {
		return results
	}
	qWords := strings.Fields(qNorm)
	qStrippedWords := strings.Fields(qStripped)

	type scored struct {
		score int
		entry ImamIndexEntry
	}
	var matches []scored
	for _, e := range index {
		if s := ScoreImam(qNorm, qStripped, qWords, qStrippedWords, e); s > 0 {
			matches = append(matches, scored{s, e})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if len(matches) > maxImamResults {
		matches = matches[:maxImamResults]
	}
	for _, m := range matches {
		results = append(results, models.ImamSearchResult{
			ID:         m.entry.ID,
			Name:       m.entry.Name,
			MosqueName: m.entry.MosqueName,
			MosqueID:   m.entry.MosqueID,
		})
	}
	return results
}

// ScoreImam grades how well a query matches an imam; 0 means no match.
func ScoreImam(qNorm, qStripped string, qWords, qStrippedWords []string, e ImamIndexEntry) int {
	name, stripped := e.Norm, e.Stripped

	switch {
	case qNorm == name:
		return 100
	case strings.HasPrefix(name, qNorm):
		return 95
	case strings.HasPrefix(stripped, qStripped):
		return 90
	case strings.Contains(name, qNorm):
		return 80
	case strings.Contains(stripped, qStripped):
		return 75
	}

	allWords := append(append([]string{}, e.Words...), e.StrippedWords...)

	if len(qWords) == 1 {
		for _, w := range allWords {
			if strings.HasPrefix(w, qNorm) || strings.HasPrefix(w, qStripped) {
				return 70
			}
		}
		if len(qStrippedWords) > 0 {
			for _, w := range e.StrippedWords {
				if strings.HasPrefix(w, qStrippedWords[0]) {
					return 65
				}
			}
		}
	}

	if len(qWords) > 1 {
		queryWords := append(append([]string{}, qWords...), qStrippedWords...)
		matched := 0
		for _, qw := range queryWords {
			for _, nw := range allWords {
				if strings.HasPrefix(nw, qw) || strings.Contains(nw, qw) {
					matched++
					break
				}
			}
		}
		unique := make(map[string]struct{}, len(queryWords))
		for _, qw := range queryWords {
			unique[qw] = struct{}{}
		}
		if len(unique) > 0 {
			ratio := float64(matched) / float64(len(unique))
			if ratio >= 0.8 {
				return 75
			}
			if ratio >= 0.5 {
				return 55
			}
		}
	}

	if sim := BigramSimilarity(qStripped, stripped); sim >= 0.6 {
		return int(40 + sim*20)
	}

	for _, w := range e.StrippedWords {
		if sim := BigramSimilarity(qStripped, w); sim >= 0.5 {
			return int(30 + sim*20)
		}
	}

	return 0
}

func bigrams(s []rune) map[string]struct{} {
	set := make(map[string]struct{})
	if len(s) < 2 {
		set[string(s)] = struct{}{}
		return set
	}
	for i := 0; i < len(s)-1; i++ {
		set[string(s[i:i+2])] = struct{}{}
	}
	return set
}

// BigramSimilarity is the Dice coefficient over character bigrams, in [0, 1].
func BigramSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	bgA := bigrams([]rune(a))
	bgB := bigrams([]rune(b))

	shared := 0
	for g := range bgA {
		if _, ok := bgB[g]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(bgA)+len(bgB))
}

package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkNewRecord         BookmarkType = "new_record"
	BookmarkCourseComplete    BookmarkType = "course_complete"
	BookmarkStagnation        BookmarkType = "stagnation"
	BookmarkDiversityCollapse BookmarkType = "diversity_collapse"
)

// minDiversityHistory is the number of generations needed before a diversity
// collapse can be reported.
const minDiversityHistory = 5

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Generation  int          `csv:"generation"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using logger.
func (b Bookmark) LogBookmark(logger *slog.Logger) {
	logger.Info("bookmark",
		"type", string(b.Type),
		"generation", b.Generation,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable generations in a run.
type BookmarkDetector struct {
	// Rolling history of champion distances (circular buffer)
	history     []float64
	historySize int
	historyIdx  int
	historyFull bool

	courseLength     int
	stagnationWindow int

	// State tracking
	bestCleared     int
	sinceRecord     int
	courseCompleted bool
}

// NewBookmarkDetector creates a detector for a course of courseLength entries.
// stagnationWindow is the number of generations without a new cleared record
// before a stagnation bookmark (0 disables it).
func NewBookmarkDetector(courseLength, stagnationWindow int) *BookmarkDetector {
	historySize := stagnationWindow
	if historySize < minDiversityHistory {
		historySize = minDiversityHistory
	}
	return &BookmarkDetector{
		history:          make([]float64, historySize),
		historySize:      historySize,
		courseLength:     courseLength,
		stagnationWindow: stagnationWindow,
	}
}

// Reset forgets all records, e.g. after the course is regenerated.
func (bd *BookmarkDetector) Reset(courseLength int) {
	*bd = *NewBookmarkDetector(courseLength, bd.stagnationWindow)
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats GenerationStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkRecord(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCourseComplete(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkStagnation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDiversityCollapse(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats.ChampionDistance)

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(distance float64) {
	bd.history[bd.historyIdx] = distance
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []float64 {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkRecord(stats GenerationStats) *Bookmark {
	if stats.BestCleared <= bd.bestCleared {
		bd.sinceRecord++
		return nil
	}
	prev := bd.bestCleared
	bd.bestCleared = stats.BestCleared
	bd.sinceRecord = 0
	return &Bookmark{
		Type:        BookmarkNewRecord,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("best cleared %d (was %d)", stats.BestCleared, prev),
	}
}

func (bd *BookmarkDetector) checkCourseComplete(stats GenerationStats) *Bookmark {
	if bd.courseCompleted || bd.courseLength <= 0 || stats.BestCleared < bd.courseLength {
		return nil
	}
	bd.courseCompleted = true
	return &Bookmark{
		Type:        BookmarkCourseComplete,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("an agent cleared all %d obstacles", bd.courseLength),
	}
}

// checkStagnation fires once per plateau, when the record has stood for
// exactly stagnationWindow generations.
func (bd *BookmarkDetector) checkStagnation(stats GenerationStats) *Bookmark {
	if bd.stagnationWindow <= 0 || bd.courseCompleted || bd.sinceRecord != bd.stagnationWindow {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkStagnation,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("no new record for %d generations (best cleared %d)", bd.sinceRecord, bd.bestCleared),
	}
}

// checkDiversityCollapse fires when the population's distance to its champion
// drops below half the rolling average.
func (bd *BookmarkDetector) checkDiversityCollapse(stats GenerationStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < minDiversityHistory {
		return nil
	}

	var sum float64
	for _, d := range history {
		sum += d
	}
	avg := sum / float64(len(history))
	if avg <= 0 || stats.ChampionDistance >= avg*0.5 {
		return nil
	}

	return &Bookmark{
		Type:        BookmarkDiversityCollapse,
		Generation:  stats.Generation,
		Description: fmt.Sprintf("champion distance %.3f vs rolling avg %.3f", stats.ChampionDistance, avg),
	}
}

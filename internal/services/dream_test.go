package services

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/repos"
	"github.com/oneirolabs/dream-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "dreams.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(&types.User{}, &types.UserToken{}, &types.DreamRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gdb
}

func mustInterpretationsJSON(t *testing.T, interps []types.Interpretation) string {
	t.Helper()
	raw, err := json.Marshal(interps)
	if err != nil {
		t.Fatal(err)
	}
	return string(raw)
}

func seedRecord(t *testing.T, repo repos.DreamRepo, userID string, createdAt time.Time, interps []types.Interpretation) {
	t.Helper()
	record := types.DreamRecord{
		ID:              uuid.New(),
		UserID:          userID,
		DreamText:       "seeded dream",
		Interpretations: mustInterpretationsJSON(t, interps),
		ModelUsed:       "enhanced",
		CreatedAt:       createdAt,
	}
	if err := repo.Create(context.Background(), nil, &record); err != nil {
		t.Fatalf("seed record: %v", err)
	}
}

func TestSaveAnalysisTruncatesStoredRecord(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewDreamRepo(gdb, logger.NewNop())
	ds := NewDreamService(gdb, logger.NewNop(), repo, 100)

	longText := strings.Repeat("a", 250)
	response := &types.AnalysisResponse{
		ModelUsed: "enhanced",
		Interpretations: []types.Interpretation{
			{Keyword: "water"}, {Keyword: "flying"}, {Keyword: "snake"},
			{Keyword: "teeth"}, {Keyword: "door"},
		},
	}
	if err := ds.SaveAnalysis(context.Background(), "", longText, response); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	records, _, err := repo.List(context.Background(), nil, "", 0, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.UserID != "anonymous" {
		t.Fatalf("UserID=%q, want anonymous", record.UserID)
	}
	if len(record.DreamText) != storedTextLimit || !strings.HasSuffix(record.DreamText, "...") {
		t.Fatalf("stored text len=%d, suffix=%q", len(record.DreamText), record.DreamText[len(record.DreamText)-3:])
	}
	var stored []types.Interpretation
	if err := json.Unmarshal([]byte(record.Interpretations), &stored); err != nil {
		t.Fatalf("stored interpretations not valid JSON: %v", err)
	}
	if len(stored) != storedInterpretationsLimit {
		t.Fatalf("stored %d interpretations, want %d", len(stored), storedInterpretationsLimit)
	}
}

func TestSaveAnalysisTrimsHistoryToLimit(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewDreamRepo(gdb, logger.NewNop())
	ds := NewDreamService(gdb, logger.NewNop(), repo, 5)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		seedRecord(t, repo, "u1", base.Add(time.Duration(i)*time.Minute), nil)
	}

	response := &types.AnalysisResponse{ModelUsed: "enhanced"}
	if err := ds.SaveAnalysis(context.Background(), "u1", "one more dream", response); err != nil {
		t.Fatalf("SaveAnalysis: %v", err)
	}

	records, total, err := repo.List(context.Background(), nil, "", 0, 100)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 5 {
		t.Fatalf("total=%d, want 5", total)
	}
	// The record just saved is the newest and must have survived the trim.
	if records[0].DreamText != "one more dream" {
		t.Fatalf("newest record %q", records[0].DreamText)
	}
}

func TestHistoryPagination(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewDreamRepo(gdb, logger.NewNop())
	ds := NewDreamService(gdb, logger.NewNop(), repo, 1000)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 45; i++ {
		seedRecord(t, repo, "u1", base.Add(time.Duration(i)*time.Minute), []types.Interpretation{{Keyword: "water"}})
	}
	seedRecord(t, repo, "someone-else", base, nil)

	page, err := ds.History(context.Background(), "u1", 1, 20)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if page.TotalItems != 45 || page.TotalPages != 3 || page.CurrentPage != 1 {
		t.Fatalf("page meta %+v", page)
	}
	if len(page.Items) != 20 {
		t.Fatalf("got %d items, want 20", len(page.Items))
	}
	// Newest first.
	if page.Items[0].Date != base.Add(44*time.Minute).Format("2006-01-02 15:04:05") {
		t.Fatalf("first item date %q", page.Items[0].Date)
	}
	if len(page.Items[0].Interpretations) != 1 || page.Items[0].Interpretations[0].Keyword != "water" {
		t.Fatalf("interpretations not decoded: %+v", page.Items[0].Interpretations)
	}

	last, err := ds.History(context.Background(), "u1", 3, 20)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(last.Items) != 5 {
		t.Fatalf("last page has %d items, want 5", len(last.Items))
	}

	// Out-of-range values clamp to defaults.
	clamped, err := ds.History(context.Background(), "u1", 0, 500)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if clamped.CurrentPage != 1 || len(clamped.Items) != 20 {
		t.Fatalf("clamped page %+v", clamped)
	}
}

func TestStatsAggregatesKeywords(t *testing.T) {
	gdb := newTestDB(t)
	repo := repos.NewDreamRepo(gdb, logger.NewNop())
	ds := NewDreamService(gdb, logger.NewNop(), repo, 1000)

	now := time.Now()
	seedRecord(t, repo, "u1", now, []types.Interpretation{{Keyword: "water"}, {Keyword: "flying"}})
	seedRecord(t, repo, "u1", now.Add(-time.Hour), []types.Interpretation{{Keyword: "water"}, {Keyword: "General"}})
	seedRecord(t, repo, "u2", now.AddDate(0, 0, -10), []types.Interpretation{{Keyword: "snake"}})

	stats, err := ds.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalDreams != 3 {
		t.Fatalf("TotalDreams=%d, want 3", stats.TotalDreams)
	}
	if stats.LastWeekCount != 2 {
		t.Fatalf("LastWeekCount=%d, want 2", stats.LastWeekCount)
	}
	if len(stats.CommonKeywords) != 3 {
		t.Fatalf("CommonKeywords=%+v", stats.CommonKeywords)
	}
	if stats.CommonKeywords[0].Keyword != "water" || stats.CommonKeywords[0].Count != 2 {
		t.Fatalf("top keyword %+v", stats.CommonKeywords[0])
	}
	for _, kw := range stats.CommonKeywords {
		if kw.Keyword == "General" {
			t.Fatal("synthetic General entry must be excluded")
		}
	}
}

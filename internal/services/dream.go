package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oneirolabs/dream-backend/internal/logger"
	"github.com/oneirolabs/dream-backend/internal/repos"
	"github.com/oneirolabs/dream-backend/internal/types"
)

const (
	storedTextLimit            = 200
	storedInterpretationsLimit = 3
)

type HistoryItem struct {
	ID              uuid.UUID              `json:"id"`
	UserID          string                 `json:"user_id"`
	Date            string                 `json:"date"`
	DreamText       string                 `json:"dream_text"`
	Interpretations []types.Interpretation `json:"interpretations"`
	ModelUsed       string                 `json:"model_used"`
}

type HistoryPage struct {
	Items       []HistoryItem `json:"items"`
	TotalItems  int64         `json:"total_items"`
	TotalPages  int64         `json:"total_pages"`
	CurrentPage int           `json:"current_page"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type DreamStats struct {
	TotalDreams    int64          `json:"total_dreams"`
	CommonKeywords []KeywordCount `json:"common_keywords"`
	LastWeekCount  int64          `json:"last_week_count"`
}

// DreamService persists interpretation history and derives usage statistics
// from it.
type DreamService interface {
	SaveAnalysis(ctx context.Context, userID, dreamText string, response *types.AnalysisResponse) error
	History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error)
	Stats(ctx context.Context) (*DreamStats, error)
}

type dreamService struct {
	db           *gorm.DB
	log          *logger.Logger
	dreamRepo    repos.DreamRepo
	historyLimit int
}

func NewDreamService(db *gorm.DB, log *logger.Logger, dreamRepo repos.DreamRepo, historyLimit int) DreamService {
	if historyLimit <= 0 {
		historyLimit = 1000
	}
	return &dreamService{
		db:           db,
		log:          log.With("service", "DreamService"),
		dreamRepo:    dreamRepo,
		historyLimit: historyLimit,
	}
}

// SaveAnalysis stores a truncated record of the analysis: text capped at 200
// characters, top three interpretations only.
func (ds *dreamService) SaveAnalysis(ctx context.Context, userID, dreamText string, response *types.AnalysisResponse) error {
	if userID == "" {
		userID = "anonymous"
	}
	text := dreamText
	if len(text) > storedTextLimit {
		text = text[:storedTextLimit-3] + "..."
	}
	interps := response.Interpretations
	if len(interps) > storedInterpretationsLimit {
		interps = interps[:storedInterpretationsLimit]
	}
	payload, err := json.Marshal(interps)
	if err != nil {
		return fmt.Errorf("encode interpretations: %w", err)
	}

	record := types.DreamRecord{
		ID:              uuid.New(),
		UserID:          userID,
		DreamText:       text,
		Interpretations: string(payload),
		ModelUsed:       response.ModelUsed,
		CreatedAt:       time.Now(),
	}
	return ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ds.dreamRepo.Create(ctx, tx, &record); err != nil {
			return fmt.Errorf("create dream record: %w", err)
		}
		return ds.dreamRepo.TrimOldest(ctx, tx, ds.historyLimit)
	})
}

func (ds *dreamService) History(ctx context.Context, userID string, page, perPage int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	records, total, err := ds.dreamRepo.List(ctx, nil, userID, (page-1)*perPage, perPage)
	if err != nil {
		return nil, fmt.Errorf("list dream records: %w", err)
	}

	items := make([]HistoryItem, 0, len(records))
	for _, record := range records {
		var interps []types.Interpretation
		if err := json.Unmarshal([]byte(record.Interpretations), &interps); err != nil {
			ds.log.Warn("Skipping malformed interpretations payload", "record_id", record.ID, "error", err)
		}
		items = append(items, HistoryItem{
			ID:              record.ID,
			UserID:          record.UserID,
			Date:            record.CreatedAt.Format("2006-01-02 15:04:05"),
			DreamText:       record.DreamText,
			Interpretations: interps,
			ModelUsed:       record.ModelUsed,
		})
	}

	totalPages := (total + int64(perPage) - 1) / int64(perPage)
	return &HistoryPage{
		Items:       items,
		TotalItems:  total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}, nil
}

// Stats aggregates keyword frequencies across stored history, excluding the
// synthetic "General" entry.
func (ds *dreamService) Stats(ctx context.Context) (*DreamStats, error) {
	records, err := ds.dreamRepo.All(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load dream records: %w", err)
	}

	counts := make(map[string]int)
	for _, record := range records {
		var interps []types.Interpretation
		if err := json.Unmarshal([]byte(record.Interpretations), &interps); err != nil {
			continue
		}
		for _, interp := range interps {
			if interp.Keyword == "" || interp.Keyword == "General" {
				continue
			}
			counts[interp.Keyword]++
		}
	}

	common := make([]KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		common = append(common, KeywordCount{Keyword: keyword, Count: count})
	}
	sort.Slice(common, func(i, j int) bool {
		if common[i].Count != common[j].Count {
			return common[i].Count > common[j].Count
		}
		return common[i].Keyword < common[j].Keyword
	})
	if len(common) > 10 {
		common = common[:10]
	}

	lastWeek, err := ds.dreamRepo.CountSince(ctx, nil, time.Now().AddDate(0, 0, -7))
	if err != nil {
		return nil, fmt.Errorf("count recent records: %w", err)
	}

	return &DreamStats{
		TotalDreams:    int64(len(records)),
		CommonKeywords: common,
		LastWeekCount:  lastWeek,
	}, nil
}

package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"formsmith/internal/cache"
	"formsmith/internal/log"
	"formsmith/internal/model"
	"formsmith/internal/repository"
)

// AnalyticsService computes and caches per-form response analytics
type AnalyticsService struct {
	formRepo       repository.FormRepo
	responseRepo   repository.ResponseRepo
	analyticsCache cache.AnalyticsCache
	now            func() time.Time
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(formRepo repository.FormRepo, responseRepo repository.ResponseRepo, analyticsCache cache.AnalyticsCache) *AnalyticsService {
	return &AnalyticsService{
		formRepo:       formRepo,
		responseRepo:   responseRepo,
		analyticsCache: analyticsCache,
		now:            time.Now,
	}
}

// ForForm returns cached analytics for a form the caller already owns,
// computing them on a miss
func (s *AnalyticsService) ForForm(ctx context.Context, def *model.FormDefinition) (*model.FormAnalytics, error) {
	cached, err := s.analyticsCache.Get(ctx, def.ID)
	if err != nil {
		log.WithFields(log.Fields{"form_id": def.ID}).WithError(err).Warn("analytics cache read failed")
	}
	if cached != nil {
		return cached, nil
	}
	return s.compute(ctx, def)
}

// Refresh recomputes a form's analytics from the store and caches them
func (s *AnalyticsService) Refresh(ctx context.Context, formID string) (*model.FormAnalytics, error) {
	def, err := s.formRepo.GetByID(ctx, formID)
	if err != nil {
		return nil, err
	}
	if def == nil {
		return nil, ErrNotFound
	}
	return s.compute(ctx, def)
}

func (s *AnalyticsService) compute(ctx context.Context, def *model.FormDefinition) (*model.FormAnalytics, error) {
	responses, err := s.responseRepo.ListByForm(ctx, def.ID)
	if err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}

	analytics := BuildAnalytics(def, responses, s.now())
	if err := s.analyticsCache.Set(ctx, analytics); err != nil {
		log.WithFields(log.Fields{"form_id": def.ID}).WithError(err).Warn("analytics cache write failed")
	}
	return analytics, nil
}

// BuildAnalytics aggregates responses for one form. Days are UTC calendar
// days; a question counts as answered when its answer is non-empty. Score
// figures are only produced for test-mode forms.
func BuildAnalytics(def *model.FormDefinition, responses []*model.Response, now time.Time) *model.FormAnalytics {
	a := &model.FormAnalytics{
		FormID:          def.ID,
		TotalResponses:  len(responses),
		ResponsesByDate: []model.DailyCount{},
		Questions:       []model.QuestionStats{},
		ComputedAt:      now.UTC(),
	}

	byDate := make(map[string]int)
	for _, r := range responses {
		byDate[r.SubmittedAt.UTC().Format("2006-01-02")]++
	}
	for date, count := range byDate {
		a.ResponsesByDate = append(a.ResponsesByDate, model.DailyCount{Date: date, Count: count})
	}
	sort.Slice(a.ResponsesByDate, func(i, j int) bool {
		return a.ResponsesByDate[i].Date < a.ResponsesByDate[j].Date
	})

	for _, q := range def.Questions() {
		stats := model.QuestionStats{QuestionID: q.ID, Title: q.Title}
		if q.Kind.IsChoice() {
			stats.OptionCounts = make(map[string]int, len(q.Options))
			for _, o := range q.Options {
				stats.OptionCounts[o] = 0
			}
		}
		for _, r := range responses {
			ans, ok := r.Answers.Get(q.ID)
			if !ok || ans.IsEmpty() {
				continue
			}
			stats.Answered++
			if stats.OptionCounts == nil {
				continue
			}
			if ans.IsMulti() {
				for _, v := range ans.Values() {
					stats.OptionCounts[v]++
				}
			} else {
				stats.OptionCounts[ans.Text()]++
			}
		}
		if len(responses) > 0 {
			stats.Percentage = math.Round(float64(stats.Answered) / float64(len(responses)) * 100)
		}
		a.Questions = append(a.Questions, stats)
	}

	if def.IsTestMode {
		a.ScoreDistribution, a.AverageScore = scoreSummary(responses)
	}
	return a
}

// scoreSummary buckets scores into 0-9%, 10-19% ... 90-99% and 100%
func scoreSummary(responses []*model.Response) ([]model.ScoreBucket, *int) {
	var counts [11]int
	sum, scored := 0, 0
	for _, r := range responses {
		if r.Score == nil {
			continue
		}
		score := min(max(*r.Score, 0), 100)
		counts[score/10]++
		sum += score
		scored++
	}
	if scored == 0 {
		return nil, nil
	}

	buckets := []model.ScoreBucket{}
	for i, n := range counts {
		if n == 0 {
			continue
		}
		label := fmt.Sprintf("%d-%d%%", i*10, i*10+9)
		if i == 10 {
			label = "100%"
		}
		buckets = append(buckets, model.ScoreBucket{Range: label, Count: n})
	}
	avg := int(math.Round(float64(sum) / float64(scored)))
	return buckets, &avg
}

package model

import "time"

// DailyCount is the number of responses submitted on one calendar day (UTC)
type DailyCount struct {
	Date  string `json:"date" bson:"date"` // 2006-01-02
	Count int    `json:"count" bson:"count"`
}

// QuestionStats tracks how many responses answered a question
type QuestionStats struct {
	QuestionID string  `json:"questionId" bson:"questionId"`
	Title      string  `json:"title" bson:"title"`
	Answered   int     `json:"answered" bson:"answered"`
	Percentage float64 `json:"percentage" bson:"percentage"` // 0-100

	// OptionCounts is filled for choice questions only
	OptionCounts map[string]int `json:"optionCounts,omitempty" bson:"optionCounts,omitempty"`
}

// ScoreBucket counts scored responses in a 10-point range
type ScoreBucket struct {
	Range string `json:"range" bson:"range"` // e.g. "70-79%"
	Count int    `json:"count" bson:"count"`
}

// FormAnalytics is the aggregate view an owner sees for one form
type FormAnalytics struct {
	FormID            string          `json:"formId" bson:"formId"`
	TotalResponses    int             `json:"totalResponses" bson:"totalResponses"`
	ResponsesByDate   []DailyCount    `json:"responsesByDate" bson:"responsesByDate"`
	Questions         []QuestionStats `json:"questions" bson:"questions"`
	ScoreDistribution []ScoreBucket   `json:"scoreDistribution,omitempty" bson:"scoreDistribution,omitempty"`
	AverageScore      *int            `json:"averageScore,omitempty" bson:"averageScore,omitempty"`
	ComputedAt        time.Time       `json:"computedAt" bson:"computedAt"`
}

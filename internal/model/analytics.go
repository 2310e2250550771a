package model

// QuestionStats is the aggregated view of every submitted answer to one
// question. Only the block matching Type is populated.
// swagger:model QuestionStats
type QuestionStats struct {
	QuestionID    uint         `json:"questionId"`
	SurveyID      uint         `json:"surveyId"`
	Text          string       `json:"text"`
	Type          QuestionType `json:"type"`
	Order         int          `json:"order"`
	ResponseCount int          `json:"responseCount"`

	// MCQ
	Distribution []OptionCount `json:"distribution,omitempty"`

	// LIKERT
	AgreementLevels []LevelCount `json:"agreementLevels,omitempty"`
	OutOfScale      int          `json:"outOfScale,omitempty"` // 1..5 之外的历史数据

	// SHORT
	Sentiment *SentimentTally `json:"sentiment,omitempty"`
	Keywords  []KeywordCount  `json:"keywords,omitempty"`
}

type OptionCount struct {
	OptionID uint   `json:"optionId"`
	Text     string `json:"text"`
	Count    int    `json:"count"`
}

type LevelCount struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type SentimentTally struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SurveyOverview backs the dashboard counters on the analytics page.
type SurveyOverview struct {
	SurveysTotal  int64 `json:"surveysTotal"`
	ActiveSurveys int64 `json:"activeSurveys"`
	Submissions   int64 `json:"submissions"`
}

package dto

// ChartSeries is a labels/data pair shaped for the dashboard chart widgets.
type ChartSeries struct {
	Labels []string `json:"labels"`
	Data   []int64  `json:"data"`
}

// StatisticsResponse aggregates the dashboard counters and chart series.
type StatisticsResponse struct {
	TotalCallsToday      int64       `json:"totalCallsToday"`
	HighPriorityCases    int64       `json:"highPriorityCases"`
	ActiveInvestigations int64       `json:"activeInvestigations"`
	DailyCallVolume      ChartSeries `json:"dailyCallVolume"`
	EmotionDistribution  ChartSeries `json:"emotionDistribution"`
	CallTypes            ChartSeries `json:"callTypes"`
}

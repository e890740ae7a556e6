package dto

// InsightDTO recomendaciones de optimización de entregas generadas por el LLM.
type InsightDTO struct {
	Recommendations []InsightRecommendationDTO `json:"recommendations"`
	Model           string                     `json:"model"`
}

// InsightRecommendationDTO una recomendación concreta.
type InsightRecommendationDTO struct {
	Focus  string `json:"focus"` // geographic_distribution | stock_levels | bottlenecks
	Advice string `json:"advice"`
}

package models

// JobAnalysis результат анализа описания вакансии.
type JobAnalysis struct {
	Keywords        []string `json:"keywords"`
	SuggestedSkills []string `json:"suggested_skills"`
}

// KeywordCatalog полный справочник ключевых слов.
type KeywordCatalog struct {
	Keywords []string `json:"keywords"`
	Total    int      `json:"total"`
}

package model

// HoroscopeSummary keeps only the Tử Vi chart labels the model needs to reason with.
type HoroscopeSummary struct {
	DominantElement string `json:"dominant_element"` // bản mệnh
	StructureName   string `json:"structure_name"`   // cục
	LifePalace      string `json:"life_palace"`      // mệnh tại cung
	MainStars       string `json:"main_stars"`       // chính tinh, comma separated
}

// ChartReading is the raw answer of the external horoscope capability.
type ChartReading struct {
	Element      string
	Structure    string
	LifePalace   string
	PrimaryStars []string
}

// CalculatedProfile is derived per request and never persisted.
type CalculatedProfile struct {
	LifePathNumber string            `json:"life_path_number"`
	ZodiacSign     string            `json:"zodiac_sign"`
	Horoscope      *HoroscopeSummary `json:"horoscope,omitempty"`
}

// Intent is what the extractor read out of the question.
type Intent struct {
	ExplicitDate        *CalendarDate
	CardNames           []string
	RequiresComputation bool
}

// AssembledContext is the redacted prompt context plus the retrieval keywords.
type AssembledContext struct {
	RedactedContext string
	Keywords        []string
}

// KnowledgeSnippet is one passage returned by the retriever.
type KnowledgeSnippet struct {
	SourceID       string  `json:"source_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Title          string  `json:"title"`
	Text           string  `json:"text"`
}

// PromptBundle is consumed by the generation gateway and never persisted.
type PromptBundle struct {
	SystemInstruction string
	UserInstruction   string
}

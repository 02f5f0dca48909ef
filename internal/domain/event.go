package domain

// Category buckets an event by the kind of historical significance it carries.
type Category string

const (
	CategoryShock        Category = "shock"
	CategoryCivilization Category = "civilization"
	CategoryStruggle     Category = "struggle"
	CategoryOrigins      Category = "origins"
)

// TitleSeparator joins the year or century prefix to the article title in
// display-formatted event titles.
const TitleSeparator = " · "

// CandidateArticle is a raw discovery hit before extraction and scoring.
type CandidateArticle struct {
	ID        int
	Title     string
	Latitude  float64
	Longitude float64
}

// ClassifiedEvent is the durable output unit of a discovery pass.
// Year is nil when no date could be extracted; negative values are BCE.
type ClassifiedEvent struct {
	ID               int      `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Latitude         float64  `json:"latitude"`
	Longitude        float64  `json:"longitude"`
	Year             *int     `json:"year"`
	Category         Category `json:"category"`
	Score            int      `json:"score"`
	NotorietyScore   int      `json:"notorietyScore"`
	IsIncontournable bool     `json:"isIncontournable"`
}

// Anniversary is a single "on this day" entry from the featured feed.
type Anniversary struct {
	Date string `json:"date"`
	Year int    `json:"year,omitempty"`
	Text string `json:"text"`
}

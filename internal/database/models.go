package database

// BriefRecord is an archived brief for one topic and date. Stories are
// stored as the serialized brief JSON.
type BriefRecord struct {
	ID          int64
	Topic       string
	BriefDate   string
	Headline    string
	StoriesJSON string
	StoryCount  int
	SourceCount int
	GeneratedAt *string
}

// RunReport holds telemetry from one pipeline run.
type RunReport struct {
	ID            int64
	Topic         string
	BriefDate     string
	StoryCount    int
	UniqueDomains int
	DomainCounts  string // JSON object of domain -> appearance count
	GeneratedAt   *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	TotalBriefs  int
	Topics       int
	DaysWithData int
	TotalReports int
}

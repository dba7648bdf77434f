package videoindex

// ProcessingState is the lifecycle of an uploaded video on the insight service.
type ProcessingState string

const (
	StateUploaded   ProcessingState = "Uploaded"
	StateProcessing ProcessingState = "Processing"
	StateProcessed  ProcessingState = "Processed"
	StateFailed     ProcessingState = "Failed"
)

// Thumbnail is one face thumbnail entry inside the insight document.
type Thumbnail struct {
	ID       string `json:"id"`
	FileName string `json:"fileName"`
}

// Face groups the thumbnails detected for one person in the video.
type Face struct {
	ID         int         `json:"id"`
	Name       string      `json:"name"`
	Thumbnails []Thumbnail `json:"thumbnails"`
}

// VideoInsights is the per-video nested insight structure.
type VideoInsights struct {
	Faces []Face `json:"faces"`
}

// Video wraps the insights of a single video in the index document.
type Video struct {
	Insights VideoInsights `json:"insights"`
}

// Observation is a summarized sentiment or emotion entry.
type Observation struct {
	Type       string  `json:"type"`
	Percentage float64 `json:"seenDurationRatio"`
}

// SummarizedInsights carries the aggregate sentiment and emotion summaries.
// Slices are nil when the service omitted the corresponding key.
type SummarizedInsights struct {
	Sentiments []Observation `json:"sentiments"`
	Emotions   []Observation `json:"emotions"`
}

// Index is the insight document returned for an uploaded video.
type Index struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	State              ProcessingState     `json:"state"`
	Videos             []Video             `json:"videos"`
	SummarizedInsights *SummarizedInsights `json:"summarizedInsights"`
}

package ocr

// Region is one recognized text span with its confidence and bounding
// quadrilateral, in the engine's reading order.
type Region struct {
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	BBox       [4][2]int `json:"bbox"`
}

// Result is the flattened OCR response returned to clients. Text joins the
// region texts in order; Confidence is the arithmetic mean of the region
// scores, 0 when nothing was recognized.
type Result struct {
	Success    bool      `json:"success"`
	Text       string    `json:"text"`
	Confidence float64   `json:"confidence"`
	RecTexts   []string  `json:"rec_texts"`
	RecScores  []float64 `json:"rec_scores"`
	Details    []Region  `json:"details"`
}

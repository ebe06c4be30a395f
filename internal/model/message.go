package model

// DeliveryOutcome aggregates per-message results across all batches of one
// send. After a completed send every submitted message id appears in exactly
// one of the two slices.
type DeliveryOutcome struct {
	Successful []int `json:"successful"`
	Failed     []int `json:"failed"`
}

// Total returns the number of attributed messages.
func (o DeliveryOutcome) Total() int {
	return len(o.Successful) + len(o.Failed)
}

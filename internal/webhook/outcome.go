package webhook

// Outcome summarizes one delivery. It is persisted with the delivery record
// and replayed for redeliveries.
type Outcome struct {
	ItemsConsidered           int           `json:"items_considered"`
	ItemsJournaled            int           `json:"items_journaled"`
	ItemsAlreadyJournaled     int           `json:"items_already_journaled"`
	ItemsSkippedForPermission int           `json:"items_skipped_for_permission"`
	ItemsNotFound             int           `json:"items_not_found"`
	ItemsFailed               []ItemFailure `json:"items_failed,omitempty"`
	Ignored                   bool          `json:"ignored,omitempty"`
	Replayed                  bool          `json:"-"`
}

type ItemFailure struct {
	WorkPackageID int64  `json:"work_package_id"`
	Reason        string `json:"reason"`
}

// eligible counts the items that passed the permission filter, whether or
// not their journal was written.
func (o *Outcome) eligible() int {
	return o.ItemsJournaled + o.ItemsAlreadyJournaled + len(o.ItemsFailed)
}

func (o *Outcome) clone() *Outcome {
	if o == nil {
		return nil
	}
	out := *o
	out.ItemsFailed = append([]ItemFailure(nil), o.ItemsFailed...)
	return &out
}

package cleaning

// Reason is the code under which a row is rejected
type Reason string

const (
	ReasonMalformedRow Reason = "malformed_row"
	ReasonMissingField Reason = "missing_required_field"
	ReasonBadDate      Reason = "bad_date"
	ReasonBadSales     Reason = "negative_or_nonnumeric_sales"
)

// Reasons lists every reason code in precedence order. When a row has
// several problems it is rejected under the first matching reason.
var Reasons = []Reason{ReasonMalformedRow, ReasonMissingField, ReasonBadDate, ReasonBadSales}

func (r Reason) rank() int {
	for i, reason := range Reasons {
		if reason == r {
			return i
		}
	}
	return len(Reasons)
}

// Rejection describes one excluded row
type Rejection struct {
	Line   int    `json:"line"`
	Reason Reason `json:"reason"`
	Field  string `json:"field"`
	Detail string `json:"detail"`
}

// RejectionReport summarizes one cleaning pass. Accepted + Rejected always
// equals Total.
type RejectionReport struct {
	Total    int            `json:"total"`
	Accepted int            `json:"accepted"`
	Rejected int            `json:"rejected"`
	ByReason map[Reason]int `json:"by_reason"`
	// Samples holds the first rejections, capped by the configured limit
	Samples []Rejection `json:"samples"`
}

func newRejectionReport() RejectionReport {
	byReason := make(map[Reason]int, len(Reasons))
	for _, r := range Reasons {
		byReason[r] = 0
	}
	return RejectionReport{ByReason: byReason, Samples: []Rejection{}}
}

// Count returns the number of rows rejected under reason
func (r RejectionReport) Count(reason Reason) int {
	return r.ByReason[reason]
}

// Counts returns the per-reason counts keyed by reason code string
func (r RejectionReport) Counts() map[string]int {
	out := make(map[string]int, len(r.ByReason))
	for reason, n := range r.ByReason {
		out[string(reason)] = n
	}
	return out
}

func (r *RejectionReport) reject(rej Rejection, maxSamples int) {
	r.Rejected++
	r.ByReason[rej.Reason]++
	if len(r.Samples) < maxSamples {
		r.Samples = append(r.Samples, rej)
	}
}

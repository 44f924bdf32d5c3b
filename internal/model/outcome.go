package model

// FailureReason tells why a page contributed no links or statistics.
type FailureReason int

const (
	// ReasonNone means the page was processed successfully.
	ReasonNone FailureReason = iota

	// ReasonFetchStatus means the host reported a non-200 status.
	ReasonFetchStatus

	// ReasonFetchError means the host reported a fetch error.
	ReasonFetchError

	// ReasonEmptyBody means the response had no content.
	ReasonEmptyBody

	// ReasonBadRequestURL means the request URL itself could not be parsed.
	ReasonBadRequestURL

	// ReasonParse means the content could not be decoded or parsed.
	ReasonParse
)

// String returns the label used in logs and metrics.
func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonFetchStatus:
		return "fetch_status"
	case ReasonFetchError:
		return "fetch_error"
	case ReasonEmptyBody:
		return "empty_body"
	case ReasonBadRequestURL:
		return "bad_request_url"
	case ReasonParse:
		return "parse_error"
	default:
		return "unknown"
	}
}

// Outcome is the result of scraping a single page.
type Outcome struct {
	// URL is the fragment-stripped request URL.
	URL string

	// Links contains the admitted outbound links.
	Links []string

	// Rejected maps each rejected candidate to the rule that rejected it.
	Rejected map[string]string

	// Candidates is the number of distinct links found before filtering.
	Candidates int

	// Words is the number of valid words on the page.
	Words int

	// Reason is ReasonNone on success.
	Reason FailureReason

	// Err holds the underlying error when Reason is not ReasonNone.
	Err error
}

// Failed reports whether the page contributed nothing.
func (o Outcome) Failed() bool {
	return o.Reason != ReasonNone
}

package policy

// Rules is the data a Policy evaluates. Every list is matched as data; no
// entry changes the algorithm.
type Rules struct {
	// Schemes are the admissible URL schemes, compared case-insensitively.
	Schemes []string `yaml:"schemes,omitempty"`

	// DomainSuffixes are host suffixes such as ".ics.uci.edu".
	// A suffix without a leading dot is treated as if it had one.
	// The bare apex (suffix minus the leading dot) is admissible too.
	DomainSuffixes []string `yaml:"domainSuffixes,omitempty"`

	// BlockedExtensions are file extensions without the dot, such as "pdf".
	BlockedExtensions []string `yaml:"blockedExtensions,omitempty"`

	// RepeatedSegments is the length of a run of identical consecutive path
	// segments that marks a recursive directory trap. Values below 2 disable
	// the check.
	RepeatedSegments int `yaml:"repeatedSegments,omitempty"`

	// CalendarWords mark paths whose query strings are treated as an
	// unbounded date navigation trap.
	CalendarWords []string `yaml:"calendarWords,omitempty"`

	// DatePattern is a regular expression searched in the whole URL.
	// Empty disables the check.
	DatePattern string `yaml:"datePattern,omitempty"`

	// MaxURLLength is the longest admissible URL in characters.
	// Zero disables the check.
	MaxURLLength int `yaml:"maxURLLength,omitempty"`

	// SortQueryKeys must all appear in the raw query for the URL to be
	// rejected as a sorted directory listing. Empty disables the check.
	SortQueryKeys []string `yaml:"sortQueryKeys,omitempty"`

	// TrapSubstrings reject any URL containing one of them.
	TrapSubstrings []string `yaml:"trapSubstrings,omitempty"`
}

// DefaultDomainSuffixes are the hosts of the UCI ICS crawl.
var DefaultDomainSuffixes = []string{
	".ics.uci.edu",
	".cs.uci.edu",
	".informatics.uci.edu",
	".stat.uci.edu",
}

// DefaultBlockedExtensions are non-text or binary resources.
var DefaultBlockedExtensions = []string{
	"css", "js", "bmp", "gif", "jpg", "jpeg", "ico",
	"png", "tif", "tiff", "mid", "mp2", "mp3", "mp4",
	"wav", "avi", "mov", "mpeg", "ram", "m4v", "mkv", "ogg", "ogv", "pdf",
	"ps", "eps", "tex", "ppt", "pptx", "doc", "docx", "xls", "xlsx", "names",
	"data", "dat", "exe", "bz2", "tar", "msi", "bin", "7z", "psd", "dmg", "iso",
	"epub", "dll", "cnf", "tgz", "sha1",
	"thmx", "mso", "arff", "rtf", "jar", "csv",
	"rm", "smil", "wmv", "swf", "wma", "zip", "rar", "gz", "odc", "apk", "war",
	"pps", "xml", "json", "ppsx", "svg", "java", "sql", "sh",
}

// DefaultTrapSubstrings are dynamic, administrative and version control
// browsing endpoints.
var DefaultTrapSubstrings = []string{
	"?action=",
	"?do=",
	"mediamanager.php",
	"?idx=",
	"wp-login.php",
	"?replytocom=",
	"?redirect_to=",
	"?version=",
	"?timeline",
	"?format=",
	"/commit/",
	"/tree/",
	"/blob/",
	"/merge_requests/",
	"?view=",
	"/branches",
	"/tags",
	"/commits/",
	"zip-attachment",
	"timeline",
	"attachment",
}

// Default thresholds and patterns.
const (
	DefaultRepeatedSegments = 3
	DefaultMaxURLLength     = 200
	DefaultDatePattern      = `/\d{4}-\d{2}-\d{2}`
)

// DefaultRules returns the rule table of the UCI ICS crawl.
// The returned slices are fresh copies and may be modified by the caller.
func DefaultRules() Rules {
	return Rules{
		Schemes:           []string{"http", "https"},
		DomainSuffixes:    clone(DefaultDomainSuffixes),
		BlockedExtensions: clone(DefaultBlockedExtensions),
		RepeatedSegments:  DefaultRepeatedSegments,
		CalendarWords:     []string{"calendar", "events"},
		DatePattern:       DefaultDatePattern,
		MaxURLLength:      DefaultMaxURLLength,
		SortQueryKeys:     []string{"C=", "O="},
		TrapSubstrings:    clone(DefaultTrapSubstrings),
	}
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

package model

import "time"

// LongestPage records the page with the most valid words seen so far.
type LongestPage struct {
	URL   string `json:"url"`
	Words int    `json:"words"`
}

// WordCount is one entry of the word frequency table.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// SubdomainCount is the number of pages visited on one host.
type SubdomainCount struct {
	Subdomain string `json:"subdomain"`
	Count     int    `json:"count"`
}

// Snapshot is an internally consistent copy of the crawl statistics.
// It can be serialized without holding any lock.
type Snapshot struct {
	// UniquePages is the number of distinct fragment-stripped request URLs.
	UniquePages int `json:"unique_pages"`

	// LongestPage is the page with the highest word count.
	LongestPage LongestPage `json:"longest_page"`

	// TopWords is ordered by descending count, ties by first-seen order.
	TopWords []WordCount `json:"top_words"`

	// Subdomains is ordered ascending by subdomain.
	Subdomains []SubdomainCount `json:"subdomains"`

	// TakenAt is when the snapshot was copied.
	TakenAt time.Time `json:"taken_at"`
}

// TotalSubdomainPages returns the sum of all subdomain counts.
func (s *Snapshot) TotalSubdomainPages() int {
	total := 0
	for _, sc := range s.Subdomains {
		total += sc.Count
	}
	return total
}

package rawfeed

import "time"

// Payload is the archive record for one fetched provider body. The body
// itself is not persisted; the hash, size and parse metadata are enough to
// detect upstream drift between runs.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	SeasonYear  int
	URL         string
	PayloadHash string
	ByteSize    int
	MetaJSON    string
	FetchedAt   time.Time
}

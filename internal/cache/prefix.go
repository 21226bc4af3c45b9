package cache

import "fmt"

type Prefix string

// Key namespaces for the display statistics kept in the cache.
const (
	// ShownCount counts completed showings, keyed by durable message ID or
	// the literal "ephemeral".
	ShownCount Prefix = "displays:shown"

	// LastShown stores a JSON summary of the most recent showing under the
	// "current" key.
	LastShown Prefix = "displays:last"

	// QueueSize holds the scheduler pool gauges under "durable"/"ephemeral".
	QueueSize Prefix = "displays:queue_size"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}

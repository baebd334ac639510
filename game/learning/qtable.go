package learning

import (
	"cmp"
	"slices"
)

// QTable maps a state to one value per action. Absent entries read as zero.
// It grows without eviction and is not safe for concurrent use.
type QTable struct {
	values map[StateKey][4]float64
	visits map[StateKey]int
}

// Entry is one row of a table snapshot.
type Entry struct {
	State  StateKey   `bson:"state" json:"state"`
	Values [4]float64 `bson:"values" json:"values"`
	Visits int        `bson:"visits" json:"visits"`
}

// NewQTable creates an empty table.
func NewQTable() *QTable {
	return &QTable{
		values: make(map[StateKey][4]float64),
		visits: make(map[StateKey]int),
	}
}

// Get returns Q(s, a), zero if unset.
func (q *QTable) Get(s StateKey, a Action) float64 {
	return q.values[s][a]
}

// Set stores Q(s, a).
func (q *QTable) Set(s StateKey, a Action, v float64) {
	row := q.values[s]
	row[a] = v
	q.values[s] = row
}

// Row returns every action value of s.
func (q *QTable) Row(s StateKey) [4]float64 {
	return q.values[s]
}

// Max returns the highest value among actions at s, zero when actions is empty.
func (q *QTable) Max(s StateKey, actions []Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	row := q.values[s]
	best := row[actions[0]]
	for _, a := range actions[1:] {
		best = max(best, row[a])
	}
	return best
}

// Visit increments and returns the update count of s.
func (q *QTable) Visit(s StateKey) int {
	q.visits[s]++
	return q.visits[s]
}

// Visits returns how many updates s received.
func (q *QTable) Visits(s StateKey) int {
	return q.visits[s]
}

// Len returns the number of states with stored values.
func (q *QTable) Len() int {
	return len(q.values)
}

// Entries returns a snapshot ordered by position then the remaining key fields.
func (q *QTable) Entries() []Entry {
	entries := make([]Entry, 0, len(q.values))
	for s, row := range q.values {
		entries = append(entries, Entry{State: s, Values: row, Visits: q.visits[s]})
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.State.Pos.Y, b.State.Pos.Y),
			cmp.Compare(a.State.Pos.X, b.State.Pos.X),
			cmp.Compare(a.State.Octant, b.State.Octant),
			cmp.Compare(a.State.Distance, b.State.Distance),
			cmp.Compare(a.State.Local, b.State.Local),
		)
	})
	return entries
}

// Restore replaces the table contents with entries.
func (q *QTable) Restore(entries []Entry) {
	q.values = make(map[StateKey][4]float64, len(entries))
	q.visits = make(map[StateKey]int, len(entries))
	for _, e := range entries {
		q.values[e.State] = e.Values
		if e.Visits > 0 {
			q.visits[e.State] = e.Visits
		}
	}
}

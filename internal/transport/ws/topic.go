package ws

import (
	"fmt"
	"strings"
)

// topic is one row-change subscription held by a client.
type topic struct {
	table     string
	actions   map[string]struct{} // empty = all actions
	filterCol string
	filterVal string
}

// newTopic parses a SubscribePayload. Filters use the "col=eq.value" form.
func newTopic(p SubscribePayload) (topic, error) {
	t := topic{table: p.Table, actions: make(map[string]struct{})}
	if t.table == "" {
		return t, fmt.Errorf("table is required")
	}

	for _, a := range p.Events {
		if a == "*" {
			continue
		}
		t.actions[strings.ToUpper(a)] = struct{}{}
	}

	if p.Filter != "" {
		col, rest, ok := strings.Cut(p.Filter, "=")
		if !ok || !strings.HasPrefix(rest, "eq.") {
			return t, fmt.Errorf("filter must look like col=eq.value")
		}
		t.filterCol = col
		t.filterVal = strings.TrimPrefix(rest, "eq.")
	}
	return t, nil
}

// key canonicalizes the topic so re-subscribing is idempotent.
func (t topic) key() string {
	actions := make([]string, 0, len(t.actions))
	for a := range t.actions {
		actions = append(actions, a)
	}
	return fmt.Sprintf("%s|%s|%s=%s", t.table, strings.Join(actions, ","), t.filterCol, t.filterVal)
}

// matches reports whether a change on table/action with the given record
// fields falls inside this topic.
func (t topic) matches(table, action string, fields map[string]string) bool {
	if t.table != table {
		return false
	}
	if len(t.actions) > 0 {
		if _, ok := t.actions[action]; !ok {
			return false
		}
	}
	if t.filterCol != "" {
		return fields[t.filterCol] == t.filterVal
	}
	return true
}

// Package extract turns a raw model reply into the message shown to the
// customer plus the structured item list the order is synced against.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ccastromar/pizzabot/internal/order"
)

type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
)

func parseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusComplete)) {
		return StatusComplete
	}
	return StatusInProgress
}

// Reply is one parsed model turn. HasOrder is false when the reply did not
// carry an item list at all, which leaves the order untouched.
type Reply struct {
	Message    string
	Status     Status
	Selections []order.Selection
	HasOrder   bool
}

func (r Reply) Complete() bool { return r.Status == StatusComplete }

type Parser interface {
	Parse(raw string) (Reply, error)
}

var ErrMalformedReply = errors.New("malformed model reply")

// MalformedError carries the cleaned reply text so the caller can still
// show the customer what the model said.
type MalformedError struct {
	Text string
	Err  error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedReply, e.Err)
}

func (e *MalformedError) Unwrap() []error { return []error{ErrMalformedReply, e.Err} }

// stringList accepts a JSON array of strings, a single string or null.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*l = compact(many)
		return nil
	}
	var one *string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("expected a string or a list of strings, got %s", data)
	}
	if one == nil {
		*l = nil
		return nil
	}
	*l = compact(strings.Split(*one, ","))
	return nil
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// skip reports list entries that mean "nothing", such as "None" or "N/A".
func skip(s string) bool {
	switch strings.ToLower(strings.Trim(strings.TrimSpace(s), ".")) {
	case "", "none", "n/a", "na", "no", "nothing":
		return true
	}
	return false
}

// splitQualifier reads "Wings (Hot)" as item "Wings" with option "Hot".
func splitQualifier(s string) (string, []string) {
	s = strings.TrimSpace(s)
	open := strings.LastIndex(s, "(")
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return s, nil
	}
	name := strings.TrimSpace(s[:open])
	return name, compact(strings.Split(s[open+1:len(s)-1], ","))
}

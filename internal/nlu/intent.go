// Package nlu turns a free-text question into an intent label and a set of
// catalog entities. Everything here is rule-based, deterministic and free of
// I/O; the phrase dictionaries are built from a catalog once per load.
package nlu

import (
	"fmt"

	domerrors "github.com/garyellow/casmate/internal/errors"
)

// Intent is the closed set of question kinds the bot answers.
type Intent int

const (
	IntentCourseInfo Intent = iota // fallback
	IntentGreeting
	IntentGoodbye
	IntentPrerequisites
	IntentUnits
	IntentCurriculum
	IntentDeptHeadsList
	IntentDeptHeadOne
	IntentInstructor
	IntentFinance
)

var intentNames = [...]string{
	IntentCourseInfo:    "courseinfo",
	IntentGreeting:      "greeting",
	IntentGoodbye:       "goodbye",
	IntentPrerequisites: "prerequisites",
	IntentUnits:         "units",
	IntentCurriculum:    "curriculum",
	IntentDeptHeadsList: "dept_heads_list",
	IntentDeptHeadOne:   "dept_head_one",
	IntentInstructor:    "instructor",
	IntentFinance:       "finance",
}

// Intents lists every intent in declaration order.
func Intents() []Intent {
	out := make([]Intent, len(intentNames))
	for i := range intentNames {
		out[i] = Intent(i)
	}
	return out
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(intentNames) {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

// MarshalText implements encoding.TextMarshaler.
func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Intent) UnmarshalText(b []byte) error {
	v, err := ParseIntent(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// ParseIntent maps a label back to its Intent.
func ParseIntent(s string) (Intent, error) {
	for i, name := range intentNames {
		if name == s {
			return Intent(i), nil
		}
	}
	return IntentCourseInfo, fmt.Errorf("%w: %q", domerrors.ErrUnknownIntent, s)
}

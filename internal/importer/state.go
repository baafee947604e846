package importer

import "github.com/iancoleman/strcase"

// State 디스패처 세션의 상태입니다.
//
//	Idle → Detecting → Dispatched → {Completed | Canceled | Failed}
type State int32

const (
	Idle State = iota
	Detecting
	Dispatched
	Completed
	Canceled
	Failed
)

var stateNames = [...]string{
	Idle:       "Idle",
	Detecting:  "Detecting",
	Dispatched: "Dispatched",
	Completed:  "Completed",
	Canceled:   "Canceled",
	Failed:     "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(strcase.ToSnake(s.String())), nil
}

// IsTerminal 종료 상태 여부를 반환합니다. 종료 상태에서는 더 이상 전이하지 않습니다.
func (s State) IsTerminal() bool {
	return s == Completed || s == Canceled || s == Failed
}

// allowedTransitions 허용된 상태 전이 목록입니다.
var allowedTransitions = map[State][]State{
	Idle:       {Detecting, Canceled},
	Detecting:  {Dispatched, Canceled, Failed},
	Dispatched: {Completed, Canceled, Failed},
}

func isAllowedTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

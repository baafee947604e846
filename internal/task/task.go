// Package task 진행률을 보고하고 협조적으로 취소할 수 있는 장기 실행 작업의 계약을 정의합니다.
//
// 포맷별 파서와 임포트 디스패처는 모두 Task[*rawdata.RawDataFile]를 구현하므로,
// 호출자는 말단 파서와 디스패처를 동일한 방식으로 실행하고 중첩할 수 있습니다.
package task

import (
	"context"

	"github.com/iancoleman/strcase"
)

const component = "task"

// Task 결과 타입 R을 생성하는 취소 가능한 작업입니다.
//
// Execute는 작업 인스턴스당 한 번만 호출할 수 있으며, 두 번째 호출은 ErrAlreadyExecuted를 반환합니다.
// Progress와 Cancel은 Execute와 다른 고루틴에서 호출해도 안전하며 블록되지 않습니다.
type Task[R any] interface {
	// Execute 작업을 수행하고 결과를 반환합니다. 취소된 경우 ErrCanceled를 반환합니다.
	Execute(ctx context.Context) (R, error)

	// Progress 현재 진행률을 [0.0, 1.0] 범위로 반환합니다.
	Progress() float64

	// Cancel 작업 중단을 요청합니다. 작업은 다음 체크포인트에서 이를 관찰합니다.
	Cancel()

	// Result Execute가 성공적으로 완료된 경우에만 결과와 true를 반환합니다.
	Result() (R, bool)
}

// State 작업의 생명주기 상태입니다.
type State int32

const (
	Created State = iota
	Running
	Completed
	Canceled
	Failed
)

var stateNames = [...]string{
	Created:   "Created",
	Running:   "Running",
	Completed: "Completed",
	Canceled:  "Canceled",
	Failed:    "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "Unknown"
	}
	return stateNames[s]
}

// IsTerminal 더 이상 전이가 일어나지 않는 상태인지 여부를 반환합니다.
func (s State) IsTerminal() bool {
	return s == Completed || s == Canceled || s == Failed
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(strcase.ToSnake(s.String())), nil
}

// Package service 애플리케이션을 구성하는 장기 실행 서비스의 공통 규약을 정의합니다.
package service

import (
	"context"
	"sync"
)

// Service 애플리케이션 수명 동안 백그라운드에서 동작하는 서비스입니다.
//
// Start는 서비스 고루틴을 띄운 뒤 즉시 반환합니다. serviceStopCtx가 취소되면 서비스는 종료 절차를 수행하고,
// 모든 고루틴이 끝나면 serviceStopWG.Done()을 정확히 한 번 호출합니다. Start가 에러를 반환한 경우에도 Done()은 호출됩니다.
type Service interface {
	Start(serviceStopCtx context.Context, serviceStopWG *sync.WaitGroup) error
}

package task

import "context"

// funcTask 함수 하나로 구성된 Task입니다.
type funcTask[R any] struct {
	*Base[R]
	fn func(ctx context.Context, b *Base[R]) (R, error)
}

var _ Task[int] = (*funcTask[int])(nil)

// FromFunc fn을 실행하는 Task를 생성합니다. fn은 전달받은 Base로 진행률 보고와 체크포인트를 수행합니다.
func FromFunc[R any](name string, fn func(ctx context.Context, b *Base[R]) (R, error)) Task[R] {
	return &funcTask[R]{Base: NewBase[R](name), fn: fn}
}

func (t *funcTask[R]) Execute(ctx context.Context) (R, error) {
	return t.Run(ctx, func(ctx context.Context) (R, error) {
		return t.fn(ctx, t.Base)
	})
}

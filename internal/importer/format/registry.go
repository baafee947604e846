package format

import (
	"slices"

	"github.com/darkkaiser/msdk-importer/internal/rawdata"
	"github.com/darkkaiser/msdk-importer/internal/task"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
)

// Factory 감지된 포맷의 파서 작업을 생성합니다. 생성된 작업은 src를 단독으로 읽습니다.
type Factory func(src Source, tag Tag) (task.Task[*rawdata.RawDataFile], error)

// Entry 포맷 하나에 대한 등록 정보입니다.
type Entry struct {
	Tag     Tag
	Factory Factory
}

// Registry 포맷과 파서 Factory의 불변 매핑입니다. 생성 이후에는 변경되지 않으므로 잠금 없이 공유할 수 있습니다.
type Registry struct {
	factories map[Tag]Factory
}

// NewRegistry entries로 Registry를 생성합니다.
// Unknown 포맷, 정의되지 않은 포맷, nil Factory, 중복 등록은 허용하지 않습니다.
func NewRegistry(entries ...Entry) (*Registry, error) {
	factories := make(map[Tag]Factory, len(entries))

	for _, e := range entries {
		if e.Tag == Unknown || e.Tag.String() == tagNames[Unknown] {
			return nil, newErrInvalidEntry("Unknown 또는 정의되지 않은 포맷(%d)은 등록할 수 없습니다", int(e.Tag))
		}
		if e.Factory == nil {
			return nil, newErrInvalidEntry("포맷(%s)의 Factory가 nil입니다", e.Tag)
		}
		if _, exists := factories[e.Tag]; exists {
			return nil, newErrDuplicateFormat(e.Tag)
		}

		factories[e.Tag] = e.Factory
	}

	r := &Registry{factories: factories}

	applog.WithComponentAndFields(component, applog.Fields{
		"formats": r.Tags(),
	}).Debug("포맷 레지스트리 생성 완료")

	return r, nil
}

// MustNewRegistry NewRegistry와 같지만 실패 시 panic을 발생시킵니다. 패키지 수준 기본값 구성에 사용합니다.
func MustNewRegistry(entries ...Entry) *Registry {
	r, err := NewRegistry(entries...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup tag에 등록된 Factory를 반환합니다. Unknown이거나 등록되지 않은 포맷이면 false를 반환합니다.
func (r *Registry) Lookup(tag Tag) (Factory, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.factories[tag]
	return f, ok
}

// Tags 등록된 포맷을 오름차순으로 반환합니다.
func (r *Registry) Tags() []Tag {
	if r == nil {
		return nil
	}

	tags := make([]Tag, 0, len(r.factories))
	for t := range r.factories {
		tags = append(tags, t)
	}
	slices.Sort(tags)

	return tags
}

// Restrict names에 해당하는 포맷만 남긴 새 Registry를 반환합니다. names가 비어 있으면 r을 그대로 반환합니다.
func (r *Registry) Restrict(names ...string) (*Registry, error) {
	if len(names) == 0 {
		return r, nil
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		tag, ok := ParseTag(name)
		if !ok {
			return nil, newErrInvalidEntry("알 수 없는 포맷 이름입니다: '%s'", name)
		}
		f, ok := r.Lookup(tag)
		if !ok {
			return nil, newErrInvalidEntry("파서가 등록되지 않은 포맷입니다: '%s'", name)
		}
		entries = append(entries, Entry{Tag: tag, Factory: f})
	}

	return NewRegistry(entries...)
}

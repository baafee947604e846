package format

import "io"

// Source 포맷 감지와 파싱에 사용하는 입력입니다. Name은 진단 메시지에 사용됩니다.
// *os.File은 별도의 변환 없이 Source를 만족합니다.
type Source interface {
	io.ReadSeeker
	Name() string
}

type namedSource struct {
	io.ReadSeeker
	name string
}

func (s namedSource) Name() string {
	return s.name
}

// NewSource 이름이 없는 ReadSeeker에 name을 부여하여 Source로 만듭니다.
func NewSource(name string, r io.ReadSeeker) Source {
	return namedSource{ReadSeeker: r, name: name}
}

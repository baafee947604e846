package xmlparser

import (
	"io"
	"sync/atomic"
)

// countingReader 원본 스트림에서 읽은 바이트 수를 기록합니다. 문자셋 변환 이전의 위치로 진행률을 계산하기 위해 사용합니다.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

func (c *countingReader) Count() int64 {
	return c.n.Load()
}

func sourceSize(s io.Seeker) (int64, error) {
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := s.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

package format

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "github.com/darkkaiser/msdk-importer/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func utf16Document(t *testing.T, s string) []byte {
	t.Helper()

	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	require.NoError(t, err)

	return b
}

func TestDetector_Detect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		want    Tag
	}{
		{
			name:    "mzML",
			content: []byte(`<?xml version="1.0" encoding="UTF-8"?>` + "\n" + `<mzML xmlns="http://psi.hupo.org/ms/mzml" version="1.1.0"><run id="r1"/></mzML>`),
			want:    MzML,
		},
		{
			name:    "indexedmzML",
			content: []byte(`<?xml version="1.0"?><indexedmzML xmlns="http://psi.hupo.org/ms/mzml"><mzML/></indexedmzML>`),
			want:    MzML,
		},
		{
			name:    "mzXML",
			content: []byte(`<?xml version="1.0" encoding="ISO-8859-1"?><!-- generated --><mzXML xmlns="http://sashimi.sourceforge.net/schema_revision/mzXML_3.2"><msRun/></mzXML>`),
			want:    MzXML,
		},
		{
			name:    "mzData",
			content: []byte("\xef\xbb\xbf<?xml version=\"1.0\"?>\n<mzData version=\"1.05\"></mzData>"),
			want:    MzData,
		},
		{
			name:    "Thermo RAW",
			content: append(append([]byte{0x01, 0xA1}, utf16le("Finnigan")...), make([]byte, 64)...),
			want:    ThermoRAW,
		},
		{
			name:    "NetCDF",
			content: []byte("CDF\x01\x00\x00\x00\x00"),
			want:    NetCDF,
		},
		{
			name:    "mzTab",
			content: []byte("MTD\tmzTab-version\t1.0.0\nMTD\tmzTab-mode\tSummary\n"),
			want:    MzTab,
		},
		{
			name:    "UTF-16 mzML",
			content: nil,
			want:    MzML,
		},
		{
			name:    "Unknown: 다른 XML 문서",
			content: []byte(`<?xml version="1.0"?><html><body/></html>`),
			want:    Unknown,
		},
		{
			name:    "Unknown: 바이너리",
			content: []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a},
			want:    Unknown,
		},
		{
			name:    "Unknown: 빈 파일",
			content: []byte{},
			want:    Unknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := tt.content
			if content == nil {
				content = utf16Document(t, `<?xml version="1.0" encoding="UTF-16"?><mzML version="1.1.0"></mzML>`)
			}

			tag, err := NewDetector(0).Detect(NewSource(tt.name, bytes.NewReader(content)))

			require.NoError(t, err)
			assert.Equal(t, tt.want, tag)
		})
	}
}

func TestDetector_Detect_잘린_헤더에서도_루트_요소_판별(t *testing.T) {
	t.Parallel()

	doc := `<?xml version="1.0"?><mzXML><msRun scanCount="1000">` + strings.Repeat(`<scan num="1" msLevel="1"/>`, 500) + `</msRun></mzXML>`

	tag, err := NewDetector(512).Detect(NewSource("big.mzXML", strings.NewReader(doc)))

	require.NoError(t, err)
	assert.Equal(t, MzXML, tag)
}

func TestDetector_Detect_읽기_위치_복원(t *testing.T) {
	t.Parallel()

	r := bytes.NewReader([]byte(`<mzML></mzML>`))
	_, err := r.Seek(3, io.SeekStart)
	require.NoError(t, err)

	tag, err := NewDetector(0).Detect(NewSource("a.mzML", r))
	require.NoError(t, err)
	assert.Equal(t, MzML, tag)

	pos, err := r.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pos, "감지 이후에도 원래 위치가 유지되어야 합니다")
}

type failingSource struct {
	readErr error
	seekErr error
}

func (s *failingSource) Read([]byte) (int, error)        { return 0, s.readErr }
func (s *failingSource) Seek(int64, int) (int64, error) { return 0, s.seekErr }
func (s *failingSource) Name() string                   { return "broken.raw" }

func TestDetector_Detect_IO_실패는_DetectionError(t *testing.T) {
	t.Parallel()

	ioErr := errors.New("device not ready")

	tests := []struct {
		name string
		src  *failingSource
	}{
		{name: "읽기 실패", src: &failingSource{readErr: ioErr}},
		{name: "Seek 실패", src: &failingSource{seekErr: ioErr}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tag, err := NewDetector(0).Detect(tt.src)

			assert.Equal(t, Unknown, tag)
			assert.ErrorIs(t, err, ErrDetectionFailed)
			assert.ErrorIs(t, err, ioErr)
			assert.True(t, apperrors.Is(err, apperrors.System))
			assert.Contains(t, err.Error(), "broken.raw")
		})
	}
}

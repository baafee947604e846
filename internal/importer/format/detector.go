// Package format 원시 데이터 파일의 포맷 감지와 포맷별 파서 레지스트리를 제공합니다.
package format

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"

	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const component = "importer.format"

// DefaultPrefixSize 포맷 감지를 위해 읽는 파일 앞부분의 기본 크기입니다.
const DefaultPrefixSize = 4096

var (
	thermoMagic = append([]byte{0x01, 0xA1}, utf16le("Finnigan")...)

	netCDFClassic = []byte("CDF\x01")
	netCDF64Bit   = []byte("CDF\x02")

	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// header 시그니처 판별에 사용하는 파일 앞부분입니다.
type header struct {
	raw  []byte // 파일에서 읽은 바이트 그대로
	text []byte // UTF-16 BOM이 있으면 UTF-8로 변환한 값, 아니면 raw와 동일

	rootElement string // XML이면 첫 번째 요소의 로컬 이름
}

// signature 하나의 포맷을 판별하는 술어입니다.
type signature struct {
	tag   Tag
	match func(h *header) bool
}

// 순서대로 검사하며 처음 일치한 포맷을 사용한다. 바이너리 매직을 텍스트 판별보다 먼저 검사하고,
// XML 포맷은 루트 요소 이름의 완전 일치로 구분하므로 둘 이상이 동시에 일치하지 않는다.
var defaultSignatures = []signature{
	{tag: ThermoRAW, match: func(h *header) bool { return bytes.HasPrefix(h.raw, thermoMagic) }},
	{tag: NetCDF, match: func(h *header) bool {
		return bytes.HasPrefix(h.raw, netCDFClassic) || bytes.HasPrefix(h.raw, netCDF64Bit)
	}},
	{tag: MzML, match: func(h *header) bool { return h.rootElement == "mzML" || h.rootElement == "indexedmzML" }},
	{tag: MzXML, match: func(h *header) bool { return h.rootElement == "mzXML" }},
	{tag: MzData, match: func(h *header) bool { return h.rootElement == "mzData" }},
	{tag: MzTab, match: func(h *header) bool {
		return h.rootElement == "" && bytes.Contains(h.text, []byte("mzTab-version"))
	}},
}

// Detector 파일 내용(확장자가 아닌)으로 포맷을 판별합니다. 상태가 없으므로 여러 고루틴에서 공유할 수 있습니다.
type Detector struct {
	prefixSize int
	signatures []signature
}

// NewDetector prefixSize 바이트까지 읽어 판별하는 Detector를 생성합니다. 0 이하이면 DefaultPrefixSize를 사용합니다.
func NewDetector(prefixSize int) *Detector {
	if prefixSize <= 0 {
		prefixSize = DefaultPrefixSize
	}
	return &Detector{prefixSize: prefixSize, signatures: defaultSignatures}
}

// Detect src의 포맷을 반환합니다.
//
// 파일 처음부터 최대 prefixSize 바이트를 읽은 뒤 호출 전의 위치로 되돌리므로,
// 이후의 소비자는 감지 과정의 영향을 받지 않습니다. 일치하는 시그니처가 없으면 (Unknown, nil)을 반환하며,
// 에러는 헤더를 읽거나 위치를 복원하는 도중의 I/O 실패에서만 발생합니다.
func (d *Detector) Detect(src Source) (Tag, error) {
	raw, err := readPrefix(src, d.prefixSize)
	if err != nil {
		return Unknown, newErrDetectionFailed(src.Name(), err)
	}

	h := newHeader(raw)
	for _, sig := range d.signatures {
		if sig.match(h) {
			applog.WithComponentAndFields(component, applog.Fields{
				"file":   src.Name(),
				"format": sig.tag,
			}).Debug("파일 포맷 감지 완료")

			return sig.tag, nil
		}
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"file":        src.Name(),
		"prefix_size": len(raw),
	}).Debug("일치하는 파일 포맷이 없습니다")

	return Unknown, nil
}

func readPrefix(r io.ReadSeeker, size int) (prefix []byte, err error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	defer func() {
		if _, seekErr := r.Seek(pos, io.SeekStart); seekErr != nil && err == nil {
			prefix, err = nil, seekErr
		}
	}()

	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}

	return buf[:n], nil
}

func newHeader(raw []byte) *header {
	h := &header{raw: raw, text: raw}

	decoded := false
	if bytes.HasPrefix(raw, bomUTF16LE) || bytes.HasPrefix(raw, bomUTF16BE) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		if text, _, err := transform.Bytes(dec, raw); err == nil {
			h.text = text
			decoded = true
		}
	}

	h.rootElement = rootElement(h.text, decoded)

	return h
}

// rootElement prefix가 XML 문서이면 첫 번째 시작 요소의 로컬 이름을 반환합니다.
// prefix가 잘린 경우에도 루트 요소까지 도달하면 판별할 수 있습니다.
func rootElement(text []byte, alreadyUTF8 bool) string {
	trimmed := bytes.TrimLeft(text, "\xef\xbb\xbf \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '<' {
		return ""
	}

	dec := xml.NewDecoder(bytes.NewReader(trimmed))
	dec.Strict = false
	if alreadyUTF8 {
		dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }
	} else {
		dec.CharsetReader = charset.NewReaderLabel
	}

	for {
		tok, err := dec.RawToken()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			return se.Name.Local
		}
	}
}

func utf16le(s string) []byte {
	b := make([]byte, 0, len(s)*2)
	for _, r := range s {
		b = append(b, byte(r), 0)
	}
	return b
}

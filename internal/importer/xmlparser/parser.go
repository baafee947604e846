// Package xmlparser XML 기반 원시 데이터 포맷(mzML, mzXML, mzData)을 스트리밍 방식으로 읽는 파서 작업입니다.
//
// 스펙트럼(스캔) 요소의 헤더 정보만 추출하며, 바이너리 피크 배열은 디코딩하지 않습니다.
// 스펙트럼 요소를 만날 때마다 취소 요청을 확인하고 진행률을 갱신합니다.
package xmlparser

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/darkkaiser/msdk-importer/internal/importer/format"
	"github.com/darkkaiser/msdk-importer/internal/rawdata"
	"github.com/darkkaiser/msdk-importer/internal/task"
	applog "github.com/darkkaiser/msdk-importer/pkg/log"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const component = "importer.xmlparser"

// checkpointInterval 스펙트럼 요소가 아니더라도 이 개수의 토큰마다 취소 여부를 확인합니다.
const checkpointInterval = 1024

// handler 포맷별 요소 해석 규칙입니다.
type handler interface {
	// rootNames 허용하는 루트 요소 이름입니다.
	rootNames() []string

	// start 시작 요소를 처리합니다. 새 스캔이 시작되었으면 true를 반환합니다.
	start(se xml.StartElement) (bool, error)

	end(ee xml.EndElement) error

	scans() []rawdata.Scan
}

// Parser XML 기반 포맷의 파서 작업입니다.
type Parser struct {
	*task.Base[*rawdata.RawDataFile]

	src format.Source
	tag format.Tag
}

var _ task.Task[*rawdata.RawDataFile] = (*Parser)(nil)

// Supports tag가 이 패키지에서 처리할 수 있는 포맷인지 확인합니다.
func Supports(tag format.Tag) bool {
	return tag == format.MzML || tag == format.MzXML || tag == format.MzData
}

// New src를 tag 포맷으로 해석하는 파서 작업을 생성합니다. format.Factory 시그니처를 따르며, 생성 시점에는 src를 읽지 않습니다.
func New(src format.Source, tag format.Tag) (task.Task[*rawdata.RawDataFile], error) {
	if !Supports(tag) {
		return nil, newErrUnsupportedTag(tag)
	}

	return &Parser{
		Base: task.NewBase[*rawdata.RawDataFile](tag.Slug() + ":" + filepath.Base(src.Name())),
		src:  src,
		tag:  tag,
	}, nil
}

// Entries 이 패키지가 처리하는 포맷의 레지스트리 등록 정보를 반환합니다.
func Entries() []format.Entry {
	return []format.Entry{
		{Tag: format.MzML, Factory: New},
		{Tag: format.MzXML, Factory: New},
		{Tag: format.MzData, Factory: New},
	}
}

func (p *Parser) Execute(ctx context.Context) (*rawdata.RawDataFile, error) {
	return p.Run(ctx, p.parse)
}

func newHandler(tag format.Tag) handler {
	switch tag {
	case format.MzXML:
		return &mzXMLHandler{}
	case format.MzData:
		return &mzDataHandler{}
	default:
		return &mzMLHandler{}
	}
}

func (p *Parser) parse(ctx context.Context) (*rawdata.RawDataFile, error) {
	name := p.src.Name()

	size, err := sourceSize(p.src)
	if err != nil {
		return nil, newErrSourceIO(name, err)
	}

	// 진행률은 디코딩 전의 원본 바이트 기준으로 계산한다.
	cr := &countingReader{r: p.src}
	dec := xml.NewDecoder(transform.NewReader(cr, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	h := newHandler(p.tag)
	rootSeen := false

	for tokens := 1; ; tokens++ {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var syntaxErr *xml.SyntaxError
			if errors.As(err, &syntaxErr) {
				return nil, newErrMalformedDocument(name, err)
			}
			return nil, newErrSourceIO(name, err)
		}

		checkpoint := tokens%checkpointInterval == 0

		switch el := tok.(type) {
		case xml.StartElement:
			if !rootSeen {
				if !slices.Contains(h.rootNames(), el.Name.Local) {
					return nil, newErrMalformedf(name, "루트 요소(%s)가 %s 문서의 루트 요소가 아닙니다", el.Name.Local, p.tag)
				}
				rootSeen = true
				continue
			}

			started, err := h.start(el)
			if err != nil {
				return nil, newErrMalformedDocument(name, err)
			}
			checkpoint = checkpoint || started

		case xml.EndElement:
			if err := h.end(el); err != nil {
				return nil, newErrMalformedDocument(name, err)
			}
		}

		if checkpoint {
			if err := p.Checkpoint(ctx); err != nil {
				return nil, err
			}
			if size > 0 {
				p.SetProgress(float64(cr.Count()) / float64(size))
			}
		}
	}

	if !rootSeen {
		return nil, newErrMalformedf(name, "루트 요소가 없습니다")
	}

	file := &rawdata.RawDataFile{
		Name:   filepath.Base(name),
		Path:   name,
		Format: p.tag.String(),
		Scans:  h.scans(),
	}

	applog.WithComponentAndFields(component, applog.Fields{
		"file":   name,
		"format": p.tag,
		"scans":  file.ScanCount(),
	}).Debug("XML 원시 데이터 파일 해석 완료")

	return file, nil
}

// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
// 속성 헬퍼
// ━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

// charsetReader XML 선언의 encoding에 맞는 디코더를 반환합니다.
// UTF-16 문서는 BOM을 보고 이미 UTF-8로 변환했으므로 입력을 그대로 사용합니다.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(label) {
	case "utf-16", "utf-16le", "utf-16be":
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

func attr(se xml.StartElement, name string) (string, bool) {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// intAttr name 속성을 정수로 해석합니다. 속성이 없으면 def를 반환합니다.
func intAttr(se xml.StartElement, name string, def int) (int, error) {
	v, ok := attr(se, name)
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &attrError{element: se.Name.Local, attr: name, value: v, err: err}
	}
	return n, nil
}

func floatAttr(se xml.StartElement, name string) (float64, bool, error) {
	v, ok := attr(se, name)
	if !ok || v == "" {
		return 0, false, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, &attrError{element: se.Name.Local, attr: name, value: v, err: err}
	}
	return f, true, nil
}

// attrError 속성 값을 해석하지 못한 경우의 원인 에러입니다.
type attrError struct {
	element string
	attr    string
	value   string
	err     error
}

func (e *attrError) Error() string {
	return "<" + e.element + "> 요소의 " + e.attr + " 속성 값(" + strconv.Quote(e.value) + ")을 해석할 수 없습니다"
}

func (e *attrError) Unwrap() error {
	return e.err
}

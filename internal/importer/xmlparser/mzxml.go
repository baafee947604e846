package xmlparser

import (
	"encoding/xml"

	"github.com/darkkaiser/msdk-importer/internal/rawdata"
)

// mzXMLHandler mzXML의 <scan> 요소는 모든 헤더 정보를 속성으로 가지며, MS2 스캔이 MS1 스캔 내부에 중첩될 수 있습니다.
type mzXMLHandler struct {
	out []rawdata.Scan
}

func (h *mzXMLHandler) rootNames() []string {
	return []string{"mzXML"}
}

func (h *mzXMLHandler) start(se xml.StartElement) (bool, error) {
	if se.Name.Local != "scan" {
		return false, nil
	}

	num, err := intAttr(se, "num", len(h.out)+1)
	if err != nil {
		return false, err
	}
	level, err := intAttr(se, "msLevel", 0)
	if err != nil {
		return false, err
	}
	peaks, err := intAttr(se, "peaksCount", 0)
	if err != nil {
		return false, err
	}

	var rt float64
	if v, ok := attr(se, "retentionTime"); ok && v != "" {
		if rt, err = parseDuration(v); err != nil {
			return false, &attrError{element: "scan", attr: "retentionTime", value: v, err: err}
		}
	}

	h.out = append(h.out, rawdata.Scan{Number: num, MSLevel: level, RetentionTime: rt, DataPoints: peaks})

	return true, nil
}

func (h *mzXMLHandler) end(xml.EndElement) error {
	return nil
}

func (h *mzXMLHandler) scans() []rawdata.Scan {
	return h.out
}

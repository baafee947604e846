package xmlparser

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/darkkaiser/msdk-importer/internal/rawdata"
)

type mzDataHandler struct {
	current   *rawdata.Scan
	inMzArray bool
	out       []rawdata.Scan
}

func (h *mzDataHandler) rootNames() []string {
	return []string{"mzData"}
}

func (h *mzDataHandler) start(se xml.StartElement) (bool, error) {
	switch se.Name.Local {
	case "spectrum":
		id, _ := attr(se, "id")
		number, err := strconv.Atoi(id)
		if err != nil {
			number = len(h.out) + 1
		}
		h.current = &rawdata.Scan{Number: number, ID: id}
		return true, nil
	}

	if h.current == nil {
		return false, nil
	}

	switch se.Name.Local {
	case "spectrumInstrument":
		level, err := intAttr(se, "msLevel", 0)
		if err != nil {
			return false, err
		}
		h.current.MSLevel = level

	case "cvParam":
		name, _ := attr(se, "name")
		var factor float64
		switch {
		case strings.EqualFold(name, "TimeInMinutes"):
			factor = 60
		case strings.EqualFold(name, "TimeInSeconds"):
			factor = 1
		default:
			return false, nil
		}
		rt, _, err := floatAttr(se, "value")
		if err != nil {
			return false, err
		}
		h.current.RetentionTime = rt * factor

	case "mzArrayBinary":
		h.inMzArray = true

	case "data":
		if h.inMzArray {
			length, err := intAttr(se, "length", 0)
			if err != nil {
				return false, err
			}
			h.current.DataPoints = length
		}
	}

	return false, nil
}

func (h *mzDataHandler) end(ee xml.EndElement) error {
	switch ee.Name.Local {
	case "mzArrayBinary":
		h.inMzArray = false
	case "spectrum":
		if h.current != nil {
			h.out = append(h.out, *h.current)
			h.current = nil
		}
	}
	return nil
}

func (h *mzDataHandler) scans() []rawdata.Scan {
	return h.out
}

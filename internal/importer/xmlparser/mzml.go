package xmlparser

import (
	"encoding/xml"
	"regexp"
	"strconv"

	"github.com/darkkaiser/msdk-importer/internal/rawdata"
)

// PSI-MS / UO 용어집 accession
const (
	accessionMSLevel       = "MS:1000511"
	accessionScanStartTime = "MS:1000016"
	accessionUnitMinute    = "UO:0000031"
)

var nativeScanNumber = regexp.MustCompile(`(?:^|\s)scan=(\d+)`)

type mzMLHandler struct {
	current *rawdata.Scan
	out     []rawdata.Scan
}

func (h *mzMLHandler) rootNames() []string {
	return []string{"mzML", "indexedmzML"}
}

func (h *mzMLHandler) start(se xml.StartElement) (bool, error) {
	switch se.Name.Local {
	case "spectrum":
		index, err := intAttr(se, "index", len(h.out))
		if err != nil {
			return false, err
		}
		points, err := intAttr(se, "defaultArrayLength", 0)
		if err != nil {
			return false, err
		}

		id, _ := attr(se, "id")
		number := index + 1
		if m := nativeScanNumber.FindStringSubmatch(id); m != nil {
			number, _ = strconv.Atoi(m[1])
		}

		h.current = &rawdata.Scan{Number: number, ID: id, DataPoints: points}
		return true, nil

	case "cvParam":
		if h.current == nil {
			return false, nil
		}
		return false, h.cvParam(se)
	}

	return false, nil
}

func (h *mzMLHandler) cvParam(se xml.StartElement) error {
	accession, _ := attr(se, "accession")

	switch accession {
	case accessionMSLevel:
		level, err := intAttr(se, "value", 0)
		if err != nil {
			return err
		}
		h.current.MSLevel = level

	case accessionScanStartTime:
		rt, ok, err := floatAttr(se, "value")
		if err != nil || !ok {
			return err
		}
		unitAccession, _ := attr(se, "unitAccession")
		unitName, _ := attr(se, "unitName")
		if unitAccession == accessionUnitMinute || unitName == "minute" {
			rt *= 60
		}
		h.current.RetentionTime = rt
	}

	return nil
}

func (h *mzMLHandler) end(ee xml.EndElement) error {
	if ee.Name.Local == "spectrum" && h.current != nil {
		h.out = append(h.out, *h.current)
		h.current = nil
	}
	return nil
}

func (h *mzMLHandler) scans() []rawdata.Scan {
	return h.out
}

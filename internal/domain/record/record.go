// Package record parses the whitespace-separated lines of an event file.
//
// Parsing never fails loudly: a line that does not fit is reported with ok
// set to false and the caller skips it.
package record

import (
	"strconv"
	"strings"

	"github.com/okian/pionscan/internal/domain/model"
)

// MinParticleFields is the shortest accepted particle line: px py pz code.
const MinParticleFields = 4

// HeaderFields is the token count of a header line.
const HeaderFields = 2

// ParseParticle reads px, py, pz from the first three tokens and the PDG
// code from the last token.
func ParseParticle(line string) (model.ParticleRecord, bool) {
	fields := strings.Fields(line)
	if len(fields) < MinParticleFields {
		return model.ParticleRecord{}, false
	}
	code, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return model.ParticleRecord{}, false
	}
	var p [3]float64
	for i := range p {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return model.ParticleRecord{}, false
		}
		p[i] = v
	}
	return model.ParticleRecord{Px: p[0], Py: p[1], Pz: p[2], Code: code}, true
}

// ParseHeader reads the event id and declared particle count from the two
// leading tokens. Extra tokens are ignored; a negative count is rejected.
func ParseHeader(line string) (model.EventHeader, bool) {
	fields := strings.Fields(line)
	if len(fields) < HeaderFields {
		return model.EventHeader{}, false
	}
	return parseHeaderFields(fields)
}

// ParseStrictHeader is ParseHeader without tolerance for extra tokens.
func ParseStrictHeader(line string) (model.EventHeader, bool) {
	fields := strings.Fields(line)
	if len(fields) != HeaderFields {
		return model.EventHeader{}, false
	}
	return parseHeaderFields(fields)
}

func parseHeaderFields(fields []string) (model.EventHeader, bool) {
	id, err := strconv.Atoi(fields[0])
	if err != nil {
		return model.EventHeader{}, false
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return model.EventHeader{}, false
	}
	return model.EventHeader{ID: id, Count: n}, true
}

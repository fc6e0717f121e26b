package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindDebug
	KindInfo
	KindCount
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// MemoryAPI records every report so tests can assert on them.
type MemoryAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (m *MemoryAPI) push(r Report) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.reports = append(m.reports, r)
}

func (m *MemoryAPI) ReportBroken(id string, params ...any) {
	m.push(Report{Kind: KindBroken, Id: id, Params: params})
}

func (m *MemoryAPI) ReportWarning(id string, params ...any) {
	m.push(Report{Kind: KindWarning, Id: id, Params: params})
}

func (m *MemoryAPI) ReportDebug(msg string, params ...any) {
	m.push(Report{Kind: KindDebug, Id: msg, Params: params})
}

func (m *MemoryAPI) ReportInfo(msg string, params ...any) {
	m.push(Report{Kind: KindInfo, Id: msg, Params: params})
}

func (m *MemoryAPI) ReportCount(id string, count int64) {
	m.push(Report{Kind: KindCount, Id: id, Count: count})
}

// Reports returns a copy of the recorded reports of the given kind.
func (m *MemoryAPI) Reports(kind ReportKind) []Report {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var out []Report
	for _, r := range m.reports {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// Broken returns the broken reports whose id ends with suffix, ScopedAPI prefixes are ignored that way.
func (m *MemoryAPI) Broken(suffix string) []Report {
	var out []Report
	for _, r := range m.Reports(KindBroken) {
		if strings.HasSuffix(r.Id, suffix) {
			out = append(out, r)
		}
	}
	return out
}

// LastCount returns the most recent count reported under an id ending with suffix.
func (m *MemoryAPI) LastCount(suffix string) (int64, bool) {
	counts := m.Reports(KindCount)
	for i := len(counts) - 1; i >= 0; i-- {
		if strings.HasSuffix(counts[i].Id, suffix) {
			return counts[i].Count, true
		}
	}
	return 0, false
}

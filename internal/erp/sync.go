package erp

import (
	"context"
	"fmt"
	"sync"

	"github.com/zenithmfg/order-tracking/internal/model"
)

// Canonical adapter names, used as keys in merged sync results.
const (
	SystemLogicMate = "logicmate"
	SystemSuntec    = "suntec"
)

// statusEndpoint is the conventional health/summary endpoint both ERP
// systems expose.
const statusEndpoint = "/status"

// AdapterResult is the outcome of one adapter during a fan-out call.
// Exactly one of Data or Error is populated.
type AdapterResult struct {
	OK    bool           `json:"ok"`
	Data  map[string]any `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

// SyncResult merges both adapters' outputs under per-adapter keys.
// Partial reports whether at least one adapter failed while the other
// succeeded.
type SyncResult struct {
	Systems map[string]AdapterResult `json:"systems"`
	Partial bool                     `json:"partial"`
}

// Facade fans calls out to both ERP adapters and merges the results.
// It is constructed explicitly in main and passed into the handlers;
// there is no package-level instance.
type Facade struct {
	logicMate Connector
	suntec    Connector
}

// NewFacade wires the two adapters together. The first argument must be
// the inventory/invoicing system, the second the factory-floor system.
func NewFacade(logicMate, suntec Connector) *Facade {
	return &Facade{logicMate: logicMate, suntec: suntec}
}

// Fetch runs FetchData against a single named adapter.
func (f *Facade) Fetch(ctx context.Context, name, endpoint string) (map[string]any, error) {
	for _, c := range []Connector{f.logicMate, f.suntec} {
		if c.Name() == name {
			return c.FetchData(ctx, endpoint)
		}
	}
	return nil, fmt.Errorf("unknown erp system %q", name)
}

// Status fetches the status summary of one adapter.
func (f *Facade) Status(ctx context.Context, name string) (map[string]any, error) {
	return f.Fetch(ctx, name, statusEndpoint)
}

// SyncAll queries both systems concurrently and merges their status
// payloads. The adapters are independent failure domains: one failing
// or timing out never blocks reporting the other's result. The caller
// always gets a SyncResult; per-adapter errors ride inside it.
func (f *Facade) SyncAll(ctx context.Context) SyncResult {
	connectors := []Connector{f.logicMate, f.suntec}
	results := make([]AdapterResult, len(connectors))

	var wg sync.WaitGroup
	for i, c := range connectors {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()
			data, err := c.FetchData(ctx, statusEndpoint)
			if err != nil {
				results[i] = AdapterResult{Error: err.Error()}
				return
			}
			results[i] = AdapterResult{OK: true, Data: data}
		}(i, c)
	}
	wg.Wait()

	out := SyncResult{Systems: make(map[string]AdapterResult, len(connectors))}
	for i, c := range connectors {
		out.Systems[c.Name()] = results[i]
		if !results[i].OK {
			out.Partial = true
		}
	}
	return out
}

// OrderDetails asks both systems about one order and merges the
// answers. The combined "status" field follows a deterministic
// precedence: delivered beats everything, manufacturing beats anything
// but delivered, otherwise the first non-empty value wins (LogicMate
// first). Per-system payloads are kept under their adapter keys so
// nothing is lost in the merge.
func (f *Facade) OrderDetails(ctx context.Context, orderID uint64) SyncResult {
	endpoint := fmt.Sprintf("/orders/%d", orderID)
	connectors := []Connector{f.logicMate, f.suntec}
	results := make([]AdapterResult, len(connectors))

	var wg sync.WaitGroup
	for i, c := range connectors {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()
			data, err := c.FetchData(ctx, endpoint)
			if err != nil {
				results[i] = AdapterResult{Error: err.Error()}
				return
			}
			results[i] = AdapterResult{OK: true, Data: data}
		}(i, c)
	}
	wg.Wait()

	out := SyncResult{Systems: make(map[string]AdapterResult, len(connectors))}
	var statuses []string
	for i, c := range connectors {
		out.Systems[c.Name()] = results[i]
		if !results[i].OK {
			out.Partial = true
			continue
		}
		if s, _ := results[i].Data["status"].(string); s != "" {
			statuses = append(statuses, s)
		}
	}
	if merged := mergeStatus(statuses); merged != "" {
		// Surface the combined status next to the per-system payloads.
		out.Systems["combined"] = AdapterResult{OK: true, Data: map[string]any{"status": merged}}
	}
	return out
}

// mergeStatus applies the cross-system precedence rule.
func mergeStatus(statuses []string) string {
	for _, s := range statuses {
		if s == model.StatusDelivered {
			return s
		}
	}
	for _, s := range statuses {
		if s == model.StatusManufacturing {
			return s
		}
	}
	for _, s := range statuses {
		if s != "" {
			return s
		}
	}
	return ""
}

// Package health probes the external services the CLI depends on: the
// Monad RPC node and the 0x quoting API.
package health

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Check is the outcome of probing one dependency.
type Check struct {
	Name    string
	Target  string
	Latency time.Duration
	Detail  string
	Err     error
}

// OK reports whether the probe succeeded.
func (c Check) OK() bool { return c.Err == nil }

const probeTimeout = 5 * time.Second

// RPCPinger is the slice of the RPC client the probes depend on.
type RPCPinger interface {
	Ping(ctx context.Context) (time.Duration, uint64, error)
	ChainID(ctx context.Context) (int64, error)
}

// CheckRPC pings the node and verifies it serves the expected chain.
func CheckRPC(ctx context.Context, client RPCPinger, url string, wantChainID int64) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	check := Check{Name: "rpc", Target: url}
	latency, block, err := client.Ping(ctx)
	check.Latency = latency
	if err != nil {
		check.Err = err
		return check
	}
	check.Detail = fmt.Sprintf("block %d", block)

	id, err := client.ChainID(ctx)
	if err != nil {
		check.Err = err
		return check
	}
	if id != wantChainID {
		check.Err = fmt.Errorf("node serves chain %d, want %d", id, wantChainID)
	}
	return check
}

// CheckZeroEx verifies the quoting API endpoint is reachable. Any HTTP
// response counts; only transport failures and server errors do not.
func CheckZeroEx(ctx context.Context, client *http.Client, baseURL string) Check {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	check := Check{Name: "0x api", Target: baseURL}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		check.Err = err
		return check
	}

	start := time.Now()
	resp, err := client.Do(req)
	check.Latency = time.Since(start)
	if err != nil {
		check.Err = err
		return check
	}
	defer resp.Body.Close()

	check.Detail = resp.Status
	if resp.StatusCode >= http.StatusInternalServerError {
		check.Err = fmt.Errorf("upstream returned %s", resp.Status)
	}
	return check
}

// Run executes all probes in parallel and returns their results in order.
func Run(ctx context.Context, probes ...func(context.Context) Check) []Check {
	results := make([]Check, len(probes))
	var wg sync.WaitGroup

	for i, probe := range probes {
		wg.Add(1)
		go func(idx int, p func(context.Context) Check) {
			defer wg.Done()
			results[idx] = p(ctx)
		}(i, probe)
	}

	wg.Wait()
	return results
}

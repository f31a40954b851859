package echoapi

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// Fault is a canned failure the sandbox answers with instead of handling the request.
// A Status of 200 answers {"succes": false, "message": Message}.
type Fault struct {
	Status  int
	Message string
	// Key is the body key Message is sent under; "message" when empty.
	Key   string
	Delay time.Duration
}

type faults struct {
	mu     sync.RWMutex
	byPath map[string]Fault
}

func newFaults() *faults {
	return &faults{byPath: map[string]Fault{}}
}

func (f *faults) set(prefix string, fault Fault) {
	f.mu.Lock()
	f.byPath[prefix] = fault
	f.mu.Unlock()
}

func (f *faults) clear() {
	f.mu.Lock()
	f.byPath = map[string]Fault{}
	f.mu.Unlock()
}

// match returns the fault of the longest matching prefix.
func (f *faults) match(path string) (Fault, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var (
		best    Fault
		bestLen = -1
	)
	for prefix, fault := range f.byPath {
		if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
			best, bestLen = fault, len(prefix)
		}
	}
	return best, bestLen >= 0
}

func (f *faults) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		fault, ok := f.match(ctx.Request().URL.Path)
		if !ok {
			return next(ctx)
		}
		if fault.Delay > 0 {
			select {
			case <-time.After(fault.Delay):
			case <-ctx.Request().Context().Done():
				return ctx.Request().Context().Err()
			}
		}
		if fault.Status == 0 {
			return next(ctx)
		}
		if fault.Status == http.StatusOK {
			return ctx.JSON(http.StatusOK, echo.Map{"succes": false, "message": fault.Message})
		}
		key := fault.Key
		if key == "" {
			key = "message"
		}
		return ctx.JSON(fault.Status, echo.Map{key: fault.Message})
	}
}

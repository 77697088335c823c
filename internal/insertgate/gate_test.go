package insertgate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ynmsafety/ynmops/internal/dedupe"
	"github.com/ynmsafety/ynmops/internal/validation"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newGate() *Gate {
	return New(Params{Log: zap.NewNop(), Locker: NewKeyedMutex()})
}

type record struct {
	Name         string
	ProductTypes []string
}

func manufacturerRequest(store *[]record, candidate record) Request {
	th := dedupe.DefaultThresholds()
	return Request{
		Entity: "manufacturer",
		Validate: func() validation.Result {
			return validation.Name("Manufacturer name", candidate.Name, 0)
		},
		Policy: dedupe.ManufacturerPolicy(th),
		Candidate: dedupe.Fields{
			dedupe.FieldName:         dedupe.Text(candidate.Name),
			dedupe.FieldProductTypes: dedupe.List(candidate.ProductTypes...),
		},
		Peers: func(context.Context) ([]dedupe.Fields, error) {
			peers := make([]dedupe.Fields, 0, len(*store))
			for _, r := range *store {
				peers = append(peers, dedupe.Fields{
					dedupe.FieldName:         dedupe.Text(r.Name),
					dedupe.FieldProductTypes: dedupe.List(r.ProductTypes...),
				})
			}
			return peers, nil
		},
		Conflict: func(m *dedupe.Match) any { return (*store)[m.Index] },
		Persist: func(context.Context) error {
			*store = append(*store, candidate)
			return nil
		},
	}
}

func TestGateCreates(t *testing.T) {
	var store []record
	err := newGate().Run(context.Background(), manufacturerRequest(&store, record{Name: "Crash Barrier", ProductTypes: []string{"W-Beam"}}))
	require.NoError(t, err)
	assert.Len(t, store, 1)
}

func TestGateValidationRunsFirst(t *testing.T) {
	var store []record
	req := manufacturerRequest(&store, record{Name: "   "})
	req.Peers = func(context.Context) ([]dedupe.Fields, error) {
		t.Fatalf("peers must not be loaded for an invalid candidate")
		return nil, nil
	}

	err := newGate().Run(context.Background(), req)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Manufacturer name is required", fieldErr.Message)
	assert.Equal(t, FieldInvalid, KindOf(err))
	assert.Empty(t, store)
}

func TestGateReferenceError(t *testing.T) {
	var store []record
	req := manufacturerRequest(&store, record{Name: "Crash Barrier", ProductTypes: []string{"Road Stud"}})
	req.Reference = func(context.Context) error {
		return &ReferenceError{Field: "productType", Value: "Road Stud"}
	}

	err := newGate().Run(context.Background(), req)
	assert.Equal(t, ReferentialMissing, KindOf(err))
	assert.Equal(t, `productType "Road Stud" does not match any product subtype`, err.Error())
	assert.Empty(t, store)
}

func TestGateDuplicateCarriesExisting(t *testing.T) {
	store := []record{{Name: "Nagpur Highway Safety Products Ltd", ProductTypes: []string{"Thrie Beam"}}}
	err := newGate().Run(context.Background(), manufacturerRequest(&store, record{Name: "Nagpur Highway Safety Produkts Ltd", ProductTypes: []string{"Road Stud"}}))

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, DuplicateMessage, dup.Error())
	assert.Equal(t, dedupe.ClauseNameOnly, dup.Clause)
	assert.Equal(t, store[0], dup.Existing)
	assert.Len(t, store, 1)
}

func TestGatePersistenceFailureKeepsMessage(t *testing.T) {
	var store []record
	req := manufacturerRequest(&store, record{Name: "Crash Barrier", ProductTypes: []string{"W-Beam"}})
	req.Persist = func(context.Context) error { return errors.New("disk full") }

	err := newGate().Run(context.Background(), req)
	assert.Equal(t, PersistenceFailure, KindOf(err))
	assert.Equal(t, "disk full", err.Error())
}

func TestGateUniqueViolationIsDuplicate(t *testing.T) {
	var store []record
	req := manufacturerRequest(&store, record{Name: "Crash Barrier", ProductTypes: []string{"W-Beam"}})
	req.Persist = func(context.Context) error { return gorm.ErrDuplicatedKey }
	req.OnDuplicateKey = func(context.Context) any { return "winner" }

	err := newGate().Run(context.Background(), req)
	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "fingerprint", dup.Clause)
	assert.Equal(t, "winner", dup.Existing)
}

func TestGateSerializesConcurrentCreates(t *testing.T) {
	var (
		mu    sync.Mutex
		store []record
	)
	gate := newGate()

	var created, dups atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := manufacturerRequest(&store, record{Name: "Crash Barrier", ProductTypes: []string{"W-Beam"}})
			peers := req.Peers
			req.Peers = func(ctx context.Context) ([]dedupe.Fields, error) {
				mu.Lock()
				defer mu.Unlock()
				return peers(ctx)
			}
			req.Conflict = func(*dedupe.Match) any { return nil }
			req.Persist = func(context.Context) error {
				time.Sleep(time.Millisecond)
				mu.Lock()
				defer mu.Unlock()
				store = append(store, record{Name: "Crash Barrier"})
				return nil
			}
			switch KindOf(gate.Run(context.Background(), req)) {
			case "":
				created.Add(1)
			case DuplicateConflict:
				dups.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(7), dups.Load())
}

func TestKeyedMutexHonoursContext(t *testing.T) {
	locks := NewKeyedMutex()
	unlock, err := locks.Lock(context.Background(), "insert:task")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = locks.Lock(ctx, "insert:task")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locks.Lock(context.Background(), "insert:order")
	require.NoError(t, err)
	other()

	unlock()
	unlock()
	again, err := locks.Lock(context.Background(), "insert:task")
	require.NoError(t, err)
	again()
}

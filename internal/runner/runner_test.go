package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/danielattilasimon/lqty-circulating-supply/internal/model"
	"github.com/danielattilasimon/lqty-circulating-supply/internal/storage"
)

type fakeChain struct {
	head uint64
}

func (c *fakeChain) LatestBlockNumber(context.Context) (uint64, error) {
	return c.head, nil
}

func (c *fakeChain) BlockTimestamp(_ context.Context, number uint64) (uint64, error) {
	return 1700000000 + number*12, nil
}

type memorySink struct {
	mu        sync.Mutex
	snapshots []model.Snapshot
	err       error
}

func (s *memorySink) PutSnapshot(_ context.Context, snapshot model.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	s.snapshots = append(s.snapshots, snapshot)
	s.mu.Unlock()
	return nil
}

func (s *memorySink) blocks() []uint64 {
	out := make([]uint64, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		out = append(out, snap.BlockNumber)
	}
	return out
}

type fakeFetcher struct {
	mu       sync.Mutex
	refs     []string
	failures map[string]int
}

func (f *fakeFetcher) fetch(_ context.Context, ref model.BlockRef) (model.StatsRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refs = append(f.refs, ref.String())
	if f.failures[ref.String()] > 0 {
		f.failures[ref.String()]--
		return model.StatsRecord{}, errors.New("header not found")
	}
	return model.StatsRecord{TotalBoldSupply: ref.String(), MaxSPAPY: "NaN"}, nil
}

func TestRunnerSamplesRange(t *testing.T) {
	sink := &memorySink{}
	fetcher := &fakeFetcher{failures: map[string]int{"110": 1}}

	r := NewRunner(Config{
		FromBlock:    100,
		ToBlock:      125,
		Step:         10,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}, &fakeChain{}, fetcher.fetch, []storage.Storage{sink}, nil)

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	want := []uint64{100, 110, 120, 125}
	if got := sink.blocks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("blocks mismatch: %v != %v", got, want)
	}

	second := sink.snapshots[1]
	if second.Stats.TotalBoldSupply != "110" || second.BlockTimestamp != 1700000000+110*12 {
		t.Fatalf("snapshot mismatch: %+v", second)
	}
	if !reflect.DeepEqual(fetcher.refs, []string{"100", "110", "110", "120", "125"}) {
		t.Fatalf("retry should re-read the same block: %v", fetcher.refs)
	}
}

func TestRunnerDefaultsToHead(t *testing.T) {
	sink := &memorySink{}
	fetcher := &fakeFetcher{}

	r := NewRunner(Config{Step: 1}, &fakeChain{head: 777}, fetcher.fetch, []storage.Storage{sink}, nil)
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := sink.blocks(); !reflect.DeepEqual(got, []uint64{777}) {
		t.Fatalf("blocks mismatch: %v", got)
	}
}

func TestRunnerResumesFromCheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	cfg := Config{
		FromBlock:         10,
		ToBlock:           50,
		Step:              10,
		CheckpointPath:    path,
		CheckpointScope:   "0xbold",
		CheckpointEnabled: true,
	}

	if err := NewCheckpointStore(path, "0xbold", true).Save(30); err != nil {
		t.Fatalf("save checkpoint: %v", err)
	}

	sink := &memorySink{}
	fetcher := &fakeFetcher{}
	if err := NewRunner(cfg, &fakeChain{}, fetcher.fetch, []storage.Storage{sink}, nil).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := sink.blocks(); !reflect.DeepEqual(got, []uint64{40, 50}) {
		t.Fatalf("blocks mismatch: %v", got)
	}

	cp, ok, err := NewCheckpointStore(path, "0xbold", true).Load()
	if err != nil || !ok || cp.LastSnapshotBlock != 50 {
		t.Fatalf("checkpoint mismatch: %+v ok=%v err=%v", cp, ok, err)
	}
}

func TestRunnerFailsAfterRetries(t *testing.T) {
	sink := &memorySink{}
	fetcher := &fakeFetcher{failures: map[string]int{"20": 10}}

	r := NewRunner(Config{
		FromBlock:    10,
		ToBlock:      30,
		Step:         10,
		MaxRetries:   1,
		RetryBackoff: time.Millisecond,
	}, &fakeChain{}, fetcher.fetch, []storage.Storage{sink}, nil)

	err := r.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := sink.blocks(); !reflect.DeepEqual(got, []uint64{10}) {
		t.Fatalf("only snapshots before the failure should be stored: %v", got)
	}
}

func TestRunnerSinkError(t *testing.T) {
	sink := &memorySink{err: fmt.Errorf("disk full")}
	fetcher := &fakeFetcher{}

	r := NewRunner(Config{FromBlock: 1, ToBlock: 1, Step: 1}, &fakeChain{}, fetcher.fetch, []storage.Storage{sink}, nil)
	if err := r.Run(context.Background()); err == nil {
		t.Fatalf("expected sink error")
	}
}

func TestRunnerValidatesConfig(t *testing.T) {
	fetcher := &fakeFetcher{}
	sinks := []storage.Storage{&memorySink{}}

	if err := NewRunner(Config{Step: 0}, &fakeChain{head: 1}, fetcher.fetch, sinks, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for zero step")
	}
	if err := NewRunner(Config{Step: 1}, &fakeChain{head: 1}, fetcher.fetch, nil, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for missing sinks")
	}
	if err := NewRunner(Config{FromBlock: 9, ToBlock: 5, Step: 1}, &fakeChain{}, fetcher.fetch, sinks, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

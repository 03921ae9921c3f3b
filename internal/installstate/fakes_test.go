package installstate

import (
	"context"
	"errors"
	"sync"
)

var errProbe = errors.New("probe failed")

type fakeOptions struct {
	mu       sync.Mutex
	values   map[string]string
	gets     map[string]int
	failGet  map[string]bool
	failSet  map[string]bool
	failAdd  bool
	addCalls int
}

func newFakeOptions(values map[string]string) *fakeOptions {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeOptions{
		values:  values,
		gets:    map[string]int{},
		failGet: map[string]bool{},
		failSet: map[string]bool{},
	}
}

func (f *fakeOptions) GetOption(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[key]++
	if f.failGet[key] {
		return "", false, errProbe
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeOptions) SetOption(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSet[key] {
		return errProbe
	}
	f.values[key] = value
	return nil
}

func (f *fakeOptions) AddOption(_ context.Context, key, value string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addCalls++
	if f.failAdd {
		return false, errProbe
	}
	if _, ok := f.values[key]; ok {
		return false, nil
	}
	f.values[key] = value
	return true, nil
}

func (f *fakeOptions) value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

// fakeSchema maps table name to row count; absent names do not exist.
type fakeSchema struct {
	mu          sync.Mutex
	tables      map[string]int64
	failExists  map[string]bool
	failCount   map[string]bool
	existsCalls int
	countCalls  int
}

func newFakeSchema(tables map[string]int64) *fakeSchema {
	if tables == nil {
		tables = map[string]int64{}
	}
	return &fakeSchema{
		tables:     tables,
		failExists: map[string]bool{},
		failCount:  map[string]bool{},
	}
}

func (f *fakeSchema) TableExists(_ context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.existsCalls++
	if f.failExists[name] {
		return false, errProbe
	}
	_, ok := f.tables[name]
	return ok, nil
}

func (f *fakeSchema) RowCount(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.failCount[name] {
		return 0, errProbe
	}
	return f.tables[name], nil
}

func (f *fakeSchema) probes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.existsCalls + f.countCalls
}

type fakeCreator struct {
	mu       sync.Mutex
	calls    int
	prefixes []string
	err      error
}

func (f *fakeCreator) CreateOrUpdateBaseTables(_ context.Context, prefix string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.prefixes = append(f.prefixes, prefix)
	return f.err
}

func (f *fakeCreator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

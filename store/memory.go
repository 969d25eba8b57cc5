package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store with the same semantics as the Mongo
// implementation. It backs the tests and local runs without a database.
// Documents are kept as decoded JSON objects so field lookups match the
// json tags on the model structs.
type Memory struct {
	mu   sync.Mutex
	cols map[string]map[string]map[string]any
}

func NewMemory() *Memory {
	return &Memory{cols: make(map[string]map[string]map[string]any)}
}

func (m *Memory) collection(col string) map[string]map[string]any {
	if m.cols[col] == nil {
		m.cols[col] = make(map[string]map[string]any)
	}
	return m.cols[col]
}

func toDoc(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeInto(src, out any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (m *Memory) Get(ctx context.Context, col, id string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collection(col)[id]
	if !ok {
		return ErrNotFound
	}
	return decodeInto(doc, out)
}

func (m *Memory) Query(ctx context.Context, col, field string, value, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := []map[string]any{}
	for _, doc := range m.collection(col) {
		if fmt.Sprint(doc[field]) == fmt.Sprint(value) {
			matches = append(matches, doc)
		}
	}
	return decodeInto(matches, out)
}

func (m *Memory) All(ctx context.Context, col string, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	docs := []map[string]any{}
	for _, doc := range m.collection(col) {
		docs = append(docs, doc)
	}
	return decodeInto(docs, out)
}

func (m *Memory) Create(ctx context.Context, col, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.collection(col)
	if _, ok := c[id]; ok {
		return ErrExists
	}
	d, err := toDoc(doc)
	if err != nil {
		return err
	}
	c[id] = d
	return nil
}

func (m *Memory) Set(ctx context.Context, col, id string, doc any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d, err := toDoc(doc)
	if err != nil {
		return err
	}
	m.collection(col)[id] = d
	return nil
}

func (m *Memory) Update(ctx context.Context, col, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collection(col)[id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		// round-trip so stored values stay JSON-typed
		var jv any
		if err := decodeInto(v, &jv); err != nil {
			return err
		}
		doc[k] = jv
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, col, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collection(col), id)
	return nil
}

func (m *Memory) AddToSet(ctx context.Context, col, id, field string, value, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collection(col)[id]
	if !ok {
		return ErrNoMatch
	}
	members, _ := doc[field].([]any)
	for _, mem := range members {
		if mem == value {
			return ErrNoMatch
		}
	}
	doc[field] = append(members, value)
	return decodeInto(doc, out)
}

func (m *Memory) Pull(ctx context.Context, col, id, field string, value, out any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.collection(col)[id]
	if !ok {
		return ErrNoMatch
	}
	members, _ := doc[field].([]any)
	kept := make([]any, 0, len(members))
	removed := false
	for _, mem := range members {
		if mem == value {
			removed = true
			continue
		}
		kept = append(kept, mem)
	}
	if !removed {
		return ErrNoMatch
	}
	doc[field] = kept
	return decodeInto(doc, out)
}

package tierstore

import (
	"context"
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	store := NewMemStore[string, *gene]()
	cases := []struct {
		name  string
		cfg   Config[string, *gene]
		field string
	}{
		{"missing next", Config[string, *gene]{Capacity: 1, PurgeBatch: 1}, "Next"},
		{"negative capacity", Config[string, *gene]{Next: store, Capacity: -1}, "Capacity"},
		{"negative batch", Config[string, *gene]{Next: store, Capacity: 2, PurgeBatch: -1}, "PurgeBatch"},
		{"unbounded with batch", Config[string, *gene]{Next: store, PurgeBatch: 1}, "PurgeBatch"},
		{"bounded without batch", Config[string, *gene]{Next: store, Capacity: 4}, "PurgeBatch"},
		{"batch over capacity", Config[string, *gene]{Next: store, Capacity: 4, PurgeBatch: 5}, "PurgeBatch"},
		{"unknown storage", Config[string, *gene]{Next: store, Capacity: 4, PurgeBatch: 1, Storage: Storage(9)}, "Storage"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.cfg)
			if c != nil {
				t.Fatal("got a cache from an invalid config")
			}
			var ce *ConfigError
			if !errors.Is(err, ErrConfig) || !errors.As(err, &ce) || ce.Field != tc.field {
				t.Fatalf("err = %v, want field %s", err, tc.field)
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Config[string, *gene]{Next: NewMemStore[string, *gene]()})
	if err != nil {
		t.Fatal(err)
	}
	if c.Name() != defaultLevelName || c.Capacity() != 0 || c.PurgeBatch() != 0 {
		t.Fatalf("defaults: name=%q cap=%d batch=%d", c.Name(), c.Capacity(), c.PurgeBatch())
	}
	if _, ok := c.log.(NopLogger); !ok {
		t.Fatalf("logger = %T", c.log)
	}
	if _, ok := c.hooks.(NopHooks); !ok {
		t.Fatalf("hooks = %T", c.hooks)
	}

	// an unbounded level keeps no eviction index regardless of Storage
	u, err := New(Config[string, *gene]{Next: NewMemStore[string, *gene](), Storage: StorageOrdered})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := u.entries.(*mapEntries[string, *gene]); !ok {
		t.Fatalf("entries = %T", u.entries)
	}
}

func TestStack(t *testing.T) {
	store := NewMemStore[string, *gene]()
	if _, _, err := Stack[string, *gene](store, nil, nil); !errors.Is(err, ErrConfig) {
		t.Fatalf("empty stack err = %v", err)
	}
	_, _, err := Stack[string, *gene](store, nil, nil,
		Tier[string, *gene]{Capacity: 2, PurgeBatch: 1},
		Tier[string, *gene]{Capacity: 2, PurgeBatch: 3},
	)
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("bad tier err = %v", err)
	}

	top, levels, err := Stack[string, *gene](store, nil, nil,
		Tier[string, *gene]{Name: "L1", Capacity: 1, PurgeBatch: 1},
		Tier[string, *gene]{Name: "L2"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if top != levels[0] || top.Next() != Level[string, *gene](levels[1]) || levels[1].Next() != Level[string, *gene](store) {
		t.Fatal("levels are not chained top to bottom")
	}

	ctx := context.Background()
	mustPut(t, top, newGene("a", "ATG"), newGene("b", "ATG"))
	if store.Len() != 0 {
		t.Fatalf("unbounded L2 wrote through: store Len = %d", store.Len())
	}
	if err := Drain(ctx, levels...); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 2 {
		t.Fatalf("store Len = %d after Drain, want 2", store.Len())
	}
}

func TestStorageString(t *testing.T) {
	if StorageMap.String() != "map" || StorageOrdered.String() != "ordered" || Storage(7).String() != "Storage(7)" {
		t.Fatal("unexpected Storage names")
	}
}

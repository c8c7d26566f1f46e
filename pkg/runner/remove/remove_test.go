package remove

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

type fakeDeleter struct {
	deleted []string
	fail    map[string]error
}

func (f *fakeDeleter) DeleteTask(_ context.Context, id string) error {
	if err := f.fail[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func TestRemoveStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	f := &fakeDeleter{fail: map[string]error{"b": boom}}
	var buf bytes.Buffer
	err := (&Remove{IDs: []string{"a", "b", "c"}, Service: f, Out: &buf}).Do(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "a" {
		t.Fatalf("unexpected deletions %v", f.deleted)
	}
	if buf.String() != "deleted a\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

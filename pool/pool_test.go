package pool

import (
	"bytes"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestInsertIfAbsent(t *testing.T) {
	p := New()

	e, created := p.InsertIfAbsent(42, 3, 0.01)
	if !created {
		t.Fatalf("first insert should create")
	}

	if e.Count != 0 || e.Dist != 3 || e.Bias != 0.01 {
		t.Fatalf("bad new entry: %+v", e)
	}

	e.Count = 100

	// scores must not be recomputed for a known id
	e2, created := p.InsertIfAbsent(42, 999, 999)
	if created {
		t.Fatalf("second insert should not create")
	}

	if e2 != e || e2.Count != 100 || e2.Dist != 3 {
		t.Fatalf("existing entry was replaced: %+v", e2)
	}
}

func TestTotal(t *testing.T) {
	p := New()
	p.SetCount(1, 10, 0, 0)
	p.SetCount(2, 30, 1, 0)
	p.SetCount(3, 0, 2, 0)

	copies, unique := p.Total()
	if copies != 40 || unique != 3 {
		t.Fatalf("got %v copies, %d unique", copies, unique)
	}
}

func TestIDsSorted(t *testing.T) {
	p := New()
	for _, id := range []uint64{500, 3, 77, 1024} {
		p.SetCount(id, 1, 0, 0)
	}

	ids := p.IDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("ids not sorted: %v", ids)
		}
	}
}

func TestClampNonNegative(t *testing.T) {
	p := New()
	p.SetCount(1, -5, 0, 0)
	p.SetCount(2, 7, 0, 0)

	if n := p.ClampNonNegative(); n != 1 {
		t.Fatalf("clamped %d entries, expected 1", n)
	}

	if p.Lookup(1).Count != 0 || p.Lookup(2).Count != 7 {
		t.Fatalf("bad counts after clamp")
	}
}

func TestSnapshotRoundtrip(t *testing.T) {
	p := New()
	p.SetCount(0, 100, 0, 0.05)
	p.SetCount(123456789, 42, 3.5, -0.0125)
	p.SetCount(7, 0.25, 1, 0)

	fname := filepath.Join(t.TempDir(), "pool.csv.gz")
	if err := p.Save(fname); err != nil {
		t.Fatal(err)
	}

	q, err := Load(fname)
	if err != nil {
		t.Fatal(err)
	}

	if q.Len() != p.Len() {
		t.Fatalf("got %d entries, expected %d", q.Len(), p.Len())
	}

	for _, id := range p.IDs() {
		pe, qe := p.Lookup(id), q.Lookup(id)
		if qe == nil || *pe != *qe {
			t.Fatalf("id %d: got %+v expected %+v", id, qe, pe)
		}
	}
}

func TestSnapshotCorruption(t *testing.T) {
	p := New()
	p.SetCount(1, 10, 0, 0)
	p.SetCount(2, 20, 1, 0)

	fname := filepath.Join(t.TempDir(), "pool.csv.gz")
	if err := p.Save(fname); err != nil {
		t.Fatal(err)
	}

	// rewrite the snapshot with one payload digit altered but the
	// original trailer kept
	bad := filepath.Join(t.TempDir(), "bad.csv.gz")
	if err := corruptSnapshot(fname, bad); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(bad); err == nil {
		t.Fatalf("corrupted snapshot should fail to load")
	}
}

func corruptSnapshot(src, dst string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(zr)
	if err != nil {
		return err
	}

	// flip the first count digit ("1,10," -> "1,90,")
	i := bytes.IndexByte(data, ',') + 1
	if data[i] == '9' {
		data[i] = '1'
	} else {
		data[i] = '9'
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := gzip.NewWriter(out)
	if _, err = zw.Write(data); err != nil {
		return err
	}

	return zw.Close()
}

// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package cache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()

	d := NewDiskCache()
	d.Dir = filepath.Join(dir, ".rdap")

	if err := d.InitDir(); err != nil {
		t.Fatalf("InitDir failed: %s", err)
	}

	if d.State("not-in-cache.json") != Absent {
		t.Fatal("State() should be Absent for a file never saved")
	}

	data, ok, err := d.Load("not-in-cache.json")
	if len(data) != 0 || ok || err != nil {
		t.Fatal("Load() of a missing file returned unexpected result")
	}

	testData := []byte("test")

	if err := d.Save("file.json", testData); err != nil {
		t.Fatalf("Save failed: %s", err)
	}

	data, ok, err = d.Load("file.json")
	if !ok || err != nil || !bytes.Equal(data, testData) {
		t.Fatalf("Load() of file.json unexpected result: %v %v %v", data, ok, err)
	}

	if d.State("file.json") != Good {
		t.Fatal("State() should be Good for a freshly saved file")
	}

	d.SetTimeout(0)
	time.Sleep(time.Millisecond)

	if d.State("file.json") != Expired {
		t.Fatal("State() should be Expired once the timeout has passed")
	}

	if _, err := os.Stat(d.Dir); err != nil {
		t.Fatalf("cache dir missing: %s", err)
	}
}

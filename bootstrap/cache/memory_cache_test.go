// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	m := NewMemoryCache()

	if m.State("not-in-cache.json") != Absent {
		t.Fatal("State() should be Absent for a file never saved")
	}

	data, ok, err := m.Load("not-in-cache.json")
	if len(data) != 0 || ok || err != nil {
		t.Fatal("Load() of a missing file returned unexpected result")
	}

	testData := []byte("test")

	if err := m.Save("file.json", testData); err != nil {
		t.Fatalf("Save failed: %s", err)
	}

	data, ok, err = m.Load("file.json")
	if !ok || err != nil || !bytes.Equal(data, testData) {
		t.Fatalf("Load() of file.json unexpected result: %v %v %v", data, ok, err)
	}

	testData[0] = 'x'
	if data[0] != 't' {
		t.Fatalf("Cache doesn't hold an independent copy, got %s", data)
	}

	if m.State("file.json") != Good {
		t.Fatal("State() should be Good for a freshly saved file")
	}

	m.SetTimeout(0)
	time.Sleep(time.Millisecond)

	if m.State("file.json") != Expired {
		t.Fatal("State() should be Expired once the timeout has passed")
	}
}

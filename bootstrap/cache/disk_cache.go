// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
)

// DefaultCacheDirName is the directory created under the user's home
// directory when no explicit Dir is set.
const DefaultCacheDirName = ".rdap"

// DiskCache persists bootstrap Service Registry files under a directory,
// using file modification time as the freshness signal. Several processes
// can share one cache directory safely.
type DiskCache struct {
	Timeout time.Duration
	Dir     string
}

// NewDiskCache creates a DiskCache rooted at $HOME/.rdap.
func NewDiskCache() *DiskCache {
	d := &DiskCache{
		Timeout: 24 * time.Hour,
	}

	dir, err := homedir.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	d.Dir = filepath.Join(dir, DefaultCacheDirName)

	return d
}

// InitDir creates the cache directory if it doesn't already exist.
func (d *DiskCache) InitDir() error {
	info, err := os.Stat(d.Dir)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return errors.New("cache dir exists and is not a directory")
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(d.Dir, 0775)
	}

	return err
}

func (d *DiskCache) SetTimeout(timeout time.Duration) {
	d.Timeout = timeout
}

func (d *DiskCache) Save(filename string, data []byte) error {
	if err := d.InitDir(); err != nil {
		return err
	}

	if err := os.WriteFile(d.cacheDirPath(filename), data, 0664); err != nil {
		return fmt.Errorf("rdap: saving %s: %w", filename, err)
	}

	return nil
}

func (d *DiskCache) Load(filename string) ([]byte, bool, error) {
	if err := d.InitDir(); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(d.cacheDirPath(filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("rdap: loading %s: %w", filename, err)
	}

	return data, true, nil
}

func (d *DiskCache) State(filename string) FileState {
	if err := d.InitDir(); err != nil {
		return Absent
	}

	modTime, err := d.modTime(filename)
	if err != nil {
		return Absent
	}

	if modTime.Add(d.Timeout).Before(time.Now()) {
		return Expired
	}

	return Good
}

func (d *DiskCache) modTime(filename string) (time.Time, error) {
	info, err := os.Stat(d.cacheDirPath(filename))
	if err != nil {
		return time.Time{}, err
	}

	return info.ModTime(), nil
}

func (d *DiskCache) cacheDirPath(filename string) string {
	return filepath.Join(d.Dir, filename)
}

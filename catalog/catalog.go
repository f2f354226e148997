package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jasonlvhit/gocron"
	log "github.com/sirupsen/logrus"
)

// ErrNotFound is returned for a file that is not in the catalog
var ErrNotFound = errors.New("catalog: file not found")

// Extensions listed when none are given
var Extensions = []string{".csv", ".pol", ".json", ".grb", ".grb2", ".log", ".txt", ".par"}

type Entry struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"modTime"`
}

type Order int

const (
	ByName Order = iota
	// ByTime lists the most recent files first
	ByTime
)

// Catalog lists the files of a directory with the allowed extensions
type Catalog struct {
	dir        string
	extensions []string
	entries    map[string]Entry
	lock       sync.RWMutex
}

func New(dir string, extensions ...string) *Catalog {
	if len(extensions) == 0 {
		extensions = Extensions
	}
	return &Catalog{
		dir:        dir,
		extensions: extensions,
		entries:    make(map[string]Entry),
	}
}

func (c *Catalog) Dir() string {
	return c.dir
}

func (c *Catalog) accept(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range c.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Refresh rescans the directory: removed files are dropped and new ones added
func (c *Catalog) Refresh() error {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		return err
	}

	entries := make(map[string]Entry)
	for _, f := range files {
		if !f.Type().IsRegular() || !c.accept(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			log.WithError(err).Errorf("Error reading file '%s'", f.Name())
			continue
		}
		entries[f.Name()] = Entry{Name: f.Name(), Size: info.Size(), ModTime: info.ModTime()}
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	for name := range c.entries {
		if _, found := entries[name]; !found {
			log.Debugf("Remove from %s: %s", c.dir, name)
		}
	}
	for name := range entries {
		if _, found := c.entries[name]; !found {
			log.Debugf("Add to %s: %s", c.dir, name)
		}
	}
	c.entries = entries

	return nil
}

func (c *Catalog) refresh() {
	if err := c.Refresh(); err != nil {
		log.WithError(err).Errorf("Error scanning '%s'", c.dir)
	}
}

// List returns the files of the catalog
func (c *Catalog) List(order Order) []Entry {
	c.lock.RLock()
	list := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		list = append(list, e)
	}
	c.lock.RUnlock()

	switch order {
	case ByTime:
		sort.Slice(list, func(i, j int) bool {
			if list[i].ModTime.Equal(list[j].ModTime) {
				return list[i].Name < list[j].Name
			}
			return list[i].ModTime.After(list[j].ModTime)
		})
	default:
		sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	}
	return list
}

// Path returns the path of a file of the catalog. Only listed names are resolved.
func (c *Catalog) Path(name string) (string, Entry, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	e, found := c.entries[name]
	if !found {
		return "", Entry{}, ErrNotFound
	}
	return filepath.Join(c.dir, e.Name), e, nil
}

// Watch scans the directory then every interval seconds until ctx is done
func (c *Catalog) Watch(ctx context.Context, every uint64) error {
	if err := c.Refresh(); err != nil {
		return err
	}

	s := gocron.NewScheduler()
	job := s.Every(every).Seconds()
	if err := job.Do(c.refresh); err != nil {
		log.WithError(err).Errorf("Error scheduling the refresh of %s", c.dir)
		return err
	}

	stopped := s.Start()
	log.Infof("Watching %s every %ds", c.dir, every)

	<-ctx.Done()
	stopped <- true

	return nil
}

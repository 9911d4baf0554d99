package generator

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lectern/internal/domain/lecture"
	"lectern/internal/domain/library"
)

var ErrNotFound = errors.New("lecture not found in library")

// LectureCache keeps generated lectures on disk, one JSON file per request,
// and only calls the wrapped generator when no fresh copy exists.
type LectureCache struct {
	cacheDir  string
	maxAge    time.Duration
	generator LectureGenerator
}

// NewLectureCache creates a new lecture cache instance
func NewLectureCache(cacheDir string, maxAge time.Duration, generator LectureGenerator) *LectureCache {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		logrus.WithError(err).Warn("Failed to create lecture cache directory")
	}

	return &LectureCache{
		cacheDir:  cacheDir,
		maxAge:    maxAge,
		generator: generator,
	}
}

// Generate makes LectureCache usable wherever a LectureGenerator is expected.
func (lc *LectureCache) Generate(ctx context.Context, req lecture.Request) (*lecture.Script, error) {
	entry, err := lc.GetLecture(ctx, req, false)
	if err != nil {
		return nil, err
	}
	return &entry.Script, nil
}

// GetLecture returns the lecture for req, from cache when fresh or generated
// otherwise. With fresh set the cache is bypassed. When generation fails a
// stale cached copy is returned instead.
func (lc *LectureCache) GetLecture(ctx context.Context, req lecture.Request, fresh bool) (*library.Entry, error) {
	file := lc.cacheFile(req)

	if !fresh && lc.isCacheFresh(file) {
		logrus.WithField("topic", req.Topic).Info("Loading lecture from cache")
		return lc.loadFromCache(file)
	}

	script, err := lc.generator.Generate(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		logrus.WithError(err).Warn("Lecture generation failed, trying stale cache")
		if cached, cacheErr := lc.loadFromCache(file); cacheErr == nil {
			return cached, nil
		}
		return nil, err
	}

	entry := &library.Entry{
		ID:          uuid.NewString(),
		Request:     req,
		Script:      *script,
		GeneratedAt: time.Now(),
	}
	if err := lc.saveToCache(file, entry); err != nil {
		logrus.WithError(err).Warn("Failed to save lecture to cache")
	}

	return entry, nil
}

// Find loads a cached lecture by its entry id.
func (lc *LectureCache) Find(id string) (*library.Entry, error) {
	files, err := lc.files()
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		entry, err := lc.loadFromCache(f)
		if err != nil {
			continue
		}
		if entry.ID == id {
			return entry, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// List summarizes every cached lecture, newest first.
func (lc *LectureCache) List() ([]library.Summary, error) {
	files, err := lc.files()
	if err != nil {
		return nil, err
	}

	summaries := make([]library.Summary, 0, len(files))
	for _, f := range files {
		entry, err := lc.loadFromCache(f)
		if err != nil {
			logrus.WithError(err).WithField("file", f).Warn("Skipping unreadable cache entry")
			continue
		}
		summaries = append(summaries, entry.Summarize(lc.maxAge))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].GeneratedAt.After(summaries[j].GeneratedAt)
	})
	return summaries, nil
}

// ClearCache removes every cached lecture
func (lc *LectureCache) ClearCache() error {
	files, err := lc.files()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	logrus.WithField("removed", len(files)).Info("Cleared lecture cache")
	return nil
}

// GetCacheInfo returns information about the cache
func (lc *LectureCache) GetCacheInfo() (map[string]interface{}, error) {
	info := make(map[string]interface{})

	files, err := lc.files()
	if err != nil {
		return nil, err
	}

	var size int64
	fresh := 0
	for _, f := range files {
		stat, err := os.Stat(f)
		if err != nil {
			continue
		}
		size += stat.Size()
		if time.Since(stat.ModTime()) < lc.maxAge {
			fresh++
		}
	}

	info["directory"] = lc.cacheDir
	info["lectures"] = len(files)
	info["fresh"] = fresh
	info["size"] = size
	info["max_age_hours"] = lc.maxAge.Hours()
	return info, nil
}

// CacheKey identifies a request independent of topic case and spacing.
func CacheKey(req lecture.Request) string {
	topic := strings.Join(strings.Fields(strings.ToLower(req.Topic)), " ")
	sum := md5.Sum([]byte(topic + "|" + strconv.Itoa(req.TargetDurationMinutes)))
	return hex.EncodeToString(sum[:])
}

func (lc *LectureCache) cacheFile(req lecture.Request) string {
	return filepath.Join(lc.cacheDir, CacheKey(req)+".json")
}

func (lc *LectureCache) files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(lc.cacheDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	return files, nil
}

// isCacheFresh checks if the cache file exists and is within the max age
func (lc *LectureCache) isCacheFresh(file string) bool {
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < lc.maxAge
}

func (lc *LectureCache) loadFromCache(file string) (*library.Entry, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache file: %w", err)
	}
	defer f.Close()

	var entry library.Entry
	if err := json.NewDecoder(f).Decode(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode cache file: %w", err)
	}
	return &entry, nil
}

func (lc *LectureCache) saveToCache(file string, entry *library.Entry) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache data: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"id":   entry.ID,
		"file": file,
	}).Debug("Saved lecture to cache")
	return nil
}

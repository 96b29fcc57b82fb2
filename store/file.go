package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const fileVersionV1 = 1

type filePayload struct {
	Version int    `json:"version"`
	Access  string `json:"access_token"`
	Refresh string `json:"refresh_token"`
}

// File defines a public type used by goSession APIs.
//
// File instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile describes the newfile operation and its observable behavior.
//
// NewFile may return an error when input validation, dependency calls, or security checks fail.
// NewFile does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("file store requires a path")
	}
	return &File{path: path}, nil
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Get(ctx context.Context) (Pair, bool, error) {
	if err := ctx.Err(); err != nil {
		return Pair{}, false, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return Pair{}, false, nil
	}
	if err != nil {
		return Pair{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var payload filePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		// A corrupt blob reads as absent; the next Set rewrites it wholesale.
		return Pair{}, false, nil
	}
	if payload.Version != fileVersionV1 {
		return Pair{}, false, nil
	}

	pair := Pair{Access: payload.Access, Refresh: payload.Refresh}
	if !pair.Complete() {
		return Pair{}, false, nil
	}
	return pair, true, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Set(ctx context.Context, pair Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !pair.Complete() {
		return errors.New("refusing to store a partial token pair")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(filePayload{
		Version: fileVersionV1,
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return f.writeAtomic(data)
}

// Clear describes the clear operation and its observable behavior.
//
// Clear may return an error when input validation, dependency calls, or security checks fail.
// Clear does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (f *File) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// writeAtomic replaces the blob via tmp+rename so readers never observe a
// half-written pair.
func (f *File) writeAtomic(data []byte) error {
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".tokens-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

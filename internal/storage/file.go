package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"gopkg.in/yaml.v2"
)

const nonceSize = 24

// ErrSealed is returned when a sealed value cannot be opened with the
// configured key.
var ErrSealed = errors.New("storage: sealed value could not be opened")

// File persists values as a YAML document on local disk. With a non-empty
// secret every value is sealed with NaCl secretbox before it is written.
type File struct {
	path string
	key  *[32]byte

	mu sync.Mutex
}

func NewFile(path, secret string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage: file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	f := &File{path: path}
	if secret != "" {
		k := sha256.Sum256([]byte(secret))
		f.key = &k
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return "", err
	}
	v, ok := doc[key]
	if !ok {
		return "", ErrNotFound
	}
	return f.open(v)
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	sealed, err := f.seal(value)
	if err != nil {
		return err
	}
	doc[key] = sealed
	return f.write(doc)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.read()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := doc[k]; ok {
			delete(doc, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.write(doc)
}

func (f *File) Close() error { return nil }

func (f *File) read() (map[string]string, error) {
	doc := make(map[string]string)

	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", f.path, err)
	}
	return doc, nil
}

// write replaces the document atomically.
func (f *File) write(doc map[string]string) error {
	b, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode storage document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}

func (f *File) seal(value string) (string, error) {
	if f.key == nil {
		return value, nil
	}
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(value), &nonce, f.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

func (f *File) open(value string) (string, error) {
	if f.key == nil {
		return value, nil
	}
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrSealed
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, f.key)
	if !ok {
		return "", ErrSealed
	}
	return string(plain), nil
}

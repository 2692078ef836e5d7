package store

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Entry is one persisted key with its raw JSON value.
type Entry struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// ReadEntries returns every key held by gw, in key order.
func ReadEntries(ctx context.Context, gw Gateway) ([]Entry, error) {
	keys, err := gw.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(keys))
	for _, k := range keys {
		b, ok, err := gw.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		v := json.RawMessage(strings.TrimSpace(string(b)))
		if len(v) == 0 {
			v = json.RawMessage("null")
		}
		out = append(out, Entry{Key: k, Value: v})
	}
	return out, nil
}

// Fingerprint hashes every persisted key and value. It changes only when the
// stored data does, not when a backend merely touches its files.
func Fingerprint(ctx context.Context, gw Gateway) (string, error) {
	entries, err := ReadEntries(ctx, gw)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.Key))
		h.Write([]byte{0})
		h.Write(e.Value)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReplaceEntries makes gw hold exactly entries. Keys missing from entries are deleted.
//
// This is intended for backup/restore workflows, not day-to-day mutations.
func ReplaceEntries(ctx context.Context, gw Gateway, entries []Entry) error {
	keep := make(map[string]bool, len(entries))
	for _, e := range entries {
		k := strings.TrimSpace(e.Key)
		if k == "" {
			return errors.New("restore: entry with empty key")
		}
		if !json.Valid(e.Value) {
			return fmt.Errorf("restore: invalid json for key %q", k)
		}
		keep[k] = true
	}

	existing, err := gw.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range existing {
		if keep[k] {
			continue
		}
		if err := gw.Delete(ctx, k); err != nil {
			return err
		}
	}
	for _, e := range entries {
		if err := gw.Put(ctx, strings.TrimSpace(e.Key), e.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteEntriesJSONL writes a JSONL stream of entries (one key per line).
func WriteEntriesJSONL(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	enc := json.NewEncoder(bw)
	for _, e := range entries {
		if err := enc.Encode(e); err != nil {
			return err
		}
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadEntriesJSONL reads entries from a JSONL file.
func ReadEntriesJSONL(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return nil, fmt.Errorf("parse backup jsonl: %w", err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

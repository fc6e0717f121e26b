// Package diskcache stores raw response bodies on disk, one file per request
// fingerprint. Entries are never expired, cleaning up the directory is left to the operator.
//
// There is no locking, the store assumes a single sequential caller.
package diskcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/PuerkitoBio/purell"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("eposfetch/lib/diskcache")

// only rewrites that cannot change which resource a url names
const normalizeFlags = purell.FlagsSafe

// Key fingerprints a request. The destination is normalized first and the payload
// is encoded with sorted keys, so the same request always lands on the same key.
func Key(destination string, payload map[string]string) (string, error) {
	normalized, err := purell.NormalizeURLString(destination, normalizeFlags)
	if err != nil {
		return "", err
	}

	values := url.Values{}
	for k, v := range payload {
		values.Set(k, v)
	}

	hash := sha256.New()
	hash.Write([]byte(normalized))
	hash.Write([]byte{0})
	hash.Write([]byte(values.Encode()))
	return hex.EncodeToString(hash.Sum(nil)), nil
}

type Store struct {
	root string
}

func NewStore(root string) Store {
	return Store{root: root}
}

func (s Store) Root() string {
	return s.root
}

// Path is the file a key is stored in.
func (s Store) Path(key string) string {
	return filepath.Join(s.root, key)
}

func (s Store) Exists(key string) bool {
	info, err := os.Stat(s.Path(key))
	return err == nil && info.Mode().IsRegular()
}

// Get returns found = false without an error when nothing is stored under key.
func (s Store) Get(ctx context.Context, key string) (content string, found bool, err error) {
	_, span := tracer.Start(ctx, "cache:get")
	defer span.End()
	span.SetAttributes(attribute.String("custom.cache_key", key))

	contents, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache slot")
		return "", false, err
	}

	span.AddEvent(
		"cache hit",
		trace.WithAttributes(attribute.Int("custom.contentlength", len(contents))),
	)
	return string(contents), true, nil
}

func (s Store) Put(ctx context.Context, key, content string) error {
	_, span := tracer.Start(ctx, "cache:put")
	defer span.End()
	span.SetAttributes(attribute.String("custom.cache_key", key))

	err := os.MkdirAll(s.root, 0777)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache root")
		return err
	}
	err = os.WriteFile(s.Path(key), []byte(content), 0600)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write cache slot")
		return err
	}
	return nil
}

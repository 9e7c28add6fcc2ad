package traceat

import (
	"encoding/json"
	"os"
	"regexp"
	"sync"
	"sync/atomic"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Metadata is the base type for typed keys.  The typed wrappers are
// matched to value types to provide compile-time checking on metadata
// map operations.  Identity is the Number: every key created gets a
// fresh process-unique number, so keys made independently never
// compare equal, even with the same name and value type.
type Metadata struct {
	namespace  string
	version    string
	properties Make
	number     int64
	jsonKey    string
	semver     *semver.Version
}

// DefaultNamespace sets the namespace for key names.  If not
// specified, the name of the running program (os.Args[0]) is used.
// A better value is the name of the code repository.
// DefaultNamespace can be overridden in an init() function.
var DefaultNamespace = os.Args[0]

// Make is used to construct keys.
//
// The Namespace can embed a semver version: eg: "trace-go-1.3.7".
// If no version is provided, 0.0.0 is assumed.
type Make struct {
	Key         string // the key name (diagnostics only, duplicates allowed)
	Description string // the key description
	Namespace   string // versioned namespace (DefaultNamespace if empty)
}

var (
	keyCount int64
	lock     sync.Mutex
	allKeys  []*Metadata
)

// Key is a typed key.  A Key[V] binds and retrieves only values of
// type V; the generic functions Add, Find, and MustFind enforce this
// at compile time.
type Key[V any] struct {
	Metadata
}

// NewKey registers a new key.  It panics if the namespace version
// does not parse; use TryNewKey to get the error instead.
func NewKey[V any](s Make) *Key[V] {
	k, err := TryNewKey[V](s)
	if err != nil {
		panic(err)
	}
	return k
}

func TryNewKey[V any](s Make) (*Key[V], error) {
	m, err := s.make()
	if err != nil {
		return nil, err
	}
	k := &Key[V]{Metadata: m}
	lock.Lock()
	defer lock.Unlock()
	allKeys = append(allKeys, &k.Metadata)
	return k, nil
}

var namespaceVersionRE = regexp.MustCompile(`^(.+)-([0-9].+)$`)

func (s Make) make() (Metadata, error) {
	namespace := s.Namespace
	if namespace == "" {
		namespace = DefaultNamespace
	}

	jsonKey, err := json.Marshal(s.Key)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "cannot marshal key name '%s'", s.Key)
	}

	var version string
	if m := namespaceVersionRE.FindStringSubmatch(namespace); m != nil {
		namespace = m[1]
		version = m[2]
	} else {
		version = "0.0.0"
	}

	sver, err := semver.StrictNewVersion(version)
	if err != nil {
		return Metadata{}, errors.Wrapf(err, "semver '%s' is not valid", version)
	}

	return Metadata{
		namespace:  namespace,
		version:    version,
		properties: s,
		number:     atomic.AddInt64(&keyCount, 1),
		jsonKey:    string(jsonKey) + ":",
		semver:     sver,
	}, nil
}

// JSONKey returns a JSON-quoted string that can be used as the key to
// the name of the key.  It is a string because []byte is mutable.
// JSONKey includes a colon at the end since its use is as a key.
func (m Metadata) JSONKey() string { return m.jsonKey }

func (m Metadata) Key() string             { return m.properties.Key }
func (m Metadata) Description() string     { return m.properties.Description }
func (m Metadata) Namespace() string       { return m.namespace }
func (m Metadata) Number() int64           { return m.number }
func (m Metadata) Semver() *semver.Version { return m.semver }
func (m Metadata) SemverString() string    { return m.version }
func (m *Metadata) Ptr() *Metadata         { return m }

// RegisteredKeys returns all keys created so far, in creation order.
func RegisteredKeys() []*Metadata {
	lock.Lock()
	defer lock.Unlock()
	n := make([]*Metadata, len(allKeys))
	copy(n, allKeys)
	return n
}

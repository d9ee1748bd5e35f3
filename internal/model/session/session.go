// Package session implements user lookup, suggestion matching, creation and
// record appends against the users document store.
package session

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"siplog/internal/entity/user"
	"siplog/internal/model/customerr"
)

type usersStorage interface {
	LoadUsers() (user.Document, error)
	SaveUsers(doc user.Document) error
}

type config interface {
	OverwriteOnCreate() bool
}

type Service struct {
	storage           usersStorage
	overwriteOnCreate bool
}

func New(cfg config, storage usersStorage) *Service {
	return &Service{
		storage:           storage,
		overwriteOnCreate: cfg.OverwriteOnCreate(),
	}
}

// Lookup finds a user by exact, case-sensitive ID. A missing user is a state,
// not an error: found is false and err is nil.
func (s *Service) Lookup(id string) (records []user.Record, found bool, err error) {
	doc, err := s.storage.LoadUsers()
	if err != nil {
		return nil, false, errors.Wrap(err, "lookup")
	}
	records, found = doc.Get(id)
	return records, found, nil
}

// Suggest returns the IDs whose lowercase form contains the lowercase partial
// as a substring, in document insertion order with original case preserved.
// An empty partial suppresses suggestions rather than listing everyone.
func (s *Service) Suggest(partial string) ([]string, error) {
	if partial == "" {
		return []string{}, nil
	}
	doc, err := s.storage.LoadUsers()
	if err != nil {
		return nil, errors.Wrap(err, "suggest")
	}

	needle := strings.ToLower(partial)
	res := make([]string, 0)
	for _, id := range doc.IDs() {
		if strings.Contains(strings.ToLower(id), needle) {
			res = append(res, id)
		}
	}
	return res, nil
}

// Create registers id with an empty record list. When id already exists the
// behavior is config-gated: by default the existing history is kept and the
// call selects it, with overwrite-on-create the list is reset to empty.
func (s *Service) Create(id string) ([]user.Record, error) {
	if id == "" {
		return nil, &customerr.InvalidInputError{Field: "user id", Value: id}
	}
	doc, err := s.storage.LoadUsers()
	if err != nil {
		return nil, errors.Wrap(err, "create user")
	}

	if existing, ok := doc.Get(id); ok && !s.overwriteOnCreate {
		return existing, nil
	}

	doc.Set(id, nil)
	if err = s.storage.SaveUsers(doc); err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return []user.Record{}, nil
}

// Append adds a record with the given amount and "now" as the timestamp, and
// persists the whole document back.
func (s *Service) Append(id string, amount float64, now time.Time) (user.Record, error) {
	if amount < 0 || math.IsNaN(amount) {
		return user.Record{}, &customerr.InvalidInputError{
			Field: "amount",
			Value: strconv.FormatFloat(amount, 'f', -1, 64),
		}
	}

	doc, err := s.storage.LoadUsers()
	if err != nil {
		return user.Record{}, errors.Wrap(err, "append record")
	}
	records, ok := doc.Get(id)
	if !ok {
		return user.Record{}, errors.Errorf("append record: unknown user %q", id)
	}

	rec := user.NewRecord(amount, now)
	doc.Set(id, append(records, rec))
	if err = s.storage.SaveUsers(doc); err != nil {
		return user.Record{}, errors.Wrap(err, "append record")
	}
	return rec, nil
}
